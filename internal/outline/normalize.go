package outline

import (
	"math"
	"regexp"
	"strings"
)

// spacingFixes repair inter-word spaces lost during extraction. Order matters.
var spacingFixes = []struct {
	re   *regexp.Regexp
	repl string
}{
	// camelCase
	{regexp.MustCompile(`([a-z])([A-Z])`), "${1} ${2}"},
	// ALLCAPS followed by TitleCase
	{regexp.MustCompile(`([A-Z])([A-Z][a-z])`), "${1} ${2}"},
	// letter then digit
	{regexp.MustCompile(`([a-zA-Z])(\d)`), "${1} ${2}"},
	// digit then letter
	{regexp.MustCompile(`(\d)([a-zA-Z])`), "${1} ${2}"},
	// after bullet
	{regexp.MustCompile(`•([A-Za-z])`), "• ${1}"},
	// before bullet
	{regexp.MustCompile(`([a-z])•`), "${1} •"},
	// after colon
	{regexp.MustCompile(`([a-zA-Z]):([a-zA-Z])`), "${1}: ${2}"},
	// after comma
	{regexp.MustCompile(`([a-zA-Z]),([a-zA-Z])`), "${1}, ${2}"},
}

// CleanText fixes common spacing defects of extracted text and collapses whitespace.
func CleanText(text string) string {
	if text == "" {
		return text
	}
	for _, fix := range spacingFixes {
		text = fix.re.ReplaceAllString(text, fix.repl)
	}
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeLine joins glyph text, cleans it and applies the colon rule: when the
// first colon glyph and the first non-space glyph after it differ in font name,
// or in size by more than sizeTolerance, only the label before the colon is kept.
// A line that starts with its colon has no label and is kept whole. The returned
// glyphs are the ones that describe the kept text.
func NormalizeLine(glyphs []Glyph, sizeTolerance float64) (string, []Glyph) {
	var sb strings.Builder
	for _, g := range glyphs {
		sb.WriteString(g.Text)
	}
	text := CleanText(sb.String())
	if text == "" {
		return "", nil
	}

	idx := strings.IndexByte(text, ':')
	if idx < 0 {
		return text, glyphs
	}

	colon := -1
	for i, g := range glyphs {
		if strings.Contains(g.Text, ":") {
			colon = i
			break
		}
	}
	if colon < 0 || strings.TrimSpace(text[:idx]) == "" {
		return text, glyphs
	}

	after := colon + 1
	for after < len(glyphs) && strings.TrimSpace(glyphs[after].Text) == "" {
		after++
	}
	if after >= len(glyphs) {
		return text, glyphs
	}

	mark := glyphs[colon]
	next := glyphs[after]
	if mark.FontName != next.FontName || math.Abs(mark.FontSize-next.FontSize) > sizeTolerance {
		return strings.TrimSpace(text[:idx]), glyphs[:colon+1]
	}
	return text, glyphs
}

// boldMarkers are matched case-sensitively against glyph font names when sizing lines.
var boldMarkers = []string{"Bold", "bold", "Heavy", "Black"}

func isBoldGlyphFont(name string) bool {
	for _, m := range boldMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// LineMetrics returns the average glyph size, where bold glyphs count one point
// larger, and the most frequent font name (first seen wins ties). Synthetic glyphs
// are ignored. The size is zero when no glyph qualifies.
func LineMetrics(glyphs []Glyph) (size float64, font string) {
	var (
		total  float64
		n      int
		counts = make(map[string]int)
		order  []string
	)
	for _, g := range glyphs {
		if g.Synthetic {
			continue
		}
		s := g.FontSize
		if isBoldGlyphFont(g.FontName) {
			s++
		}
		total += s
		n++
		if _, seen := counts[g.FontName]; !seen {
			order = append(order, g.FontName)
		}
		counts[g.FontName]++
	}
	if n == 0 {
		return 0, ""
	}
	best := 0
	for _, name := range order {
		if counts[name] > best {
			best = counts[name]
			font = name
		}
	}
	return total / float64(n), font
}

// LineGeometry places a line on its page.
type LineGeometry struct {
	Page       int
	X0, X1, Y0 float64
	PageWidth  float64
	PageHeight float64
}

// BuildLine normalizes glyphs into a RawLine. It returns false when the
// normalized text is empty and the line must be dropped.
func BuildLine(glyphs []Glyph, geo LineGeometry, sizeTolerance float64) (RawLine, bool) {
	text, kept := NormalizeLine(glyphs, sizeTolerance)
	if text == "" {
		return RawLine{}, false
	}
	size, font := LineMetrics(kept)
	return RawLine{
		Text:       text,
		FontSize:   size,
		FontName:   font,
		Page:       geo.Page,
		X0:         geo.X0,
		X1:         geo.X1,
		Y0:         geo.Y0,
		PageWidth:  geo.PageWidth,
		PageHeight: geo.PageHeight,
	}, true
}
