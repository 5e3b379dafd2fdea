// Package outline recovers a document's heading hierarchy (title plus H1..Hn entries
// bound to page numbers) from positioned text lines.
//
// The pipeline runs strictly in order: lines are normalized, tagged with a level by
// font-size rank, classified as heading or body, deduplicated, merged into multi-line
// headings, and finally filtered by a level breakpoint that bounds the outline depth.
package outline

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a heading rank derived from font-size clustering.
// LevelBody marks lines that belong to no heading tier.
type Level int

// LevelBody is the sentinel for body text.
const LevelBody Level = 0

// String returns "H1".."Hn", or "H_body" for body text.
func (l Level) String() string {
	if l <= LevelBody {
		return "H_body"
	}
	return "H" + strconv.Itoa(int(l))
}

// IsHeading reports whether the level is a heading tier.
func (l Level) IsHeading() bool {
	return l > LevelBody
}

// MarshalText encodes the level as its string form so JSON and YAML carry "H1".
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses "H1".."Hn" or "H_body".
func (l *Level) UnmarshalText(b []byte) error {
	lv, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = lv
	return nil
}

// ParseLevel parses the string form of a level.
func ParseLevel(s string) (Level, error) {
	if s == "H_body" {
		return LevelBody, nil
	}
	if !strings.HasPrefix(s, "H") {
		return LevelBody, fmt.Errorf("invalid level %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return LevelBody, fmt.Errorf("invalid level %q", s)
	}
	return Level(n), nil
}

// Glyph is one extracted character run with its font attributes.
type Glyph struct {
	Text     string
	FontName string
	FontSize float64

	// Synthetic glyphs are spaces inserted by line assembly; they contribute
	// text but not font metrics.
	Synthetic bool
}

// RawLine is one visually contiguous horizontal text run on a page.
// FontSize is zero when no glyph carried a size.
type RawLine struct {
	Text       string
	FontSize   float64
	FontName   string
	Page       int // 1-indexed
	X0, X1     float64
	Y0         float64 // baseline, larger is higher on the page
	PageWidth  float64
	PageHeight float64
}

// TaggedLine is a RawLine with its font-size level.
type TaggedLine struct {
	RawLine
	Level Level
}

// Heading is a tagged line that passed the classifier, or several such lines
// merged by the vertical grouper.
type Heading struct {
	Level      Level
	Text       string
	Page       int
	Y0         float64
	X0         float64
	FontName   string
	FontSize   float64
	PageWidth  float64
	PageHeight float64

	// Members is the number of source lines merged into this heading.
	Members int
}

// Entry is one persisted outline item.
type Entry struct {
	Level Level  `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	Page  int    `json:"page" yaml:"page"`
}

// Document is the final per-document result.
type Document struct {
	Title   string  `json:"title" yaml:"title"`
	Outline []Entry `json:"outline" yaml:"outline"`
}

// Source is everything the pipeline needs from the text extractor.
type Source struct {
	// Title is the metadata title, empty when the document declares none.
	Title string
	Lines []RawLine
}

func newHeading(tl TaggedLine) Heading {
	return Heading{
		Level:      tl.Level,
		Text:       strings.TrimSpace(tl.Text),
		Page:       tl.Page,
		Y0:         tl.Y0,
		X0:         tl.X0,
		FontName:   tl.FontName,
		FontSize:   tl.FontSize,
		PageWidth:  tl.PageWidth,
		PageHeight: tl.PageHeight,
		Members:    1,
	}
}
