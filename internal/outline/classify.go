package outline

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Candidate is the classifier's view of one tagged line.
type Candidate struct {
	Text       string
	Level      Level
	X0, Y0     float64
	PageWidth  float64
	PageHeight float64
	FontName   string
}

// CandidateFromLine builds a Candidate from a tagged line.
func CandidateFromLine(tl TaggedLine) Candidate {
	return Candidate{
		Text:       tl.Text,
		Level:      tl.Level,
		X0:         tl.X0,
		Y0:         tl.Y0,
		PageWidth:  tl.PageWidth,
		PageHeight: tl.PageHeight,
		FontName:   tl.FontName,
	}
}

// CandidateFromHeading builds a Candidate from an already promoted heading.
// Headings carry no page geometry here, so the centered and top-of-page rules
// never fire when a heading is classified a second time.
func CandidateFromHeading(h Heading) Candidate {
	return Candidate{
		Text:     h.Text,
		Level:    h.Level,
		FontName: h.FontName,
	}
}

// Verdict is the outcome of classification and the rule that decided it.
type Verdict struct {
	Heading bool
	Rule    string
}

// rule is one entry of the ordered decision list. The first rule whose match
// returns true decides the outcome.
type rule struct {
	name   string
	match  func(c Candidate, t string, p Params) bool
	accept bool
}

// DefaultRule names the fall-through outcome when no rule matches.
const DefaultRule = "default"

var rules = []rule{
	{"bracketed", isBracketed, false},
	{"lowercase_start", startsLowercase, false},
	{"body_level", func(c Candidate, _ string, _ Params) bool { return !c.Level.IsHeading() }, false},
	{"sentence", looksLikeSentence, false},
	{"all_caps", isAllCaps, true},
	{"bold_font", func(c Candidate, _ string, _ Params) bool { return hasBoldMarker(c.FontName) }, true},
	{"numeric", func(_ Candidate, t string, _ Params) bool { return numericRe.MatchString(t) }, false},
	{"date", func(_ Candidate, t string, _ Params) bool { return IsDateOrNumber(t) }, false},
	{"centered", isCentered, true},
	{"top_of_page", isNearTop, true},
	{"too_many_words", func(_ Candidate, t string, p Params) bool { return len(strings.Fields(t)) > p.MaxWords }, false},
	{"length", badLength, false},
	{"page_furniture", isPageFurniture, false},
}

// Classifier decides whether tagged lines are headings.
type Classifier struct {
	params Params
}

// NewClassifier creates a classifier with the given parameters.
func NewClassifier(p Params) *Classifier {
	return &Classifier{params: p}
}

// Classify evaluates the decision list against c.
func (cl *Classifier) Classify(c Candidate) Verdict {
	t := strings.TrimSpace(c.Text)
	for _, r := range rules {
		if r.match(c, t, cl.params) {
			return Verdict{Heading: r.accept, Rule: r.name}
		}
	}
	return Verdict{Heading: true, Rule: DefaultRule}
}

// IsHeading is Classify without the rule name.
func (cl *Classifier) IsHeading(c Candidate) bool {
	return cl.Classify(c).Heading
}

func isBracketed(_ Candidate, t string, _ Params) bool {
	return (strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")")) ||
		(strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]")) ||
		(strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}"))
}

func startsLowercase(_ Candidate, t string, _ Params) bool {
	r, _ := utf8.DecodeRuneInString(t)
	return r != utf8.RuneError && unicode.IsLower(r)
}

func looksLikeSentence(_ Candidate, t string, p Params) bool {
	return utf8.RuneCountInString(t) > p.SentenceMinLength &&
		strings.Contains(t, ",") &&
		strings.Count(t, " ") > p.SentenceMinSpaces
}

// isAllCaps mirrors str.isupper: at least one cased letter and no lowercase ones.
func isAllCaps(_ Candidate, t string, _ Params) bool {
	if utf8.RuneCountInString(t) <= 2 {
		return false
	}
	cased := false
	for _, r := range t {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// headingFontMarkers are matched case-insensitively. The single "b" makes any
// font name containing that letter count, which the reference tuning relies on.
var headingFontMarkers = []string{"bold", "b", "heavy", "black"}

func hasBoldMarker(fontName string) bool {
	if fontName == "" {
		return false
	}
	lower := strings.ToLower(fontName)
	for _, m := range headingFontMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func isCentered(c Candidate, _ string, p Params) bool {
	if c.PageWidth <= 0 {
		return false
	}
	return math.Abs(c.X0-c.PageWidth/2) < c.PageWidth*p.CenterBand
}

func isNearTop(c Candidate, _ string, p Params) bool {
	if c.PageHeight <= 0 {
		return false
	}
	return c.Y0 > c.PageHeight*(1-p.TopBand)
}

func badLength(_ Candidate, t string, p Params) bool {
	n := utf8.RuneCountInString(t)
	return n < p.MinLength || n > p.MaxLength
}

var (
	numericRe       = regexp.MustCompile(`^[\d.,/\-]+$`)
	numberPeriodRe  = regexp.MustCompile(`^\d+\.$`)
	symbolsOnlyRe   = regexp.MustCompile(`^[^\p{L}\p{N}_\s]+$`)
	pageNumberRe    = regexp.MustCompile(`^page\s+\d+$`)
	urlOrEmailRe    = regexp.MustCompile(`https?://|www\.|@`)
	nonHeadingWords = map[string]bool{
		"page":      true,
		"continued": true,
		"footnote":  true,
		"reference": true,
		"appendix":  true,
		"index":     true,
		"glossary":  true,
	}
)

func isPageFurniture(_ Candidate, t string, _ Params) bool {
	lower := strings.ToLower(t)
	return numberPeriodRe.MatchString(t) ||
		symbolsOnlyRe.MatchString(t) ||
		nonHeadingWords[lower] ||
		pageNumberRe.MatchString(lower) ||
		strings.Contains(lower, "copyright") ||
		strings.Contains(t, "©") ||
		urlOrEmailRe.MatchString(t)
}

var (
	months = map[string]bool{
		"january": true, "february": true, "march": true, "april": true,
		"may": true, "june": true, "july": true, "august": true,
		"september": true, "october": true, "november": true, "december": true,
		"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true,
		"aug": true, "sep": true, "oct": true, "nov": true, "dec": true,
	}

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}([/-]\d{2,4})?$`),
		regexp.MustCompile(`^\d{4}$`),
		regexp.MustCompile(`^(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}$`),
		regexp.MustCompile(`^(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4}$`),
		regexp.MustCompile(`^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s+\d{1,2},?\s+\d{4}$`),
		regexp.MustCompile(`^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s+\d{4}$`),
	}
)

// IsDateOrNumber reports whether text is a bare number, month name, or date.
func IsDateOrNumber(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if numericRe.MatchString(t) || months[t] {
		return true
	}
	for _, re := range datePatterns {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}
