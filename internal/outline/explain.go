package outline

// Trace is the classification record of one tagged line.
type Trace struct {
	Page     int     `json:"page" yaml:"page"`
	Level    Level   `json:"level" yaml:"level"`
	FontSize float64 `json:"font_size" yaml:"font_size"`
	FontName string  `json:"font_name" yaml:"font_name"`
	Heading  bool    `json:"heading" yaml:"heading"`
	Rule     string  `json:"rule" yaml:"rule"`
	Text     string  `json:"text" yaml:"text"`
}

// Explanation describes how a document's outline was derived.
type Explanation struct {
	Title      string      `json:"title" yaml:"title"`
	LevelSizes []float64   `json:"level_sizes" yaml:"level_sizes"`
	AllCounts  LevelCounts `json:"all_counts" yaml:"all_counts"`
	Breakpoint string      `json:"breakpoint" yaml:"breakpoint"`
	Filtered   LevelCounts `json:"filtered_counts" yaml:"filtered_counts"`
	Lines      []Trace     `json:"lines" yaml:"lines"`
	Outline    []Entry     `json:"outline" yaml:"outline"`
}

// Explain pairs every tagged line with the classifier verdict that decided
// it. With headingsOnly, lines at the body level are left out.
func Explain(doc Document, r Report, headingsOnly bool) Explanation {
	ex := Explanation{
		Title:      doc.Title,
		LevelSizes: r.Levels.Sizes,
		AllCounts:  r.AllCounts,
		Breakpoint: breakpointAttr(r),
		Filtered:   r.Filtered,
		Lines:      []Trace{},
		Outline:    doc.Outline,
	}
	if ex.LevelSizes == nil {
		ex.LevelSizes = []float64{}
	}
	for i, tl := range r.Tagged {
		if headingsOnly && !tl.Level.IsHeading() {
			continue
		}
		var v Verdict
		if i < len(r.Verdicts) {
			v = r.Verdicts[i]
		}
		ex.Lines = append(ex.Lines, Trace{
			Page:     tl.Page,
			Level:    tl.Level,
			FontSize: tl.FontSize,
			FontName: tl.FontName,
			Heading:  v.Heading,
			Rule:     v.Rule,
			Text:     tl.Text,
		})
	}
	return ex
}
