package outline

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Pipeline turns extracted lines into a Document.
type Pipeline struct {
	params     Params
	classifier *Classifier
	logger     *slog.Logger
}

// NewPipeline creates a pipeline. A nil logger falls back to slog.Default().
func NewPipeline(p Params, logger *slog.Logger) (*Pipeline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		params:     p,
		classifier: NewClassifier(p),
		logger:     logger,
	}, nil
}

// Params returns the parameters the pipeline runs with.
func (pl *Pipeline) Params() Params {
	return pl.params
}

// Classifier returns the pipeline's heading classifier.
func (pl *Pipeline) Classifier() *Classifier {
	return pl.classifier
}

// Report describes what each stage produced for one document.
type Report struct {
	Lines         int
	Levels        LevelMap
	AllCounts     LevelCounts
	Headings      int
	Deduplicated  int
	Grouped       int
	Breakpoint    Level
	HasBreakpoint bool
	Filtered      LevelCounts
	Tagged        []TaggedLine `json:"-" yaml:"-"`
	Verdicts      []Verdict    `json:"-" yaml:"-"`
}

// Run executes every stage over src.
func (pl *Pipeline) Run(src Source) (Document, Report) {
	tagged, levels := TagLines(src.Lines, pl.params.ClusterTolerance)

	verdicts := make([]Verdict, len(tagged))
	var headings []Heading
	for i, tl := range tagged {
		v := pl.classifier.Classify(CandidateFromLine(tl))
		verdicts[i] = v
		if v.Heading && tl.Level.IsHeading() {
			headings = append(headings, newHeading(tl))
		}
	}

	deduped := Dedup(headings)
	grouped := Group(deduped, pl.params.groupParams())

	counts := CountLevels(tagged)
	filtered := FilterLevels(grouped, counts, func(h Heading) bool {
		return pl.classifier.IsHeading(CandidateFromHeading(h))
	}, pl.params.filterParams())

	doc := Document{
		Title:   ResolveTitle(src.Title, grouped, tagged),
		Outline: filtered.Entries,
	}

	report := Report{
		Lines:         len(src.Lines),
		Levels:        levels,
		AllCounts:     counts,
		Headings:      len(headings),
		Deduplicated:  len(deduped),
		Grouped:       len(grouped),
		Breakpoint:    filtered.Breakpoint,
		HasBreakpoint: filtered.HasBreakpoint,
		Filtered:      countEntries(filtered.Entries),
		Tagged:        tagged,
		Verdicts:      verdicts,
	}

	pl.logger.Debug("outline built",
		"lines", report.Lines,
		"levels", levels.Depth(),
		"all_headings", report.AllCounts.String(),
		"filtered_headings", report.Filtered.String(),
		"breakpoint", breakpointAttr(report),
		"title", doc.Title,
	)
	return doc, report
}

func countEntries(entries []Entry) LevelCounts {
	counts := make(LevelCounts)
	for _, e := range entries {
		counts[e.Level]++
	}
	return counts
}

// String renders counts as "H1=3, H2=10" in level order, or "None".
func (c LevelCounts) String() string {
	levels := make([]Level, 0, len(c))
	for l, n := range c {
		if n > 0 {
			levels = append(levels, l)
		}
	}
	if len(levels) == 0 {
		return "None"
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%s=%d", l, c[l])
	}
	return strings.Join(parts, ", ")
}

func breakpointAttr(r Report) string {
	if !r.HasBreakpoint {
		return "none"
	}
	return r.Breakpoint.String()
}
