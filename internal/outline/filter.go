package outline

// LevelCounts is the number of tagged lines per heading level.
type LevelCounts map[Level]int

// CountLevels counts every heading-level tagged line, classified or not.
func CountLevels(tagged []TaggedLine) LevelCounts {
	counts := make(LevelCounts)
	for _, tl := range tagged {
		if tl.Level.IsHeading() {
			counts[tl.Level]++
		}
	}
	return counts
}

// Deepest returns the deepest level with a non-zero count.
func (c LevelCounts) Deepest() Level {
	deepest := LevelBody
	for l, n := range c {
		if n > 0 && l > deepest {
			deepest = l
		}
	}
	return deepest
}

// Breakpoint returns the shallowest level whose count exceeds threshold.
func Breakpoint(counts LevelCounts, threshold int) (Level, bool) {
	deepest := counts.Deepest()
	for l := Level(1); l <= deepest; l++ {
		if counts[l] > threshold {
			return l, true
		}
	}
	return LevelBody, false
}

// FilterParams bounds the outline depth.
type FilterParams struct {
	Threshold                 int
	MaxLevelWithBreakpoint    int
	MaxLevelWithoutBreakpoint int
}

func (p Params) filterParams() FilterParams {
	return FilterParams{
		Threshold:                 p.BreakpointThreshold,
		MaxLevelWithBreakpoint:    p.MaxLevelWithBreakpoint,
		MaxLevelWithoutBreakpoint: p.MaxLevelWithoutBreakpoint,
	}
}

// FilterResult is the outcome of breakpoint filtering.
type FilterResult struct {
	Entries       []Entry
	Breakpoint    Level
	HasBreakpoint bool
}

// FilterLevels truncates the grouped headings at the breakpoint level.
//
// With a breakpoint at H1 only H1 headings that pass isHeading again survive.
// With a breakpoint at Hk, levels below k up to the cap survive. Without a
// breakpoint the deepest observed level is treated as noise and dropped.
func FilterLevels(headings []Heading, counts LevelCounts, isHeading func(Heading) bool, fp FilterParams) FilterResult {
	bp, ok := Breakpoint(counts, fp.Threshold)
	res := FilterResult{Breakpoint: bp, HasBreakpoint: ok, Entries: []Entry{}}

	var keep func(Heading) bool
	switch {
	case ok && bp == 1:
		keep = func(h Heading) bool { return h.Level == 1 && isHeading(h) }
	case ok:
		keep = func(h Heading) bool {
			return h.Level < bp && int(h.Level) <= fp.MaxLevelWithBreakpoint
		}
	case len(counts) > 0:
		deepest := counts.Deepest()
		keep = func(h Heading) bool {
			return h.Level < deepest && int(h.Level) <= fp.MaxLevelWithoutBreakpoint
		}
	default:
		return res
	}

	for _, h := range headings {
		if keep(h) {
			res.Entries = append(res.Entries, Entry{Level: h.Level, Text: h.Text, Page: h.Page})
		}
	}
	return res
}
