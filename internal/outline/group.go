package outline

import (
	"math"
	"sort"
	"strings"
)

// Dedup drops headings whose (lowercased text, level) pair was already seen.
// The first occurrence wins and order is preserved.
func Dedup(headings []Heading) []Heading {
	type key struct {
		text  string
		level Level
	}
	seen := make(map[key]bool, len(headings))
	out := make([]Heading, 0, len(headings))
	for _, h := range headings {
		k := key{strings.ToLower(strings.TrimSpace(h.Text)), h.Level}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, h)
	}
	return out
}

// GroupParams controls vertical grouping.
type GroupParams struct {
	SizeTolerance float64
	Gap           float64
	// ExtendedGap applies once a group already has two or more members.
	ExtendedGap float64
}

// groupParams extracts the grouping subset of p.
func (p Params) groupParams() GroupParams {
	return GroupParams{
		SizeTolerance: p.GroupSizeTolerance,
		Gap:           p.GroupGap,
		ExtendedGap:   p.GroupGapExtended,
	}
}

// SortReadingOrder sorts headings by page, then top to bottom. The sort is stable.
func SortReadingOrder(headings []Heading) []Heading {
	sorted := make([]Heading, len(headings))
	copy(sorted, headings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].Y0 > sorted[j].Y0
	})
	return sorted
}

// Group merges vertically adjacent headings that share font and size into
// multi-line headings. Input is put in reading order first. Font and size are
// compared against the group's first heading; the vertical gap is measured from
// the heading absorbed last.
func Group(headings []Heading, gp GroupParams) []Heading {
	if len(headings) == 0 {
		return headings
	}
	sorted := SortReadingOrder(headings)

	var grouped []Heading
	for i := 0; i < len(sorted); {
		seed := sorted[i]
		members := []Heading{seed}
		j := i + 1
		for ; j < len(sorted); j++ {
			next := sorted[j]
			if next.Page != seed.Page {
				break
			}
			if !similarFont(seed.FontName, next.FontName) || !similarSize(seed.FontSize, next.FontSize, gp.SizeTolerance) {
				break
			}
			gap := math.Abs(members[len(members)-1].Y0 - next.Y0)
			if gap > gp.Gap && (len(members) < 2 || gap > gp.ExtendedGap) {
				break
			}
			members = append(members, next)
		}

		if len(members) == 1 {
			grouped = append(grouped, seed)
		} else {
			grouped = append(grouped, merge(members))
		}
		i = j
	}
	return grouped
}

func merge(members []Heading) Heading {
	seed := members[0]
	texts := make([]string, len(members))
	top := seed.Y0
	for i, m := range members {
		texts[i] = strings.TrimSpace(m.Text)
		if m.Y0 > top {
			top = m.Y0
		}
	}
	out := seed
	out.Text = strings.Join(texts, " ")
	out.Y0 = top
	out.Level = majorityLevel(members)
	out.Members = len(members)
	return out
}

// majorityLevel returns the most common level; ties go to the first seen.
func majorityLevel(members []Heading) Level {
	counts := make(map[Level]int)
	var order []Level
	for _, m := range members {
		if counts[m.Level] == 0 {
			order = append(order, m.Level)
		}
		counts[m.Level]++
	}
	best, bestCount := order[0], 0
	for _, l := range order {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

// similarFont matches exact names or names sharing the part before the first "-".
func similarFont(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	if a == b {
		return true
	}
	return baseFont(a) == baseFont(b)
}

func baseFont(name string) string {
	base, _, _ := strings.Cut(name, "-")
	return base
}

func similarSize(a, b, tolerance float64) bool {
	if a == 0 || b == 0 {
		return a == b
	}
	return math.Abs(a-b) <= tolerance
}
