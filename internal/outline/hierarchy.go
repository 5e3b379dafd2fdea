package outline

import (
	"math"
	"sort"
)

// LevelMap is the document-wide font-size clustering. Sizes[i] is the
// representative size of level i+1, largest first.
type LevelMap struct {
	Sizes     []float64
	Tolerance float64
}

// ClusterSizes groups sizes within tolerance. A size joins the first existing
// cluster within tolerance, otherwise it seeds a new one, so clusters depend on
// input order. Zero sizes are ignored.
func ClusterSizes(sizes []float64, tolerance float64) LevelMap {
	var seeds []float64
	for _, s := range sizes {
		if s == 0 {
			continue
		}
		grouped := false
		for _, seed := range seeds {
			if math.Abs(s-seed) <= tolerance {
				grouped = true
				break
			}
		}
		if !grouped {
			seeds = append(seeds, s)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(seeds)))
	return LevelMap{Sizes: seeds, Tolerance: tolerance}
}

// LevelOf returns the level of the closest cluster within tolerance, or
// LevelBody when the size is unknown or matches no cluster.
func (m LevelMap) LevelOf(size float64) Level {
	if size == 0 {
		return LevelBody
	}
	best := LevelBody
	minDiff := math.Inf(1)
	for i, s := range m.Sizes {
		diff := math.Abs(size - s)
		if diff <= m.Tolerance && diff < minDiff {
			minDiff = diff
			best = Level(i + 1)
		}
	}
	return best
}

// Depth is the number of heading tiers.
func (m LevelMap) Depth() int {
	return len(m.Sizes)
}

// TagLines clusters the font sizes of all lines and tags each with its level.
func TagLines(lines []RawLine, tolerance float64) ([]TaggedLine, LevelMap) {
	sizes := make([]float64, 0, len(lines))
	for _, l := range lines {
		sizes = append(sizes, l.FontSize)
	}
	m := ClusterSizes(sizes, tolerance)

	tagged := make([]TaggedLine, len(lines))
	for i, l := range lines {
		tagged[i] = TaggedLine{RawLine: l, Level: m.LevelOf(l.FontSize)}
	}
	return tagged, m
}
