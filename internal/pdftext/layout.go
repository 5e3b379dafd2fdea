package pdftext

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jackzampolin/outline/internal/outline"
)

// maxTreeDepth bounds the walk up the page tree when resolving an inherited
// MediaBox.
const maxTreeDepth = 10

// pageSize returns the page width and height from its MediaBox, falling back
// to US Letter.
func pageSize(p pdf.Page) (width, height float64) {
	v := p.V
	for i := 0; i < maxTreeDepth && !v.IsNull(); i++ {
		if w, h, ok := parseBox(v.Key("MediaBox")); ok {
			return w, h
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

func parseBox(box pdf.Value) (width, height float64, ok bool) {
	if box.IsNull() || box.Kind() != pdf.Array || box.Len() != 4 {
		return 0, 0, false
	}
	var c [4]float64
	for i := range c {
		n := box.Index(i)
		switch n.Kind() {
		case pdf.Integer:
			c[i] = float64(n.Int64())
		case pdf.Real:
			c[i] = n.Float64()
		default:
			return 0, 0, false
		}
	}
	width = math.Abs(c[2] - c[0])
	height = math.Abs(c[3] - c[1])
	if width == 0 || height == 0 {
		return 0, 0, false
	}
	return width, height, true
}

// assemble turns the glyphs of one page into lines, top to bottom.
func (e *Extractor) assemble(texts []pdf.Text, page outline.LineGeometry) []outline.RawLine {
	var lines []outline.RawLine
	for _, row := range groupRows(texts, e.cfg.RowTolerance) {
		for _, run := range e.splitRuns(row) {
			geo := runGeometry(run.texts, page)
			if line, ok := outline.BuildLine(run.glyphs, geo, e.sizeTolerance); ok {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// groupRows buckets glyphs by baseline. Rows are returned top to bottom with
// their glyphs in left to right order.
func groupRows(texts []pdf.Text, tolerance float64) [][]pdf.Text {
	type bucket struct {
		yMin, yMax float64
		texts      []pdf.Text
	}

	var buckets []bucket
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		found := false
		for i := range buckets {
			b := &buckets[i]
			if t.Y >= b.yMin-tolerance && t.Y <= b.yMax+tolerance {
				b.texts = append(b.texts, t)
				b.yMin = math.Min(b.yMin, t.Y)
				b.yMax = math.Max(b.yMax, t.Y)
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, bucket{yMin: t.Y, yMax: t.Y, texts: []pdf.Text{t}})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	rows := make([][]pdf.Text, len(buckets))
	for i, b := range buckets {
		sort.SliceStable(b.texts, func(i, j int) bool {
			return b.texts[i].X < b.texts[j].X
		})
		rows[i] = b.texts
	}
	return rows
}

type run struct {
	texts  []pdf.Text
	glyphs []outline.Glyph
}

// splitRuns cuts a row at wide horizontal gaps and inserts synthetic spaces
// between words.
func (e *Extractor) splitRuns(row []pdf.Text) []run {
	var (
		runs []run
		cur  run
	)
	for i, t := range row {
		if i > 0 {
			prev := row[i-1]
			gap := t.X - (prev.X + prev.W)
			size := math.Max(prev.FontSize, t.FontSize)
			if size <= 0 {
				size = 1
			}
			switch {
			case gap > e.cfg.CharMargin*size:
				runs = append(runs, cur)
				cur = run{}
			case gap > e.cfg.WordMargin*size && !isSpace(prev.S) && !isSpace(t.S):
				cur.glyphs = append(cur.glyphs, outline.Glyph{
					Text:      " ",
					FontName:  prev.Font,
					FontSize:  prev.FontSize,
					Synthetic: true,
				})
			}
		}
		cur.texts = append(cur.texts, t)
		cur.glyphs = append(cur.glyphs, outline.Glyph{
			Text:     t.S,
			FontName: t.Font,
			FontSize: t.FontSize,
		})
	}
	if len(cur.texts) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

func runGeometry(texts []pdf.Text, page outline.LineGeometry) outline.LineGeometry {
	geo := page
	geo.X0 = texts[0].X
	geo.X1 = texts[0].X + texts[0].W
	geo.Y0 = texts[0].Y
	for _, t := range texts[1:] {
		geo.X0 = math.Min(geo.X0, t.X)
		geo.X1 = math.Max(geo.X1, t.X+t.W)
		geo.Y0 = math.Min(geo.Y0, t.Y)
	}
	return geo
}

func isSpace(s string) bool {
	return strings.TrimSpace(s) == ""
}
