package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glyphs splits s into one glyph per rune, all in the same font.
func glyphs(s, font string, size float64) []Glyph {
	out := make([]Glyph, 0, len(s))
	for _, r := range s {
		out = append(out, Glyph{Text: string(r), FontName: font, FontSize: size})
	}
	return out
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"camel case", "helloWorld", "hello World"},
		{"caps before title case", "PDFReader", "PDF Reader"},
		{"letters and digits", "IntroductionTo2023Plans", "Introduction To 2023 Plans"},
		{"digit then letter", "3rd", "3 rd"},
		{"bullet after", "•Item", "• Item"},
		{"bullet before", "item•", "item •"},
		{"colon between letters", "Name:John", "Name: John"},
		{"comma between letters", "red,green", "red, green"},
		{"collapse whitespace", "  many   spaces\there ", "many spaces here"},
		{"colon after digit untouched", "Time 10:30", "Time 10:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestNormalizeLine(t *testing.T) {
	t.Run("differently styled value is dropped", func(t *testing.T) {
		in := glyphs("Name:", "Arial-Bold", 12)
		in = append(in, Glyph{Text: " ", Synthetic: true})
		in = append(in, glyphs("John Smith", "Arial", 12)...)

		text, kept := NormalizeLine(in, 0.5)
		assert.Equal(t, "Name", text)
		require.Len(t, kept, 5)
		assert.Equal(t, ":", kept[4].Text)
	})

	t.Run("size change beyond tolerance splits", func(t *testing.T) {
		in := glyphs("Date:", "Arial", 14)
		in = append(in, glyphs("Today", "Arial", 10)...)

		text, _ := NormalizeLine(in, 0.5)
		assert.Equal(t, "Date", text)
	})

	t.Run("same style keeps the whole line", func(t *testing.T) {
		in := glyphs("Goal: Growth", "Arial", 12)

		text, kept := NormalizeLine(in, 0.5)
		assert.Equal(t, "Goal: Growth", text)
		assert.Len(t, kept, len(in))
	})

	t.Run("small size change is tolerated", func(t *testing.T) {
		in := glyphs("Goal:", "Arial", 12)
		in = append(in, glyphs("Growth", "Arial", 12.4)...)

		text, _ := NormalizeLine(in, 0.5)
		assert.Equal(t, "Goal: Growth", text)
	})

	t.Run("trailing colon", func(t *testing.T) {
		text, _ := NormalizeLine(glyphs("Summary:", "Arial", 12), 0.5)
		assert.Equal(t, "Summary:", text)
	})

	t.Run("leading colon keeps the line", func(t *testing.T) {
		in := glyphs(":", "Arial-Bold", 12)
		in = append(in, glyphs("Notes", "Arial", 10)...)

		text, kept := NormalizeLine(in, 0.5)
		assert.Equal(t, CleanText(":Notes"), text)
		assert.Len(t, kept, len(in))
	})

	t.Run("colon styled like the value keeps the line", func(t *testing.T) {
		in := glyphs("Name", "Arial-Bold", 12)
		in = append(in, glyphs(":John", "Arial", 12)...)

		text, kept := NormalizeLine(in, 0.5)
		assert.Contains(t, text, "John")
		assert.Len(t, kept, len(in))
	})

	t.Run("whitespace only", func(t *testing.T) {
		text, kept := NormalizeLine(glyphs("   ", "Arial", 12), 0.5)
		assert.Empty(t, text)
		assert.Nil(t, kept)
	})
}

func TestLineMetrics(t *testing.T) {
	in := glyphs("AB", "Arial-Bold", 12)
	in = append(in, Glyph{Text: " ", Synthetic: true})
	in = append(in, glyphs("cde", "Arial", 12)...)

	size, font := LineMetrics(in)
	assert.InDelta(t, 12.4, size, 1e-9)
	assert.Equal(t, "Arial", font)

	t.Run("tie goes to first font", func(t *testing.T) {
		in := append(glyphs("ab", "Times", 10), glyphs("cd", "Courier", 10)...)
		_, font := LineMetrics(in)
		assert.Equal(t, "Times", font)
	})

	t.Run("no glyphs", func(t *testing.T) {
		size, font := LineMetrics(nil)
		assert.Zero(t, size)
		assert.Empty(t, font)
	})
}

func TestBuildLine(t *testing.T) {
	geo := LineGeometry{Page: 2, X0: 72, X1: 300, Y0: 700, PageWidth: 612, PageHeight: 792}

	line, ok := BuildLine(glyphs("OverviewSection", "Times", 16), geo, 0.5)
	require.True(t, ok)
	assert.Equal(t, "Overview Section", line.Text)
	assert.Equal(t, 16.0, line.FontSize)
	assert.Equal(t, "Times", line.FontName)
	assert.Equal(t, 2, line.Page)
	assert.Equal(t, 700.0, line.Y0)

	_, ok = BuildLine(glyphs(" \t ", "Times", 16), geo, 0.5)
	assert.False(t, ok)
}
