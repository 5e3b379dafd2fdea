package pdftext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/outline/internal/outline"
	"github.com/jackzampolin/outline/internal/testutil"
)

// word lays out s as one glyph per rune with a fixed advance of half the font
// size.
func word(s, font string, size, x, y float64) []pdf.Text {
	var out []pdf.Text
	for _, r := range s {
		out = append(out, pdf.Text{Font: font, FontSize: size, X: x, Y: y, W: size / 2, S: string(r)})
		x += size / 2
	}
	return out
}

func testExtractor() *Extractor {
	return New(DefaultConfig(), outline.DefaultParams().ColonSizeTolerance, nil)
}

func lineTexts(lines []outline.RawLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestAssemble(t *testing.T) {
	e := testExtractor()
	page := outline.LineGeometry{Page: 3, PageWidth: 612, PageHeight: 792}

	var texts []pdf.Text
	// second row first to check ordering
	texts = append(texts, word("body copy", "Times-Roman", 10, 72, 600)...)
	texts = append(texts, word("Intro", "Times-Bold", 12, 72, 720)...)
	// word gap of 4pt with no space glyph
	texts = append(texts, word("Text", "Times-Bold", 12, 106, 720.5)...)
	// far right of the same row
	texts = append(texts, word("12", "Times-Roman", 12, 500, 720)...)

	lines := e.assemble(texts, page)
	require.Equal(t, []string{"Intro Text", "12", "body copy"}, lineTexts(lines))

	intro := lines[0]
	assert.Equal(t, 3, intro.Page)
	assert.Equal(t, "Times-Bold", intro.FontName)
	assert.InDelta(t, 13.0, intro.FontSize, 1e-9)
	assert.Equal(t, 72.0, intro.X0)
	assert.Equal(t, 130.0, intro.X1)
	assert.Equal(t, 720.0, intro.Y0)
	assert.Equal(t, 612.0, intro.PageWidth)
	assert.Equal(t, 792.0, intro.PageHeight)

	assert.InDelta(t, 10.0, lines[2].FontSize, 1e-9)
}

func TestAssembleColonRule(t *testing.T) {
	var texts []pdf.Text
	texts = append(texts, word("Scope:", "Helvetica-Bold", 14, 72, 700)...)
	texts = append(texts, word("covers all units", "Helvetica", 10, 118, 700)...)

	lines := testExtractor().assemble(texts, outline.LineGeometry{Page: 1})
	require.Len(t, lines, 1)
	assert.Equal(t, "Scope", lines[0].Text)
	assert.Equal(t, "Helvetica-Bold", lines[0].FontName)
	assert.InDelta(t, 15.0, lines[0].FontSize, 1e-9)
}

func TestAssembleDropsBlankRows(t *testing.T) {
	texts := append(word("   ", "Times-Roman", 10, 72, 700), pdf.Text{S: "", X: 72, Y: 650})
	assert.Empty(t, testExtractor().assemble(texts, outline.LineGeometry{Page: 1}))
}

func TestGroupRows(t *testing.T) {
	texts := []pdf.Text{
		{S: "b", X: 20, Y: 500},
		{S: "a", X: 10, Y: 501.5},
		{S: "c", X: 10, Y: 400},
	}
	rows := groupRows(texts, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0][0].S)
	assert.Equal(t, "b", rows[0][1].S)
	assert.Equal(t, "c", rows[1][0].S)

	assert.Len(t, groupRows(texts, 1), 3)
}

func TestExtractMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := testExtractor().Extract(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := testExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformed))
}

func TestExtractGeneratedPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, testutil.PDF("Generated Report", testutil.Page{
		{Size: 24, X: 72, Y: 720, Text: "Quarterly Report"},
		{Size: 12, X: 72, Y: 680, Text: "Revenue grew this year"},
	}), 0o644))

	src, err := testExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Generated Report", src.Title)
	require.Equal(t, []string{"Quarterly Report", "Revenue grew this year"}, lineTexts(src.Lines))

	head := src.Lines[0]
	assert.Equal(t, 1, head.Page)
	assert.Equal(t, "Helvetica", head.FontName)
	assert.Greater(t, head.FontSize, src.Lines[1].FontSize)
	// MediaBox inherited from the page tree root
	assert.Equal(t, 595.0, head.PageWidth)
	assert.Equal(t, 842.0, head.PageHeight)
}

func TestExtractCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, testutil.PDF("", testutil.Page{
		{Size: 12, X: 72, Y: 700, Text: "Hello"},
	}), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testExtractor().Extract(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractMultiPage(t *testing.T) {
	path := testutil.WritePDF(t, t.TempDir(), "report.pdf", "", testutil.ReportPages()...)

	src, err := testExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, src.Title)
	require.Len(t, src.Lines, 7)

	pages := make(map[int][]string)
	for _, l := range src.Lines {
		pages[l.Page] = append(pages[l.Page], l.Text)
	}
	assert.Equal(t, "Quarterly Report", pages[1][0])
	assert.Len(t, pages[1], 4)
	assert.Equal(t, []string{
		"Outlook",
		"we expect demand to continue growing",
		"through the rest of the year",
	}, pages[2])
}
