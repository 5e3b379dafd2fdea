// Package testutil provides fixtures shared by package tests: generated PDF
// files and helpers for running a server on a free port.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TextOp draws one string in Helvetica at (X, Y) with the given size.
type TextOp struct {
	Size, X, Y float64
	Text       string
}

// Page is the text drawn on one page.
type Page []TextOp

// PDF returns a PDF with one page per element of pages, drawn in the standard
// Helvetica font with explicit widths on A4 media. A non-empty title is stored
// in the info dictionary.
func PDF(title string, pages ...Page) []byte {
	widths := strings.TrimSpace(strings.Repeat("556 ", 126-32+1))

	// Fixed objects: 1 catalog, 2 page tree, 3 font, 4 info. Each page then
	// takes two objects: the page and its content stream.
	const firstPage = 5
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPage+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 595 842] >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding " +
			"/FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
		fmt.Sprintf("<< /Title (%s) /Producer (outline tests) >>", escape(title)),
	}
	for i, page := range pages {
		var content strings.Builder
		for _, op := range page {
			fmt.Fprintf(&content, "BT /F1 %g Tf %g %g Td (%s) Tj ET\n", op.Size, op.X, op.Y, escape(op.Text))
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", firstPage+2*i+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// WritePDF writes PDF(title, pages...) to dir/name and returns the path.
func WritePDF(t testing.TB, dir, name, title string, pages ...Page) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PDF(title, pages...), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ReportPages is a two page document with a 24pt heading, two 16pt section
// headings and 11pt body copy.
func ReportPages() []Page {
	return []Page{
		{
			{Size: 24, X: 72, Y: 760, Text: "Quarterly Report"},
			{Size: 16, X: 72, Y: 700, Text: "Revenue"},
			{Size: 11, X: 72, Y: 670, Text: "sales grew in every region this quarter"},
			{Size: 11, X: 72, Y: 655, Text: "and margins held steady overall"},
		},
		{
			{Size: 16, X: 72, Y: 760, Text: "Outlook"},
			{Size: 11, X: 72, Y: 730, Text: "we expect demand to continue growing"},
			{Size: 11, X: 72, Y: 715, Text: "through the rest of the year"},
		},
	}
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
