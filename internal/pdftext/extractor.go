// Package pdftext turns PDF files into positioned text lines for the outline
// pipeline. pdfcpu validates the file and supplies document metadata; the
// glyph stream of each page is read with ledongthuc/pdf and assembled into
// lines.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jackzampolin/outline/internal/outline"
)

// ErrMalformed is returned when a file cannot be parsed as a PDF.
var ErrMalformed = errors.New("malformed PDF")

// US Letter, used when a page declares no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Config controls line assembly.
type Config struct {
	// RowTolerance is the maximum baseline difference, in points, for two
	// glyphs to share a row.
	RowTolerance float64 `mapstructure:"row_tolerance" yaml:"row_tolerance" json:"row_tolerance"`
	// WordMargin is the gap, as a fraction of font size, above which a space
	// is inserted between glyphs.
	WordMargin float64 `mapstructure:"word_margin" yaml:"word_margin" json:"word_margin"`
	// CharMargin is the gap, as a fraction of font size, above which a row is
	// split into separate lines.
	CharMargin float64 `mapstructure:"char_margin" yaml:"char_margin" json:"char_margin"`
}

// DefaultConfig returns the line assembly defaults.
func DefaultConfig() Config {
	return Config{
		RowTolerance: 2.0,
		WordMargin:   0.1,
		CharMargin:   2.0,
	}
}

// Extractor reads PDFs into outline sources.
type Extractor struct {
	cfg           Config
	sizeTolerance float64
	logger        *slog.Logger
}

// New creates an Extractor. sizeTolerance is the font size band used by the
// colon truncation rule when lines are normalized.
func New(cfg Config, sizeTolerance float64, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, sizeTolerance: sizeTolerance, logger: logger}
}

// Extract reads every page of the PDF at path and returns its lines in page
// order along with the metadata title. A file that fails to parse yields an
// error wrapping ErrMalformed.
func (e *Extractor) Extract(ctx context.Context, path string) (*outline.Source, error) {
	meta, err := readMetadata(path)
	if err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	if meta.Title == "" {
		meta.Title = infoTitle(r)
	}

	src := &outline.Source{Title: meta.Title}
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := e.extractPage(r, i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		src.Lines = append(src.Lines, lines...)
	}

	e.logger.Debug("extracted text",
		"file", path,
		"pages", pages,
		"validated_pages", meta.PageCount,
		"lines", len(src.Lines),
		"metadata_title", meta.Title)
	return src, nil
}

// Metadata holds the document-level values read during validation.
type Metadata struct {
	Title     string
	PageCount int
}

// readMetadata validates the file with pdfcpu and returns its info
// dictionary values.
func readMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Metadata{
		Title:     strings.TrimSpace(pctx.Title),
		PageCount: pctx.PageCount,
	}, nil
}

// infoTitle reads /Title from the trailer's info dictionary.
func infoTitle(r *pdf.Reader) (title string) {
	defer func() {
		if rec := recover(); rec != nil {
			title = ""
		}
	}()
	return strings.TrimSpace(r.Trailer().Key("Info").Key("Title").Text())
}

func (e *Extractor) extractPage(r *pdf.Reader, num int) (lines []outline.RawLine, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("reading content stream: %v", rec)
		}
	}()

	p := r.Page(num)
	if p.V.IsNull() {
		return nil, nil
	}
	width, height := pageSize(p)
	texts := p.Content().Text
	return e.assemble(texts, outline.LineGeometry{
		Page:       num,
		PageWidth:  width,
		PageHeight: height,
	}), nil
}
