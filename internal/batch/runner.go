// Package batch runs the outline pipeline over many PDF files and writes one
// outline file per input.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/outline/internal/outline"
	"github.com/jackzampolin/outline/internal/pdftext"
)

// Status classifies the outcome of one document.
type Status string

const (
	StatusOK        Status = "ok"
	StatusMalformed Status = "malformed_source"
	StatusFailed    Status = "failed"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Extractor reads a PDF into pipeline input.
type Extractor interface {
	Extract(ctx context.Context, path string) (*outline.Source, error)
}

// Validator checks a document before it is written.
type Validator interface {
	ValidateDocument(doc outline.Document) error
}

// Runner processes PDF files through extraction and the outline pipeline.
// Documents are independent; a failure in one never affects another.
type Runner struct {
	Extractor Extractor
	Pipeline  *outline.Pipeline
	Validator Validator    // Optional
	Logger    *slog.Logger // Optional
	Workers   int          // Documents processed concurrently (default 1)
	Format    string       // FormatJSON (default) or FormatYAML
}

// Request contains the parameters of a batch run.
type Request struct {
	Inputs []string // PDF files or directories of PDF files
	OutDir string   // Directory for outline files
}

// Result is the outcome of one document.
type Result struct {
	File       string        `json:"file" yaml:"file"`
	Output     string        `json:"output,omitempty" yaml:"output,omitempty"`
	Status     Status        `json:"status" yaml:"status"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Title      string        `json:"title,omitempty" yaml:"title,omitempty"`
	Entries    int           `json:"entries" yaml:"entries"`
	Breakpoint string        `json:"breakpoint,omitempty" yaml:"breakpoint,omitempty"`
	Duration   time.Duration `json:"duration_ns" yaml:"duration"`
}

// Summary reports a whole run.
type Summary struct {
	RunID     string   `json:"run_id" yaml:"run_id"`
	Processed int      `json:"processed" yaml:"processed"`
	Failed    int      `json:"failed" yaml:"failed"`
	Malformed int      `json:"malformed" yaml:"malformed"`
	Results   []Result `json:"results" yaml:"results"`
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) format() string {
	if r.Format == "" {
		return FormatJSON
	}
	return r.Format
}

// Run processes every PDF named by req. It returns ErrNoInput, with an empty
// summary, when the inputs hold no PDFs. Per-document failures are recorded
// in the summary and never returned as errors.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	log := r.logger()
	summary := &Summary{RunID: uuid.New().String(), Results: []Result{}}

	files, err := CollectInputs(req.Inputs)
	if err != nil {
		return summary, err
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return summary, fmt.Errorf("failed to create output directory: %w", err)
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	log.Info("starting run", "run_id", summary.RunID, "files", len(files), "workers", workers, "out", req.OutDir)

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			results[i] = r.Process(gctx, file, req.OutDir)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		switch res.Status {
		case StatusOK:
			summary.Processed++
		case StatusMalformed:
			summary.Malformed++
		default:
			summary.Failed++
		}
	}
	summary.Results = results

	log.Info("run complete",
		"run_id", summary.RunID,
		"processed", summary.Processed,
		"malformed", summary.Malformed,
		"failed", summary.Failed)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// Process builds the outline of one PDF and writes it to outDir.
func (r *Runner) Process(ctx context.Context, path, outDir string) Result {
	log := r.logger().With("file", filepath.Base(path))
	start := time.Now()
	res := Result{File: path}

	doc, report, err := r.Build(ctx, path)
	if err == nil {
		res.Output = filepath.Join(outDir, outputName(path, r.format()))
		err = writeDocument(res.Output, doc, r.format())
	}
	res.Duration = time.Since(start)

	if err != nil {
		res.Output = ""
		res.Status = Classify(err)
		res.Error = err.Error()
		if res.Status == StatusMalformed {
			log.Warn("skipping malformed PDF", "error", err)
		} else {
			log.Error("failed to process PDF", "error", err)
		}
		return res
	}

	res.Status = StatusOK
	res.Title = doc.Title
	res.Entries = len(doc.Outline)
	if report.HasBreakpoint {
		res.Breakpoint = report.Breakpoint.String()
	}
	log.Info("outline written",
		"output", res.Output,
		"title", doc.Title,
		"entries", res.Entries,
		"levels", report.AllCounts.String(),
		"duration", res.Duration)
	return res
}

// Build extracts and outlines one PDF without writing anything. A panic
// while reading the document is returned as an error.
func (r *Runner) Build(ctx context.Context, path string) (doc outline.Document, report outline.Report, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("unexpected error processing %s: %v", filepath.Base(path), rec)
		}
	}()

	src, err := r.Extractor.Extract(ctx, path)
	if err != nil {
		return doc, report, err
	}
	doc, report = r.Pipeline.Run(*src)

	if r.Validator != nil {
		if err := r.Validator.ValidateDocument(doc); err != nil {
			return doc, report, err
		}
	}
	return doc, report, nil
}

// Classify maps a processing error to a Status.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, pdftext.ErrMalformed):
		return StatusMalformed
	default:
		return StatusFailed
	}
}

// Encode renders a document in the given format.
func Encode(doc outline.Document, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writeDocument writes doc to path through a temporary file in the same
// directory, so readers never observe a partial outline.
func writeDocument(path string, doc outline.Document, format string) error {
	data, err := Encode(doc, format)
	if err != nil {
		return fmt.Errorf("failed to encode outline: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write outline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write outline: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move outline into place: %w", err)
	}
	return nil
}
