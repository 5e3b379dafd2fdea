package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/outline/internal/config"
	"github.com/jackzampolin/outline/internal/outline"
	"github.com/jackzampolin/outline/internal/pdftext"
)

// fakeExtractor serves sources by file name. broken.pdf is malformed and
// panic.pdf panics.
type fakeExtractor struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeExtractor) Extract(_ context.Context, path string) (*outline.Source, error) {
	base := filepath.Base(path)
	f.mu.Lock()
	f.calls = append(f.calls, base)
	f.mu.Unlock()

	switch base {
	case "broken.pdf":
		return nil, fmt.Errorf("%w: xref table not found", pdftext.ErrMalformed)
	case "panic.pdf":
		panic("content stream exploded")
	case "empty.pdf":
		return &outline.Source{}, nil
	}

	line := func(text string, size, y float64) outline.RawLine {
		return outline.RawLine{
			Text: text, FontSize: size, FontName: "Times-Roman", Page: 1,
			X0: 72, X1: 300, Y0: y, PageWidth: 612, PageHeight: 792,
		}
	}
	return &outline.Source{Lines: []outline.RawLine{
		line("Annual Report", 20, 720),
		line("the year in review", 10, 600),
		line("revenue grew", 10, 586),
		line("costs fell", 10, 572),
	}}, nil
}

type rejectAll struct{}

func (rejectAll) ValidateDocument(outline.Document) error {
	return errors.New("document does not match schema")
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4"), 0o644))
	}
}

func newRunner(t *testing.T) *Runner {
	t.Helper()
	pl, err := outline.NewPipeline(outline.DefaultParams(), nil)
	require.NoError(t, err)
	return &Runner{Extractor: &fakeExtractor{}, Pipeline: pl, Workers: 3}
}

func TestRun(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "out")
	touch(t, in, "report.pdf", "broken.pdf", "panic.pdf", "notes.txt")

	summary, err := newRunner(t).Run(context.Background(), Request{Inputs: []string{in}, OutDir: out})
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Malformed)
	assert.Equal(t, 1, summary.Failed)

	require.Len(t, summary.Results, 3)
	byName := make(map[string]Result)
	for _, r := range summary.Results {
		byName[filepath.Base(r.File)] = r
	}

	ok := byName["report.pdf"]
	assert.Equal(t, StatusOK, ok.Status)
	assert.Equal(t, "Annual Report", ok.Title)
	assert.Equal(t, 1, ok.Entries)
	assert.Equal(t, filepath.Join(out, "report.json"), ok.Output)

	data, err := os.ReadFile(ok.Output)
	require.NoError(t, err)
	var doc outline.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, outline.Document{
		Title:   "Annual Report",
		Outline: []outline.Entry{{Level: 1, Text: "Annual Report", Page: 1}},
	}, doc)

	assert.Equal(t, StatusMalformed, byName["broken.pdf"].Status)
	assert.Contains(t, byName["broken.pdf"].Error, "malformed")
	assert.Equal(t, StatusFailed, byName["panic.pdf"].Status)
	assert.Contains(t, byName["panic.pdf"].Error, "content stream exploded")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the successful document is written")
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestRunYAML(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "report.pdf")

	r := newRunner(t)
	r.Format = FormatYAML
	summary, err := r.Run(context.Background(), Request{Inputs: []string{filepath.Join(in, "report.pdf")}, OutDir: out})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Processed)

	data, err := os.ReadFile(filepath.Join(out, "report.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "level: H1")
	assert.Contains(t, string(data), "title: Annual Report")
}

func TestRunEmptyDocument(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "empty.pdf")

	summary, err := newRunner(t).Run(context.Background(), Request{Inputs: []string{in}, OutDir: out})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Processed)

	data, err := os.ReadFile(filepath.Join(out, "empty.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Untitled","outline":[]}`, string(data))
}

func TestRunNoInput(t *testing.T) {
	in := t.TempDir()
	touch(t, in, "readme.txt")

	summary, err := newRunner(t).Run(context.Background(), Request{Inputs: []string{in}, OutDir: t.TempDir()})
	require.ErrorIs(t, err, ErrNoInput)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Results)
	assert.Zero(t, summary.Processed)
}

func TestRunMissingInput(t *testing.T) {
	_, err := newRunner(t).Run(context.Background(), Request{
		Inputs: []string{filepath.Join(t.TempDir(), "missing.pdf")},
		OutDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoInput))
}

func TestRunValidationFailure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "report.pdf")

	r := newRunner(t)
	r.Validator = rejectAll{}
	summary, err := r.Run(context.Background(), Request{Inputs: []string{in}, OutDir: out})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, summary.Results[0].Output)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, StatusOK, Classify(nil))
	assert.Equal(t, StatusMalformed, Classify(fmt.Errorf("open: %w", pdftext.ErrMalformed)))
	assert.Equal(t, StatusFailed, Classify(errors.New("disk full")))
}

func TestEncode(t *testing.T) {
	doc := outline.Document{Title: "R&D <Plan>", Outline: []outline.Entry{{Level: 2, Text: "Überblick", Page: 3}}}

	data, err := Encode(doc, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "R&D <Plan>"`)
	assert.Contains(t, string(data), "Überblick")

	_, err = Encode(doc, "xml")
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "existing.pdf")

	results := make(chan Result, 4)
	ctx, cancel := context.WithCancel(context.Background())
	r := newRunner(t)
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, WatchRequest{
			Dir:      in,
			OutDir:   out,
			Existing: true,
			Settle:   20 * time.Millisecond,
			OnResult: func(r Result) { results <- r },
		})
	}()

	next := func() Result {
		select {
		case r := <-results:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watch result")
			return Result{}
		}
	}

	first := next()
	assert.Equal(t, "existing.pdf", filepath.Base(first.File))

	// Give the watcher a moment before dropping a new file in.
	time.Sleep(100 * time.Millisecond)
	touch(t, in, "arrived.pdf", "ignored.txt")

	second := next()
	assert.Equal(t, "arrived.pdf", filepath.Base(second.File))
	assert.Equal(t, StatusOK, second.Status)
	_, err := os.Stat(filepath.Join(out, "arrived.json"))
	assert.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	for _, name := range []string{"existing.json", "arrived.json"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
	leftovers, _ := filepath.Glob(filepath.Join(out, ".*.tmp"))
	assert.Empty(t, leftovers)
	assert.False(t, strings.HasSuffix(second.Output, ".tmp"))
}

func TestNewRunner(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Batch.Workers = 7
	cfg.Batch.Format = FormatYAML

	r, err := NewRunner(cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, r.Workers)
	assert.Equal(t, FormatYAML, r.Format)
	assert.Equal(t, cfg.Pipeline, r.Pipeline.Params())
	assert.IsType(t, &pdftext.Extractor{}, r.Extractor)

	cfg.Pipeline.ClusterTolerance = 0
	_, err = NewRunner(cfg, nil, nil)
	assert.Error(t, err)
}
