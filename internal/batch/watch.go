package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// DefaultSettle is how long a PDF must go without write events before it is
// processed.
const DefaultSettle = 500 * time.Millisecond

// WatchRequest contains the parameters of a watch.
type WatchRequest struct {
	Dir      string        // Directory watched for PDFs
	OutDir   string        // Directory for outline files
	Existing bool          // Process PDFs already present when the watch starts
	Settle   time.Duration // Quiet period before a file is processed (default DefaultSettle)
	OnResult func(Result)  // Optional, called after each document
}

// Watch processes PDFs as they are created or rewritten in req.Dir until ctx
// is canceled.
func (r *Runner) Watch(ctx context.Context, req WatchRequest) error {
	log := r.logger().With("dir", req.Dir)

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(req.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", req.Dir, err)
	}

	settle := req.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	process := func(path string) {
		g.Go(func() error {
			res := r.Process(gctx, path, req.OutDir)
			if req.OnResult != nil {
				req.OnResult(res)
			}
			return nil
		})
	}

	if req.Existing {
		files, err := CollectInputs([]string{req.Dir})
		if err != nil && !errors.Is(err, ErrNoInput) {
			return err
		}
		for _, f := range files {
			process(f)
		}
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
	)
	ready := make(chan string)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	log.Info("watching for PDFs", "out", req.OutDir)
	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return nil

		case path := <-ready:
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			if _, err := os.Stat(path); err != nil {
				continue
			}
			process(path)

		case ev, ok := <-watcher.Events:
			if !ok {
				_ = g.Wait()
				return nil
			}
			if !IsPDF(ev.Name) || ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			path := filepath.Clean(ev.Name)
			mu.Lock()
			if t, ok := pending[path]; ok {
				t.Reset(settle)
			} else {
				pending[path] = time.AfterFunc(settle, func() {
					select {
					case ready <- path:
					case <-ctx.Done():
					}
				})
			}
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				_ = g.Wait()
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}
