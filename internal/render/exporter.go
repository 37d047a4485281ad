package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/progress"
)

// Source is the progress state an exporter renders and follows.
type Source interface {
	Snapshot() progress.State
	Subscribe(fn progress.Listener) (unsubscribe func())
}

// Exporter writes every page as static HTML into a directory and can keep
// the files current by rewriting them on each progress change.
type Exporter struct {
	dir      string
	renderer *Renderer
	roadmap  *domain.Roadmap
	source   Source
	opts     Options
	logger   *slog.Logger

	// mu serialises exports. Each run snapshots under it, so the last
	// run to finish wrote the newest state.
	mu sync.Mutex
}

func NewExporter(dir string, renderer *Renderer, roadmap *domain.Roadmap, source Source, opts Options, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts.Static = true
	return &Exporter{
		dir:      dir,
		renderer: renderer,
		roadmap:  roadmap,
		source:   source,
		opts:     opts,
		logger:   logger,
	}
}

func (e *Exporter) Dir() string { return e.dir }

// Export renders all pages from one snapshot and returns the written paths.
func (e *Exporter) Export(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	state := e.source.Snapshot()

	var written []string
	for _, p := range Pages {
		opts := e.opts
		opts.Day = ""
		path, err := e.write(FileName(p), Build(e.roadmap, state, p, opts))
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	for w, wk := range e.roadmap.Weeks {
		for d := range wk.Days {
			opts := e.opts
			opts.Day = domain.DayKey(w, d)
			path, err := e.write(DayFileName(w, d), Build(e.roadmap, state, PageCalendar, opts))
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	e.logger.DebugContext(ctx, "exported pages", "dir", e.dir, "count", len(written))
	return written, nil
}

func (e *Exporter) write(name string, data PageData) (string, error) {
	var buf bytes.Buffer
	if err := e.renderer.Render(&buf, data); err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, name)
	tmp, err := os.CreateTemp(e.dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("replacing %s: %w", name, err)
	}
	return path, nil
}

// Watch re-exports after every change until the returned function is called.
// Export failures are logged; the next change tries again.
func (e *Exporter) Watch(ctx context.Context) (stop func()) {
	return e.source.Subscribe(func(c progress.Change) {
		if _, err := e.Export(ctx); err != nil {
			e.logger.WarnContext(ctx, "export failed", "dir", e.dir, "task_id", c.TaskID, "error", err)
		}
	})
}
