// Package app composes the runtime every entrypoint shares: the content
// tree, the progress store behind the configured slot, the progress service
// and the HTML renderer.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/content"
	"github.com/alexanderramin/roadmap/internal/db"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/logging"
	"github.com/alexanderramin/roadmap/internal/progress"
	"github.com/alexanderramin/roadmap/internal/render"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/alexanderramin/roadmap/internal/storage"
)

// Runtime is one opened roadmap session.
type Runtime struct {
	Roadmap  *domain.Roadmap
	Store    *progress.Store
	Progress service.ProgressService
	Renderer *render.Renderer

	closers []func() error
}

// OpenSlot returns the persistence slot selected by cfg.Storage and a
// function releasing it.
func OpenSlot(cfg config.Config) (progress.Slot, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Storage {
	case config.StorageSQLite:
		conn, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewSQLiteSlot(conn), conn.Close, nil
	case config.StorageFile:
		return storage.NewFileSlot(cfg.StateFile), noop, nil
	case config.StorageMemory:
		return storage.NewMemorySlot(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

// Open loads the content tree and progress state named by cfg. A slot that
// holds no readable progress yields an empty store; only content and slot
// setup failures are errors.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	roadmap, err := content.LoadFile(cfg.ContentPath)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	slot, closeSlot, err := OpenSlot(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}

	store := progress.Open(ctx, slot,
		progress.WithKey(cfg.StorageKey),
		progress.WithLogger(logger),
	)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	logger.DebugContext(ctx, "roadmap opened",
		"content", cfg.ContentPath,
		"storage", cfg.Storage,
		"tasks", roadmap.TaskCount(),
		"done", store.Len(),
	)

	return &Runtime{
		Roadmap:  roadmap,
		Store:    store,
		Progress: service.NewProgressService(roadmap, store, observers...),
		Renderer: renderer,
		closers:  []func() error{closeSlot},
	}, nil
}

// Close releases the persistence slot. It is safe to call more than once.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	r.closers = nil
	return errors.Join(errs...)
}
