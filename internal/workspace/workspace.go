package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"concord/internal/annotations"
	"concord/internal/config"
	"concord/internal/corpus"
	"concord/internal/logging"
	"concord/internal/ordering"
	"concord/internal/scheduler"
)

// Options adjust how the workspace opens its store.
type Options struct {
	// ReadOnly skips the writer lock; submits fail with annotations.ErrReadOnly.
	ReadOnly bool
}

// Workspace owns the loaded corpus, ordering, store and scheduler.
type Workspace struct {
	Config    *config.Config
	Corpus    *corpus.Corpus
	Ordering  []int
	Store     *annotations.Store
	Scheduler *scheduler.Scheduler

	logger *slog.Logger
}

// Open loads everything the scheduler needs. The store is created when absent.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Workspace, error) {
	if cfg == nil {
		return nil, errors.New("workspace: config is required")
	}
	logger = logging.NewComponentLogger(logger, "workspace")

	if !opts.ReadOnly {
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("ensure directories: %w", err)
		}
	}

	c, err := corpus.Load(cfg.Paths.CorpusFile, CorpusOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	order := ordering.Generate(cfg.Schedule.Seed, c.Len())

	backend, err := OpenBackend(ctx, cfg, opts.ReadOnly)
	if err != nil {
		return nil, err
	}
	store, err := annotations.Open(ctx, backend, c.IDs(), annotations.Options{ReadOnly: opts.ReadOnly, Logger: logger})
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("open annotation store: %w", err)
	}

	sched, err := scheduler.New(c, order, store, scheduler.Options{Vocabulary: cfg.Labels.Vocabulary, Logger: logger})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build scheduler: %w", err)
	}

	logger.Info("workspace opened",
		logging.String("corpus", cfg.Paths.CorpusFile),
		logging.Int("items", c.Len()),
		logging.String("store", store.Path()),
		logging.String("backend", cfg.Store.Backend),
		logging.Bool("read_only", opts.ReadOnly),
	)
	return &Workspace{
		Config:    cfg,
		Corpus:    c,
		Ordering:  order,
		Store:     store,
		Scheduler: sched,
		logger:    logger,
	}, nil
}

// Close releases the store.
func (w *Workspace) Close() error {
	if w == nil || w.Store == nil {
		return nil
	}
	err := w.Store.Close()
	w.Store = nil
	if err != nil {
		w.logger.Warn("workspace close failed", logging.Error(err))
		return err
	}
	w.logger.Debug("workspace closed")
	return nil
}

// CorpusOptions maps the configured column names.
func CorpusOptions(cfg *config.Config) corpus.Options {
	return corpus.Options{IDColumn: cfg.Corpus.IDColumn, SplitColumn: cfg.Corpus.SplitColumn}
}

// OpenBackend opens the configured store backend without loading it. A
// read-only SQLite backend never modifies the database file.
func OpenBackend(ctx context.Context, cfg *config.Config, readOnly bool) (annotations.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		open := annotations.OpenSQLite
		if readOnly {
			open = annotations.OpenSQLiteReadOnly
		}
		backend, err := open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return backend, nil
	case config.BackendTSV:
		return annotations.NewTSVBackend(cfg.Paths.AnnotationsFile), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}
