package annotations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gofrs/flock"

	"concord/internal/logging"
)

// Backend persists the complete record set.
type Backend interface {
	Path() string
	// Load returns the persisted rows, or nil when nothing is stored yet.
	Load(ctx context.Context) ([]Record, error)
	// Save durably replaces the persisted rows with records.
	Save(ctx context.Context, records []Record) error
	Close() error
}

// Options control how a Store is opened.
type Options struct {
	ReadOnly bool
	Logger   *slog.Logger
}

// Store is the shared item-to-label mapping. Readers take snapshots under a
// read lock; writers are serialized and update memory only after the backend
// accepted the new state.
type Store struct {
	backend  Backend
	lock     *flock.Flock
	readOnly bool
	logger   *slog.Logger

	writeMu sync.Mutex

	mu      sync.RWMutex
	records []Record
	index   map[int64]int
}

// Open builds a store holding one record per id, in the given order. Persisted
// labels are restored; ids missing from the backend start unlabeled and are
// written back immediately unless the store is read-only. Persisted ids that
// are not in ids fail with ErrCorpusMismatch.
func Open(ctx context.Context, backend Backend, ids []int64, opts Options) (*Store, error) {
	logger := logging.NewComponentLogger(opts.Logger, "annotations")
	s := &Store{
		backend:  backend,
		readOnly: opts.ReadOnly,
		logger:   logger,
		records:  make([]Record, len(ids)),
		index:    make(map[int64]int, len(ids)),
	}
	for i, id := range ids {
		if _, dup := s.index[id]; dup {
			return nil, fmt.Errorf("duplicate item id %d", id)
		}
		s.index[id] = i
		s.records[i] = Record{ItemID: id}
	}

	if !opts.ReadOnly {
		lockPath := backend.Path() + ".lock"
		lock := flock.New(lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire store lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		s.lock = lock
	}

	persisted, err := backend.Load(ctx)
	if err != nil {
		s.releaseLock()
		return nil, fmt.Errorf("load annotations: %w", err)
	}
	labeled := 0
	for _, rec := range persisted {
		pos, ok := s.index[rec.ItemID]
		if !ok {
			s.releaseLock()
			return nil, fmt.Errorf("%w: item %d in %s is not in the corpus", ErrCorpusMismatch, rec.ItemID, backend.Path())
		}
		s.records[pos] = rec
		if rec.Labeled {
			labeled++
		}
	}

	if len(persisted) < len(ids) && !opts.ReadOnly {
		if err := backend.Save(ctx, s.records); err != nil {
			s.releaseLock()
			return nil, fmt.Errorf("initialize annotations: %w", err)
		}
		logger.Info("annotation store initialized",
			logging.String("path", backend.Path()),
			logging.Int("added", len(ids)-len(persisted)),
		)
	}

	logger.Debug("annotation store opened",
		logging.String("path", backend.Path()),
		logging.Int("items", len(ids)),
		logging.Int("labeled", labeled),
		logging.Bool("read_only", opts.ReadOnly),
	)
	return s, nil
}

// Len reports the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Path returns the backend location.
func (s *Store) Path() string { return s.backend.Path() }

// ReadOnly reports whether Submit is disabled.
func (s *Store) ReadOnly() bool { return s.readOnly }

// Get returns the record for id.
func (s *Store) Get(id int64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.records[pos], true
}

// Labeled reports whether id currently has a label. Unknown ids are unlabeled.
func (s *Store) Labeled(id int64) bool {
	rec, ok := s.Get(id)
	return ok && rec.Labeled
}

// CountLabeled counts how many of ids are labeled under a single snapshot.
func (s *Store) CountLabeled(ids []int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, id := range ids {
		if pos, ok := s.index[id]; ok && s.records[pos].Labeled {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of every record in store order.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Submit records label for id, replacing any previous label, and persists the
// full store before returning. On a persistence failure the in-memory state is
// left unchanged.
func (s *Store) Submit(ctx context.Context, id int64, label string) error {
	if s.readOnly {
		return ErrReadOnly
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	pos, ok := s.index[id]
	next := slices.Clone(s.records)
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}

	previous := next[pos]
	next[pos] = Record{ItemID: id, Label: label, Labeled: true}
	if err := s.backend.Save(ctx, next); err != nil {
		s.logger.Error("annotation persist failed",
			logging.Int64(logging.FieldItemID, id),
			logging.Error(err),
		)
		return fmt.Errorf("persist annotations: %w", err)
	}

	s.mu.Lock()
	s.records = next
	s.mu.Unlock()

	attrs := []logging.Attr{
		logging.Int64(logging.FieldItemID, id),
		logging.String("label", label),
	}
	if previous.Labeled && previous.Label != label {
		attrs = append(attrs, logging.String("previous_label", previous.Label))
	}
	s.logger.Debug("annotation recorded", logging.Args(attrs...)...)
	return nil
}

// Close releases the writer lock and the backend.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	err := s.backend.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil {
			err = errors.Join(err, fmt.Errorf("release store lock: %w", unlockErr))
		}
		s.lock = nil
	}
	return err
}

func (s *Store) releaseLock() {
	if s.lock != nil {
		_ = s.lock.Unlock()
		s.lock = nil
	}
}
