package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"concord/internal/annotations"
	"concord/internal/corpus"
	"concord/internal/logging"
)

// Progress is the labeled/total count for one split.
type Progress struct {
	Split   string `json:"split"`
	Labeled int    `json:"labeled"`
	Total   int    `json:"total"`
}

// Complete reports whether every item of the split is labeled.
func (p Progress) Complete() bool { return p.Labeled == p.Total }

// Remaining is the number of unlabeled items.
func (p Progress) Remaining() int { return p.Total - p.Labeled }

// Options configure a Scheduler.
type Options struct {
	// Vocabulary restricts accepted labels when non-empty.
	Vocabulary []string
	Logger     *slog.Logger
}

// Scheduler selects items to annotate and records labels.
type Scheduler struct {
	corpus     *corpus.Corpus
	store      *annotations.Store
	vocabulary []string
	logger     *slog.Logger

	schedules map[string][]int64

	mu      sync.Mutex
	cursors map[string]int
}

// New builds the per-split schedules from order, a permutation of corpus
// positions.
func New(c *corpus.Corpus, order []int, store *annotations.Store, opts Options) (*Scheduler, error) {
	if len(order) != c.Len() {
		return nil, fmt.Errorf("ordering covers %d positions, corpus has %d items", len(order), c.Len())
	}
	s := &Scheduler{
		corpus:     c,
		store:      store,
		vocabulary: slices.Clone(opts.Vocabulary),
		logger:     logging.NewComponentLogger(opts.Logger, "scheduler"),
		schedules:  make(map[string][]int64, len(c.Splits())+1),
		cursors:    make(map[string]int),
	}
	for _, split := range append(c.Splits(), corpus.SplitFull) {
		s.schedules[split] = make([]int64, 0, c.SplitSize(split))
	}
	for _, pos := range order {
		item := c.At(pos)
		s.schedules[corpus.SplitFull] = append(s.schedules[corpus.SplitFull], item.ID)
		if item.Split != "" {
			s.schedules[item.Split] = append(s.schedules[item.Split], item.ID)
		}
	}
	return s, nil
}

// NextItem returns the first unlabeled item of split in schedule order. It
// fails with ErrExhaustedSplit once the split is fully labeled. Unknown split
// names behave as empty splits.
func (s *Scheduler) NextItem(split string) (corpus.Item, error) {
	schedule := s.schedules[split]

	s.mu.Lock()
	cursor := s.cursors[split]
	for cursor < len(schedule) && s.store.Labeled(schedule[cursor]) {
		cursor++
	}
	if _, known := s.schedules[split]; known {
		s.cursors[split] = cursor
	}
	s.mu.Unlock()

	if cursor >= len(schedule) {
		return corpus.Item{}, fmt.Errorf("%w: %s", ErrExhaustedSplit, split)
	}
	item, _ := s.corpus.ByID(schedule[cursor])
	s.logger.Debug("next item selected",
		logging.String(logging.FieldSplit, split),
		logging.Int64(logging.FieldItemID, item.ID),
		logging.Int("position", cursor),
	)
	return item, nil
}

// Submit validates label and records it for itemID, overwriting any previous
// label. The store is persisted before Submit returns.
func (s *Scheduler) Submit(ctx context.Context, itemID int64, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyLabel
	}
	if len(s.vocabulary) > 0 && !slices.Contains(s.vocabulary, label) {
		return fmt.Errorf("%w: %q (allowed: %s)", ErrLabelNotAllowed, label, strings.Join(s.vocabulary, ", "))
	}
	if err := s.store.Submit(ctx, itemID, label); err != nil {
		return err
	}
	logging.WithContext(ctx, s.logger).Info("label submitted",
		logging.Int64(logging.FieldItemID, itemID),
		logging.String("label", label),
	)
	return nil
}

// Progress counts labeled items in split.
func (s *Scheduler) Progress(split string) Progress {
	schedule := s.schedules[split]
	return Progress{
		Split:   split,
		Labeled: s.store.CountLabeled(schedule),
		Total:   len(schedule),
	}
}

// Splits lists the concrete split names in corpus order followed by "full".
func (s *Scheduler) Splits() []string {
	return append(s.corpus.Splits(), corpus.SplitFull)
}

// Vocabulary returns the accepted labels, or nil when any label is accepted.
func (s *Scheduler) Vocabulary() []string { return slices.Clone(s.vocabulary) }
