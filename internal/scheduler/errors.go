package scheduler

import (
	"errors"

	"concord/internal/annotations"
)

var (
	// ErrExhaustedSplit indicates every item of the split is labeled.
	ErrExhaustedSplit = errors.New("split exhausted")
	// ErrUnknownItem indicates a submit for an id the store does not hold.
	ErrUnknownItem = annotations.ErrUnknownItem
	// ErrEmptyLabel indicates a blank label.
	ErrEmptyLabel = errors.New("label is empty")
	// ErrLabelNotAllowed indicates a label outside the configured vocabulary.
	ErrLabelNotAllowed = errors.New("label not in vocabulary")
)
