package annotations

import "errors"

var (
	// ErrUnknownItem indicates an item id with no record in the store.
	ErrUnknownItem = errors.New("unknown item")
	// ErrReadOnly indicates a write against a store opened read-only.
	ErrReadOnly = errors.New("annotation store is read-only")
	// ErrLocked indicates another process holds the writer lock.
	ErrLocked = errors.New("annotation store is locked by another process")
	// ErrCorpusMismatch indicates persisted rows that do not belong to the corpus.
	ErrCorpusMismatch = errors.New("annotation store does not match corpus")
	// ErrInvalidFile indicates an annotation TSV that cannot be parsed.
	ErrInvalidFile = errors.New("invalid annotation file")
)
