package agreement

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedRecord indicates a line that is not a valid four-field record.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInsufficientCoverage indicates too few distinct items in a file.
	ErrInsufficientCoverage = errors.New("insufficient coverage")
	// ErrUnbalancedAnnotation indicates an item without exactly the required rater count.
	ErrUnbalancedAnnotation = errors.New("unbalanced annotation")
	// ErrInsufficientRaters indicates an item with fewer than two raters.
	ErrInsufficientRaters = errors.New("insufficient raters")
	// ErrVariableRaters indicates items with differing rater counts.
	ErrVariableRaters = errors.New("variable rater counts")
	// ErrUndefinedKappa indicates expected agreement of 1, where kappa has no value.
	ErrUndefinedKappa = errors.New("kappa undefined: expected agreement is 1")
	// ErrNoItems indicates an empty triple set.
	ErrNoItems = errors.New("no annotated items")
)

// MalformedRecordError locates a bad line.
type MalformedRecordError struct {
	File   string
	Line   int
	Reason string
	Fields []string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s (fields: %q)", e.File, e.Line, ErrMalformedRecord, e.Reason, strings.Join(e.Fields, " | "))
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// InsufficientCoverageError reports how many distinct items a file holds.
type InsufficientCoverageError struct {
	File string
	Have int
	Want int
}

func (e *InsufficientCoverageError) Error() string {
	return fmt.Sprintf("%s: %s: need labels for at least %d items, file has %d", e.File, ErrInsufficientCoverage, e.Want, e.Have)
}

func (e *InsufficientCoverageError) Unwrap() error { return ErrInsufficientCoverage }

// UnbalancedAnnotationError names the item whose rater count is wrong.
type UnbalancedAnnotationError struct {
	File   string
	ItemID string
	Count  int
	Want   int
}

func (e *UnbalancedAnnotationError) Error() string {
	return fmt.Sprintf("%s: %s: item %s has %d annotations, want exactly %d", e.File, ErrUnbalancedAnnotation, e.ItemID, e.Count, e.Want)
}

func (e *UnbalancedAnnotationError) Unwrap() error { return ErrUnbalancedAnnotation }

// RaterCountError reports a rater-count precondition failure in the kappa
// calculation. It wraps ErrInsufficientRaters or ErrVariableRaters.
type RaterCountError struct {
	ItemID string
	Count  int
	Want   int
	Err    error
}

func (e *RaterCountError) Error() string {
	if errors.Is(e.Err, ErrVariableRaters) {
		return fmt.Sprintf("%s: item %s has %d raters, earlier items have %d", e.Err, e.ItemID, e.Count, e.Want)
	}
	return fmt.Sprintf("%s: item %s has %d raters, need at least 2", e.Err, e.ItemID, e.Count)
}

func (e *RaterCountError) Unwrap() error { return e.Err }
