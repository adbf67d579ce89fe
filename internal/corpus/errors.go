package corpus

import "errors"

var (
	// ErrMissingColumn indicates the header lacks the identifier column.
	ErrMissingColumn = errors.New("corpus column missing")
	// ErrDuplicateID indicates two rows share an identifier.
	ErrDuplicateID = errors.New("duplicate corpus item id")
	// ErrInvalidRow indicates a row that cannot be parsed.
	ErrInvalidRow = errors.New("invalid corpus row")
	// ErrReservedSplit indicates a row tagged with the reserved "full" split.
	ErrReservedSplit = errors.New("reserved split name")
)
