package annotations

import (
	"context"
	"errors"
	"io"
	"os"

	"concord/internal/fileutil"
)

// TSVBackend persists the store as a tab-separated file.
type TSVBackend struct {
	path string
}

// NewTSVBackend returns a backend writing to path. The file is created on the
// first Save.
func NewTSVBackend(path string) *TSVBackend {
	return &TSVBackend{path: path}
}

// Path returns the backing file path.
func (b *TSVBackend) Path() string { return b.path }

// Load returns the persisted rows, or nil when the file does not exist yet.
func (b *TSVBackend) Load(context.Context) ([]Record, error) {
	records, err := ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return records, err
}

// Save atomically replaces the file with records.
func (b *TSVBackend) Save(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fileutil.WriteAtomic(b.path, 0o644, func(w io.Writer) error {
		return WriteTSV(w, records)
	})
}

// Close is a no-op; the file is not held open between saves.
func (b *TSVBackend) Close() error { return nil }
