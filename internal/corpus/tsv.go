package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"concord/internal/fileutil"
)

// Load reads a corpus TSV file.
func Load(path string, opts Options) (*Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer file.Close()

	c, err := Read(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read parses a corpus from tab-separated rows with a header line. A missing
// split column leaves every item unassigned (visible only under "full").
func Read(r io.Reader, opts Options) (*Corpus, error) {
	reader := newTSVReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s (empty file)", ErrMissingColumn, opts.IDColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	idCol := slices.Index(header, opts.IDColumn)
	if idCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, opts.IDColumn)
	}
	splitCol := slices.Index(header, opts.SplitColumn)

	var items []Item
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrInvalidRow, line, len(row), len(header))
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[idCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s %q is not an integer", ErrInvalidRow, line, opts.IDColumn, row[idCol])
		}
		item := Item{ID: id, Fields: make(map[string]string, len(header))}
		for i, name := range header {
			switch i {
			case idCol:
			case splitCol:
				item.Split = strings.TrimSpace(row[i])
			default:
				item.Fields[name] = row[i]
			}
		}
		items = append(items, item)
	}

	return New(opts, header, items)
}

// Write emits the corpus as TSV with its header, in corpus order.
func (c *Corpus) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writer.Write(c.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(c.columns))
	for _, item := range c.items {
		for i, name := range c.columns {
			switch name {
			case c.opts.IDColumn:
				row[i] = strconv.FormatInt(item.ID, 10)
			case c.opts.SplitColumn:
				row[i] = item.Split
			default:
				row[i] = item.Fields[name]
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write item %d: %w", item.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile atomically replaces path with the corpus contents.
func (c *Corpus) WriteFile(path string) error {
	return fileutil.WriteAtomic(path, 0o644, c.Write)
}

func newTSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false
	return reader
}
