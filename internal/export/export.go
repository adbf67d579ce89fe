package export

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"concord/internal/annotations"
	"concord/internal/corpus"
	"concord/internal/fileutil"
	"concord/internal/textutil"
)

// AdjudicatedAnnotator is the annotator column value of adjudicated rows.
const AdjudicatedAnnotator = "adjudicated"

// Row is one export line.
type Row struct {
	ItemID      int64
	AnnotatorID string
	Label       string
	Text        string
}

// Source names one annotator's store file.
type Source struct {
	AnnotatorID string
	Path        string
}

// ItemText joins the named payload fields of item into one export field.
func ItemText(item corpus.Item, fields []string) string {
	parts := make([]string, len(fields))
	for i, name := range fields {
		parts[i] = item.Field(name)
	}
	return textutil.JoinFields(parts...)
}

// Adjudicated builds one row per labeled record, in record order. Records
// for ids outside the corpus are an error.
func Adjudicated(c *corpus.Corpus, records []annotations.Record, textFields []string) ([]Row, error) {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if !rec.Labeled {
			continue
		}
		item, ok := c.ByID(rec.ItemID)
		if !ok {
			return nil, fmt.Errorf("%w: item %d", annotations.ErrCorpusMismatch, rec.ItemID)
		}
		rows = append(rows, Row{
			ItemID:      rec.ItemID,
			AnnotatorID: AdjudicatedAnnotator,
			Label:       rec.Label,
			Text:        ItemText(item, textFields),
		})
	}
	return rows, nil
}

// Individual reads every source concurrently and merges labeled rows whose
// item belongs to split. Rows are grouped by source in the given order, then
// by file order.
func Individual(ctx context.Context, c *corpus.Corpus, split string, sources []Source, textFields []string) ([]Row, error) {
	perSource := make([][]Row, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := annotations.ReadFile(src.Path)
			if err != nil {
				return fmt.Errorf("annotator %s: %w", src.AnnotatorID, err)
			}
			rows := make([]Row, 0, len(records))
			for _, rec := range records {
				if !rec.Labeled {
					continue
				}
				item, ok := c.ByID(rec.ItemID)
				if !ok {
					return fmt.Errorf("annotator %s: %w: item %d", src.AnnotatorID, annotations.ErrCorpusMismatch, rec.ItemID)
				}
				if split != corpus.SplitFull && item.Split != split {
					continue
				}
				rows = append(rows, Row{
					ItemID:      rec.ItemID,
					AnnotatorID: src.AnnotatorID,
					Label:       rec.Label,
					Text:        ItemText(item, textFields),
				})
			}
			perSource[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Row
	for _, rows := range perSource {
		merged = append(merged, rows...)
	}
	return merged, nil
}

// Write emits rows as headerless tab-separated lines. Fields are flattened so
// each row stays on one line with exactly four fields.
func Write(w io.Writer, rows []Row) error {
	var b strings.Builder
	for _, row := range rows {
		b.Reset()
		b.WriteString(strconv.FormatInt(row.ItemID, 10))
		for _, field := range []string{row.AnnotatorID, row.Label, row.Text} {
			b.WriteByte('\t')
			b.WriteString(textutil.Flatten(field))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("write item %d: %w", row.ItemID, err)
		}
	}
	return nil
}

// WriteRecords atomically replaces path with rows.
func WriteRecords(path string, rows []Row) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, rows)
	})
}
