package annotations

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

const (
	columnID    = "datapoint_id"
	columnScore = "score"
)

// Record is the label state of one corpus item.
type Record struct {
	ItemID  int64  `json:"item_id"`
	Label   string `json:"label,omitempty"`
	Labeled bool   `json:"labeled"`
}

// ReadFile parses an annotation TSV such as another annotator's store file.
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer file.Close()

	records, err := ReadTSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadTSV parses "datapoint_id\tscore" rows with a header line, in file order.
// Extra columns are ignored. A blank score marks the item unlabeled.
func ReadTSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInvalidFile, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	idCol := slices.Index(header, columnID)
	scoreCol := slices.Index(header, columnScore)
	if idCol < 0 || scoreCol < 0 {
		return nil, fmt.Errorf("%w: header must contain %q and %q", ErrInvalidFile, columnID, columnScore)
	}

	var records []Record
	seen := make(map[int64]struct{})
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) <= max(idCol, scoreCol) {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrInvalidFile, line, len(row))
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[idCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s %q is not an integer", ErrInvalidFile, line, columnID, row[idCol])
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate %s %d", ErrInvalidFile, line, columnID, id)
		}
		seen[id] = struct{}{}
		label := strings.TrimSpace(row[scoreCol])
		records = append(records, Record{ItemID: id, Label: label, Labeled: label != ""})
	}
	return records, nil
}

// WriteTSV emits records with the "datapoint_id\tscore" header.
func WriteTSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writer.Write([]string{columnID, columnScore}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		score := ""
		if rec.Labeled {
			score = rec.Label
		}
		if err := writer.Write([]string{strconv.FormatInt(rec.ItemID, 10), score}); err != nil {
			return fmt.Errorf("write item %d: %w", rec.ItemID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
