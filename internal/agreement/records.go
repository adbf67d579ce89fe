package agreement

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

const maxLineBytes = 4 << 20

// Record is one validated export line.
type Record struct {
	ItemID      string
	AnnotatorID string
	Label       string
	Text        string
	File        string
	Line        int
}

// Triple is one rater's label for one item.
type Triple struct {
	AnnotatorID string
	ItemID      string
	Label       string
}

// ParseFile reads and parses an export file.
func ParseFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer file.Close()
	return Parse(file, path)
}

// Parse reads headerless four-field records. Trailing whitespace is stripped
// from each line before splitting on tabs. name labels errors.
func Parse(r io.Reader, name string) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)
		fields := strings.Split(raw, "\t")
		if reason := checkFields(fields); reason != "" {
			return nil, &MalformedRecordError{File: name, Line: line, Reason: reason, Fields: fields}
		}
		records = append(records, Record{
			ItemID:      fields[0],
			AnnotatorID: fields[1],
			Label:       fields[2],
			Text:        fields[3],
			File:        name,
			Line:        line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return records, nil
}

func checkFields(fields []string) string {
	switch {
	case len(fields) != 4:
		return fmt.Sprintf("expected 4 fields, got %d", len(fields))
	case fields[0] == "":
		return "item id is empty"
	case fields[1] == "":
		return "annotator id is empty"
	case fields[2] == "":
		return "label is empty"
	case fields[3] == "":
		return "text is empty"
	}
	return ""
}
