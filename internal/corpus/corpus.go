package corpus

import (
	"fmt"
	"slices"
)

// SplitFull is the identity partition that contains every item.
const SplitFull = "full"

// Item is one corpus row. Items are immutable once loaded.
type Item struct {
	ID     int64
	Split  string
	Fields map[string]string
}

// Field returns a payload column value, or "" when the column is absent.
func (it Item) Field(name string) string {
	return it.Fields[name]
}

// Options names the structural columns of a corpus file.
type Options struct {
	IDColumn    string
	SplitColumn string
}

// DefaultOptions matches the harvester's output columns.
func DefaultOptions() Options {
	return Options{IDColumn: "datapoint_id", SplitColumn: "annotation_split"}
}

// Corpus is an ordered, read-only collection of items.
type Corpus struct {
	opts    Options
	columns []string
	items   []Item
	index   map[int64]int
	splits  []string
}

// New builds a corpus from items in the given order. columns lists the file
// columns for rewrites; when empty it is derived from opts and item fields.
func New(opts Options, columns []string, items []Item) (*Corpus, error) {
	c := &Corpus{
		opts:  opts,
		items: make([]Item, 0, len(items)),
		index: make(map[int64]int, len(items)),
	}
	seenSplit := make(map[string]struct{})
	for _, item := range items {
		if _, dup := c.index[item.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, item.ID)
		}
		if item.Split == SplitFull {
			return nil, fmt.Errorf("%w: item %d tagged %q", ErrReservedSplit, item.ID, SplitFull)
		}
		c.index[item.ID] = len(c.items)
		c.items = append(c.items, item)
		if item.Split == "" {
			continue
		}
		if _, ok := seenSplit[item.Split]; !ok {
			seenSplit[item.Split] = struct{}{}
			c.splits = append(c.splits, item.Split)
		}
	}
	c.columns = deriveColumns(opts, columns, items)
	return c, nil
}

func deriveColumns(opts Options, columns []string, items []Item) []string {
	if len(columns) > 0 {
		out := slices.Clone(columns)
		if !slices.Contains(out, opts.SplitColumn) {
			out = append(out, opts.SplitColumn)
		}
		return out
	}
	out := []string{opts.IDColumn}
	seen := map[string]struct{}{opts.IDColumn: {}, opts.SplitColumn: {}}
	for _, item := range items {
		var extra []string
		for name := range item.Fields {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				extra = append(extra, name)
			}
		}
		slices.Sort(extra)
		out = append(out, extra...)
	}
	return append(out, opts.SplitColumn)
}

// Len reports the number of items.
func (c *Corpus) Len() int { return len(c.items) }

// At returns the item at position i in corpus order.
func (c *Corpus) At(i int) Item { return c.items[i] }

// Items returns the items in corpus order. Callers must not modify the slice.
func (c *Corpus) Items() []Item { return c.items }

// Columns returns the file column order.
func (c *Corpus) Columns() []string { return slices.Clone(c.columns) }

// Options returns the structural column names.
func (c *Corpus) Options() Options { return c.opts }

// ByID looks up an item by identifier.
func (c *Corpus) ByID(id int64) (Item, bool) {
	pos, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[pos], true
}

// IDs returns every identifier in corpus order.
func (c *Corpus) IDs() []int64 {
	ids := make([]int64, len(c.items))
	for i, item := range c.items {
		ids[i] = item.ID
	}
	return ids
}

// Splits returns the concrete split names in first-seen order.
func (c *Corpus) Splits() []string { return slices.Clone(c.splits) }

// SplitSize counts the items visible under split.
func (c *Corpus) SplitSize(split string) int {
	if split == SplitFull {
		return len(c.items)
	}
	n := 0
	for _, item := range c.items {
		if item.Split == split {
			n++
		}
	}
	return n
}
