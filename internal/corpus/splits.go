package corpus

import (
	"errors"

	"concord/internal/ordering"
)

// AssignSplits returns a copy of c where a seeded half of the items (rounded
// down) is tagged first and the remainder second. Existing split tags are
// replaced. The same seed and corpus size always select the same positions.
func AssignSplits(c *Corpus, seed uint64, first, second string) (*Corpus, error) {
	if first == "" || second == "" || first == second {
		return nil, errors.New("assign splits: two distinct split names are required")
	}
	n := c.Len()
	chosen := make([]bool, n)
	for _, pos := range ordering.Sample(seed, n, n/2) {
		chosen[pos] = true
	}

	items := make([]Item, n)
	for i, item := range c.items {
		item.Split = second
		if chosen[i] {
			item.Split = first
		}
		items[i] = item
	}
	return New(c.opts, c.columns, items)
}
