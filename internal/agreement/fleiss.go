package agreement

// Category is one label's share of all ratings.
type Category struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// Result holds the agreement statistics for a triple set.
type Result struct {
	Observed      float64    `json:"observed"`
	Expected      float64    `json:"expected"`
	Kappa         float64    `json:"kappa"`
	Items         int        `json:"items"`
	RatersPerItem int        `json:"raters_per_item"`
	Categories    []Category `json:"categories"`
}

const undefinedTolerance = 1e-12

// Fleiss computes Fleiss' kappa. Every item must have the same number of
// raters, at least two.
func Fleiss(triples []Triple) (Result, error) {
	if len(triples) == 0 {
		return Result{}, ErrNoItems
	}

	catIdx := make(map[string]int)
	var categories []Category
	itemIdx := make(map[string]int)
	var itemIDs []string
	var counts [][]int
	for _, tr := range triples {
		c, ok := catIdx[tr.Label]
		if !ok {
			c = len(categories)
			catIdx[tr.Label] = c
			categories = append(categories, Category{Label: tr.Label})
		}
		i, ok := itemIdx[tr.ItemID]
		if !ok {
			i = len(itemIDs)
			itemIdx[tr.ItemID] = i
			itemIDs = append(itemIDs, tr.ItemID)
			counts = append(counts, nil)
		}
		for len(counts[i]) <= c {
			counts[i] = append(counts[i], 0)
		}
		counts[i][c]++
		categories[c].Count++
	}

	m := 0
	for i, row := range counts {
		raters := 0
		for _, n := range row {
			raters += n
		}
		switch {
		case raters < 2:
			return Result{}, &RaterCountError{ItemID: itemIDs[i], Count: raters, Want: 2, Err: ErrInsufficientRaters}
		case m == 0:
			m = raters
		case raters != m:
			return Result{}, &RaterCountError{ItemID: itemIDs[i], Count: raters, Want: m, Err: ErrVariableRaters}
		}
	}

	n := len(counts)
	total := float64(n * m)
	expected := 0.0
	for j := range categories {
		p := float64(categories[j].Count) / total
		categories[j].Proportion = p
		expected += p * p
	}

	pairs := float64(m * (m - 1))
	observed := 0.0
	for _, row := range counts {
		agree := 0
		for _, c := range row {
			agree += c * (c - 1)
		}
		observed += float64(agree) / pairs
	}
	observed /= float64(n)

	if 1-expected <= undefinedTolerance {
		return Result{}, ErrUndefinedKappa
	}
	return Result{
		Observed:      observed,
		Expected:      expected,
		Kappa:         (observed - expected) / (1 - expected),
		Items:         n,
		RatersPerItem: m,
		Categories:    categories,
	}, nil
}
