package agreement

// Count is a named tally in first-seen order.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary describes a validated export file.
type Summary struct {
	File       string  `json:"file"`
	Items      int     `json:"items"`
	Triples    int     `json:"triples"`
	Annotators []Count `json:"annotators,omitempty"`
	Labels     []Count `json:"labels,omitempty"`
}

// ValidateAdjudicated checks that records cover at least minItems distinct
// items.
func ValidateAdjudicated(records []Record, minItems int) (Summary, error) {
	summary := summarize(records)
	if summary.Items < minItems {
		return summary, &InsufficientCoverageError{File: summary.File, Have: summary.Items, Want: minItems}
	}
	return summary, nil
}

// ValidateIndividual checks a merged multi-annotator file: at least minItems
// distinct items, each rated by exactly ratersPerItem distinct annotators. A
// repeated (item, annotator) pair is malformed. It returns the summary and
// the rating triples in file order.
func ValidateIndividual(records []Record, minItems, ratersPerItem int) (Summary, []Triple, error) {
	type pair struct{ item, annotator string }
	seen := make(map[pair]struct{}, len(records))
	for _, rec := range records {
		key := pair{rec.ItemID, rec.AnnotatorID}
		if _, dup := seen[key]; dup {
			return Summary{}, nil, &MalformedRecordError{
				File:   rec.File,
				Line:   rec.Line,
				Reason: "annotator " + rec.AnnotatorID + " already labeled item " + rec.ItemID,
				Fields: []string{rec.ItemID, rec.AnnotatorID, rec.Label, rec.Text},
			}
		}
		seen[key] = struct{}{}
	}

	summary := summarize(records)
	if summary.Items < minItems {
		return summary, nil, &InsufficientCoverageError{File: summary.File, Have: summary.Items, Want: minItems}
	}

	perItem := make(map[string]int, summary.Items)
	var order []string
	for _, rec := range records {
		if _, ok := perItem[rec.ItemID]; !ok {
			order = append(order, rec.ItemID)
		}
		perItem[rec.ItemID]++
	}
	for _, id := range order {
		if perItem[id] != ratersPerItem {
			return summary, nil, &UnbalancedAnnotationError{File: summary.File, ItemID: id, Count: perItem[id], Want: ratersPerItem}
		}
	}

	triples := make([]Triple, len(records))
	for i, rec := range records {
		triples[i] = Triple{AnnotatorID: rec.AnnotatorID, ItemID: rec.ItemID, Label: rec.Label}
	}
	return summary, triples, nil
}

func summarize(records []Record) Summary {
	var summary Summary
	if len(records) > 0 {
		summary.File = records[0].File
	}

	type pair struct{ a, b string }
	items := make(map[string]struct{})
	triples := make(map[[3]string]struct{})
	annotatorItems := make(map[pair]struct{})
	annotatorIdx := make(map[string]int)
	labelIdx := make(map[string]int)

	for _, rec := range records {
		items[rec.ItemID] = struct{}{}
		triples[[3]string{rec.AnnotatorID, rec.ItemID, rec.Label}] = struct{}{}

		idx, ok := annotatorIdx[rec.AnnotatorID]
		if !ok {
			idx = len(summary.Annotators)
			annotatorIdx[rec.AnnotatorID] = idx
			summary.Annotators = append(summary.Annotators, Count{Name: rec.AnnotatorID})
		}
		if _, dup := annotatorItems[pair{rec.AnnotatorID, rec.ItemID}]; !dup {
			annotatorItems[pair{rec.AnnotatorID, rec.ItemID}] = struct{}{}
			summary.Annotators[idx].Count++
		}

		idx, ok = labelIdx[rec.Label]
		if !ok {
			idx = len(summary.Labels)
			labelIdx[rec.Label] = idx
			summary.Labels = append(summary.Labels, Count{Name: rec.Label})
		}
		summary.Labels[idx].Count++
	}
	summary.Items = len(items)
	summary.Triples = len(triples)
	return summary
}
