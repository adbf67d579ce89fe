// Package agreement validates exported label files and measures
// inter-annotator agreement.
//
// Export files are headerless four-column TSV: item id, annotator id, label,
// text. The adjudicated export carries one gold label per item and must cover
// a minimum number of items. The individual export merges every annotator's
// labels for the evaluation split; each item must carry exactly the configured
// number of raters, which is the precondition for Fleiss' kappa as computed
// here. Variable rater counts are rejected rather than handled with the
// generalized formula.
//
// Validation and statistical failures are reported as typed errors carrying
// the file, line, or item needed to fix the source data. No partial kappa is
// ever produced.
package agreement
