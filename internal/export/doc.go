// Package export compiles the four-column label files consumed by the
// agreement validator.
//
// The adjudicated export holds one gold label per labeled item from the local
// store. The individual export merges every configured annotator's store file,
// keeping labeled rows from the evaluation split, so that each item carries
// one row per annotator.
package export
