// Package corpus loads the immutable collection of items offered for
// annotation.
//
// A corpus is a tab-separated file with a header row. One column holds the
// integer item identifier, one holds the split tag, and the rest are opaque
// text payload fields carried through to exports. Every item belongs to at
// most one concrete split; the reserved name "full" addresses the whole
// corpus. The package also owns seeded split assignment, the only operation
// that rewrites a corpus file.
package corpus
