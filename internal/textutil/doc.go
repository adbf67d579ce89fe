// Package textutil provides text normalization for exports and safe tokens
// for derived file names.
//
// Export text joins several corpus columns into one field of a
// tab-separated line, so embedded tabs and newlines are flattened to spaces
// and the result is normalized to Unicode NFC.
package textutil
