package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FieldSeparator joins text columns inside one export field.
const FieldSeparator = " [SEP] "

var lineBreakReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
	"\t", " ",
)

// Flatten replaces tabs and line breaks with spaces and NFC-normalizes s.
func Flatten(s string) string {
	return norm.NFC.String(lineBreakReplacer.Replace(s))
}

// JoinFields flattens each part and joins them with FieldSeparator.
func JoinFields(parts ...string) string {
	return Flatten(strings.Join(parts, FieldSeparator))
}
