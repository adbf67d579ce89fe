package textutil

import "strings"

const fallbackToken = "unknown"

// SanitizeToken reduces an annotator id or similar label to a lowercase
// token usable in a file name. ASCII letters, digits, '-' and '_' survive;
// runs of anything else collapse into a single '_'.
func SanitizeToken(value string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(value) {
		if tokenRune(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	if out := strings.Trim(b.String(), "_-"); out != "" {
		return out
	}
	return fallbackToken
}

func tokenRune(r rune) bool {
	return ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') || r == '-' || r == '_'
}
