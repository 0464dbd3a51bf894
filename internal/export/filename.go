package export

import "strings"

// SanitizeTitle turns a document title into a filename stem: every rune
// outside [A-Za-z0-9] becomes '_' and the result is lower-cased. An empty
// title yields "resume".
func SanitizeTitle(title string) string {
	if title == "" {
		return "resume"
	}
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
