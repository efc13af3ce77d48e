package record

import "strings"

// CleanIdentifier uppercases and trims a fiscal identifier.
func CleanIdentifier(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
