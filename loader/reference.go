package loader

import (
	"fmt"
	"regexp"
	"strings"
)

var referencePattern = regexp.MustCompile(`^\d{4}-\d+/RER$`)

// ValidateReference checks that a funding reference has the form
// YEAR-NUMBER/RER, for example 2023-1234/RER. The message is suitable for
// display in both cases.
func ValidateReference(ref string) (bool, string) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return false, "❌ Reference not provided."
	}
	if referencePattern.MatchString(trimmed) {
		return true, fmt.Sprintf("✅ Reference '%s' has the correct format.", trimmed)
	}
	return false, fmt.Sprintf("❌ Reference '%s' is not in the required format (YYYY-NUMBER/RER). Example: 2023-1234/RER.", trimmed)
}
