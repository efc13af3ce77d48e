package validation

import (
	"regexp"
)

var (
	identifierBase      = regexp.MustCompile(`^[A-Z0-9]{16}$`)
	identifierStructure = regexp.MustCompile(`^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`)
)

// ValidateIdentifier checks a cleaned fiscal identifier against its structural
// shape: 6 letters, 2 digits, 1 letter, 2 digits, 1 letter, 3 digits, 1 letter.
//
// Only the shape is checked. The check character and omocodia substitutions
// (digits replaced by letters) are not handled, so identifiers that rely on
// omocodia are rejected as non-conforming.
func ValidateIdentifier(id string) Result {
	switch {
	case id == "":
		return failf(&IdentifierError{Identifier: id, Reason: IdentifierMissing}, "Identifier missing.")
	case !identifierBase.MatchString(id):
		return failf(&IdentifierError{Identifier: id, Reason: IdentifierBadFormat},
			"Identifier invalid (wrong base format: 16 alphanumeric characters).")
	case !identifierStructure.MatchString(id):
		return failf(&IdentifierError{Identifier: id, Reason: IdentifierBadStructure},
			"Identifier invalid (letter/digit structure non-conforming).")
	}
	return ok()
}
