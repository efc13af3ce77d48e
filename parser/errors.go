package parser

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when a value is absent or blank. Callers that default
// empty cells to zero treat it as success.
var ErrEmpty = errors.New("empty value")

// AmountError is returned when a non-empty value cannot be read as an amount.
type AmountError struct {
	Text   string
	Reason string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Text, e.Reason)
}

// DateError is returned when a value cannot be resolved to a calendar date.
type DateError struct {
	Text string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q", e.Text)
}

// WeeksError is returned when the attended weeks are not a non-negative whole number.
type WeeksError struct {
	Text   string
	Reason string
}

func (e *WeeksError) Error() string {
	return fmt.Sprintf("invalid weeks %q: %s", e.Text, e.Reason)
}
