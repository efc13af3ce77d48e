package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fsecamp/reimburse/record"
)

// Check names one rule of the validation engine.
type Check string

const (
	CheckIdentifier     Check = "identifier"
	CheckDate           Check = "date"
	CheckSum            Check = "sum"
	CheckContribution   Check = "contribution"
	CheckFormalControls Check = "formal_controls"
	CheckBeneficiaryCap Check = "beneficiary_cap"
	CheckDuplicate      Check = "duplicate"
)

// IdentifierReason classifies an identifier failure.
type IdentifierReason int

const (
	IdentifierMissing IdentifierReason = iota
	IdentifierBadFormat
	IdentifierBadStructure
)

func (r IdentifierReason) String() string {
	switch r {
	case IdentifierMissing:
		return "missing"
	case IdentifierBadFormat:
		return "wrong base format"
	default:
		return "non-conforming structure"
	}
}

// IdentifierError is returned when a fiscal identifier is missing or malformed.
type IdentifierError struct {
	Identifier string
	Reason     IdentifierReason
}

func (e *IdentifierError) Error() string {
	if e.Reason == IdentifierMissing {
		return "identifier missing"
	}
	return fmt.Sprintf("identifier %q invalid: %s", e.Identifier, e.Reason)
}

func (e *IdentifierError) GetIdentifier() string {
	return e.Identifier
}

// DateError is returned when the mandate date could not be resolved.
type DateError struct {
	Text string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("date not recognized: %q", e.Text)
}

// SumMismatchError is returned when the total fee D differs from A+B+C.
type SumMismatchError struct {
	Contribution       decimal.Decimal
	OtherContributions decimal.Decimal
	BeneficiaryShare   decimal.Decimal
	TotalFee           decimal.Decimal
	Sum                decimal.Decimal
}

func (e *SumMismatchError) Error() string {
	return fmt.Sprintf("total fee %s does not match A+B+C=%s",
		amountText(e.TotalFee), e.Sum.StringFixed(2))
}

// InvalidWeeksError is returned when the attended weeks are not a whole,
// non-negative number. It is a data error rather than a rule violation.
type InvalidWeeksError struct {
	Text string
}

func (e *InvalidWeeksError) Error() string {
	return fmt.Sprintf("weeks value %q is not a valid whole number", e.Text)
}

// ContributionViolation classifies a contribution cap failure.
type ContributionViolation int

const (
	ContributionNegative ContributionViolation = iota
	ContributionOverRecordCap
	ContributionWithoutWeeks
	ContributionOverComputedMax
)

// ContributionCapError is returned when A violates one of the contribution caps.
type ContributionCapError struct {
	Violation    ContributionViolation
	Contribution decimal.Decimal
	// Limit is the cap that was exceeded. It is zero for negative contributions
	// and for contributions without attended weeks.
	Limit decimal.Decimal
	Weeks int
	// WeeklyRate is the per-week rate the computed maximum was derived from.
	WeeklyRate decimal.Decimal
}

func (e *ContributionCapError) Error() string {
	a := e.Contribution.StringFixed(2)
	switch e.Violation {
	case ContributionNegative:
		return fmt.Sprintf("contribution %s is negative", a)
	case ContributionOverRecordCap:
		return fmt.Sprintf("contribution %s exceeds record cap %s", a, e.Limit.StringFixed(2))
	case ContributionWithoutWeeks:
		return fmt.Sprintf("contribution %s with zero weeks", a)
	default:
		return fmt.Sprintf("contribution %s exceeds %s (%d weeks at %s)",
			a, e.Limit.StringFixed(2), e.Weeks, e.WeeklyRate.StringFixed(2))
	}
}

// FormalControlProblem classifies a formal-control failure.
type FormalControlProblem int

const (
	FormalControlsMissing FormalControlProblem = iota
	FormalControlsNonNumeric
	FormalControlsMismatch
)

// FormalControlError is returned when the declared formal controls are
// missing, non-numeric or differ from the computed amount.
type FormalControlError struct {
	Problem  FormalControlProblem
	Declared record.Declared
	Computed decimal.Decimal
}

func (e *FormalControlError) Error() string {
	computed := e.Computed.StringFixed(2)
	switch e.Problem {
	case FormalControlsMissing:
		return fmt.Sprintf("declared formal controls missing (computed %s)", computed)
	case FormalControlsNonNumeric:
		return fmt.Sprintf("declared formal controls %q non-numeric (computed %s)", e.Declared.Text, computed)
	default:
		return fmt.Sprintf("declared formal controls %s differ from computed %s",
			amountText(e.Declared.Value), computed)
	}
}

// DuplicateIdentifierError is returned when a valid identifier occurs in more
// than one record of the batch.
type DuplicateIdentifierError struct {
	Identifier string
	// Indexes are the 0-based positions of the records sharing the identifier.
	Indexes []int
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("identifier %q appears %d times in the batch", e.Identifier, len(e.Indexes))
}

func (e *DuplicateIdentifierError) GetIdentifier() string {
	return e.Identifier
}

// Count returns the number of occurrences.
func (e *DuplicateIdentifierError) Count() int {
	return len(e.Indexes)
}

// BeneficiaryCapError is returned for every record of an identifier whose
// cumulative contribution exceeds the per-beneficiary cap.
type BeneficiaryCapError struct {
	Identifier string
	Total      decimal.Decimal
	Cap        decimal.Decimal
}

func (e *BeneficiaryCapError) Error() string {
	return fmt.Sprintf("identifier %q receives %s in the batch, above cap %s",
		e.Identifier, e.Total.StringFixed(2), e.Cap.StringFixed(2))
}

func (e *BeneficiaryCapError) GetIdentifier() string {
	return e.Identifier
}

// RecordError locates a check failure in the batch.
type RecordError struct {
	// Row is the display label: the 1-based row number shifted by the
	// caller's offset, or "Batch" for batch-scope findings.
	Row string
	// Index is the 0-based record position, or -1 for batch-scope findings.
	Index int
	Check Check
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("row %s: %s: %v", e.Row, e.Check, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func (e *RecordError) GetRow() string {
	return e.Row
}

func (e *RecordError) GetIndex() int {
	return e.Index
}

// ValidationErrors wraps the blocking errors of a report.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// BindingError is returned by Validate when the field bindings are unusable.
// It signals a programming error in the caller, never bad input data.
type BindingError struct {
	Binding string
	Reason  string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("invalid binding %s: %s", e.Binding, e.Reason)
}
