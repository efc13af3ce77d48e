package record

import (
	"fmt"
	"strconv"
)

// RawOption configures a Raw row built with NewRaw.
type RawOption func(Raw)

// NewRaw builds a Raw row from options. Ingestion adapters and tests use it to
// assemble rows without spelling out field names.
//
// Example:
//
//	row := record.NewRaw(
//	    record.WithIdentifier("RSSMRA80A01H501U"),
//	    record.WithAmounts(180.0, 20.0, 10.0, 210.0),
//	    record.WithWeeks(2),
//	    record.WithDeclaredControls(9.0),
//	)
func NewRaw(opts ...RawOption) Raw {
	r := Raw{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithField sets an arbitrary field.
func WithField(name string, value any) RawOption {
	return func(r Raw) {
		r[name] = value
	}
}

// WithIdentifier sets both the raw identifier and its cleaned form, which is
// what ingestion does for every row.
func WithIdentifier(id string) RawOption {
	return func(r Raw) {
		r[FieldIdentifier] = id
		r[FieldIdentifierClean] = CleanIdentifier(id)
	}
}

// WithMandateDate sets the original date text and its parsed form.
func WithMandateDate(text string, parsed *Date) RawOption {
	return func(r Raw) {
		r[FieldMandateDateRaw] = text
		if parsed != nil {
			r[FieldMandateDate] = parsed
		} else {
			r[FieldMandateDate] = nil
		}
	}
}

// WithAmounts sets A, B, C and D.
func WithAmounts(a, b, c, d any) RawOption {
	return func(r Raw) {
		r[FieldContribution] = a
		r[FieldOtherContributions] = b
		r[FieldBeneficiaryShare] = c
		r[FieldTotalFee] = d
	}
}

// WithWeeks sets the attended weeks.
func WithWeeks(weeks any) RawOption {
	return WithField(FieldWeeks, weeks)
}

// WithDeclaredControls sets the declared formal-control amount.
func WithDeclaredControls(v any) RawOption {
	return WithField(FieldDeclaredControls, v)
}

// WithChild sets the child's display name.
func WithChild(name string) RawOption {
	return WithField(FieldChildName, name)
}

func stringify(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
