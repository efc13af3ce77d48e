package parser

import (
	"errors"
	"strings"

	"github.com/fsecamp/reimburse/record"
)

// Normalize turns one Raw row into a typed Record. It is the single place
// where missing cells receive their defaults: absent amounts become zero, an
// unresolvable date becomes nil and a malformed weeks value is flagged rather
// than guessed. Normalize never fails.
func Normalize(raw record.Raw, index int, b record.Bindings) record.Record {
	rec := record.Record{
		Index:            index,
		Reference:        strings.TrimSpace(raw.Text(record.FieldReference)),
		CUP:              strings.TrimSpace(raw.Text(record.FieldCUP)),
		District:         strings.TrimSpace(raw.Text(record.FieldDistrict)),
		LeadMunicipality: strings.TrimSpace(raw.Text(record.FieldLeadMunicipality)),

		MandateNumber:  raw.Text(record.FieldMandateNumber),
		MandateDateRaw: raw.Text(b.RawDate),
		MandateHolder:  raw.Text(record.FieldMandateHolder),
		MandateAmount:  AmountOrZero(raw.Get(record.FieldMandateAmount)),

		CampMunicipality: raw.Text(record.FieldCampMunicipality),
		Camp:             raw.Text(record.FieldCamp),
		ParentName:       raw.Text(record.FieldParentName),
		ChildName:        raw.Text(record.FieldChildName),

		Identifier: record.CleanIdentifier(raw.Text(b.Identifier)),

		Contribution:       AmountOrZero(raw.Get(record.FieldContribution)),
		OtherContributions: AmountOrZero(raw.Get(record.FieldOtherContributions)),
		BeneficiaryShare:   AmountOrZero(raw.Get(record.FieldBeneficiaryShare)),
		TotalFee:           AmountOrZero(raw.Get(record.FieldTotalFee)),
	}

	if raw.Has(b.ParsedDate) {
		rec.MandateDate = DateOrNil(raw.Get(b.ParsedDate))
	} else {
		rec.MandateDate = DateOrNil(rec.MandateDateRaw)
	}

	weeksValue := raw.Get(record.FieldWeeks)
	count, err := ParseWeeks(weeksValue)
	rec.Weeks = record.Weeks{Count: count, Text: raw.Text(record.FieldWeeks), Valid: err == nil}

	rec.DeclaredControls = normalizeDeclared(raw.Get(b.DeclaredControls), raw.Text(b.DeclaredControls))

	return rec
}

// NormalizeAll normalizes every row of a batch, preserving order.
func NormalizeAll(batch *record.Batch, b record.Bindings) []record.Record {
	if batch == nil {
		return nil
	}
	records := make([]record.Record, len(batch.Rows))
	for i, raw := range batch.Rows {
		records[i] = Normalize(raw, i, b)
		if records[i].Reference == "" {
			records[i].Reference = batch.Reference
		}
	}
	return records
}

func normalizeDeclared(v any, text string) record.Declared {
	value, err := ParseAmount(v)
	switch {
	case err == nil:
		return record.Declared{Value: value, Text: text, Present: true, Numeric: true}
	case errors.Is(err, ErrEmpty):
		return record.Declared{Text: text}
	default:
		return record.Declared{Text: text, Present: true}
	}
}
