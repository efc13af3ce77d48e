// Package validation implements the reconciliation engine for expense
// batches. Validate normalizes every row, runs the per-record checks and the
// batch-level checks, and assembles a Report with a single blocking verdict.
//
// Validation Flow:
//
//	Validate(ctx, batch, bindings)
//	  ├─ parser.Normalize()          // Raw → Record, defaults at the boundary
//	  ├─ per record, in batch order:
//	  │    ├─ ValidateIdentifier()
//	  │    ├─ ValidateDate()
//	  │    ├─ ValidateSum()
//	  │    ├─ ValidateContribution()
//	  │    └─ ValidateFormalControls()
//	  ├─ duplicateOutcomes()         // one "Batch" row per repeated identifier
//	  └─ applyBeneficiaryCap()       // cumulative cap, linked by record index
//
// Bad cells never abort a run: they degrade to defaults and surface as check
// failures. Validate only returns an error for unusable field bindings.
//
// The engine holds no shared mutable state. Concurrent calls on different
// batches are safe.
package validation

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/fsecamp/reimburse/parser"
	"github.com/fsecamp/reimburse/record"
	"github.com/fsecamp/reimburse/telemetry"
)

// Validate runs the full rule set over a batch. The Config is taken from ctx
// (see Config.WithContext); the default rule set applies otherwise.
func Validate(ctx context.Context, batch *record.Batch, b record.Bindings) (*Report, error) {
	if err := checkBindings(b); err != nil {
		return nil, err
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("validation.validate (%d rows)", batch.Len()))
	defer timer.End()

	normalizeTimer := timer.Child("validation.normalize")
	records := parser.NormalizeAll(batch, b)
	normalizeTimer.End()

	report := ValidateRecords(ctx, records, b.RowOffset)
	if batch != nil {
		report.Reference = batch.Reference
	}
	return report, nil
}

// ValidateRecords runs the rule set over records that were already normalized.
// Each record's Index is reset to its position in the slice; the caller's
// slice is not modified.
func ValidateRecords(ctx context.Context, records []record.Record, rowOffset int) *Report {
	cfg := ConfigFromContext(ctx)
	records = slices.Clone(records)

	outcomes := make([]Outcome, 0, len(records))
	valid := make([]bool, len(records))
	for i, rec := range records {
		rec.Index = i
		records[i] = rec

		idResult := ValidateIdentifier(rec.Identifier)
		valid[i] = !idResult.Blocking()

		o := newOutcomeBuilder(rec, rowOffset).
			with(CheckIdentifier, idResult).
			with(CheckDate, ValidateDate(rec)).
			with(CheckSum, ValidateSum(cfg, rec)).
			with(CheckContribution, ValidateContribution(cfg, rec)).
			with(CheckFormalControls, ValidateFormalControls(cfg, rec)).
			build()
		outcomes = append(outcomes, o)
	}

	groups := groupByIdentifier(records, valid)
	applyBeneficiaryCap(cfg, groups, outcomes)
	outcomes = append(outcomes, duplicateOutcomes(groups)...)

	report := &Report{
		Outcomes:  outcomes,
		Records:   records,
		RowOffset: rowOffset,
		config:    cfg,
	}
	report.HasBlockingErrors = slices.ContainsFunc(outcomes, func(o Outcome) bool {
		return o.HasBlocking()
	})
	return report
}

func checkBindings(b record.Bindings) error {
	fields := []struct {
		name  string
		value string
	}{
		{"identifier", b.Identifier},
		{"raw date", b.RawDate},
		{"parsed date", b.ParsedDate},
		{"declared controls", b.DeclaredControls},
	}
	for _, f := range fields {
		if f.value == "" {
			return &BindingError{Binding: f.name, Reason: "field name is empty"}
		}
	}
	if b.RowOffset < 0 {
		return &BindingError{Binding: "row offset", Reason: fmt.Sprintf("must not be negative, got %d", b.RowOffset)}
	}
	return nil
}
