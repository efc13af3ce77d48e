package validation

import (
	"github.com/shopspring/decimal"

	"github.com/fsecamp/reimburse/record"
)

// ValidateDate checks that the mandate date was resolved. The failure message
// echoes the original text.
func ValidateDate(rec record.Record) Result {
	if rec.MandateDate.IsZero() {
		return failf(&DateError{Text: rec.MandateDateRaw}, "Date not recognized: %q", rec.MandateDateRaw)
	}
	return passf("OK (%s)", rec.MandateDate)
}

// ValidateSum checks that the total fee D equals A+B+C rounded to two decimals.
func ValidateSum(cfg *Config, rec record.Record) Result {
	sum := rec.Contribution.Add(rec.OtherContributions).Add(rec.BeneficiaryShare).Round(2)
	if AmountEqual(rec.TotalFee, sum, cfg.Tolerance) {
		return ok()
	}
	err := &SumMismatchError{
		Contribution:       rec.Contribution,
		OtherContributions: rec.OtherContributions,
		BeneficiaryShare:   rec.BeneficiaryShare,
		TotalFee:           rec.TotalFee,
		Sum:                sum,
	}
	return failf(err, "Total fee D=%s ≠ sum A+B+C=%s (A=%s, B=%s, C=%s)",
		amountText(rec.TotalFee), sum.StringFixed(2),
		rec.Contribution.StringFixed(2), rec.OtherContributions.StringFixed(2), rec.BeneficiaryShare.StringFixed(2))
}

// ValidateContribution applies the contribution caps to A, in order:
//
//  1. weeks must be a whole, non-negative number
//  2. A must not be negative
//  3. A must not exceed the record cap
//  4. with zero weeks, A must be zero
//  5. A must not exceed min(round(D/weeks, 2), weekly cap) * weeks
func ValidateContribution(cfg *Config, rec record.Record) Result {
	a := rec.Contribution
	amount := a.StringFixed(2)

	if !rec.Weeks.Valid {
		return failf(&InvalidWeeksError{Text: rec.Weeks.Text}, "Weeks value %q is not a valid whole number", rec.Weeks.Text)
	}
	if a.IsNegative() {
		return failf(&ContributionCapError{Violation: ContributionNegative, Contribution: a},
			"Contribution A=%s cannot be negative", amount)
	}
	if exceeds(a, cfg.RecordCap, cfg.CapTolerance) {
		return failf(&ContributionCapError{Violation: ContributionOverRecordCap, Contribution: a, Limit: cfg.RecordCap},
			"Contribution A=%s exceeds cap %s per record", amount, cfg.RecordCap.StringFixed(2))
	}

	weeks := rec.Weeks.Count
	if weeks == 0 {
		if AmountEqual(a, decimal.Zero, cfg.Tolerance) {
			return passf("OK (0 weeks, contribution A=0)")
		}
		return failf(&ContributionCapError{Violation: ContributionWithoutWeeks, Contribution: a},
			"Zero weeks but positive contribution A=%s", amount)
	}

	w := decimal.NewFromInt(int64(weeks))
	costPerWeek := rec.TotalFee.DivRound(w, 2)
	weekly := decimal.Min(costPerWeek, cfg.WeeklyCap)
	limit := weekly.Mul(w).Round(2)
	if exceeds(a, limit, cfg.CapTolerance) {
		err := &ContributionCapError{
			Violation:    ContributionOverComputedMax,
			Contribution: a,
			Limit:        limit,
			Weeks:        weeks,
			WeeklyRate:   weekly,
		}
		return failf(err, "Contribution A=%s exceeds max computable (%s = %d weeks * %s/week)",
			amount, limit.StringFixed(2), weeks, weekly.StringFixed(2))
	}
	return ok()
}

// ValidateFormalControls compares the declared formal controls with
// round(A * rate, 2). A missing declaration is blocking. A non-numeric
// declaration is only informational when nothing is owed.
func ValidateFormalControls(cfg *Config, rec record.Record) Result {
	computed := cfg.FormalControls(rec.Contribution)
	declared := rec.DeclaredControls
	want := computed.StringFixed(2)

	switch {
	case !declared.Present:
		return failf(&FormalControlError{Problem: FormalControlsMissing, Declared: declared, Computed: computed},
			"Declared formal controls missing (computed=%s)", want)
	case !declared.Numeric:
		err := &FormalControlError{Problem: FormalControlsNonNumeric, Declared: declared, Computed: computed}
		if AmountEqual(computed, decimal.Zero, cfg.Tolerance) {
			return infof(err, "Declared value %q non-numeric (computed=%s)", declared.Text, want)
		}
		return failf(err, "Declared value %q non-numeric (computed=%s)", declared.Text, want)
	case !AmountEqual(declared.Value, computed, cfg.Tolerance):
		return failf(&FormalControlError{Problem: FormalControlsMismatch, Declared: declared, Computed: computed},
			"Declared=%s ≠ computed=%s", amountText(declared.Value), want)
	}
	return passf("OK (declared=%s, computed=%s)", declared.Value.StringFixed(2), want)
}
