package validation

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/fsecamp/reimburse/record"
)

// BatchRow is the row label of batch-scope outcomes.
const BatchRow = "Batch"

// Outcome is one row of a validation report. Record rows carry one Result per
// check; batch rows (Index -1) only carry Duplicate.
type Outcome struct {
	Row        string `json:"row"`
	Index      int    `json:"index"`
	Child      string `json:"child,omitempty"`
	Identifier string `json:"identifier,omitempty"`

	IdentifierCheck Result `json:"identifier_check"`
	Date            Result `json:"date"`
	Sum             Result `json:"sum"`
	Contribution    Result `json:"contribution"`
	FormalControls  Result `json:"formal_controls"`
	BeneficiaryCap  Result `json:"beneficiary_cap"`
	Duplicate       Result `json:"duplicate"`

	// Blocking lists the failing messages in check order.
	Blocking []string `json:"blocking"`
}

// IsBatch reports whether the outcome is a batch-scope row.
func (o *Outcome) IsBatch() bool {
	return o.Index < 0
}

// BlockingErrors joins the failing messages with "; ", or returns "none".
func (o *Outcome) BlockingErrors() string {
	if len(o.Blocking) == 0 {
		return NoBlockingErrors
	}
	return strings.Join(o.Blocking, "; ")
}

// HasBlocking reports whether the row carries any failure.
func (o *Outcome) HasBlocking() bool {
	if len(o.Blocking) > 0 {
		return true
	}
	for _, r := range o.Results() {
		if r.Result.Blocking() || IsFailureMessage(r.Result.Message) {
			return true
		}
	}
	return false
}

// CheckResult pairs a check with its result.
type CheckResult struct {
	Check  Check
	Result Result
}

// Results returns the populated check results of the row in display order.
func (o *Outcome) Results() []CheckResult {
	if o.IsBatch() {
		return []CheckResult{{CheckDuplicate, o.Duplicate}}
	}
	return []CheckResult{
		{CheckIdentifier, o.IdentifierCheck},
		{CheckDate, o.Date},
		{CheckSum, o.Sum},
		{CheckContribution, o.Contribution},
		{CheckFormalControls, o.FormalControls},
		{CheckBeneficiaryCap, o.BeneficiaryCap},
	}
}

// markBlocking appends msg to the blocking list unless already present.
func (o *Outcome) markBlocking(msg string) {
	if !slices.Contains(o.Blocking, msg) {
		o.Blocking = append(o.Blocking, msg)
	}
}

// outcomeBuilder accumulates the per-record check results and produces the
// Outcome once all record checks have run.
type outcomeBuilder struct {
	rec     record.Record
	row     string
	results []CheckResult
}

func newOutcomeBuilder(rec record.Record, rowOffset int) outcomeBuilder {
	return outcomeBuilder{rec: rec, row: strconv.Itoa(rec.Index + rowOffset)}
}

func (b outcomeBuilder) with(check Check, r Result) outcomeBuilder {
	b.results = append(slices.Clip(b.results), CheckResult{Check: check, Result: r})
	return b
}

func (b outcomeBuilder) build() Outcome {
	o := Outcome{
		Row:            b.row,
		Index:          b.rec.Index,
		Child:          b.rec.ChildName,
		Identifier:     b.rec.Identifier,
		BeneficiaryCap: ok(),
	}
	for _, cr := range b.results {
		switch cr.Check {
		case CheckIdentifier:
			o.IdentifierCheck = cr.Result
		case CheckDate:
			o.Date = cr.Result
		case CheckSum:
			o.Sum = cr.Result
		case CheckContribution:
			o.Contribution = cr.Result
		case CheckFormalControls:
			o.FormalControls = cr.Result
		}
		if cr.Result.Blocking() {
			o.markBlocking(cr.Result.Message)
		}
	}
	return o
}
