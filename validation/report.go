package validation

import (
	"github.com/fsecamp/reimburse/record"
)

// Report is the result of a validation run. Record outcomes come first in
// batch order, followed by the batch-scope rows.
type Report struct {
	Reference         string          `json:"reference,omitempty"`
	Outcomes          []Outcome       `json:"outcomes"`
	Records           []record.Record `json:"-"`
	HasBlockingErrors bool            `json:"has_blocking_errors"`
	RowOffset         int             `json:"row_offset"`

	config *Config
}

// Outcome returns the outcome of the record at index, or nil.
func (r *Report) Outcome(index int) *Outcome {
	if index < 0 || index >= len(r.Records) || index >= len(r.Outcomes) {
		return nil
	}
	return &r.Outcomes[index]
}

// RecordOutcomes returns the per-record rows.
func (r *Report) RecordOutcomes() []Outcome {
	n := len(r.Records)
	if n > len(r.Outcomes) {
		n = len(r.Outcomes)
	}
	return r.Outcomes[:n]
}

// BatchOutcomes returns the batch-scope rows.
func (r *Report) BatchOutcomes() []Outcome {
	return r.Outcomes[len(r.RecordOutcomes()):]
}

// Errors returns one located error per failing check, in report order.
// Informational results are not included.
func (r *Report) Errors() []error {
	var errs []error
	for _, o := range r.Outcomes {
		for _, cr := range o.Results() {
			if !cr.Result.Blocking() {
				continue
			}
			errs = append(errs, &RecordError{Row: o.Row, Index: o.Index, Check: cr.Check, Err: cr.Result.Err})
		}
	}
	return errs
}

// Err returns the blocking errors wrapped in *ValidationErrors, or nil when
// the batch is clean.
func (r *Report) Err() error {
	if !r.HasBlockingErrors {
		return nil
	}
	return &ValidationErrors{Errors: r.Errors()}
}

// Cleaned returns copies of the records ready for export: the identifier is
// the cleaned form and FormalControls holds round(A * rate, 2).
func (r *Report) Cleaned() []record.Record {
	cfg := r.config
	if cfg == nil {
		cfg = NewConfig()
	}
	out := make([]record.Record, len(r.Records))
	for i, rec := range r.Records {
		rec.Identifier = record.CleanIdentifier(rec.Identifier)
		rec.FormalControls = cfg.FormalControls(rec.Contribution)
		out[i] = rec
	}
	return out
}

// Summary counts the outcome rows by blocking state.
func (r *Report) Summary() (clean, blocking int) {
	for i := range r.Outcomes {
		if r.Outcomes[i].HasBlocking() {
			blocking++
		} else {
			clean++
		}
	}
	return clean, blocking
}
