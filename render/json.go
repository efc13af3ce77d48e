package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fsecamp/reimburse/loader"
	"github.com/fsecamp/reimburse/validation"
)

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Row     string         `json:"row,omitempty"`
	Line    int            `json:"line,omitempty"`
	Check   string         `json:"check,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Details: make(map[string]any),
	}

	var re *validation.RecordError
	if errors.As(err, &re) {
		errJSON.Type = fmt.Sprintf("%T", re.Err)
		errJSON.Message = re.Err.Error()
		errJSON.Row = re.Row
		errJSON.Check = string(re.Check)
	}

	var le *loader.LoadError
	if errors.As(err, &le) {
		errJSON.Line = le.Line
		if le.Filename != "" {
			errJSON.Details["filename"] = le.Filename
		}
	}

	var withID interface{ GetIdentifier() string }
	if errors.As(err, &withID) && withID.GetIdentifier() != "" {
		errJSON.Details["identifier"] = withID.GetIdentifier()
	}
	var dup *validation.DuplicateIdentifierError
	if errors.As(err, &dup) {
		errJSON.Details["count"] = dup.Count()
	}
	var capErr *validation.BeneficiaryCapError
	if errors.As(err, &capErr) {
		errJSON.Details["total"] = capErr.Total.StringFixed(2)
	}

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}
	return errJSON
}

// ReportJSON is the JSON document of a validation report.
type ReportJSON struct {
	Reference         string               `json:"reference,omitempty"`
	HasBlockingErrors bool                 `json:"has_blocking_errors"`
	Records           int                  `json:"records"`
	Clean             int                  `json:"clean"`
	Blocking          int                  `json:"blocking"`
	Outcomes          []validation.Outcome `json:"outcomes"`
	Errors            []ErrorJSON          `json:"errors"`
}

// NewReportJSON builds the JSON document of a report.
func NewReportJSON(report *validation.Report) ReportJSON {
	clean, blocking := report.Summary()
	return ReportJSON{
		Reference:         report.Reference,
		HasBlockingErrors: report.HasBlockingErrors,
		Records:           len(report.Records),
		Clean:             clean,
		Blocking:          blocking,
		Outcomes:          report.Outcomes,
		Errors:            NewJSONFormatter().FormatAllToSlice(report.Errors()),
	}
}

// JSON renders reports as indented JSON.
type JSON struct{}

// Render writes the report as JSON.
func (JSON) Render(w io.Writer, report *validation.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReportJSON(report))
}
