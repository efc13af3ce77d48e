package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/fsecamp/reimburse/record"
)

// Summary holds the control totals of a batch.
type Summary struct {
	Contribution     decimal.Decimal `json:"contribution"`
	FormalControls   decimal.Decimal `json:"formal_controls"`
	Total            decimal.Decimal `json:"total"`
	BeneficiaryShare decimal.Decimal `json:"beneficiary_share"`
}

// SummaryLine is one labelled total.
type SummaryLine struct {
	Label string
	Value decimal.Decimal
}

// Summarize totals cleaned records. FormalControls is the sum of the
// per-record rounded amounts, not 5% of the total.
func Summarize(records []record.Record) Summary {
	var s Summary
	for _, rec := range records {
		s.Contribution = s.Contribution.Add(rec.Contribution)
		s.FormalControls = s.FormalControls.Add(rec.FormalControls)
		s.BeneficiaryShare = s.BeneficiaryShare.Add(rec.BeneficiaryShare)
	}
	s.Total = s.Contribution.Add(s.FormalControls)
	return s
}

// Lines returns the totals in display order.
func (s Summary) Lines() []SummaryLine {
	return []SummaryLine{
		{Label: "Total contribution (A)", Value: s.Contribution},
		{Label: "Formal controls (5% of A)", Value: s.FormalControls},
		{Label: "Total A + 5%", Value: s.Total},
		{Label: "Total beneficiary share (C)", Value: s.BeneficiaryShare},
	}
}

var summaryHeader = []string{"Item", "Value (€)"}

// WriteSummaryCSV writes the summary in the same CSV dialect as WriteCSV,
// with amounts in display format.
func WriteSummaryCSV(w io.Writer, s Summary) error {
	cw, err := newCSVWriter(w)
	if err != nil {
		return err
	}
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, line := range s.Lines() {
		if err := cw.Write([]string{line.Label, FormatItalian(line.Value)}); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryXLSX writes the summary with numeric value cells.
func WriteSummaryXLSX(w io.Writer, s Summary) error {
	lines := s.Lines()
	rows := make([][]any, len(lines))
	for i, line := range lines {
		rows[i] = []any{line.Label, line.Value.InexactFloat64()}
	}
	return writeWorkbook(w, summaryHeader, rows)
}
