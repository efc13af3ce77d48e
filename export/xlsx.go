package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/fsecamp/reimburse/record"
)

// SheetName is the sheet written by the XLSX exporters.
const SheetName = "Dati"

// WriteXLSX writes the submission as a workbook with a single "Dati" sheet.
// Amounts are numeric cells and the mandate date is a date cell.
func WriteXLSX(w io.Writer, sub *Submission) error {
	rows := make([][]any, 0, len(sub.Records))
	for _, rec := range sub.Records {
		rows = append(rows, cells(rec))
	}
	return writeWorkbook(w, Columns, rows)
}

func cells(rec record.Record) []any {
	var date any = ""
	if !rec.MandateDate.IsZero() {
		date = rec.MandateDate.Time
	}
	return []any{
		rec.Reference,
		rec.CUP,
		rec.District,
		rec.LeadMunicipality,
		rec.MandateNumber,
		date,
		rec.MandateHolder,
		rec.MandateAmount.InexactFloat64(),
		rec.CampMunicipality,
		rec.Camp,
		rec.ParentName,
		rec.ChildName,
		rec.Identifier,
		rec.Contribution.InexactFloat64(),
		rec.OtherContributions.InexactFloat64(),
		rec.BeneficiaryShare.InexactFloat64(),
		rec.TotalFee.InexactFloat64(),
		rec.Weeks.Count,
		rec.FormalControls.InexactFloat64(),
	}
}

func writeWorkbook(w io.Writer, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
