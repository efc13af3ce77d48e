package loader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fsecamp/reimburse/record"
)

// parseXLSX reads the first sheet of a workbook. The first row is a header
// and is skipped; the remaining rows use the paste column order.
func (l *Loader) parseXLSX(filename string, data []byte) (*record.Batch, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{Filename: filename, Message: "not a valid workbook", Underlying: err}
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	// Raw values keep date cells as serials instead of the locale's
	// month-first display format.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Filename: filename, Message: fmt.Sprintf("failed to read sheet %q", sheet), Underlying: err}
	}

	batch := &record.Batch{}
	for i, fields := range rows {
		if i == 0 || isBlank(fields) {
			continue
		}
		// Trailing empty cells are not returned, so short rows are fine.
		if len(fields) > len(PasteColumns) {
			return nil, &LoadError{
				Filename: filename,
				Line:     i + 1,
				Message:  fmt.Sprintf("found %d columns, expected %d", len(fields), len(PasteColumns)),
			}
		}
		row := pasteRow(fields)
		if err := xlsxMandateDate(f, row); err != nil {
			return nil, &LoadError{Filename: filename, Line: i + 1, Message: "invalid date serial", Underlying: err}
		}
		batch.Rows = append(batch.Rows, row)
	}
	if len(batch.Rows) == 0 {
		return nil, &LoadError{Filename: filename, Message: fmt.Sprintf("sheet %q contains no data rows", sheet)}
	}
	if err := l.applyMetadata(filename, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// xlsxMandateDate replaces a numeric date serial with the calendar date it
// denotes. Text cells were already parsed by pasteRow.
func xlsxMandateDate(f *excelize.File, row record.Raw) error {
	text := strings.TrimSpace(row.Text(record.FieldMandateDateRaw))
	serial, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	props, err := f.GetWorkbookProps()
	if err != nil {
		return err
	}
	t, err := excelize.ExcelDateToTime(serial, props.Date1904 != nil && *props.Date1904)
	if err != nil {
		return err
	}
	d := record.NewDateFromTime(t)
	setMandateDate(row, d.String())
	return nil
}
