package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

const utf8BOM = "\ufeff"

// WriteCSV writes the submission in the transmission layout: a UTF-8 BOM, a
// header row, ';' separators, decimal commas and day-first dates.
func WriteCSV(w io.Writer, sub *Submission) error {
	cw, err := newCSVWriter(w)
	if err != nil {
		return err
	}
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range sub.Records {
		if err := cw.Write(values(rec)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", rec.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func newCSVWriter(w io.Writer) (*csv.Writer, error) {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return cw, nil
}
