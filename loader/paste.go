package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fsecamp/reimburse/record"
)

// PasteColumns is the column order of pasted data and of XLSX sheets.
var PasteColumns = []string{
	record.FieldMandateNumber,
	record.FieldMandateDate,
	record.FieldMandateHolder,
	record.FieldMandateAmount,
	record.FieldCampMunicipality,
	record.FieldCamp,
	record.FieldParentName,
	record.FieldChildName,
	record.FieldIdentifier,
	record.FieldContribution,
	record.FieldOtherContributions,
	record.FieldBeneficiaryShare,
	record.FieldTotalFee,
	record.FieldWeeks,
	record.FieldDeclaredControls,
}

func (l *Loader) parsePaste(filename string, data []byte) (*record.Batch, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	batch := &record.Batch{}
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvLoadError(filename, err)
		}
		line, _ := r.FieldPos(0)
		if isBlank(fields) {
			continue
		}
		if len(fields) != len(PasteColumns) {
			return nil, &LoadError{
				Filename: filename,
				Line:     line,
				Message:  fmt.Sprintf("pasted %d columns, expected %d", len(fields), len(PasteColumns)),
			}
		}
		batch.Rows = append(batch.Rows, pasteRow(fields))
	}
	if len(batch.Rows) == 0 {
		return nil, &LoadError{Filename: filename, Message: "no data rows"}
	}
	if err := l.applyMetadata(filename, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// pasteRow maps fields in PasteColumns order to a Raw row.
func pasteRow(fields []string) record.Raw {
	row := record.Raw{}
	for i, name := range PasteColumns {
		value := ""
		if i < len(fields) {
			value = strings.TrimSpace(fields[i])
		}
		switch name {
		case record.FieldIdentifier:
			setIdentifier(row, value)
		case record.FieldMandateDate:
			setMandateDate(row, value)
		default:
			row[name] = value
		}
	}
	return row
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func csvLoadError(filename string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &LoadError{Filename: filename, Line: parseErr.Line, Message: "malformed row", Underlying: parseErr.Err}
	}
	return &LoadError{Filename: filename, Message: "failed to read rows", Underlying: err}
}
