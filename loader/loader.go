// Package loader turns the files preparers and controllers hand in into a
// record.Batch plus the field bindings the validation engine needs.
//
// Three layouts are supported:
//   - Paste: tab-separated values copied from a spreadsheet, no header, 15
//     columns. Reference metadata is supplied separately.
//   - SIFER: the transmission CSV. A version line, then 16 comma-separated
//     columns per row without header. Several columns pack sub-fields.
//   - XLSX: the first sheet of a workbook, a header row, then the paste columns.
//
// Example usage:
//
//	ldr := loader.New(loader.WithMetadata(loader.Metadata{Reference: "2024-12/RER"}))
//	result, err := ldr.Load(ctx, "batch.tsv")
//	report, err := validation.Validate(ctx, result.Batch, result.Bindings)
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsecamp/reimburse/parser"
	"github.com/fsecamp/reimburse/record"
	"github.com/fsecamp/reimburse/telemetry"
)

// Format identifies an input layout.
type Format int

const (
	FormatAuto Format = iota
	FormatPaste
	FormatSIFER
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatPaste:
		return "paste"
	case FormatSIFER:
		return "sifer"
	case FormatXLSX:
		return "xlsx"
	default:
		return "auto"
	}
}

// ParseFormat parses a format name as accepted on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "paste", "tsv":
		return FormatPaste, nil
	case "sifer", "csv":
		return FormatSIFER, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return FormatAuto, fmt.Errorf("unknown format %q, expected paste, sifer or xlsx", name)
}

// DetectFormat picks a layout from the file extension. Unknown extensions
// are treated as pasted data.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatSIFER
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatPaste
	}
}

// Metadata is the reference information of a batch that pasted data does
// not carry.
type Metadata struct {
	Reference        string
	CUP              string
	District         string
	LeadMunicipality string
}

// Loader reads batches. Configure it with functional options passed to New.
type Loader struct {
	// Format forces a layout. FormatAuto detects it from the file name.
	Format Format

	// Metadata fills the reference fields of pasted and XLSX batches.
	Metadata Metadata
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithFormat forces the input layout.
func WithFormat(f Format) Option {
	return func(l *Loader) {
		l.Format = f
	}
}

// WithMetadata sets the reference metadata for layouts that do not carry it.
func WithMetadata(m Metadata) Option {
	return func(l *Loader) {
		l.Metadata = m
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is a loaded batch ready for validation.
type Result struct {
	Batch    *record.Batch
	Bindings record.Bindings
	Format   Format
}

// Load reads and parses a file.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return l.LoadBytes(ctx, filename, data)
}

// LoadBytes parses data. filename is used for format detection and error
// messages only.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*Result, error) {
	format := l.Format
	if format == FormatAuto {
		format = DetectFormat(filename)
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("loader.load %s (%s)", filepath.Base(filename), format))
	defer timer.End()

	var (
		batch *record.Batch
		err   error
	)
	switch format {
	case FormatSIFER:
		batch, err = parseSIFER(filename, data)
	case FormatXLSX:
		batch, err = l.parseXLSX(filename, data)
	default:
		batch, err = l.parsePaste(filename, data)
	}
	if err != nil {
		return nil, err
	}
	batch.Source = filename

	offset := record.OffsetUploaded
	if format == FormatPaste {
		offset = record.OffsetPasted
	}
	return &Result{Batch: batch, Bindings: record.DefaultBindings(offset), Format: format}, nil
}

// applyMetadata validates the configured metadata and copies it to the batch.
func (l *Loader) applyMetadata(filename string, batch *record.Batch) error {
	m := l.Metadata
	if m.Reference != "" {
		if ok, msg := ValidateReference(m.Reference); !ok {
			return &LoadError{Filename: filename, Message: msg}
		}
	}
	batch.Reference = strings.TrimSpace(m.Reference)
	batch.CUP = strings.TrimSpace(m.CUP)
	batch.District = strings.TrimSpace(m.District)
	batch.LeadMunicipality = strings.TrimSpace(m.LeadMunicipality)
	for _, row := range batch.Rows {
		row[record.FieldReference] = batch.Reference
		row[record.FieldCUP] = batch.CUP
		row[record.FieldDistrict] = batch.District
		row[record.FieldLeadMunicipality] = batch.LeadMunicipality
	}
	return nil
}

// setIdentifier stores the raw identifier and its cleaned form.
func setIdentifier(row record.Raw, id string) {
	row[record.FieldIdentifier] = id
	row[record.FieldIdentifierClean] = record.CleanIdentifier(id)
}

// setMandateDate stores the original text and the parsed date, or nil.
func setMandateDate(row record.Raw, text string) {
	row[record.FieldMandateDateRaw] = text
	if d := parser.DateOrNil(text); d != nil {
		row[record.FieldMandateDate] = d
	} else {
		row[record.FieldMandateDate] = nil
	}
}
