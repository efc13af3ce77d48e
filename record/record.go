// Package record defines the data model of an expense-reimbursement batch: the
// loosely-typed rows handed over by the ingestion layer, the typed records the
// validation engine works on, and the field bindings that connect the two.
//
// A batch is one funding-reference submission. Each row describes the summer
// camp attendance of one child and carries six monetary quantities:
//
//	A  contribution        public co-financing
//	B  other contributions
//	C  beneficiary share   paid by the family
//	D  total fee           must equal A+B+C
//
// plus the attended weeks and the formal-control amount declared by the
// preparer (5% of A).
package record

import (
	"github.com/shopspring/decimal"
)

// Field names used by the ingestion layer. They match the column names of the
// transmission layout so rows can be moved between layers without renaming.
const (
	FieldReference          = "rif_pa"
	FieldCUP                = "cup"
	FieldDistrict           = "distretto"
	FieldLeadMunicipality   = "comune_capofila"
	FieldMandateNumber      = "numero_mandato"
	FieldMandateDate        = "data_mandato"
	FieldMandateDateRaw     = "data_mandato_originale"
	FieldMandateHolder      = "comune_titolare_mandato"
	FieldMandateAmount      = "importo_mandato"
	FieldCampMunicipality   = "comune_centro_estivo"
	FieldCamp               = "centro_estivo"
	FieldParentName         = "genitore_cognome_nome"
	FieldChildName          = "bambino_cognome_nome"
	FieldIdentifier         = "codice_fiscale_bambino"
	FieldIdentifierClean    = "codice_fiscale_bambino_pulito"
	FieldContribution       = "valore_contributo_fse"
	FieldOtherContributions = "altri_contributi"
	FieldBeneficiaryShare   = "quota_retta_destinatario"
	FieldTotalFee           = "totale_retta"
	FieldWeeks              = "numero_settimane_frequenza"
	FieldDeclaredControls   = "controlli_formali_dichiarati"
	FieldFormalControls     = "controlli_formali"
)

// Raw is one row of a batch as produced by ingestion: a mapping from field name
// to a native number, a date, or free text. Missing keys read as nil.
type Raw map[string]any

// Get returns the value stored under name, or nil.
func (r Raw) Get(name string) any {
	if r == nil {
		return nil
	}
	return r[name]
}

// Text returns the value stored under name rendered as a string.
// Nil values render as the empty string.
func (r Raw) Text(name string) string {
	switch v := r.Get(name).(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return stringify(v)
	}
}

// Has reports whether the row carries a key for name, even if its value is nil.
func (r Raw) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Batch is one bounded collection of rows submitted under a single funding
// reference (Rif. PA).
type Batch struct {
	Reference        string
	CUP              string
	District         string
	LeadMunicipality string

	// Version is the layout version line of an uploaded transmission file.
	Version string

	// Source names where the batch came from (a filename or "<stdin>").
	Source string

	Rows []Raw
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}

// Bindings tells the engine which fields of a Raw row hold the values that
// need special handling, and how rows are numbered for display.
//
// RowOffset distinguishes pasted batches, numbered from 1, from uploaded files
// whose first line is a header or a version line, numbered from 2.
type Bindings struct {
	Identifier       string
	RawDate          string
	ParsedDate       string
	DeclaredControls string
	RowOffset        int
}

// Row offsets used by the ingestion layer.
const (
	OffsetPasted   = 1
	OffsetUploaded = 2
)

// DefaultBindings returns the standard field bindings with the given row offset.
func DefaultBindings(rowOffset int) Bindings {
	return Bindings{
		Identifier:       FieldIdentifierClean,
		RawDate:          FieldMandateDateRaw,
		ParsedDate:       FieldMandateDate,
		DeclaredControls: FieldDeclaredControls,
		RowOffset:        rowOffset,
	}
}

// Declared is a monetary value supplied by the preparer that the engine
// cross-checks instead of trusting. Present is false when the cell was empty;
// Numeric is false when the text could not be read as a number.
type Declared struct {
	Value   decimal.Decimal
	Text    string
	Present bool
	Numeric bool
}

// Weeks is the number of attended weeks. Valid is false when the source value
// was negative, fractional or not a number; Text keeps what was supplied.
type Weeks struct {
	Count int
	Text  string
	Valid bool
}

// Record is a Raw row after normalization. Monetary fields are always numeric,
// the mandate date is a calendar date or nil, and the identifier is uppercase
// and trimmed. Records are created once per row at the start of a validation
// run and never modified afterwards.
type Record struct {
	// Index is the 0-based position of the row in its batch.
	Index int

	Reference        string
	CUP              string
	District         string
	LeadMunicipality string

	MandateNumber  string
	MandateDate    *Date
	MandateDateRaw string
	MandateHolder  string
	MandateAmount  decimal.Decimal

	CampMunicipality string
	Camp             string
	ParentName       string
	ChildName        string

	// Identifier is the child's fiscal code, cleaned.
	Identifier string

	Contribution       decimal.Decimal // A
	OtherContributions decimal.Decimal // B
	BeneficiaryShare   decimal.Decimal // C
	TotalFee           decimal.Decimal // D

	Weeks            Weeks
	DeclaredControls Declared

	// FormalControls is the computed 5% of A. It is only set on the cleaned
	// records returned by a validation report.
	FormalControls decimal.Decimal
}
