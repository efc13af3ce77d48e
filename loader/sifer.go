package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fsecamp/reimburse/parser"
	"github.com/fsecamp/reimburse/record"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// SIFER column positions.
const (
	siferReference       = iota // Rif. PA
	siferWeeks                  // Numero progetto
	siferDocumentID             // ID documento
	siferOrganisation           // Codice organismo
	siferVoice                  // Voce imputazione
	siferContribution           // Importo imputazione
	siferNote                   // Note imputazione
	siferPaymentDate            // Data pagamento
	siferDeclared               // Tipo pagamento
	siferDocumentNumber         // Nr. documento
	siferDocumentDate           // Data documento
	siferDocumentAmount         // Importo documento
	siferSupplier               // Fornitore/oggetto documento
	siferTaxCode                // C.F./P.I documento
	siferDescription            // Descrizione documento
	siferDocumentType           // Tipo documento
	siferColumns
)

// SIFERColumns are the column headings of the transmission CSV.
var SIFERColumns = [siferColumns]string{
	"Rif. PA", "Numero progetto", "ID documento", "Codice organismo",
	"Voce imputazione", "Importo imputazione", "Note imputazione",
	"Data pagamento", "Tipo pagamento", "Nr. documento", "Data documento",
	"Importo documento", "Fornitore/oggetto documento", "C.F./P.I documento",
	"Descrizione documento", "Tipo documento",
}

const (
	absentMarker       = "--"
	absentMunicipality = "ComuneCE ND"
	absentCamp         = "CentroEstivo ND"
)

var (
	noteOther    = regexp.MustCompile(`B altri contr:\s*([\d.,]+)`)
	noteShare    = regexp.MustCompile(`C retta:\s*([\d.,]+)`)
	noteTotal    = regexp.MustCompile(`D Tot retta:\s*([\d.,]+)`)
	documentID   = regexp.MustCompile(`cup:\s*(?P<cup>.*?)\s*\|\s*distretto:\s*(?P<district>.*?)\s*\|\s*capofila:\s*(?P<lead>.*?)\s*\|\s*prog:\s*(?P<prog>\d+)`)
	voicePattern = regexp.MustCompile(`com centro est:\s*(?P<municipality>.*?)\s*\|\s*centro est:\s*(?P<camp>.*)`)
)

func parseSIFER(filename string, data []byte) (*record.Batch, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	version, body, _ := bytes.Cut(data, []byte("\n"))
	batch := &record.Batch{Version: strings.TrimSpace(string(version))}

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				parseErr.Line++
				parseErr.StartLine++
			}
			return nil, csvLoadError(filename, err)
		}
		line, _ := r.FieldPos(0)
		line++ // version line
		if isBlank(fields) {
			continue
		}
		if len(fields) != siferColumns {
			return nil, &LoadError{
				Filename: filename,
				Line:     line,
				Message:  fmt.Sprintf("found %d columns, expected %d", len(fields), siferColumns),
			}
		}
		batch.Rows = append(batch.Rows, siferRow(fields))
	}

	if len(batch.Rows) == 0 {
		return nil, &LoadError{Filename: filename, Message: "transmission file contains no data rows"}
	}

	first := batch.Rows[0]
	ref := first.Text(record.FieldReference)
	if strings.TrimSpace(ref) == "" {
		return nil, &LoadError{Filename: filename, Line: 2, Message: "reference missing"}
	}
	if ok, msg := ValidateReference(ref); !ok {
		return nil, &LoadError{Filename: filename, Line: 2, Message: msg}
	}
	batch.Reference = strings.TrimSpace(ref)
	batch.CUP = first.Text(record.FieldCUP)
	batch.District = first.Text(record.FieldDistrict)
	batch.LeadMunicipality = first.Text(record.FieldLeadMunicipality)
	return batch, nil
}

// siferRow maps one transmission row to the internal field names.
func siferRow(fields []string) record.Raw {
	cup, district, lead, _ := ParseDocumentID(fields[siferDocumentID])
	municipality, camp := ParseVoice(fields[siferVoice])
	other, share, total := ParseNote(fields[siferNote])

	row := record.Raw{
		record.FieldReference:          strings.TrimSpace(fields[siferReference]),
		record.FieldCUP:                cup,
		record.FieldDistrict:           district,
		record.FieldLeadMunicipality:   lead,
		record.FieldMandateNumber:      fields[siferDocumentNumber],
		record.FieldMandateHolder:      fields[siferSupplier],
		record.FieldMandateAmount:      fields[siferDocumentAmount],
		record.FieldCampMunicipality:   municipality,
		record.FieldCamp:               camp,
		record.FieldParentName:         fields[siferDocumentType],
		record.FieldChildName:          fields[siferDescription],
		record.FieldContribution:       fields[siferContribution],
		record.FieldOtherContributions: other,
		record.FieldBeneficiaryShare:   share,
		record.FieldTotalFee:           total,
		record.FieldWeeks:              strings.TrimSpace(fields[siferWeeks]),
		record.FieldDeclaredControls:   fields[siferDeclared],
	}
	setIdentifier(row, fields[siferTaxCode])
	setMandateDate(row, strings.TrimSpace(fields[siferPaymentDate]))
	return row
}

// ParseNote extracts B, C and D from a note such as
// "B altri contr: 20,00 C retta: 10,00 D Tot retta: 210,00". Missing parts
// are zero.
func ParseNote(note string) (other, share, total decimal.Decimal) {
	find := func(re *regexp.Regexp) decimal.Decimal {
		if m := re.FindStringSubmatch(note); m != nil {
			return parser.AmountOrZero(m[1])
		}
		return decimal.Zero
	}
	return find(noteOther), find(noteShare), find(noteTotal)
}

// ParseDocumentID extracts the CUP, district, lead municipality and
// progressive number from "cup: X | distretto: Y | capofila: Z | prog: N".
// "--" marks an absent value.
func ParseDocumentID(id string) (cup, district, lead, prog string) {
	m := documentID.FindStringSubmatch(id)
	if m == nil {
		return "", "", "", ""
	}
	value := func(name string) string {
		v := strings.TrimSpace(m[documentID.SubexpIndex(name)])
		if v == absentMarker {
			return ""
		}
		return v
	}
	return value("cup"), value("district"), value("lead"), value("prog")
}

// ParseVoice extracts the camp municipality and camp name from
// "com centro est: X | centro est: Y". The ND placeholders mark absent values.
func ParseVoice(voice string) (municipality, camp string) {
	m := voicePattern.FindStringSubmatch(voice)
	if m == nil {
		return "", ""
	}
	municipality = strings.TrimSpace(m[voicePattern.SubexpIndex("municipality")])
	camp = strings.TrimSpace(m[voicePattern.SubexpIndex("camp")])
	if municipality == absentMunicipality {
		municipality = ""
	}
	if camp == absentCamp {
		camp = ""
	}
	return municipality, camp
}
