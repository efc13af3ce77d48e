// Package export maps a clean validation report into the transmission
// layout: a semicolon-separated CSV with decimal commas, an equivalent XLSX
// workbook, and the control summary of the batch totals.
package export

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fsecamp/reimburse/record"
	"github.com/fsecamp/reimburse/validation"
)

// ErrBlockingErrors is returned when a report with blocking errors is
// exported or saved.
var ErrBlockingErrors = errors.New("batch has blocking validation errors")

// Columns is the column order of the transmission layout.
var Columns = []string{
	record.FieldReference,
	record.FieldCUP,
	record.FieldDistrict,
	record.FieldLeadMunicipality,
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
	record.FieldFormalControls,
}

// Submission is a validated batch ready for transmission.
type Submission struct {
	TransmissionID   uuid.UUID
	Reference        string
	CUP              string
	District         string
	LeadMunicipality string
	CreatedAt        time.Time
	Records          []record.Record
}

// New builds a Submission from the cleaned records of a report. Reports with
// blocking errors are refused with ErrBlockingErrors.
func New(report *validation.Report) (*Submission, error) {
	if report == nil || report.HasBlockingErrors {
		return nil, ErrBlockingErrors
	}
	records := report.Cleaned()
	sub := &Submission{
		TransmissionID: uuid.New(),
		Reference:      report.Reference,
		CreatedAt:      time.Now(),
		Records:        records,
	}
	if len(records) > 0 {
		first := records[0]
		if sub.Reference == "" {
			sub.Reference = first.Reference
		}
		sub.CUP = first.CUP
		sub.District = first.District
		sub.LeadMunicipality = first.LeadMunicipality
	}
	// Metadata of the submission wins over whatever the rows carried.
	for i := range sub.Records {
		sub.Records[i].Reference = sub.Reference
		sub.Records[i].CUP = sub.CUP
		sub.Records[i].District = sub.District
		sub.Records[i].LeadMunicipality = sub.LeadMunicipality
	}
	return sub, nil
}
