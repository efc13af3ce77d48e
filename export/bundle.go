package export

import (
	"bytes"
	"time"
)

// File is an exported artifact held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Bundle renders the submission data and its summary. CSV files are always
// produced, XLSX files only when withXLSX is set. Data files carry seconds
// in their timestamp, summary files do not.
func Bundle(sub *Submission, withXLSX bool, now time.Time) ([]File, error) {
	summary := Summarize(sub.Records)

	type job struct {
		prefix      string
		ext         string
		contentType string
		seconds     bool
		write       func(*bytes.Buffer) error
	}
	jobs := []job{
		{"datiSIFER", ".csv", ContentTypeCSV, true, func(b *bytes.Buffer) error { return WriteCSV(b, sub) }},
		{"QuadroControllo", ".csv", ContentTypeCSV, false, func(b *bytes.Buffer) error { return WriteSummaryCSV(b, summary) }},
	}
	if withXLSX {
		jobs = append(jobs,
			job{"datiSIFER_Excel", ".xlsx", ContentTypeXLSX, true, func(b *bytes.Buffer) error { return WriteXLSX(b, sub) }},
			job{"QuadroControllo_Excel", ".xlsx", ContentTypeXLSX, false, func(b *bytes.Buffer) error { return WriteSummaryXLSX(b, summary) }},
		)
	}

	files := make([]File, 0, len(jobs))
	for _, j := range jobs {
		var buf bytes.Buffer
		if err := j.write(&buf); err != nil {
			return nil, err
		}
		files = append(files, File{
			Name:        Filename(j.prefix, sub.Reference, j.seconds, now) + j.ext,
			ContentType: j.contentType,
			Data:        buf.Bytes(),
		})
	}
	return files, nil
}
