package reimburse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/fsecamp/reimburse/loader"
	"github.com/fsecamp/reimburse/validation"
)

const (
	cleanLine    = "M-001\t15/04/2024\tComune di Budrio\t1.200,00\tBudrio\tCentro Sole\tVerdi Genitore\tVerdi Bambino\tVRDTST01A01H501A\t180\t20\t10\t210\t2\t9\n"
	blockingLine = "M-002\t16/04/2024\tComune di Budrio\t300\tBudrio\tCentro Sole\tRossi Genitore\tRossi Mario\tMRORSS80A01F205X\t100\t0\t0\t90\t1\t5\n"
)

func TestValidateBytes(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		opts     []loader.Option
		records  int
		blocking bool
		fail     string
	}{
		{
			name:    "Clean",
			data:    cleanLine,
			opts:    []loader.Option{loader.WithMetadata(loader.Metadata{Reference: "2024-12/RER"})},
			records: 1,
		},
		{
			name:     "Blocking",
			data:     cleanLine + blockingLine,
			records:  2,
			blocking: true,
		},
		{
			name: "ColumnMismatch",
			data: "a\tb\n",
			fail: "expected 15",
		},
		{
			name: "InvalidReference",
			data: cleanLine,
			opts: []loader.Option{loader.WithMetadata(loader.Metadata{Reference: "RER"})},
			fail: "YYYY-NUMBER/RER",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			report, err := ValidateBytes(context.Background(), "batch.tsv", []byte(test.data), test.opts...)
			if test.fail != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), test.fail)
				var le *loader.LoadError
				assert.True(t, errors.As(err, &le))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.records, len(report.Records))
			assert.Equal(t, test.blocking, report.HasBlockingErrors)
		})
	}
}

func TestValidateFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "batch.txt")
	assert.NoError(t, os.WriteFile(filename, []byte(cleanLine+blockingLine), 0o644))

	report, err := ValidateFile(context.Background(), filename, loader.WithFormat(loader.FormatPaste))
	assert.NoError(t, err)
	assert.True(t, report.HasBlockingErrors)

	var re *validation.RecordError
	assert.True(t, errors.As(report.Err(), &re))
	assert.Equal(t, "2", re.Row)
}
