package validation

import (
	"context"
	"fmt"
	"testing"

	"github.com/fsecamp/reimburse/record"
)

func benchBatch(n int) *record.Batch {
	rows := make([]record.Raw, n)
	for i := range rows {
		rows[i] = record.NewRaw(
			record.WithIdentifier(fmt.Sprintf("RSSMRA%02dA01H%03dU", i%100, i%1000)),
			record.WithMandateDate("15/06/2024", record.NewDate(2024, 6, 15)),
			record.WithAmounts("180,00", "20,00", "10,00", "210,00"),
			record.WithWeeks("2"),
			record.WithDeclaredControls("9,00"),
		)
	}
	return &record.Batch{Reference: "2024-1/RER", Rows: rows}
}

// BenchmarkValidateSmall benchmarks a typical pasted batch
func BenchmarkValidateSmall(b *testing.B) {
	batch := benchBatch(50)
	bindings := record.DefaultBindings(record.OffsetPasted)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Validate(context.Background(), batch, bindings)
	}
}

// BenchmarkValidateLarge benchmarks an uploaded file at the upper end of batch sizes
func BenchmarkValidateLarge(b *testing.B) {
	batch := benchBatch(5000)
	bindings := record.DefaultBindings(record.OffsetUploaded)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Validate(context.Background(), batch, bindings)
	}
}
