// Package reimburse validates summer camp expense-reimbursement batches.
//
// It is a thin entry point over the loader and validation packages:
//
//	report, err := reimburse.ValidateFile(ctx, "batch.csv")
//	if err != nil {
//		// the file could not be read or parsed
//	}
//	if report.HasBlockingErrors {
//		for _, err := range report.Errors() {
//			fmt.Println(err)
//		}
//	}
package reimburse

import (
	"context"

	"github.com/fsecamp/reimburse/loader"
	"github.com/fsecamp/reimburse/validation"
)

// ValidateBytes loads data and validates the batch. filename selects the
// layout unless a loader.WithFormat option forces one.
func ValidateBytes(ctx context.Context, filename string, data []byte, opts ...loader.Option) (*validation.Report, error) {
	result, err := loader.New(opts...).LoadBytes(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	return validation.Validate(ctx, result.Batch, result.Bindings)
}

// ValidateFile loads and validates the batch stored in filename.
func ValidateFile(ctx context.Context, filename string, opts ...loader.Option) (*validation.Report, error) {
	result, err := loader.New(opts...).Load(ctx, filename)
	if err != nil {
		return nil, err
	}
	return validation.Validate(ctx, result.Batch, result.Bindings)
}
