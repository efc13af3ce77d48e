package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fsecamp/reimburse/export"
	"github.com/fsecamp/reimburse/record"
	"github.com/fsecamp/reimburse/store"
	"github.com/fsecamp/reimburse/validation"
)

func submission(ref string, recs ...record.Record) *export.Submission {
	return &export.Submission{
		TransmissionID: uuid.New(),
		Reference:      ref,
		CreatedAt:      time.Now(),
		Records:        recs,
	}
}

func rec(id string, a string) record.Record {
	return record.Record{
		Identifier:   id,
		MandateDate:  record.NewDate(2024, time.April, 15),
		Camp:         "Centro Estivo Sole",
		Contribution: decimal.RequireFromString(a),
	}
}

func cleanReport(t *testing.T) *validation.Report {
	t.Helper()
	report := validation.ValidateRecords(context.Background(), nil, record.OffsetPasted)
	assert.False(t, report.HasBlockingErrors)
	return report
}

func TestSaveValidated(t *testing.T) {
	ctx := context.Background()
	s := New()
	report := cleanReport(t)

	sub := submission("2024-12/RER", rec("VRDTST01A01H501A", "180"))
	assert.NoError(t, store.SaveValidated(ctx, s, report, sub))

	exists, err := s.ReferenceExists(ctx, "2024-12/RER")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, s.Len())

	err = store.SaveValidated(ctx, s, report, submission("2024-12/RER", rec("MRORSS80A01F205X", "100")))
	var dup *store.DuplicateReferenceError
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "2024-12/RER", dup.GetReference())
	assert.Equal(t, 1, s.Len())
}

func TestSaveValidatedRefusesBlockingReport(t *testing.T) {
	blocking := &validation.Report{HasBlockingErrors: true}
	err := store.SaveValidated(context.Background(), New(), blocking, submission("2024-1/RER"))
	assert.True(t, errors.Is(err, store.ErrBlockingErrors))
	assert.True(t, errors.Is(err, export.ErrBlockingErrors))
}

func TestSaveRejectsDuplicateRecords(t *testing.T) {
	s := New()
	sub := submission("2024-7/RER",
		rec("VRDTST01A01H501A", "180"),
		rec("VRDTST01A01H501A", "180"),
	)
	sub.Records[1].Index = 1

	err := s.Save(context.Background(), sub)
	var dup *store.DuplicateRecordError
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "VRDTST01A01H501A", dup.GetIdentifier())
	assert.Equal(t, 1, dup.Index)

	// Nothing from the failed submission is kept.
	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("2024-7/RER")
	assert.False(t, ok)
}

func TestSameRecordInDifferentTransmissions(t *testing.T) {
	s := New()
	ctx := context.Background()
	assert.NoError(t, s.Save(ctx, submission("2024-1/RER", rec("VRDTST01A01H501A", "180"))))
	assert.NoError(t, s.Save(ctx, submission("2024-2/RER", rec("VRDTST01A01H501A", "180"))))
	assert.Equal(t, 2, s.Len())
}

func TestSaveRequiresReference(t *testing.T) {
	assert.Error(t, New().Save(context.Background(), submission("")))
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	assert.NoError(t, s.Save(context.Background(), submission("2024-3/RER", rec("VRDTST01A01H501A", "180"))))

	got, ok := s.Get("2024-3/RER")
	assert.True(t, ok)
	got.Records[0].Identifier = "CHANGED"

	again, _ := s.Get("2024-3/RER")
	assert.Equal(t, "VRDTST01A01H501A", again.Records[0].Identifier)
}

func TestConcurrentSave(t *testing.T) {
	s := New()
	report := cleanReport(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref := fmt.Sprintf("2024-%d/RER", i%10)
			errs[i] = store.SaveValidated(ctx, s, report, submission(ref, rec("VRDTST01A01H501A", "180")))
		}(i)
	}
	wg.Wait()

	saved := 0
	for _, err := range errs {
		if err == nil {
			saved++
		}
	}
	assert.Equal(t, 10, saved)
	for i := 0; i < 10; i++ {
		ok, _ := s.ReferenceExists(ctx, fmt.Sprintf("2024-%d/RER", i))
		assert.True(t, ok)
	}
}
