// Package store persists validated submissions. A submission is saved only
// when its report carries no blocking errors and its funding reference has
// not been saved before.
package store

import (
	"context"
	"fmt"

	"github.com/fsecamp/reimburse/export"
	"github.com/fsecamp/reimburse/validation"
)

// Store is a persistence backend for submissions.
type Store interface {
	// ReferenceExists reports whether a submission with the funding
	// reference was already saved.
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// Save stores every record of the submission.
	Save(ctx context.Context, sub *export.Submission) error
}

// ErrBlockingErrors is returned when saving a report with blocking errors.
var ErrBlockingErrors = export.ErrBlockingErrors

// DuplicateReferenceError is returned when the funding reference of a
// submission was already saved.
type DuplicateReferenceError struct {
	Reference string
}

func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("reference %s was already saved", e.Reference)
}

// GetReference returns the duplicated funding reference.
func (e *DuplicateReferenceError) GetReference() string {
	return e.Reference
}

// DuplicateRecordError is returned when a record collides with one already
// stored: same transmission, identifier, mandate date, camp and contribution.
type DuplicateRecordError struct {
	Identifier string
	Index      int
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("record %d for %s duplicates a stored record", e.Index, e.Identifier)
}

func (e *DuplicateRecordError) GetIdentifier() string {
	return e.Identifier
}

// SaveValidated saves sub when report is clean and the reference is new.
func SaveValidated(ctx context.Context, s Store, report *validation.Report, sub *export.Submission) error {
	if report == nil || report.HasBlockingErrors {
		return ErrBlockingErrors
	}
	exists, err := s.ReferenceExists(ctx, sub.Reference)
	if err != nil {
		return fmt.Errorf("failed to check reference %s: %w", sub.Reference, err)
	}
	if exists {
		return &DuplicateReferenceError{Reference: sub.Reference}
	}
	if err := s.Save(ctx, sub); err != nil {
		return fmt.Errorf("failed to save reference %s: %w", sub.Reference, err)
	}
	return nil
}
