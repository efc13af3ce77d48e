// Package inmemory provides a Store kept in process memory. It enforces the
// same record uniqueness a database table would and is safe for concurrent use.
package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fsecamp/reimburse/export"
	"github.com/fsecamp/reimburse/record"
	"github.com/fsecamp/reimburse/store"
)

type recordKey struct {
	transmission uuid.UUID
	identifier   string
	date         string
	camp         string
	contribution string
}

func keyOf(sub *export.Submission, rec record.Record) recordKey {
	return recordKey{
		transmission: sub.TransmissionID,
		identifier:   rec.Identifier,
		date:         rec.MandateDate.ISO(),
		camp:         rec.Camp,
		contribution: rec.Contribution.StringFixed(2),
	}
}

// Store is an in-memory submission store.
type Store struct {
	mu          sync.RWMutex
	submissions map[string]*export.Submission
	keys        map[recordKey]struct{}
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		submissions: make(map[string]*export.Submission),
		keys:        make(map[recordKey]struct{}),
	}
}

// ReferenceExists implements store.Store.
func (s *Store) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.submissions[reference]
	return ok, nil
}

// Save implements store.Store. Either every record is stored or none is.
// A reference is stored at most once.
func (s *Store) Save(ctx context.Context, sub *export.Submission) error {
	if sub.Reference == "" {
		return fmt.Errorf("reference is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.submissions[sub.Reference]; ok {
		return &store.DuplicateReferenceError{Reference: sub.Reference}
	}

	pending := make(map[recordKey]struct{}, len(sub.Records))
	for _, rec := range sub.Records {
		key := keyOf(sub, rec)
		_, stored := s.keys[key]
		_, repeated := pending[key]
		if stored || repeated {
			return &store.DuplicateRecordError{Identifier: rec.Identifier, Index: rec.Index}
		}
		pending[key] = struct{}{}
	}

	for key := range pending {
		s.keys[key] = struct{}{}
	}
	subCopy := *sub
	subCopy.Records = append([]record.Record(nil), sub.Records...)
	s.submissions[sub.Reference] = &subCopy
	return nil
}

// Get returns a copy of the submission saved under reference.
func (s *Store) Get(reference string) (*export.Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[reference]
	if !ok {
		return nil, false
	}
	subCopy := *sub
	subCopy.Records = append([]record.Record(nil), sub.Records...)
	return &subCopy, true
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
