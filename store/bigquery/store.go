// Package bigquery stores submissions in a BigQuery table.
//
// The table has no uniqueness constraints; duplicate submissions are
// prevented by checking the funding reference before saving.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/fsecamp/reimburse/export"
	"github.com/fsecamp/reimburse/store"
)

// DefaultTable is the table records are written to.
const DefaultTable = "dati_sifer"

// Store is a BigQuery backed store.
type Store struct {
	client    *bigquery.Client
	dataset   string
	table     string
	createdBy string
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTable overrides DefaultTable.
func WithTable(table string) Option {
	return func(s *Store) {
		s.table = table
	}
}

// WithCreatedBy records the user saving submissions.
func WithCreatedBy(user string) Option {
	return func(s *Store) {
		s.createdBy = user
	}
}

// New creates a Store with its own client.
func New(ctx context.Context, projectID, dataset string, opts ...Option) (*Store, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating bigquery client: %w", err)
	}
	return NewWithClient(client, dataset, opts...), nil
}

// NewWithClient creates a Store sharing client.
func NewWithClient(client *bigquery.Client, dataset string, opts ...Option) *Store {
	s := &Store{client: client, dataset: dataset, table: DefaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the BigQuery client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// ReferenceExists implements store.Store.
func (s *Store) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	q := s.client.Query(s.referenceQuery())
	q.Parameters = []bigquery.QueryParameter{
		{Name: "reference", Value: reference},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("ReferenceExists: reading query: %w", err)
	}

	var row struct {
		N int64 `bigquery:"n"`
	}
	err = it.Next(&row)
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ReferenceExists: reading row: %w", err)
	}
	return row.N > 0, nil
}

func (s *Store) referenceQuery() string {
	return fmt.Sprintf("SELECT COUNT(1) AS n FROM `%s.%s.%s` WHERE rif_pa = @reference",
		s.client.Project(), s.dataset, s.table)
}

// Save implements store.Store.
func (s *Store) Save(ctx context.Context, sub *export.Submission) error {
	rows := toRows(sub, s.createdBy)
	if len(rows) == 0 {
		return nil
	}
	inserter := s.client.Dataset(s.dataset).Table(s.table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("Save: inserting %d rows: %w", len(rows), err)
	}
	return nil
}
