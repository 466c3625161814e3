// Package docstore is the narrow document-database contract the services depend on,
// with a Firestore implementation and an in-memory one for tests and local runs.
package docstore

import (
	"context"
	"errors"
)

// Errors returned by Store implementations.
var (
	ErrNotFound    = errors.New("document not found")
	ErrUnavailable = errors.New("document store unavailable")
)

// Operator is a query comparison.
type Operator string

const (
	// ArrayContains matches documents whose array field contains Value.
	ArrayContains Operator = "array-contains"
	// In matches documents whose field equals one of the values in Value (a []any).
	In Operator = "in"
	// Equal matches documents whose field equals Value.
	Equal Operator = "=="
)

// MaxInValues is the provider limit on values in a single In filter.
const MaxInValues = 10

// Filter restricts a query to documents matching one field condition.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Document is one stored record.
type Document struct {
	ID   string
	Data map[string]any
}

// ArrayUnion is an update value that appends each of Values to a stored array unless an
// equal element is already present.
type ArrayUnion struct {
	Values []any
}

type serverTimestamp struct{}

// ServerTimestamp is replaced by the store's commit time when written.
var ServerTimestamp any = serverTimestamp{}

// Store reads and writes documents.
type Store interface {
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, updates map[string]any) error
}
