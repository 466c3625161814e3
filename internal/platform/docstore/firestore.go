package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Query returns all documents in collection matching filter.
func (s *FirestoreStore) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	q := s.client.Collection(collection).Where(filter.Field, string(filter.Op), toFirestoreValue(filter.Value))
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, classify(fmt.Sprintf("query %s", collection), err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

// Add creates a document with a generated ID.
func (s *FirestoreStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, toFirestoreMap(data))
	if err != nil {
		return "", classify(fmt.Sprintf("add %s", collection), err)
	}
	return ref.ID, nil
}

// Update applies a partial update to an existing document.
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, updates map[string]any) error {
	fu := make([]firestore.Update, 0, len(updates))
	for path, v := range updates {
		fu = append(fu, firestore.Update{Path: path, Value: toFirestoreValue(v)})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, fu); err != nil {
		return classify(fmt.Sprintf("update %s/%s", collection, id), err)
	}
	return nil
}

// classify maps gRPC status codes onto the package sentinels, keeping the original error.
func classify(op string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func toFirestoreValue(v any) any {
	switch t := v.(type) {
	case ArrayUnion:
		return firestore.ArrayUnion(t.Values...)
	case serverTimestamp:
		return firestore.ServerTimestamp
	case map[string]any:
		return toFirestoreMap(t)
	default:
		return v
	}
}

func toFirestoreMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = toFirestoreValue(v)
	}
	return out
}

// Compile-time interface check
var _ Store = (*FirestoreStore)(nil)
