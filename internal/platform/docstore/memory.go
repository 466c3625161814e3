package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in memory. It backs unit tests and local runs without Firestore.
//
// The hooks, when set, run before the matching operation; a non-nil error is returned in
// place of performing it.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	queries     map[string]int

	QueryHook  func(collection string, filter Filter) error
	AddHook    func(collection string, data map[string]any) error
	UpdateHook func(collection, id string, updates map[string]any) error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]any),
		queries:     make(map[string]int),
	}
}

// Seed stores data under collection/id, replacing any existing document.
func (m *MemoryStore) Seed(collection, id string, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection)[id] = cloneMap(data)
}

// Get returns a copy of a stored document.
func (m *MemoryStore) Get(collection, id string) (map[string]any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, false
	}
	return cloneMap(doc), true
}

// Documents returns copies of every document in collection, ordered by ID.
func (m *MemoryStore) Documents(collection string) []Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedDocs(m.collections[collection], func(map[string]any) bool { return true })
}

// QueryCount reports how many queries have been issued against collection.
func (m *MemoryStore) QueryCount(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queries[collection]
}

// Query returns documents matching filter, ordered by ID.
func (m *MemoryStore) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	m.mu.Lock()
	m.queries[collection]++
	m.mu.Unlock()

	if m.QueryHook != nil {
		if err := m.QueryHook(collection, filter); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedDocs(m.collections[collection], func(data map[string]any) bool {
		return matches(data, filter)
	}), nil
}

// Add stores data under a generated ID.
func (m *MemoryStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if m.AddHook != nil {
		if err := m.AddHook(collection, data); err != nil {
			return "", err
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	doc := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			doc[k] = now
			continue
		}
		doc[k] = cloneValue(v)
	}
	m.collection(collection)[id] = doc
	return id, nil
}

// Update applies updates to an existing document, honouring ArrayUnion and ServerTimestamp.
func (m *MemoryStore) Update(ctx context.Context, collection, id string, updates map[string]any) error {
	if m.UpdateHook != nil {
		if err := m.UpdateHook(collection, id, updates); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	now := time.Now().UTC()
	for k, v := range updates {
		switch t := v.(type) {
		case ArrayUnion:
			doc[k] = arrayUnion(doc[k], t.Values)
		case serverTimestamp:
			doc[k] = now
		default:
			doc[k] = cloneValue(v)
		}
	}
	return nil
}

func (m *MemoryStore) collection(name string) map[string]map[string]any {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]map[string]any)
		m.collections[name] = c
	}
	return c
}

func sortedDocs(c map[string]map[string]any, keep func(map[string]any) bool) []Document {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		if keep(c[id]) {
			docs = append(docs, Document{ID: id, Data: cloneMap(c[id])})
		}
	}
	return docs
}

func matches(data map[string]any, f Filter) bool {
	field, ok := data[f.Field]
	if !ok {
		return false
	}
	switch f.Op {
	case ArrayContains:
		list, ok := field.([]any)
		return ok && containsValue(list, f.Value)
	case In:
		candidates, ok := f.Value.([]any)
		return ok && containsValue(candidates, field)
	case Equal:
		return valuesEqual(field, f.Value)
	default:
		return false
	}
}

// arrayUnion appends each value not already present. A non-array existing value is replaced.
func arrayUnion(existing any, values []any) []any {
	list, _ := existing.([]any)
	out := append([]any(nil), list...)
	for _, v := range values {
		if !containsValue(out, v) {
			out = append(out, cloneValue(v))
		}
	}
	return out
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if valuesEqual(item, v) {
			return true
		}
	}
	return false
}

// valuesEqual compares numbers by value regardless of Go type, everything else deeply.
func valuesEqual(a, b any) bool {
	fa, okA := number(a)
	fb, okB := number(b)
	if okA && okB {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)
