package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and by deployments
// that do not need persistence. Semantics match BadgerStore, including
// CreateUnique atomicity.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]map[string]map[string]any // collection → id → fields
	unique map[string]string                    // collection/key → id
	closed bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:   make(map[string]map[string]map[string]any),
		unique: make(map[string]string),
	}
}

// Query returns matching documents ordered by id for deterministic tests.
func (s *MemoryStore) Query(ctx context.Context, collection string, filters []Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var docs []Document
	for id, fields := range s.docs[collection] {
		doc := Document{ID: id, Fields: fields}
		if matches(doc, filters) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Create inserts a document with a generated id.
func (s *MemoryStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	id := uuid.NewString()
	s.insertLocked(collection, id, fields)
	return id, nil
}

// CreateUnique inserts a document guarded by a uniqueness key.
func (s *MemoryStore) CreateUnique(ctx context.Context, collection, uniqueKey string, fields map[string]any) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}

	if uniqueKey != "" {
		if existing, ok := s.unique[collection+"/"+uniqueKey]; ok {
			return existing, false, nil
		}
	}

	id := uuid.NewString()
	s.insertLocked(collection, id, fields)
	if uniqueKey != "" {
		s.unique[collection+"/"+uniqueKey] = id
	}
	return id, true, nil
}

// Seed inserts a document under a caller-chosen id. Test helper.
func (s *MemoryStore) Seed(collection, id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(collection, id, fields)
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) insertLocked(collection, id string, fields map[string]any) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	stamped := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		stamped[k] = v
	}
	if _, ok := stamped["createdAt"]; !ok {
		stamped["createdAt"] = now
	}
	stamped["updatedAt"] = now

	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]map[string]any)
	}
	s.docs[collection][id] = stamped
}
