package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Key layout:
//
//	doc/{collection}/{id}   → JSON-encoded field map
//	uniq/{collection}/{key} → id of the document that won the key
//
// The uniq entry is written in the same transaction as its document, so a
// concurrent CreateUnique with the same key either sees the entry or
// conflicts and retries.
const (
	docKeyPrefix  = "doc/"
	uniqKeyPrefix = "uniq/"
)

// createUniqueRetries bounds retry attempts on Badger transaction
// conflicts. Conflicts only occur when two writers race the same key, so
// the loser resolves on the first retry.
const createUniqueRetries = 3

// BadgerStore is an embedded persistent Store backed by BadgerDB.
//
// Documents are service data of modest cardinality; an embedded KV with
// prefix iteration covers the equality-filter contract without a network
// dependency.
type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewBadgerStore opens (or creates) a Badger database at dir.
func NewBadgerStore(dir string, logger *zap.Logger) (*BadgerStore, error) {
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logger is noisy; zap covers us
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %s: %w", dir, err)
	}

	return &BadgerStore{db: db, logger: logger}, nil
}

func docKey(collection, id string) []byte {
	return []byte(docKeyPrefix + collection + "/" + id)
}

func uniqKey(collection, key string) []byte {
	return []byte(uniqKeyPrefix + collection + "/" + key)
}

// Query iterates the collection prefix and filters locally.
func (s *BadgerStore) Query(ctx context.Context, collection string, filters []Filter) ([]Document, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	prefix := []byte(docKeyPrefix + collection + "/")
	var docs []Document

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := it.Item()
			id := string(item.Key()[len(prefix):])

			err := item.Value(func(val []byte) error {
				var fields map[string]any
				if err := json.Unmarshal(val, &fields); err != nil {
					// A corrupt record should not hide the rest of
					// the collection.
					s.logger.Warn("skipping undecodable document",
						zap.String("collection", collection),
						zap.String("id", id),
						zap.Error(err))
					return nil
				}
				doc := Document{ID: id, Fields: fields}
				if matches(doc, filters) {
					docs = append(docs, doc)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}
	return docs, nil
}

// Create inserts a document with a generated id and server timestamps.
func (s *BadgerStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	payload, err := encodeFields(fields)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(collection, id), payload)
	})
	if err != nil {
		return "", fmt.Errorf("creating document in %s: %w", collection, err)
	}
	return id, nil
}

// CreateUnique inserts a document guarded by a uniqueness key. The key
// lookup and both writes happen in one transaction; Badger's conflict
// detection serializes racing writers.
func (s *BadgerStore) CreateUnique(ctx context.Context, collection, uniqueKey string, fields map[string]any) (string, bool, error) {
	if err := s.checkOpen(); err != nil {
		return "", false, err
	}
	if uniqueKey == "" {
		id, err := s.Create(ctx, collection, fields)
		return id, err == nil, err
	}

	payload, err := encodeFields(fields)
	if err != nil {
		return "", false, err
	}

	var lastErr error
	for attempt := 0; attempt < createUniqueRetries; attempt++ {
		id := uuid.NewString()
		var existingID string

		err := s.db.Update(func(txn *badger.Txn) error {
			existingID = ""
			item, err := txn.Get(uniqKey(collection, uniqueKey))
			if err == nil {
				return item.Value(func(val []byte) error {
					existingID = string(val)
					return nil
				})
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set(uniqKey(collection, uniqueKey), []byte(id)); err != nil {
				return err
			}
			return txn.Set(docKey(collection, id), payload)
		})

		if errors.Is(err, badger.ErrConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("creating unique document in %s: %w", collection, err)
		}
		if existingID != "" {
			return existingID, false, nil
		}
		return id, true, nil
	}
	return "", false, fmt.Errorf("creating unique document in %s: %w", collection, lastErr)
}

// Close closes the underlying database. Safe to call more than once.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *BadgerStore) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// encodeFields stamps server timestamps and serializes the field map.
func encodeFields(fields map[string]any) ([]byte, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	stamped := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		stamped[k] = v
	}
	if _, ok := stamped["createdAt"]; !ok {
		stamped["createdAt"] = now
	}
	stamped["updatedAt"] = now

	payload, err := json.Marshal(stamped)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return payload, nil
}
