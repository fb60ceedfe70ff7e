package docstore

import (
	"context"
	"errors"
)

// Op is a filter comparison operator.
type Op string

const (
	// OpEqual matches documents whose field equals the filter value.
	OpEqual Op = "eq"
	// OpNotEqual matches documents whose field differs from the filter
	// value. A missing field is treated as not-equal.
	OpNotEqual Op = "neq"
)

// Filter is a single field predicate. Filters in a query are ANDed.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// NotEq builds an inequality filter.
func NotEq(field string, value any) Filter {
	return Filter{Field: field, Op: OpNotEqual, Value: value}
}

// Document is a stored record: an id plus a flat field map.
type Document struct {
	ID     string
	Fields map[string]any
}

// Common errors.
var (
	ErrClosed = errors.New("store is closed")
)

// Store is the abstract document store the resolution pipeline runs
// against. Implementations must be safe for concurrent use.
type Store interface {
	// Query returns all documents in the collection matching every filter.
	// Result order is unspecified but stable per implementation.
	Query(ctx context.Context, collection string, filters []Filter) ([]Document, error)

	// Create inserts a new document with a generated id and server-assigned
	// createdAt/updatedAt timestamps. Returns the generated id.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)

	// CreateUnique inserts a new document guarded by a uniqueness key.
	// If a document was already created under the same key, no write
	// happens and the existing document's id is returned with
	// created=false. The key check and the insert are atomic.
	CreateUnique(ctx context.Context, collection, uniqueKey string, fields map[string]any) (id string, created bool, err error)

	// Close releases store resources.
	Close() error
}

// matches reports whether a document satisfies all filters.
func matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		got, ok := doc.Fields[f.Field]
		switch f.Op {
		case OpEqual:
			if !ok || !valuesEqual(got, f.Value) {
				return false
			}
		case OpNotEqual:
			if ok && valuesEqual(got, f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// valuesEqual compares two field values. JSON decoding yields strings,
// bools, and float64s; integers are widened so callers can filter with
// plain int literals.
func valuesEqual(a, b any) bool {
	if na, ok := asFloat(a); ok {
		if nb, ok := asFloat(b); ok {
			return na == nb
		}
		return false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
