// Package entity implements a generic paginated collection of JSON records
// over the KVStore contract. Each collection owns the key namespace
// "<name>/<id>" and pages through it in ascending id order.
package entity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/store"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrBadCursor is returned when a pagination cursor cannot be decoded.
	ErrBadCursor = errors.New("invalid cursor")
)

// DefaultPageSize is used when no limit is supplied.
const DefaultPageSize = 20

// Entity is any record that can be stored under a stable id.
type Entity interface {
	EntityID() string
}

// Page is one page of records plus the cursor for the next page.
// NextCursor is empty on the last page.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// List is a named collection of records of type T with seed-once
// initialization and cursor pagination.
type List[T Entity] struct {
	name string
	seed []T
}

// NewList creates a collection. seed records are written on the first
// EnsureSeed call against an empty collection.
func NewList[T Entity](name string, seed []T) *List[T] {
	return &List[T]{name: name, seed: seed}
}

// Name returns the collection name.
func (l *List[T]) Name() string { return l.name }

func (l *List[T]) prefix() string { return l.name + "/" }

func (l *List[T]) key(id string) string { return l.name + "/" + id }

// EnsureSeed populates the collection with its built-in records if it is
// empty. Idempotence comes from the emptiness probe, not a flag: once any
// record exists (seeded or user-created) this is a no-op.
func (l *List[T]) EnsureSeed(ctx context.Context, kv store.KVStore) error {
	existing, err := kv.List(ctx, l.prefix(), "", 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, rec := range l.seed {
		if err := l.Create(ctx, kv, rec); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a record keyed by its id. An id collision overwrites
// silently (last-write-wins); there is no optimistic-concurrency check.
func (l *List[T]) Create(ctx context.Context, kv store.KVStore, rec T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return kv.Put(ctx, l.key(rec.EntityID()), data)
}

// Get retrieves a record by id, or ErrNotFound.
func (l *List[T]) Get(ctx context.Context, kv store.KVStore, id string) (T, error) {
	var rec T

	data, found, err := kv.Get(ctx, l.key(id))
	if err != nil {
		return rec, err
	}
	if !found {
		return rec, ErrNotFound
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Exists reports whether a record with the given id exists.
func (l *List[T]) Exists(ctx context.Context, kv store.KVStore, id string) (bool, error) {
	_, found, err := kv.Get(ctx, l.key(id))
	return found, err
}

// ListPage returns one page of records in ascending id order.
//
// cursor is an opaque token from a prior page ("" for the first page).
// The cursor encodes the last-seen id rather than an offset, so pages
// issued before a concurrent append stay valid: already-returned records
// are never duplicated or skipped within a sweep.
func (l *List[T]) ListPage(ctx context.Context, kv store.KVStore, cursor string, limit int) (Page[T], error) {
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 1 {
		limit = 1
	}

	after := ""
	if cursor != "" {
		id, err := decodeCursor(cursor)
		if err != nil {
			return Page[T]{}, err
		}
		after = l.key(id)
	}

	// Fetch one extra pair to know whether another page exists.
	pairs, err := kv.List(ctx, l.prefix(), after, limit+1)
	if err != nil {
		return Page[T]{}, err
	}

	hasMore := len(pairs) > limit
	if hasMore {
		pairs = pairs[:limit]
	}

	page := Page[T]{Items: make([]T, 0, len(pairs))}
	for _, pair := range pairs {
		var rec T
		if err := json.Unmarshal(pair.Value, &rec); err != nil {
			return Page[T]{}, err
		}
		page.Items = append(page.Items, rec)
	}

	if hasMore {
		page.NextCursor = encodeCursor(page.Items[len(page.Items)-1].EntityID())
	}
	return page, nil
}

// Delete removes a record and reports whether it existed. Deleting an
// absent id is not an error.
func (l *List[T]) Delete(ctx context.Context, kv store.KVStore, id string) (bool, error) {
	return kv.Delete(ctx, l.key(id))
}

// DeleteMany removes each id independently and returns how many existed.
// Missing ids are skipped, not reported as errors.
func (l *List[T]) DeleteMany(ctx context.Context, kv store.KVStore, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		existed, err := kv.Delete(ctx, l.key(id))
		if err != nil {
			return deleted, err
		}
		if existed {
			deleted++
		}
	}
	return deleted, nil
}

func encodeCursor(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func decodeCursor(cursor string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil || len(raw) == 0 {
		return "", ErrBadCursor
	}
	return string(raw), nil
}
