package store

import "context"

// KeyValue is a single key/value pair returned by List.
type KeyValue struct {
	Key   string
	Value []byte
}

// KVStore defines the interface for durable key-value storage.
// RedisStore, SQLiteStore, PostgresStore and MemoryStore implement this interface.
//
// Keys are namespaced by the callers (e.g. "users/<id>") and enumerated in
// ascending key order, which is what makes cursor pagination stable.
type KVStore interface {
	// Get returns the value for key, with found=false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put writes value under key, overwriting any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// List returns up to limit pairs whose keys start with prefix, in
	// ascending key order, starting strictly after the `after` key.
	// Pass after="" to start from the beginning of the prefix.
	List(ctx context.Context, prefix, after string, limit int) ([]KeyValue, error)

	// Connection management
	Ping(ctx context.Context) error
	Close() error
}
