package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a KVStore backed by PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool}

	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates the kv table if it doesn't exist.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v BYTEA NOT NULL
		)
	`)
	return err
}

// Get returns the value for key.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT v FROM kv WHERE k = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put writes value under key, overwriting any existing value.
func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv (k, v) VALUES ($1, $2)
		ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v
	`, key, value)
	return err
}

// Delete removes key and reports whether it existed.
func (s *PostgresStore) Delete(ctx context.Context, key string) (bool, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM kv WHERE k = $1`, key)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// List returns pairs under prefix in ascending key order, after the given key.
// Prefixes contain no LIKE metacharacters (collection names are fixed).
func (s *PostgresStore) List(ctx context.Context, prefix, after string, limit int) ([]KeyValue, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT k, v FROM kv
		WHERE k LIKE $1 || '%' AND k > $2
		ORDER BY k
		LIMIT $3
	`, prefix, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []KeyValue
	for rows.Next() {
		var kv KeyValue
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, err
		}
		pairs = append(pairs, kv)
	}
	return pairs, rows.Err()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
