// Package postgres provides a Postgres-backed metacache store for
// deployments that share the metadata cache across hosts.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists cache entries in the metadata_cache table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the cache table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS metadata_cache (
			cache_key text PRIMARY KEY,
			cache_value text NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Load returns the full cache mapping. A query failure is reported with an
// empty mapping so a cold start stays non-fatal.
func (s *Store) Load(ctx context.Context) (map[string]string, error) {
	data := make(map[string]string)
	rows, err := s.pool.Query(ctx, `SELECT cache_key, cache_value FROM metadata_cache`)
	if err != nil {
		return data, fmt.Errorf("load cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return data, fmt.Errorf("scan cache row: %w", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return data, fmt.Errorf("read cache rows: %w", err)
	}
	return data, nil
}

// Put upserts one cache entry. Fields are immutable once known, so the
// upsert only ever rewrites an entry with the same value.
func (s *Store) Put(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO metadata_cache (cache_key, cache_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (cache_key) DO UPDATE
		SET cache_value = EXCLUDED.cache_value, updated_at = now()
	`, key, value)
	return err
}
