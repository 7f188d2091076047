package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so the store works with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PostgresStore keeps session keys in the session_cache table.
type PostgresStore struct {
	db    DBTX
	scope string
}

// NewPostgresStore returns a store whose keys are namespaced by scope, usually the
// bettor profile the gateway serves.
func NewPostgresStore(db DBTX, scope string) *PostgresStore {
	return &PostgresStore{db: db, scope: scope}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `
		SELECT value FROM session_cache
		WHERE scope = $1 AND key = $2
		  AND (expires_at IS NULL OR expires_at > now())`,
		s.scope, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session key %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO session_cache (scope, key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (scope, key)
		DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()`,
		s.scope, key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert session key %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM session_cache WHERE scope = $1 AND key = $2`, s.scope, key)
	if err != nil {
		return fmt.Errorf("delete session key %s: %w", key, err)
	}
	return nil
}
