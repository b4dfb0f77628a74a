package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/threadcraft/backend/internal/db"
	"github.com/threadcraft/backend/internal/storage"
)

// PostgresRecordStore persists opaque user records to PostgreSQL. Records
// live until explicitly deleted; expiry is the in-memory backend's policy,
// not this one's.
type PostgresRecordStore struct {
	pool db.Pool
	now  func() time.Time
}

// NewPostgresRecordStore constructs a record store backed by PostgreSQL.
func NewPostgresRecordStore(pool db.Pool) *PostgresRecordStore {
	return &PostgresRecordStore{pool: pool, now: time.Now}
}

// Get loads the record stored under key.
func (s *PostgresRecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT value
        FROM user_records
        WHERE key = $1
    `, key)

	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("select user record: %w", err)
	}

	return value, nil
}

// Set stores value under key, replacing any previous record.
func (s *PostgresRecordStore) Set(ctx context.Context, key string, value []byte) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO user_records (key, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `, key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("upsert user record: %w", err)
	}

	return nil
}

// Delete removes the record stored under key. It reports whether a record
// was removed.
func (s *PostgresRecordStore) Delete(ctx context.Context, key string) (bool, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM user_records
        WHERE key = $1
    `, key)
	if err != nil {
		return false, fmt.Errorf("delete user record: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// WithNowFunc allows tests to override the time source.
func (s *PostgresRecordStore) WithNowFunc(now func() time.Time) {
	s.now = now
}

var _ storage.Store = (*PostgresRecordStore)(nil)
