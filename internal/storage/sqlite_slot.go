package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/roadmap/internal/db"
)

// SQLiteSlot stores slots as rows of the local_storage table.
type SQLiteSlot struct {
	db db.DBTX
}

// NewSQLiteSlot creates a SQLiteSlot over a migrated database.
func NewSQLiteSlot(conn db.DBTX) *SQLiteSlot {
	return &SQLiteSlot{db: conn}
}

func (s *SQLiteSlot) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("slot %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("reading slot %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteSlot) Set(ctx context.Context, key, value string) error {
	now := nowUTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO local_storage (key, value, updated_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now, now)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", key, err)
	}
	return nil
}

// UpdatedAt reports when a key was last written.
func (s *SQLiteSlot) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM local_storage WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("slot %q: %w", key, ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("reading slot %q: %w", key, err)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing updated_at for slot %q: %w", key, err)
	}
	return t, nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
