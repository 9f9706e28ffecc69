package sqlite

import (
	"context"
	"fmt"
	"time"
)

// StateStore implements repository.StateStore on the kv_state table.
type StateStore struct {
	db *DB
}

// NewStateStore creates a new StateStore
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// Load returns the document stored under key.
func (s *StateStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_state WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if mapped := mapError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to load state %q: %w", key, err)
	}
	return value, nil
}

// Save writes data under key, replacing any previous document.
func (s *StateStore) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, data, time.Now().UTC()); err != nil {
		if isBusy(err) {
			return fmt.Errorf("failed to save state %q: database busy: %w", key, err)
		}
		return fmt.Errorf("failed to save state %q: %w", key, err)
	}
	return nil
}
