package repository

import "context"

// StateStore persists opaque documents under string keys
type StateStore interface {
	// Load returns ErrNotFound when key was never saved.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
