package client

import (
	"context"

	"github.com/rpggio/pronix-hub/internal/domain/audit"
)

// Repository provides persistence for clients. List preserves insertion order.
type Repository interface {
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id string) (*Client, error)
	Create(ctx context.Context, c *Client) error
	// Modify runs fn on the stored client and saves the result atomically.
	Modify(ctx context.Context, id string, fn func(*Client) error) (*Client, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, clients []Client) error
}

// AuditLogger records changes made to clients.
type AuditLogger interface {
	Record(ctx context.Context, entry audit.Entry) (*audit.Entry, error)
}
