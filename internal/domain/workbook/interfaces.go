package workbook

import (
	"context"

	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
)

// Clients is the part of the client service a workbook sync needs.
type Clients interface {
	List(ctx context.Context, filter client.Filter) ([]client.Client, error)
	ReplaceAll(ctx context.Context, clients []client.Client) error
}

// AuditLogger records workbook syncs.
type AuditLogger interface {
	Record(ctx context.Context, entry audit.Entry) (*audit.Entry, error)
}
