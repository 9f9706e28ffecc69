package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/pronix-hub/internal/util"
)

// Service handles audit log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new audit service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithClock overrides the time source used for entry timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record stamps and appends a log entry. Empty values become "N/A" and the
// actor defaults to the user carried by ctx.
func (s *Service) Record(ctx context.Context, entry Entry) (*Entry, error) {
	if strings.TrimSpace(entry.CampoAlterado) == "" {
		return nil, ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = util.NewID("LOG", 5)
	}
	if entry.ValorAntigo == "" {
		entry.ValorAntigo = NotAvailable
	}
	if entry.ValorNovo == "" {
		entry.ValorNovo = NotAvailable
	}
	if entry.Usuario == "" {
		entry.Usuario = ActorFromContext(ctx)
	}
	if entry.Timestamp == "" {
		entry.Timestamp = s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending log entry: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("audit entry recorded", "client_id", entry.ClientID, "field", entry.CampoAlterado)
	}
	return &entry, nil
}

// RecordExternal logs that a client was pushed to an external system.
func (s *Service) RecordExternal(ctx context.Context, clientID, clientName, action string) (*Entry, error) {
	return s.Record(ctx, Entry{
		ClientID:      clientID,
		ClientName:    clientName,
		CampoAlterado: action,
		ValorAntigo:   "Manual",
		ValorNovo:     "Enviado Externo",
	})
}

// List returns log entries, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	return s.repo.List(ctx, opts)
}
