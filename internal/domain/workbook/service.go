package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/spreadsheet"
)

// Service imports and exports the client base.
type Service struct {
	clients Clients
	audit   AuditLogger
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new workbook service.
func NewService(clients Clients, auditLog AuditLogger, logger *slog.Logger) *Service {
	return &Service{
		clients: clients,
		audit:   auditLog,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Import replaces the whole client list with the rows of a spreadsheet file.
// Any parse failure leaves the current list untouched.
func (s *Service) Import(ctx context.Context, data []byte, filename string) (*ImportResult, error) {
	clients, err := spreadsheet.Parse(data, filename, s.now())
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("spreadsheet import rejected", "file", filename, "error", err)
		}
		return nil, fmt.Errorf("importing %s: %w", filename, err)
	}

	if err := s.clients.ReplaceAll(ctx, clients); err != nil {
		return nil, fmt.Errorf("importing %s: %w", filename, err)
	}

	s.log(ctx, audit.Entry{
		ClientID:      ImportSource,
		ClientName:    ImportLabel,
		CampoAlterado: audit.FieldWorkbook,
		ValorAntigo:   audit.NotAvailable,
		ValorNovo:     fmt.Sprintf("%d Mentorados Atualizados", len(clients)),
	})
	if s.logger != nil {
		s.logger.Info("spreadsheet imported", "file", filename, "clients", len(clients))
	}
	return &ImportResult{Count: len(clients)}, nil
}

// Export renders every client into a downloadable workbook.
func (s *Service) Export(ctx context.Context) (*File, error) {
	clients, err := s.clients.List(ctx, client.Filter{})
	if err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}

	data, err := spreadsheet.Export(clients)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("spreadsheet export failed", "error", err)
		}
		return nil, fmt.Errorf("exporting: %w", err)
	}

	s.log(ctx, audit.Entry{
		ClientID:      ExportSource,
		ClientName:    ExportLabel,
		CampoAlterado: audit.FieldWorkbook,
		ValorAntigo:   "Atual",
		ValorNovo:     "Arquivo Gerado",
	})
	return &File{
		Filename:    spreadsheet.Filename(s.now()),
		ContentType: spreadsheet.ContentType,
		Data:        data,
	}, nil
}

func (s *Service) log(ctx context.Context, entry audit.Entry) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to record audit entry", "field", entry.CampoAlterado, "error", err)
	}
}
