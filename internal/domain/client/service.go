package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/pronix-hub/internal/dates"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/repository"
	"github.com/rpggio/pronix-hub/internal/util"
)

const idPrefix = "PRX"

// Service handles client business logic.
type Service struct {
	clients Repository
	audit   AuditLogger
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new client service.
func NewService(clients Repository, auditLog AuditLogger, logger *slog.Logger) *Service {
	return &Service{
		clients: clients,
		audit:   auditLog,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the time source used for timestamps and date health.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now returns the service's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Create adds a manually entered client. A missing ID is generated.
func (s *Service) Create(ctx context.Context, c Client) (*Client, error) {
	if err := ValidateClient(c); err != nil {
		return nil, err
	}

	rec := c.Clone()
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = util.NewID(idPrefix, 4)
	}
	if rec.Status == "" {
		rec.Status = StatusAtivo
	}
	if rec.Status == StatusCancelado && rec.DataCancelamento == "" {
		rec.DataCancelamento = dates.Today(s.now())
	}
	s.stamp(&rec)

	if err := s.clients.Create(ctx, &rec); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateID
		}
		return nil, fmt.Errorf("creating client: %w", err)
	}

	s.log(ctx, audit.Entry{
		ClientID:      rec.ID,
		ClientName:    rec.NomeEmpresa,
		CampoAlterado: audit.FieldCreated,
		ValorNovo:     "Mentorado adicionado",
	})
	return &rec, nil
}

// Save replaces an existing client wholesale. Next activation dates are
// recomputed from their activation dates and any client-supplied value is
// discarded.
func (s *Service) Save(ctx context.Context, c Client) (*Client, error) {
	if strings.TrimSpace(c.ID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Edit(ctx, c.ID, func(Client) (Client, error) { return c, nil })
}

// Edit saves the record fn builds from the stored client, with the same
// rules as Save. fn runs while the client is locked against other edits.
func (s *Service) Edit(ctx context.Context, id string, fn func(current Client) (Client, error)) (*Client, error) {
	var previous Status
	updated, err := s.clients.Modify(ctx, id, func(current *Client) error {
		c, err := fn(current.Clone())
		if err != nil {
			return err
		}
		c.ID = current.ID
		// Imported records may carry statuses outside the known set; only a
		// change of status is validated.
		if c.Status != current.Status {
			if err := ValidateClient(c); err != nil {
				return err
			}
		}
		previous = current.Status

		next := c.Clone()
		if next.Status == "" {
			next.Status = current.Status
		}
		if next.Status == StatusCancelado && current.Status != StatusCancelado && next.DataCancelamento == "" {
			next.DataCancelamento = dates.Today(s.now())
		}
		s.stamp(&next)
		*current = next
		return nil
	})
	if err != nil {
		return nil, modifyError(err)
	}

	if updated.Status != previous {
		s.log(ctx, audit.Entry{
			ClientID:      updated.ID,
			ClientName:    updated.NomeEmpresa,
			CampoAlterado: audit.FieldStatus,
			ValorAntigo:   string(previous),
			ValorNovo:     string(updated.Status),
		})
	}
	s.log(ctx, audit.Entry{
		ClientID:      updated.ID,
		ClientName:    updated.NomeEmpresa,
		CampoAlterado: audit.FieldManualUpdate,
		ValorNovo:     "Datas de Ativação recalculadas",
	})
	return updated, nil
}

// Get returns a client by ID.
func (s *Service) Get(ctx context.Context, id string) (*Client, error) {
	rec, err := s.clients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return rec, nil
}

// List returns the clients matching filter, in stored order.
func (s *Service) List(ctx context.Context, filter Filter) ([]Client, error) {
	all, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return Apply(all, filter, s.now()), nil
}

// Rows returns the list-view projection of the clients matching filter.
func (s *Service) Rows(ctx context.Context, filter Filter) ([]Row, error) {
	matched, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rows := make([]Row, 0, len(matched))
	for _, c := range matched {
		rows = append(rows, Summarize(c, now))
	}
	return rows, nil
}

// Options returns the filter values available for the current clients.
func (s *Service) Options(ctx context.Context) (FilterOptions, error) {
	all, err := s.clients.List(ctx)
	if err != nil {
		return FilterOptions{}, fmt.Errorf("listing clients: %w", err)
	}
	return Options(all), nil
}

// Delete removes a client.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.clients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("loading client: %w", err)
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("deleting client: %w", err)
	}
	s.log(ctx, audit.Entry{
		ClientID:      current.ID,
		ClientName:    current.NomeEmpresa,
		CampoAlterado: audit.FieldRemoved,
		ValorAntigo:   current.NomeEmpresa,
		ValorNovo:     "Removido da Carteira",
	})
	return nil
}

// AddComment prepends a comment and mirrors its text at the top of the notes.
func (s *Service) AddComment(ctx context.Context, id, author, text string) (*Client, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(author) == "" {
		author = "Admin"
	}

	updated, err := s.clients.Modify(ctx, id, func(current *Client) error {
		comment := Comment{
			ID:        util.ShortID(9),
			Autor:     author,
			Timestamp: Timestamp(s.now()),
			Text:      text,
		}
		current.Comentarios = append([]Comment{comment}, current.Comentarios...)
		if current.Observacoes == "" {
			current.Observacoes = text
		} else {
			current.Observacoes = text + "\n\n" + current.Observacoes
		}
		s.stamp(current)
		return nil
	})
	if err != nil {
		return nil, modifyError(err)
	}

	s.log(ctx, audit.Entry{
		ClientID:      updated.ID,
		ClientName:    updated.NomeEmpresa,
		CampoAlterado: audit.FieldComment,
		ValorNovo:     text,
	})
	return updated, nil
}

// ReplaceAll swaps the whole client list, as done by a spreadsheet import.
// Identifiers must be unique.
func (s *Service) ReplaceAll(ctx context.Context, clients []Client) error {
	seen := make(map[string]struct{}, len(clients))
	for _, c := range clients {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	if err := s.clients.ReplaceAll(ctx, clients); err != nil {
		return fmt.Errorf("replacing clients: %w", err)
	}
	return nil
}

// modifyError maps repository failures and passes validation errors through.
func modifyError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrClientNotFound
	case errors.Is(err, ErrUnknownStatus), errors.Is(err, ErrInvalidInput):
		return err
	default:
		return fmt.Errorf("updating client: %w", err)
	}
}

// stamp applies the derived fields every hub edit refreshes.
func (s *Service) stamp(c *Client) {
	Derive(c)
	c.LastModifiedSource = SourceHub
	c.UltimaAtualizacao = Timestamp(s.now())
	Normalize(c)
}

func (s *Service) log(ctx context.Context, entry audit.Entry) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to record audit entry", "client_id", entry.ClientID, "error", err)
	}
}

// Derive recomputes the next activation dates from their activation dates.
func Derive(c *Client) {
	c.ProximaAtivacaoEspecialista = dates.NextActivation(c.DataAtivacaoEspecialista)
	c.ProximaAtivacaoAnalista = dates.NextActivation(c.DataAtivacaoAnalista)
}

// Normalize fills nil lists so the record serializes with empty arrays.
func Normalize(c *Client) {
	if c.Checklists == nil {
		c.Checklists = []ChecklistItem{}
	}
	if c.Comentarios == nil {
		c.Comentarios = []Comment{}
	}
	if c.Etiquetas == nil {
		c.Etiquetas = []string{}
	}
}
