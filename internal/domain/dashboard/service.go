package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/pronix-hub/internal/domain/client"
)

// Clients lists the clients the dashboard is computed from.
type Clients interface {
	List(ctx context.Context, filter client.Filter) ([]client.Client, error)
}

// Service serves dashboard figures.
type Service struct {
	clients Clients
	now     func() time.Time
}

// NewService creates a new dashboard service.
func NewService(clients Clients) *Service {
	return &Service{clients: clients, now: time.Now}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get computes the current figures.
func (s *Service) Get(ctx context.Context) (Stats, error) {
	clients, err := s.clients.List(ctx, client.Filter{})
	if err != nil {
		return Stats{}, fmt.Errorf("loading clients: %w", err)
	}
	return Compute(clients, s.now()), nil
}
