// Package hub keeps the client list and the change log in memory and writes
// both back, as one serialized document, after every change.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/repository"
)

// StorageKey is the key the hub document is persisted under.
const StorageKey = "pronix_hub_v6"

// Document is the persisted form of the hub.
type Document struct {
	Clients []client.Client `json:"clients"`
	Logs    []audit.Entry   `json:"logs"`
}

// Store implements client.Repository over in-memory state; Logs exposes the
// change log as an audit.Repository. Writers are serialized; a failed write leaves the state untouched.
type Store struct {
	mu      sync.RWMutex
	state   repository.StateStore
	key     string
	clients []client.Client
	logs    []audit.Entry
	logger  *slog.Logger
}

// New creates an empty store backed by state.
func New(state repository.StateStore, logger *slog.Logger) *Store {
	return &Store{
		state:   state,
		key:     StorageKey,
		clients: []client.Client{},
		logs:    []audit.Entry{},
		logger:  logger,
	}
}

// Load reads the persisted document. When nothing was saved yet the store
// starts with seed, which is persisted immediately.
func (s *Store) Load(ctx context.Context, seed []client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.state.Load(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		clients := make([]client.Client, 0, len(seed))
		for _, c := range seed {
			c = c.Clone()
			client.Normalize(&c)
			clients = append(clients, c)
		}
		if s.logger != nil {
			s.logger.Info("no saved hub state, starting from seed", "clients", len(clients))
		}
		return s.commitLocked(ctx, clients, []audit.Entry{})
	}
	if err != nil {
		return fmt.Errorf("loading hub state: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrCorrupt, err)
	}
	if doc.Clients == nil {
		doc.Clients = []client.Client{}
	}
	if doc.Logs == nil {
		doc.Logs = []audit.Entry{}
	}
	for i := range doc.Clients {
		client.Normalize(&doc.Clients[i])
	}
	s.clients = doc.Clients
	s.logs = doc.Logs
	if s.logger != nil {
		s.logger.Info("hub state loaded", "clients", len(s.clients), "logs", len(s.logs))
	}
	return nil
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Document{
		Clients: cloneClients(s.clients),
		Logs:    slices.Clone(s.logs),
	}
}

// List returns every client in stored order.
func (s *Store) List(_ context.Context) ([]client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneClients(s.clients), nil
}

// Get returns a copy of the client with id.
func (s *Store) Get(_ context.Context, id string) (*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	c := s.clients[idx].Clone()
	return &c, nil
}

// Create appends a client. The ID must be unused.
func (s *Store) Create(ctx context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(c.ID) >= 0 {
		return repository.ErrConflict
	}
	clients := append(cloneClients(s.clients), c.Clone())
	return s.commitLocked(ctx, clients, s.logs)
}

// Modify applies fn to a copy of the client with id and persists the result.
// The read and the write happen under one lock, so concurrent edits of the
// same client are applied one after the other. An error from fn aborts the
// change. The ID cannot be changed.
func (s *Store) Modify(ctx context.Context, id string, fn func(*client.Client) error) (*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	updated := s.clients[idx].Clone()
	if err := fn(&updated); err != nil {
		return nil, err
	}
	updated.ID = id
	clients := cloneClients(s.clients)
	clients[idx] = updated.Clone()
	if err := s.commitLocked(ctx, clients, s.logs); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the client with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return repository.ErrNotFound
	}
	clients := slices.Delete(cloneClients(s.clients), idx, idx+1)
	return s.commitLocked(ctx, clients, s.logs)
}

// ReplaceAll swaps the whole client list.
func (s *Store) ReplaceAll(ctx context.Context, clients []client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, cloneClients(clients), s.logs)
}

// Logs returns the change log view of the store.
func (s *Store) Logs() audit.Repository {
	return logView{s}
}

type logView struct{ s *Store }

func (v logView) Append(ctx context.Context, entry audit.Entry) error {
	return v.s.Append(ctx, entry)
}

func (v logView) List(ctx context.Context, opts audit.ListOptions) ([]audit.Entry, error) {
	return v.s.Entries(ctx, opts)
}

// Append prepends entry to the log.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]audit.Entry, 0, len(s.logs)+1)
	logs = append(logs, entry)
	logs = append(logs, s.logs...)
	return s.commitLocked(ctx, s.clients, logs)
}

// Entries returns log entries newest first, filtered by opts.
func (s *Store) Entries(_ context.Context, opts audit.ListOptions) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]audit.Entry, 0, len(s.logs))
	for _, entry := range s.logs {
		if opts.ClientID != "" && entry.ClientID != opts.ClientID {
			continue
		}
		out = append(out, entry)
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []audit.Entry{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.clients, func(c client.Client) bool { return c.ID == id })
}

// commitLocked persists the candidate state and adopts it on success.
func (s *Store) commitLocked(ctx context.Context, clients []client.Client, logs []audit.Entry) error {
	data, err := json.Marshal(Document{Clients: clients, Logs: logs})
	if err != nil {
		return fmt.Errorf("encoding hub state: %w", err)
	}
	if err := s.state.Save(ctx, s.key, data); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to persist hub state", "error", err)
		}
		return fmt.Errorf("saving hub state: %w", err)
	}
	s.clients = clients
	s.logs = logs
	return nil
}

func cloneClients(in []client.Client) []client.Client {
	out := make([]client.Client, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
