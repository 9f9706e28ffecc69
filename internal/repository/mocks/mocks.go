package mocks

import (
	"context"

	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/notify"
	"github.com/stretchr/testify/mock"
)

// ClientRepository is a mock for client.Repository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]client.Client); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*client.Client); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// Modify applies fn to a copy of the client the expectation returns.
func (m *ClientRepository) Modify(ctx context.Context, id string, fn func(*client.Client) error) (*client.Client, error) {
	args := m.Called(ctx, id)
	rec, ok := args.Get(0).(*client.Client)
	if !ok || args.Error(1) != nil {
		return nil, args.Error(1)
	}
	updated := rec.Clone()
	if err := fn(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *ClientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ClientRepository) ReplaceAll(ctx context.Context, clients []client.Client) error {
	args := m.Called(ctx, clients)
	return args.Error(0)
}

// LogRepository is a mock for audit.Repository.
type LogRepository struct {
	mock.Mock
}

func (m *LogRepository) Append(ctx context.Context, entry audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *LogRepository) List(ctx context.Context, opts audit.ListOptions) ([]audit.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]audit.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// AuditLogger is a mock for client.AuditLogger.
type AuditLogger struct {
	mock.Mock
}

func (m *AuditLogger) Record(ctx context.Context, entry audit.Entry) (*audit.Entry, error) {
	args := m.Called(ctx, entry)
	if rec, ok := args.Get(0).(*audit.Entry); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

// StateStore is a mock for repository.StateStore.
type StateStore struct {
	mock.Mock
}

func (m *StateStore) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StateStore) Save(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

// TextGenerator is a mock for notify.TextGenerator.
type TextGenerator struct {
	mock.Mock
}

func (m *TextGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	args := m.Called(ctx, model, prompt)
	return args.String(0), args.Error(1)
}

// WebhookSender is a mock for notify.Sender.
type WebhookSender struct {
	mock.Mock
}

func (m *WebhookSender) Send(ctx context.Context, payload notify.Payload) bool {
	args := m.Called(ctx, payload)
	return args.Bool(0)
}
