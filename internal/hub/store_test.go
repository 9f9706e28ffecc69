package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/repository"
	"github.com/rpggio/pronix-hub/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memState struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemState() *memState {
	return &memState{data: map[string][]byte{}}
}

func (m *memState) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return data, nil
}

func (m *memState) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memState) document(t *testing.T) Document {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	var doc Document
	require.NoError(t, json.Unmarshal(m.data[StorageKey], &doc))
	return doc
}

func newLoadedStore(t *testing.T, seed ...client.Client) (*Store, *memState) {
	t.Helper()
	state := newMemState()
	store := New(state, nil)
	require.NoError(t, store.Load(context.Background(), seed))
	return store, state
}

func TestLoad_SeedsWhenNothingSaved(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	store, state := newLoadedStore(t, SampleClients(now)...)

	clients, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "PRX-001", clients[0].ID)
	assert.Equal(t, "2024-06-22", clients[0].ProximaReuniaoPremium)

	doc := state.document(t)
	assert.Len(t, doc.Clients, 1)
	assert.Empty(t, doc.Logs)
}

func TestLoad_ReadsSavedDocument(t *testing.T) {
	state := newMemState()
	require.NoError(t, state.Save(context.Background(), StorageKey, []byte(`{
		"clients": [{"id": "PRX-7", "nomeEmpresa": "Acme", "status": "Ativo"}],
		"logs": [{"id": "LOG-1", "clientId": "PRX-7", "campoAlterado": "Status"}]
	}`)))

	store := New(state, nil)
	require.NoError(t, store.Load(context.Background(), SampleClients(time.Now())))

	got, err := store.Get(context.Background(), "PRX-7")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.NomeEmpresa)
	assert.NotNil(t, got.Checklists)
	assert.NotNil(t, got.Comentarios)

	_, err = store.Get(context.Background(), "PRX-001")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	logs, err := store.Logs().List(context.Background(), audit.ListOptions{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "LOG-1", logs[0].ID)
}

func TestLoad_CorruptDocument(t *testing.T) {
	state := newMemState()
	require.NoError(t, state.Save(context.Background(), StorageKey, []byte(`{not json`)))

	err := New(state, nil).Load(context.Background(), nil)
	assert.ErrorIs(t, err, repository.ErrCorrupt)
}

func TestLoad_BackendError(t *testing.T) {
	state := new(mocks.StateStore)
	state.On("Load", mock.Anything, StorageKey).Return(nil, errors.New("connection refused"))

	err := New(state, nil).Load(context.Background(), nil)
	assert.ErrorContains(t, err, "connection refused")
}

func TestCreateModifyDelete(t *testing.T) {
	store, state := newLoadedStore(t)
	ctx := context.Background()

	c := &client.Client{ID: "PRX-1", NomeEmpresa: "Acme"}
	require.NoError(t, store.Create(ctx, c))
	assert.ErrorIs(t, store.Create(ctx, c), repository.ErrConflict)

	modified, err := store.Modify(ctx, "PRX-1", func(c *client.Client) error {
		c.NomeEmpresa = "Acme Ltda"
		c.ID = "PRX-2"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "PRX-1", modified.ID, "the id is kept")
	got, err := store.Get(ctx, "PRX-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltda", got.NomeEmpresa)
	assert.Equal(t, "Acme Ltda", state.document(t).Clients[0].NomeEmpresa)

	_, err = store.Modify(ctx, "missing", func(*client.Client) error { return nil })
	assert.ErrorIs(t, err, repository.ErrNotFound)

	rejected := errors.New("rejected")
	_, err = store.Modify(ctx, "PRX-1", func(c *client.Client) error {
		c.NomeEmpresa = "Discarded"
		return rejected
	})
	assert.ErrorIs(t, err, rejected)
	got, err = store.Get(ctx, "PRX-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltda", got.NomeEmpresa)

	require.NoError(t, store.Delete(ctx, "PRX-1"))
	assert.ErrorIs(t, store.Delete(ctx, "PRX-1"), repository.ErrNotFound)
	assert.Empty(t, state.document(t).Clients)
}

func TestReturnedClientsAreCopies(t *testing.T) {
	store, _ := newLoadedStore(t, client.Client{
		ID:        "PRX-1",
		Etiquetas: []string{"vip"},
	})

	got, err := store.Get(context.Background(), "PRX-1")
	require.NoError(t, err)
	got.Etiquetas[0] = "changed"

	again, err := store.Get(context.Background(), "PRX-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"vip"}, again.Etiquetas)
}

func TestReplaceAll_KeepsOrder(t *testing.T) {
	store, state := newLoadedStore(t, client.Client{ID: "OLD"})
	ctx := context.Background()

	incoming := []client.Client{{ID: "B"}, {ID: "A"}, {ID: "C"}}
	require.NoError(t, store.ReplaceAll(ctx, incoming))

	clients, err := store.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"B", "A", "C"}, ids)
	assert.Len(t, state.document(t).Clients, 3)
}

func TestLogs_NewestFirstWithFilters(t *testing.T) {
	store, state := newLoadedStore(t)
	ctx := context.Background()
	logs := store.Logs()

	require.NoError(t, logs.Append(ctx, audit.Entry{ID: "1", ClientID: "A"}))
	require.NoError(t, logs.Append(ctx, audit.Entry{ID: "2", ClientID: "B"}))
	require.NoError(t, logs.Append(ctx, audit.Entry{ID: "3", ClientID: "A"}))

	all, err := logs.List(ctx, audit.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2", "1"}, entryIDs(all))

	onlyA, err := logs.List(ctx, audit.ListOptions{ClientID: "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1"}, entryIDs(onlyA))

	page, err := logs.List(ctx, audit.ListOptions{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, entryIDs(page))

	past, err := logs.List(ctx, audit.ListOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)

	assert.Equal(t, []string{"3", "2", "1"}, entryIDs(state.document(t).Logs))
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	state := new(mocks.StateStore)
	state.On("Load", mock.Anything, StorageKey).Return([]byte(`{"clients":[{"id":"PRX-1","nomeEmpresa":"Acme"}],"logs":[]}`), nil)
	state.On("Save", mock.Anything, StorageKey, mock.Anything).Return(errors.New("disk full"))

	store := New(state, nil)
	ctx := context.Background()
	require.NoError(t, store.Load(ctx, nil))
	before := store.Snapshot()

	assert.Error(t, store.Create(ctx, &client.Client{ID: "PRX-2"}))
	_, err := store.Modify(ctx, "PRX-1", func(c *client.Client) error {
		c.NomeEmpresa = "Changed"
		return nil
	})
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, "PRX-1"))
	assert.Error(t, store.ReplaceAll(ctx, nil))
	assert.Error(t, store.Logs().Append(ctx, audit.Entry{ID: "LOG-1"}))

	if diff := cmp.Diff(before, store.Snapshot()); diff != "" {
		t.Errorf("state changed after failed saves (-before +after):\n%s", diff)
	}
}

func TestConcurrentWritesAllPersist(t *testing.T) {
	store, state := newLoadedStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Logs().Append(ctx, audit.Entry{ID: string(rune('a' + i))})
		}(i)
	}
	wg.Wait()

	assert.Len(t, state.document(t).Logs, 20)
}

// slowClock yields between reads so unserialized edits would interleave.
func slowClock() time.Time {
	time.Sleep(time.Millisecond)
	return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
}

func TestConcurrentCommentsOnOneClientAllKept(t *testing.T) {
	store, state := newLoadedStore(t, client.Client{ID: "PRX-1", NomeEmpresa: "Acme"})
	ctx := context.Background()
	svc := client.NewService(store, audit.NewService(store.Logs(), nil), nil).WithClock(slowClock)

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddComment(ctx, "PRX-1", "Ana", fmt.Sprintf("nota %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.Get(ctx, "PRX-1")
	require.NoError(t, err)
	assert.Len(t, got.Comentarios, writers)
	assert.Len(t, strings.Split(got.Observacoes, "\n\n"), writers)
	assert.Len(t, state.document(t).Clients[0].Comentarios, writers)
	assert.Len(t, state.document(t).Logs, writers)
}

func TestConcurrentCancelLogsOneStatusChange(t *testing.T) {
	store, _ := newLoadedStore(t, client.Client{ID: "PRX-1", NomeEmpresa: "Acme", Status: client.StatusAtivo})
	ctx := context.Background()
	svc := client.NewService(store, audit.NewService(store.Logs(), nil), nil).WithClock(slowClock)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Save(ctx, client.Client{ID: "PRX-1", NomeEmpresa: "Acme", Status: client.StatusCancelado})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	logs, err := store.Entries(ctx, audit.ListOptions{ClientID: "PRX-1"})
	require.NoError(t, err)
	var statusChanges int
	for _, entry := range logs {
		if entry.CampoAlterado == audit.FieldStatus {
			statusChanges++
			assert.Equal(t, "Ativo", entry.ValorAntigo)
		}
	}
	assert.Equal(t, 1, statusChanges)
}

func TestConcurrentEditKeepsComment(t *testing.T) {
	store, _ := newLoadedStore(t, client.Client{ID: "PRX-1", NomeEmpresa: "Acme", Status: client.StatusAtivo})
	ctx := context.Background()
	svc := client.NewService(store, audit.NewService(store.Logs(), nil), nil).WithClock(slowClock)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.AddComment(ctx, "PRX-1", "Ana", "Ligar amanhã")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Edit(ctx, "PRX-1", func(current client.Client) (client.Client, error) {
			current.Trilha = "Ads"
			return current, nil
		})
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, err := store.Get(ctx, "PRX-1")
	require.NoError(t, err)
	assert.Equal(t, "Ads", got.Trilha)
	require.Len(t, got.Comentarios, 1)
	assert.Equal(t, "Ligar amanhã", got.Comentarios[0].Text)
}

func entryIDs(entries []audit.Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
