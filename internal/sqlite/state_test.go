package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/pronix-hub/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestStateStore_LoadMissing(t *testing.T) {
	store := NewStateStore(NewTestDB(t))

	_, err := store.Load(context.Background(), "absent")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStateStore_SaveAndLoad(t *testing.T) {
	store := NewStateStore(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "pronix_hub_v6", []byte(`{"clients":[],"logs":[]}`)))

	data, err := store.Load(ctx, "pronix_hub_v6")
	require.NoError(t, err)
	require.JSONEq(t, `{"clients":[],"logs":[]}`, string(data))
}

func TestStateStore_SaveOverwrites(t *testing.T) {
	store := NewStateStore(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k", []byte("first")))
	require.NoError(t, store.Save(ctx, "k", []byte("second")))

	data, err := store.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "second", string(data))

	var rows int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM kv_state").Scan(&rows))
	require.Equal(t, 1, rows)
}

func TestStateStore_KeysAreIndependent(t *testing.T) {
	store := NewStateStore(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", []byte("1")))
	require.NoError(t, store.Save(ctx, "b", []byte("2")))

	a, err := store.Load(ctx, "a")
	require.NoError(t, err)
	b, err := store.Load(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, "1", string(a))
	require.Equal(t, "2", string(b))
}
