package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLStorage(t *testing.T) *SQLStorage {
	t.Helper()
	store, err := NewFromSQLite("file::memory:?cache=shared", DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLStorageRoundTrip(t *testing.T) {
	store := newTestSQLStorage(t)
	ctx := context.Background()
	want := testState()

	require.NoError(t, store.SaveState(ctx, "ETHUSDT", want))

	got, ok, err := store.LoadState(ctx, "ETHUSDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Day, got.Day)
}

func TestSQLStorageLoadMissingKeyReturnsFalse(t *testing.T) {
	store := newTestSQLStorage(t)
	_, ok, err := store.LoadState(context.Background(), "no-such-symbol")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLStorageSaveUpsertsExistingKey(t *testing.T) {
	store := newTestSQLStorage(t)
	ctx := context.Background()

	first := testState()
	require.NoError(t, store.SaveState(ctx, "ETHUSDT", first))

	second := testState()
	second.Day = 300
	require.NoError(t, store.SaveState(ctx, "ETHUSDT", second))

	got, ok, err := store.LoadState(ctx, "ETHUSDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 300, got.Day)
}
