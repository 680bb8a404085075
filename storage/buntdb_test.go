package storage

import (
	"context"
	"testing"

	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() core.PersistedState {
	return core.PersistedState{
		PeakEquity:           map[string]core.Decimal{"BTCUSDT": core.D("10500")},
		DayStartEquity:       map[string]core.Decimal{"BTCUSDT": core.D("10000")},
		Day:                  214,
		LastCandleTimePerSym: map[string]int64{"BTCUSDT": 1700000000},
	}
}

func TestBuntStorageRoundTrip(t *testing.T) {
	store, err := NewBuntMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	want := testState()

	require.NoError(t, store.SaveState(ctx, "BTCUSDT", want))

	got, ok, err := store.LoadState(ctx, "BTCUSDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Day, got.Day)
	assert.True(t, want.PeakEquity["BTCUSDT"].Equal(got.PeakEquity["BTCUSDT"]))
}

func TestBuntStorageLoadMissingKeyReturnsFalse(t *testing.T) {
	store, err := NewBuntMemory()
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.LoadState(context.Background(), "no-such-symbol")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuntStorageSaveOverwritesPriorSnapshot(t *testing.T) {
	store, err := NewBuntMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	first := testState()
	require.NoError(t, store.SaveState(ctx, "BTCUSDT", first))

	second := testState()
	second.Day = 215
	require.NoError(t, store.SaveState(ctx, "BTCUSDT", second))

	got, ok, err := store.LoadState(ctx, "BTCUSDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 215, got.Day)
}
