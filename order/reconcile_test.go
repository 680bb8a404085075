package order

import (
	"testing"

	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) core.Decimal { return core.D(s) }

func TestReconcileDirectionMismatchAdoptsLive(t *testing.T) {
	saved := core.PersistedState{
		OpenPositions: []core.OpenPosition{
			{Symbol: "BTCUSDT", Direction: core.DirectionLong, RemainingQuantity: dec("1"), EntryPrice: dec("100")},
		},
	}
	live := []core.OpenPosition{
		{Symbol: "BTCUSDT", Direction: core.DirectionShort, RemainingQuantity: dec("1"), EntryPrice: dec("100")},
	}

	report := Reconcile(saved, live)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, FieldDirection, report.Discrepancies[0].Field)
	assert.Equal(t, ActionAdoptLive, report.Discrepancies[0].Action)
}

func TestReconcileWithinToleranceIsClean(t *testing.T) {
	saved := core.PersistedState{
		OpenPositions: []core.OpenPosition{
			{Symbol: "BTCUSDT", Direction: core.DirectionLong, RemainingQuantity: dec("1.005"), EntryPrice: dec("100")},
		},
	}
	live := []core.OpenPosition{
		{Symbol: "BTCUSDT", Direction: core.DirectionLong, RemainingQuantity: dec("1"), EntryPrice: dec("100.5")},
	}

	report := Reconcile(saved, live)
	assert.True(t, report.Clean(), "0.5%% differences must be within the 1%% tolerance")
}

func TestReconcileQuantityBeyondToleranceFlags(t *testing.T) {
	saved := core.PersistedState{
		OpenPositions: []core.OpenPosition{
			{Symbol: "BTCUSDT", Direction: core.DirectionLong, RemainingQuantity: dec("1"), EntryPrice: dec("100")},
		},
	}
	live := []core.OpenPosition{
		{Symbol: "BTCUSDT", Direction: core.DirectionLong, RemainingQuantity: dec("1.05"), EntryPrice: dec("100")},
	}

	report := Reconcile(saved, live)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, FieldQuantity, report.Discrepancies[0].Field)
	assert.Equal(t, ActionUpdateSaved, report.Discrepancies[0].Action)
}

func TestReconcileMissingSavedAdoptsLive(t *testing.T) {
	saved := core.PersistedState{}
	live := []core.OpenPosition{
		{Symbol: "ETHUSDT", Direction: core.DirectionLong, RemainingQuantity: dec("1"), EntryPrice: dec("2000")},
	}

	report := Reconcile(saved, live)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, ActionAdoptLive, report.Discrepancies[0].Action)
}

func TestReconcileMissingLiveClearsSaved(t *testing.T) {
	saved := core.PersistedState{
		OpenPositions: []core.OpenPosition{
			{Symbol: "BTCUSDT", Direction: core.DirectionLong, RemainingQuantity: dec("1"), EntryPrice: dec("100")},
		},
	}

	report := Reconcile(saved, nil)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, ActionClearSaved, report.Discrepancies[0].Action)
}
