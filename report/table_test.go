package report

import (
	"testing"

	"github.com/raykavin/tradepulse/backtest"
	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
)

func TestTableIncludesSymbolAndMetrics(t *testing.T) {
	m := backtest.PerformanceMetrics{
		TotalTrades:   10,
		WinningTrades: 6,
		LosingTrades:  4,
		WinRate:       core.D("60"),
		TotalNetPnL:   core.D("523.10"),
		ProfitFactor:  core.D("1.8"),
	}

	out := Table("BTCUSDT", m)
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "60.0")
}
