package optimizer

import (
	"strconv"
	"testing"
	"time"

	"github.com/raykavin/tradepulse/backtest"
	"github.com/raykavin/tradepulse/core"
	"github.com/raykavin/tradepulse/risk"
	"github.com/raykavin/tradepulse/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) core.Decimal { return core.D(s) }

func candleAt(i int, base time.Time, o, h, l, c, v string) core.Candle {
	return core.Candle{
		Symbol:    "BTCUSDT",
		OpenTime:  base.Add(time.Duration(i) * time.Hour),
		CloseTime: base.Add(time.Duration(i+1) * time.Hour),
		Open:      dec(o),
		High:      dec(h),
		Low:       dec(l),
		Close:     dec(c),
		Volume:    dec(v),
	}
}

func toStr(f float64) string {
	if f < 0 {
		f = 0.01
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func trendThenReversalCandles(n int) []core.Candle {
	base := time.Now().UTC()
	candles := make([]core.Candle, 0, n)
	price := 100.0
	for i := 0; i < n; i++ {
		if i < n*2/3 {
			price += 1.2
		} else {
			price -= 3.0
		}
		o := price - 0.5
		h := price + 1
		l := price - 1.5
		candles = append(candles, candleAt(i, base, toStr(o), toStr(h), toStr(l), toStr(price), "1000"))
	}
	return candles
}

func TestRunEvaluatesEveryGridCombination(t *testing.T) {
	candles := trendThenReversalCandles(60)
	strat := strategy.NewMACrossover(strategy.DefaultMACrossoverSettings())

	grid := Grid{
		RiskPerTradePct:   FloatRange{Min: 1.0, Max: 2.0, Step: 1.0},
		AtrStopMultiplier: FloatRange{Min: 2.0, Max: 3.0, Step: 1.0},
	}

	results := Run("BTCUSDT", candles, strat, risk.DefaultSettings(), grid, backtest.Settings{
		InitialCapital: dec("10000"),
		CommissionPct:  dec("0.05"),
		SlippagePct:    dec("0.02"),
	})

	require.Len(t, results, 4)
	for i := 1; i < len(results); i++ {
		assert.True(t, results[i-1].Metrics.Sharpe.GreaterThanOrEqual(results[i].Metrics.Sharpe),
			"results must be sorted by Sharpe descending")
	}
}

func TestRunHoldsUnspecifiedFieldsAtBase(t *testing.T) {
	candles := trendThenReversalCandles(30)
	strat := strategy.NewMACrossover(strategy.DefaultMACrossoverSettings())
	base := risk.DefaultSettings()

	results := Run("BTCUSDT", candles, strat, base, Grid{}, backtest.Settings{
		InitialCapital: dec("10000"),
		CommissionPct:  dec("0.05"),
		SlippagePct:    dec("0.02"),
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].Settings.MaxPortfolioHeatPct.Equal(base.MaxPortfolioHeatPct))
}
