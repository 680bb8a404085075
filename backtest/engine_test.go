package backtest

import (
	"strconv"
	"testing"
	"time"

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

// trendThenReversalCandles builds a rising trend long enough for an EMA
// crossover strategy to enter, followed by a sharp reversal long enough
// to force an exit.
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
		candles = append(candles, candleAt(i, base,
			toStr(o), toStr(h), toStr(l), toStr(price), "1000"))
	}
	return candles
}

// toStr formats a float64 as a decimal literal for synthetic test
// candles only; production code never constructs Decimal from float64.
func toStr(f float64) string {
	if f < 0 {
		f = 0.01
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func TestEngineCommissionIdempotence(t *testing.T) {
	candles := trendThenReversalCandles(60)

	runWith := func(commissionPct core.Decimal) core.Decimal {
		s := strategy.NewMACrossover(strategy.DefaultMACrossoverSettings())
		r := risk.NewManager("BTCUSDT", risk.DefaultSettings(), dec("10000"))
		e := NewEngine("BTCUSDT", s, r, Settings{
			InitialCapital: dec("10000"),
			CommissionPct:  commissionPct,
			SlippagePct:    dec("0"),
		})
		_, curve, _ := e.Run(candles)
		require.NotEmpty(t, curve)
		return curve[len(curve)-1].Equity
	}

	withCommission := runWith(dec("0.1"))
	withoutCommission := runWith(dec("0"))

	assert.True(t, withCommission.LessThanOrEqual(withoutCommission),
		"commissioned end-equity (%s) must be <= uncommissioned end-equity (%s)", withCommission, withoutCommission)
}

// scriptedStrategy emits a fixed signal per bar index, for driving the
// engine through exact entry/exit sequences.
type scriptedStrategy struct {
	bar     int
	signals map[int]core.TradeSignal
}

func (s *scriptedStrategy) Analyze(core.Candle, *core.OpenPosition, string) (core.TradeSignal, bool) {
	sig, ok := s.signals[s.bar]
	s.bar++
	return sig, ok
}
func (s *scriptedStrategy) State() core.StrategyState { return core.StrategyState{} }
func (s *scriptedStrategy) CurrentStopLoss() core.Maybe[core.Decimal] {
	return core.None[core.Decimal]()
}
func (s *scriptedStrategy) Reset() { s.bar = 0 }

func buyAt(price, stop string) core.TradeSignal {
	sig, _ := core.NewTradeSignal("BTCUSDT", core.SignalBuy, dec(price), "scripted buy")
	return sig.WithStopLoss(dec(stop))
}

func exitAt(price string) core.TradeSignal {
	sig, _ := core.NewTradeSignal("BTCUSDT", core.SignalExit, dec(price), "scripted exit")
	return sig
}

func TestEngineDailyTrackingRollsAtUTCMidnight(t *testing.T) {
	// A losing round trip before midnight, then bars crossing into the
	// next UTC day: daily drawdown must reset while total drawdown
	// keeps reflecting the loss.
	day1 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	candles := []core.Candle{
		candleAtTime(day1, "100", "101", "99", "100"),
		candleAtTime(day1.Add(time.Hour), "100", "101", "94", "95"),
		candleAtTime(day1.Add(2*time.Hour), "95", "96", "94", "95"),
		candleAtTime(day1.Add(3*time.Hour), "95", "96", "94", "95"),
		// 00:00 next day
		candleAtTime(day1.Add(4*time.Hour), "95", "96", "94", "95"),
		candleAtTime(day1.Add(5*time.Hour), "95", "96", "94", "95"),
	}

	s := &scriptedStrategy{signals: map[int]core.TradeSignal{
		0: buyAt("100", "90"),
		1: exitAt("95"),
	}}
	r := risk.NewManager("BTCUSDT", risk.DefaultSettings(), dec("10000"))
	e := NewEngine("BTCUSDT", s, r, Settings{
		InitialCapital: dec("10000"),
		CommissionPct:  dec("0"),
		SlippagePct:    dec("0"),
	})

	trades, _, _ := e.Run(candles)
	require.Len(t, trades, 1)

	assert.True(t, r.CurrentDrawdown().IsPositive(), "total drawdown must still reflect the loss")
	assert.True(t, r.DailyDrawdown().IsZero(),
		"daily drawdown must reset at the UTC midnight crossing, got %s", r.DailyDrawdown())
}

func TestEnginePartialExitBreakevenMovesStopToEntry(t *testing.T) {
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	candles := []core.Candle{
		candleAtTime(day, "100", "101", "99", "100"),
		candleAtTime(day.Add(time.Hour), "100", "111", "100", "110"),
		candleAtTime(day.Add(2*time.Hour), "110", "111", "109", "110"),
	}

	partial, _ := exitAt("110").WithPartialExit(dec("0.5"))
	partial = partial.WithBreakevenMove()

	s := &scriptedStrategy{signals: map[int]core.TradeSignal{
		0: buyAt("100", "90"),
		1: partial,
	}}
	r := risk.NewManager("BTCUSDT", risk.DefaultSettings(), dec("10000"))
	e := NewEngine("BTCUSDT", s, r, Settings{
		InitialCapital: dec("10000"),
		CommissionPct:  dec("0"),
		SlippagePct:    dec("0"),
	})

	trades, _, _ := e.Run(candles)
	require.Len(t, trades, 1, "the partial exit must journal a child trade")

	require.NotNil(t, e.position, "half the position must remain open")
	assert.True(t, e.position.BreakevenMoved)
	assert.True(t, e.position.StopLoss.Equal(e.position.EntryPrice),
		"breakeven flag must move the stop to entry, got stop %s entry %s",
		e.position.StopLoss, e.position.EntryPrice)
	assert.True(t, e.position.RiskAmount.IsZero(),
		"risk amount at breakeven must be zero, got %s", e.position.RiskAmount)
}

func candleAtTime(open time.Time, o, h, l, c string) core.Candle {
	return core.Candle{
		Symbol:    "BTCUSDT",
		OpenTime:  open,
		CloseTime: open.Add(time.Hour),
		Open:      dec(o),
		High:      dec(h),
		Low:       dec(l),
		Close:     dec(c),
		Volume:    dec("1000"),
	}
}

func TestEngineTradeCountInvariant(t *testing.T) {
	candles := trendThenReversalCandles(60)
	s := strategy.NewMACrossover(strategy.DefaultMACrossoverSettings())
	r := risk.NewManager("BTCUSDT", risk.DefaultSettings(), dec("10000"))
	e := NewEngine("BTCUSDT", s, r, Settings{
		InitialCapital: dec("10000"),
		CommissionPct:  dec("0.05"),
		SlippagePct:    dec("0.02"),
	})

	trades, _, metrics := e.Run(candles)
	assert.Equal(t, len(trades), metrics.TotalTrades)
	assert.Equal(t, metrics.TotalTrades, metrics.WinningTrades+metrics.LosingTrades+metrics.BreakevenTrades)
	assert.True(t, metrics.WinRate.GreaterThanOrEqual(dec("0")))
	assert.True(t, metrics.WinRate.LessThanOrEqual(dec("100")))
}
