// Package backtest implements the deterministic replay engine that
// drives a strategy over historical candles and the performance
// metrics derived from the resulting trade journal and equity curve.
package backtest

import (
	"math"

	"github.com/raykavin/tradepulse/core"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// EquityPoint is one sample of the backtest's equity curve.
type EquityPoint struct {
	Time   int64 // unix seconds of candle.close_time
	Equity core.Decimal
}

// PerformanceMetrics summarizes a completed backtest run.
type PerformanceMetrics struct {
	TotalTrades      int
	WinningTrades    int
	LosingTrades     int
	BreakevenTrades  int
	WinRate          core.Decimal
	TotalNetPnL      core.Decimal
	ProfitFactor     core.Decimal
	Sharpe           core.Decimal
	Sortino          core.Decimal
	MaxDrawdownPct   core.Decimal
	AnnualizedReturn core.Decimal
	LargestWin       core.Decimal
	LargestLoss      core.Decimal
	TotalReturn      core.Decimal
}

// barsPerYear is the fixed annualization factor for Sharpe/Sortino and
// the annualized return: every equity-curve sample counts as one day,
// whatever the candle timeframe.
const barsPerYear = 365.0

// ComputeMetrics derives PerformanceMetrics from a trade journal and
// an equity curve produced by Engine.Run.
func ComputeMetrics(trades []core.Trade, curve []EquityPoint, initialCapital core.Decimal) PerformanceMetrics {
	m := PerformanceMetrics{TotalTrades: len(trades)}

	var sumWins, sumLosses float64
	largestWin := core.D("0")
	largestLoss := core.D("0")

	for _, t := range trades {
		net, ok := t.NetPnL.Get()
		if !ok {
			continue
		}
		m.TotalNetPnL = m.TotalNetPnL.Add(net)

		f, _ := net.Float64()
		switch {
		case f > 0:
			m.WinningTrades++
			sumWins += f
			if net.GreaterThan(largestWin) {
				largestWin = net
			}
		case f < 0:
			m.LosingTrades++
			sumLosses += f
			if net.LessThan(largestLoss) {
				largestLoss = net
			}
		default:
			m.BreakevenTrades++
		}
	}
	m.LargestWin = largestWin
	m.LargestLoss = largestLoss

	if m.TotalTrades > 0 {
		m.WinRate = decimal.NewFromFloat(float64(m.WinningTrades) / float64(m.TotalTrades) * 100)
	}

	switch {
	case sumLosses == 0 && sumWins > 0:
		m.ProfitFactor = infiniteProfitFactor()
	case sumLosses == 0:
		m.ProfitFactor = core.D("0")
	default:
		m.ProfitFactor = decimal.NewFromFloat(sumWins / math.Abs(sumLosses))
	}

	dailyReturns := equityCurveReturns(curve)
	m.Sharpe = sharpeRatio(dailyReturns)
	m.Sortino = sortinoRatio(dailyReturns)
	m.MaxDrawdownPct = maxDrawdown(curve)

	if initialCapital.IsPositive() && len(curve) > 0 {
		final := curve[len(curve)-1].Equity
		m.TotalReturn = final.Sub(initialCapital).Div(initialCapital).Mul(core.D("100"))
		years := float64(len(curve)) / barsPerYear
		if years > 0 {
			finalF, _ := final.Float64()
			initF, _ := initialCapital.Float64()
			if initF > 0 && finalF > 0 {
				annualized := math.Pow(finalF/initF, 1/years) - 1
				m.AnnualizedReturn = decimal.NewFromFloat(annualized * 100)
			}
		}
	}

	return m
}

// equityCurveReturns converts a raw equity curve into successive
// fractional returns, skipping zero-or-negative bases.
func equityCurveReturns(curve []EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev, _ := curve[i-1].Equity.Float64()
		cur, _ := curve[i].Equity.Float64()
		if prev <= 0 {
			continue
		}
		returns = append(returns, (cur-prev)/prev)
	}
	return returns
}

// sharpeRatio is mean/stdev of daily returns annualized by sqrt(N),
// zero when fewer than two samples are available.
func sharpeRatio(returns []float64) core.Decimal {
	if len(returns) < 2 {
		return core.D("0")
	}
	mean := stat.Mean(returns, nil)
	stdev := stat.StdDev(returns, nil)
	if stdev == 0 {
		return core.D("0")
	}
	sharpe := (mean / stdev) * math.Sqrt(barsPerYear)
	return decimal.NewFromFloat(sharpe)
}

// sortinoRatio mirrors sharpeRatio but divides by downside deviation
// (standard deviation of negative returns only).
func sortinoRatio(returns []float64) core.Decimal {
	if len(returns) < 2 {
		return core.D("0")
	}
	mean := stat.Mean(returns, nil)

	downside := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) < 2 {
		return core.D("0")
	}
	dd := stat.StdDev(downside, nil)
	if dd == 0 {
		return core.D("0")
	}
	sortino := (mean / dd) * math.Sqrt(barsPerYear)
	return decimal.NewFromFloat(sortino)
}

// maxDrawdown is the largest peak-to-trough percentage decline
// observed across the equity curve.
func maxDrawdown(curve []EquityPoint) core.Decimal {
	if len(curve) == 0 {
		return core.D("0")
	}
	peak := curve[0].Equity
	maxDD := core.D("0")
	for _, p := range curve {
		if p.Equity.GreaterThan(peak) {
			peak = p.Equity
		}
		if !peak.IsPositive() {
			continue
		}
		dd := peak.Sub(p.Equity).Div(peak).Mul(core.D("100"))
		if dd.GreaterThan(maxDD) {
			maxDD = dd
		}
	}
	return maxDD
}

// infiniteProfitFactor stands in for an unbounded profit factor when
// there are wins and no losses.
func infiniteProfitFactor() core.Decimal {
	return core.D("999999999")
}
