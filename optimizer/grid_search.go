// Package optimizer is a grid-search sweep over risk parameters,
// evaluated by re-running backtest.Engine for every combination.
package optimizer

import (
	"sort"
	"strconv"

	"github.com/raykavin/tradepulse/backtest"
	"github.com/raykavin/tradepulse/core"
	"github.com/raykavin/tradepulse/risk"
	"github.com/raykavin/tradepulse/strategy"
	"github.com/schollz/progressbar/v3"
)

// FloatRange describes an inclusive [Min, Max] sweep with a fixed Step.
type FloatRange struct {
	Min, Max, Step float64
}

// values expands the range into decimal parameter values.
func (r FloatRange) values() []core.Decimal {
	var out []core.Decimal
	if r.Step <= 0 {
		return out
	}
	for v := r.Min; v <= r.Max+1e-9; v += r.Step {
		out = append(out, core.D(strconv.FormatFloat(v, 'f', -1, 64)))
	}
	return out
}

// Grid enumerates the risk.Settings fields swept by this optimizer.
// Fields left at their zero FloatRange are held at base's value.
type Grid struct {
	RiskPerTradePct   FloatRange
	AtrStopMultiplier FloatRange
}

// Result is one evaluated parameter combination.
type Result struct {
	Settings risk.Settings
	Metrics  backtest.PerformanceMetrics
}

// Run evaluates every combination in grid against candles, holding
// every other field of base fixed, and returns results sorted by
// Sharpe ratio descending (best first).
func Run(symbol string, candles []core.Candle, strat strategy.Strategy, base risk.Settings, grid Grid, backtestSettings backtest.Settings) []Result {
	combos := combinations(base, grid)

	bar := progressbar.Default(int64(len(combos)))
	results := make([]Result, 0, len(combos))

	for _, settings := range combos {
		strat.Reset()
		manager := risk.NewManager(symbol, settings, backtestSettings.InitialCapital)
		engine := backtest.NewEngine(symbol, strat, manager, backtestSettings)
		_, _, metrics := engine.Run(candles)

		results = append(results, Result{Settings: settings, Metrics: metrics})
		_ = bar.Add(1)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Metrics.Sharpe.GreaterThan(results[j].Metrics.Sharpe)
	})
	return results
}

// combinations builds the cartesian product of every swept field.
func combinations(base risk.Settings, grid Grid) []risk.Settings {
	riskValues := grid.RiskPerTradePct.values()
	if len(riskValues) == 0 {
		riskValues = []core.Decimal{base.RiskPerTradePct}
	}
	atrValues := grid.AtrStopMultiplier.values()
	if len(atrValues) == 0 {
		atrValues = []core.Decimal{base.AtrStopMultiplier}
	}

	combos := make([]risk.Settings, 0, len(riskValues)*len(atrValues))
	for _, r := range riskValues {
		for _, a := range atrValues {
			s := base
			s.RiskPerTradePct = r
			s.AtrStopMultiplier = a
			combos = append(combos, s)
		}
	}
	return combos
}
