package filter

import (
	"fmt"

	"github.com/raykavin/tradepulse/core"
	"github.com/raykavin/tradepulse/strategy"
)

// FilteredStrategy wraps a strategy.Strategy with a Chain, so the
// combination satisfies strategy.Strategy itself and can be handed to
// backtest.Engine unmodified. Entry signals the inner strategy emits
// are run through the chain; a non-approval suppresses the signal for
// that candle. Exit and partial-exit signals are always approved by
// Chain.Evaluate, and "no signal" passes through untouched.
type FilteredStrategy struct {
	inner strategy.Strategy
	chain *Chain
}

// NewFilteredStrategy composes inner with chain.
func NewFilteredStrategy(inner strategy.Strategy, chain *Chain) *FilteredStrategy {
	return &FilteredStrategy{inner: inner, chain: chain}
}

func (f *FilteredStrategy) Analyze(candle core.Candle, currentPosition *core.OpenPosition, symbol string) (core.TradeSignal, bool) {
	sig, ok := f.inner.Analyze(candle, currentPosition, symbol)
	if !ok {
		return core.TradeSignal{}, false
	}
	result := f.chain.Evaluate(sig, f.inner.State())
	if !result.Approved {
		return core.TradeSignal{}, false
	}
	return sig, true
}

func (f *FilteredStrategy) State() core.StrategyState { return f.inner.State() }
func (f *FilteredStrategy) CurrentStopLoss() core.Maybe[core.Decimal] {
	return f.inner.CurrentStopLoss()
}
func (f *FilteredStrategy) Reset() { f.inner.Reset() }

var _ strategy.Strategy = (*FilteredStrategy)(nil)

// State returns a snapshot aggregating every member, so an Ensemble
// can itself stand in as a strategy.Strategy for the filter chain or
// the backtest engine. LastSignal and PrimaryIndicatorValue come from
// the first member that reports one; IsOverbought, IsOversold and
// IsTrending are true when any member reports them. Each member's
// Custom keys are republished under a "member<i>_" prefix so downstream
// filters can still address a specific member's value.
func (e *Ensemble) State() core.StrategyState {
	custom := map[string]core.Decimal{}
	var agg core.StrategyState
	for i, m := range e.members {
		st := m.Strategy.State()
		for k, v := range st.Custom {
			custom[memberKey(i, k)] = v
		}
		if !agg.LastSignal.IsSome() {
			agg.LastSignal = st.LastSignal
		}
		if !agg.PrimaryIndicatorValue.IsSome() {
			agg.PrimaryIndicatorValue = st.PrimaryIndicatorValue
		}
		agg.IsOverbought = agg.IsOverbought || st.IsOverbought
		agg.IsOversold = agg.IsOversold || st.IsOversold
		agg.IsTrending = agg.IsTrending || st.IsTrending
	}
	agg.Custom = custom
	return agg
}

// CurrentStopLoss returns the lowest stop among members holding one,
// since the ensemble has no single notion of direction until a
// consensus signal fires.
func (e *Ensemble) CurrentStopLoss() core.Maybe[core.Decimal] {
	var best core.Maybe[core.Decimal]
	for _, m := range e.members {
		if s, ok := m.Strategy.CurrentStopLoss().Get(); ok {
			if cur, has := best.Get(); !has || s.LessThan(cur) {
				best = core.Some(s)
			}
		}
	}
	return best
}

// Reset restores every member to its pre-first-candle state.
func (e *Ensemble) Reset() {
	for _, m := range e.members {
		m.Strategy.Reset()
	}
}

func memberKey(i int, key string) string {
	return fmt.Sprintf("member%d_%s", i, key)
}

var _ strategy.Strategy = (*Ensemble)(nil)
