package strategy

import "github.com/raykavin/tradepulse/core"

// Strategy is the common surface the filter chain and ensemble
// operate over. Each concrete strategy type (ADXTrend, RSIMeanRev,
// MACrossover) is a value satisfying this interface; none of them
// subtype a shared base.
type Strategy interface {
	Analyze(candle core.Candle, currentPosition *core.OpenPosition, symbol string) (core.TradeSignal, bool)
	State() core.StrategyState
	CurrentStopLoss() core.Maybe[core.Decimal]
	Reset()
}

// signalHistory separates the signal emitted on the current candle
// from the one State exposes. The filter chain runs after Analyze on
// the same candle, so recording straight into the exposed field would
// make every candidate signal trivially aligned with itself; State
// must report the signal from an earlier candle instead.
type signalHistory struct {
	prior   core.Maybe[core.SignalKind]
	current core.Maybe[core.SignalKind]
}

// beginCandle promotes the previously recorded signal; called at the
// start of each Analyze, before any new signal can be recorded.
func (h *signalHistory) beginCandle() { h.prior = h.current }

// record notes the signal emitted on the current candle.
func (h *signalHistory) record(kind core.SignalKind) { h.current = core.Some(kind) }

// State returns the current evaluation snapshot for the filter chain.
func (s *ADXTrend) State() core.StrategyState {
	custom := map[string]core.Decimal{}
	if v, ok := s.adx.Value().Get(); ok {
		custom["adx"] = v
	}
	if v, ok := s.adx.PlusDI().Get(); ok {
		custom["plus_di"] = v
	}
	if v, ok := s.adx.MinusDI().Get(); ok {
		custom["minus_di"] = v
	}
	return core.StrategyState{
		LastSignal:            s.sigs.prior,
		PrimaryIndicatorValue: s.adx.Value(),
		IsTrending:            custom["adx"].GreaterThanOrEqual(s.settings.AdxThreshold),
		Custom:                custom,
	}
}

// State returns the current evaluation snapshot for the filter chain.
func (s *RSIMeanRev) State() core.StrategyState {
	custom := map[string]core.Decimal{}
	rsiVal, ok := s.rsi.Value().Get()
	if ok {
		custom["rsi"] = rsiVal
	}
	return core.StrategyState{
		LastSignal:            s.sigs.prior,
		PrimaryIndicatorValue: s.rsi.Value(),
		IsOverbought:          ok && rsiVal.GreaterThanOrEqual(s.settings.OverboughtLevel),
		IsOversold:            ok && rsiVal.LessThanOrEqual(s.settings.OversoldLevel),
		Custom:                custom,
	}
}

// State returns the current evaluation snapshot for the filter chain.
func (s *MACrossover) State() core.StrategyState {
	custom := map[string]core.Decimal{}
	fastVal, fok := s.fast.Value().Get()
	slowVal, sok := s.slow.Value().Get()
	trending := false
	if fok && sok {
		custom["fast_ema"] = fastVal
		custom["slow_ema"] = slowVal
		// EMAs hugging each other within 0.1% read as chop, not trend.
		if slowVal.IsPositive() {
			sepPct := fastVal.Sub(slowVal).Abs().Div(slowVal).Mul(core.D("100"))
			trending = sepPct.GreaterThanOrEqual(core.D("0.1"))
		}
	}
	return core.StrategyState{
		LastSignal:            s.sigs.prior,
		PrimaryIndicatorValue: s.fast.Value(),
		IsTrending:            trending,
		Custom:                custom,
	}
}
