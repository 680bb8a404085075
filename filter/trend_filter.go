package filter

import "github.com/raykavin/tradepulse/core"

// TrendAlignmentFilter judges entry signals against the signal the
// strategy emitted on an earlier candle (StrategyState.LastSignal is
// always a prior candle's signal, never the one under evaluation).
// Confirm mode approves a Buy iff that prior signal was itself a Buy
// and the strategy reports IsTrending, mirrored for Sell, and rejects
// on misalignment. Veto mode blocks only the explicit contradiction
// of an entry opposing the prior entry signal and otherwise
// default-allows. Score mode grades alignment instead of gating.
// RequireStrict additionally demands a prior signal exist at all.
type TrendAlignmentFilter struct {
	mode          Mode
	requireStrict bool
}

// NewTrendAlignmentFilter constructs a TrendAlignmentFilter.
func NewTrendAlignmentFilter(mode Mode, requireStrict bool) *TrendAlignmentFilter {
	return &TrendAlignmentFilter{mode: mode, requireStrict: requireStrict}
}

// Mode returns the filter's evaluation mode.
func (f *TrendAlignmentFilter) Mode() Mode { return f.mode }

// Evaluate judges whether the signal aligns with the strategy's
// trend state and prior signal.
func (f *TrendAlignmentFilter) Evaluate(signal core.TradeSignal, state core.StrategyState) Verdict {
	last, haveLast := state.LastSignal.Get()

	contradicted := haveLast &&
		((signal.Kind == core.SignalBuy && last == core.SignalSell) ||
			(signal.Kind == core.SignalSell && last == core.SignalBuy))

	aligned := state.IsTrending
	switch signal.Kind {
	case core.SignalBuy:
		aligned = aligned && haveLast && last == core.SignalBuy
	case core.SignalSell:
		aligned = aligned && haveLast && last == core.SignalSell
	}
	if f.requireStrict && !haveLast {
		aligned = false
	}

	switch f.mode {
	case ModeConfirm:
		if aligned {
			return approve("trend aligned")
		}
		return reject("trend misaligned")
	case ModeVeto:
		if contradicted {
			return reject("entry contradicts prior signal")
		}
		if f.requireStrict && !haveLast {
			return reject("no prior signal to align against")
		}
		return approve("no contradiction to veto")
	default: // ModeScore
		switch {
		case aligned:
			return score(core.D("1"), "trend aligned")
		case contradicted:
			return score(core.D("0.3"), "entry contradicts prior signal")
		default:
			return score(core.D("0.5"), "trend alignment unknown")
		}
	}
}
