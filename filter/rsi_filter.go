package filter

import "github.com/raykavin/tradepulse/core"

// RSIFilter approves/confirms signals against RSI's overbought/oversold
// readings. The strategy publishes its RSI reading under the "rsi"
// custom key.
type RSIFilter struct {
	mode       Mode
	overbought core.Decimal
	oversold   core.Decimal
}

// NewRSIFilter constructs an RSIFilter.
func NewRSIFilter(overbought, oversold core.Decimal, mode Mode) *RSIFilter {
	return &RSIFilter{mode: mode, overbought: overbought, oversold: oversold}
}

// Mode returns the filter's evaluation mode.
func (f *RSIFilter) Mode() Mode { return f.mode }

// Evaluate judges the signal against the current RSI reading.
func (f *RSIFilter) Evaluate(signal core.TradeSignal, state core.StrategyState) Verdict {
	rsi, ok := state.CustomValue("rsi").Get()
	if !ok {
		// Only Confirm mode demands a reading; Veto stays default-allow
		// and Score always approves.
		switch f.mode {
		case ModeConfirm:
			return reject("rsi value missing")
		case ModeVeto:
			return approve("rsi value missing; nothing to veto")
		default:
			return score(core.D("0.5"), "rsi value missing")
		}
	}

	switch f.mode {
	case ModeConfirm:
		switch signal.Kind {
		case core.SignalBuy:
			if rsi.LessThanOrEqual(f.oversold) {
				return approve("rsi oversold confirms buy")
			}
			return reject("rsi not oversold")
		case core.SignalSell:
			if rsi.GreaterThanOrEqual(f.overbought) {
				return approve("rsi overbought confirms sell")
			}
			return reject("rsi not overbought")
		default:
			return approve("filter not applicable")
		}

	case ModeVeto:
		switch signal.Kind {
		case core.SignalBuy:
			if rsi.GreaterThanOrEqual(f.overbought) {
				return reject("rsi overbought vetoes buy")
			}
		case core.SignalSell:
			if rsi.LessThanOrEqual(f.oversold) {
				return reject("rsi oversold vetoes sell")
			}
		}
		return approve("no veto condition")

	default: // ModeScore
		return score(f.confidence(signal, rsi), "rsi confidence score")
	}
}

func (f *RSIFilter) confidence(signal core.TradeSignal, rsi core.Decimal) core.Decimal {
	switch signal.Kind {
	case core.SignalBuy:
		if rsi.LessThanOrEqual(f.oversold) {
			return core.D("1.2")
		}
		if rsi.GreaterThanOrEqual(f.overbought) {
			return core.D("0.5")
		}
		// linear 0.5..1.0 in the neutral zone, lower RSI -> higher confidence
		span := f.overbought.Sub(f.oversold)
		if span.IsZero() {
			return core.D("0.75")
		}
		frac := f.overbought.Sub(rsi).Div(span)
		return core.D("0.5").Add(frac.Mul(core.D("0.5")))
	case core.SignalSell:
		if rsi.GreaterThanOrEqual(f.overbought) {
			return core.D("1.2")
		}
		if rsi.LessThanOrEqual(f.oversold) {
			return core.D("0.5")
		}
		span := f.overbought.Sub(f.oversold)
		if span.IsZero() {
			return core.D("0.75")
		}
		frac := rsi.Sub(f.oversold).Div(span)
		return core.D("0.5").Add(frac.Mul(core.D("0.5")))
	default:
		return core.D("0.5")
	}
}
