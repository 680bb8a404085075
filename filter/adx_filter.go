package filter

import "github.com/raykavin/tradepulse/core"

// ADXFilter confirms/scores signals against trend strength. The
// strategy publishes its ADX reading under the "adx" custom key.
type ADXFilter struct {
	mode            Mode
	thresholdWeak   core.Decimal
	thresholdStrong core.Decimal
}

// NewADXFilter constructs an ADXFilter.
func NewADXFilter(thresholdWeak, thresholdStrong core.Decimal, mode Mode) *ADXFilter {
	return &ADXFilter{mode: mode, thresholdWeak: thresholdWeak, thresholdStrong: thresholdStrong}
}

// Mode returns the filter's evaluation mode.
func (f *ADXFilter) Mode() Mode { return f.mode }

// Evaluate judges the signal against the current ADX reading.
func (f *ADXFilter) Evaluate(signal core.TradeSignal, state core.StrategyState) Verdict {
	adx, ok := state.CustomValue("adx").Get()
	if !ok {
		// Only Confirm mode demands a reading; Veto stays default-allow
		// and Score always approves.
		switch f.mode {
		case ModeConfirm:
			return reject("adx value missing")
		case ModeVeto:
			return approve("adx value missing; nothing to veto")
		default:
			return score(core.D("0.5"), "adx value missing")
		}
	}

	switch f.mode {
	case ModeConfirm:
		if adx.GreaterThanOrEqual(f.thresholdStrong) {
			return approve("strong trend confirmed")
		}
		return reject("trend not strong enough")

	case ModeVeto:
		if adx.LessThan(f.thresholdWeak) {
			return reject("trend too weak")
		}
		return approve("trend acceptable")

	default: // ModeScore
		if adx.LessThanOrEqual(f.thresholdWeak) {
			return score(core.D("0.3"), "adx below weak threshold")
		}
		if adx.GreaterThanOrEqual(f.thresholdStrong) {
			return score(core.D("1"), "adx at or above strong threshold")
		}
		span := f.thresholdStrong.Sub(f.thresholdWeak)
		frac := adx.Sub(f.thresholdWeak).Div(span)
		conf := core.D("0.3").Add(frac.Mul(core.D("0.7")))
		return score(conf, "adx confidence score")
	}
}
