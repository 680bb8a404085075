// Package strategy implements the position-lifecycle state machines
// driven per candle: a common analysis template expressed through
// composition plus the three concrete strategies built on it.
package strategy

import "github.com/raykavin/tradepulse/core"

// Hooks parameterizes Pipeline.Analyze. A strategy builds one of
// these closing over its own indicators and position.Manager instead
// of subclassing a template method; strategies are values, never
// subtypes.
type Hooks struct {
	UpdateIndicators func(candle core.Candle)
	IndicatorsReady  func() bool
	CheckEntry       func(candle core.Candle, symbol string) (core.TradeSignal, bool)
	CheckExit        func(candle core.Candle, position core.OpenPosition, symbol string) (core.TradeSignal, bool)
	OnNotReady       func()
	AfterSignal      func(signal core.TradeSignal)
	AfterNoSignal    func()
}

// Analyze runs the common per-candle template: update indicators,
// bail out while warming up, evaluate exit before entry, and never
// emit an entry while a position is open.
func Analyze(h Hooks, candle core.Candle, currentPosition *core.OpenPosition, symbol string) (core.TradeSignal, bool) {
	h.UpdateIndicators(candle)

	if !h.IndicatorsReady() {
		if h.OnNotReady != nil {
			h.OnNotReady()
		}
		return core.TradeSignal{}, false
	}

	hasPosition := currentPosition != nil && currentPosition.RemainingQuantity.IsPositive()

	if hasPosition {
		if exit, ok := h.CheckExit(candle, *currentPosition, symbol); ok {
			if h.AfterSignal != nil {
				h.AfterSignal(exit)
			}
			return exit, true
		}
	} else {
		if entry, ok := h.CheckEntry(candle, symbol); ok {
			if h.AfterSignal != nil {
				h.AfterSignal(entry)
			}
			return entry, true
		}
	}

	if h.AfterNoSignal != nil {
		h.AfterNoSignal()
	}
	return core.TradeSignal{}, false
}
