// Package filter implements the signal-filter chain and the weighted
// strategy ensemble that sit between strategies and the risk layer.
package filter

import "github.com/raykavin/tradepulse/core"

// Mode is the evaluation mode a Filter declares.
type Mode string

const (
	ModeConfirm Mode = "confirm"
	ModeVeto    Mode = "veto"
	ModeScore   Mode = "score"
)

// Verdict is a filter's judgement of one signal.
type Verdict struct {
	Approved             bool
	ConfidenceAdjustment core.Maybe[core.Decimal]
	Reason               string
}

// Filter evaluates a candidate signal against a strategy's state
// snapshot. Exit and PartialExit signals are never filtered; Chain
// enforces this centrally so individual filters don't need to
// special-case it themselves.
type Filter interface {
	Mode() Mode
	Evaluate(signal core.TradeSignal, state core.StrategyState) Verdict
}

func approve(reason string) Verdict {
	return Verdict{Approved: true, Reason: reason}
}

func reject(reason string) Verdict {
	return Verdict{Approved: false, Reason: reason}
}

func score(confidence core.Decimal, reason string) Verdict {
	return Verdict{Approved: true, ConfidenceAdjustment: core.Some(confidence), Reason: reason}
}
