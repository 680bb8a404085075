package filter

import "github.com/raykavin/tradepulse/core"

// Chain composes filters left-to-right. Exit/PartialExit signals skip
// every filter. Otherwise the chain suppresses the signal at the
// first Confirm/Veto non-approval; Score filters never suppress. The
// reported confidence is the last ConfidenceAdjustment any filter
// returned (adjustments replace one another, they do not combine).
type Chain struct {
	filters []Filter
}

// NewChain constructs a Chain from an ordered list of filters.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// ChainResult is the outcome of running a signal through a Chain.
type ChainResult struct {
	Approved   bool
	Confidence core.Decimal
	Reason     string
}

// Evaluate runs signal through every filter in order.
func (c *Chain) Evaluate(signal core.TradeSignal, state core.StrategyState) ChainResult {
	if signal.IsExit() {
		return ChainResult{Approved: true, Confidence: core.D("1")}
	}

	confidence := core.D("1")
	for _, f := range c.filters {
		v := f.Evaluate(signal, state)

		if conf, ok := v.ConfidenceAdjustment.Get(); ok {
			confidence = conf
		}

		switch f.Mode() {
		case ModeConfirm, ModeVeto:
			if !v.Approved {
				return ChainResult{Approved: false, Confidence: confidence, Reason: v.Reason}
			}
		case ModeScore:
			// Score filters never suppress; carried through.
		}
	}

	return ChainResult{Approved: true, Confidence: confidence}
}
