package filter

import (
	"strconv"

	"github.com/raykavin/tradepulse/core"
	"github.com/raykavin/tradepulse/strategy"
	"github.com/samber/lo"
)

// EnsembleMember is one weighted sub-strategy.
type EnsembleMember struct {
	Strategy strategy.Strategy
	Weight   core.Decimal
}

// EnsembleSettings configures consensus thresholds.
type EnsembleSettings struct {
	MinAgreement           core.Decimal
	UseConfidenceWeighting bool
}

// Ensemble holds a weighted list of sub-strategies and produces a
// single consensus signal per candle.
type Ensemble struct {
	members  []EnsembleMember
	settings EnsembleSettings
}

// NewEnsemble constructs an Ensemble. Each member's weight must be in
// (0,1]; callers are responsible for that invariant.
func NewEnsemble(settings EnsembleSettings, members ...EnsembleMember) *Ensemble {
	return &Ensemble{members: members, settings: settings}
}

type vote struct {
	kind       core.TradeSignal
	confidence core.Decimal
	weight     core.Decimal
}

// Analyze collects a vote from every sub-strategy, scores each
// candidate kind by confidence-weighted vote share, and emits the
// consensus signal in Exit > PartialExit > Entry priority. Returns
// (signal, true) only when a consensus is reached. A same-candle
// Buy/Sell tie at threshold emits neither; the tie check is
// order-independent because both scores are computed before either is
// acted on.
func (e *Ensemble) Analyze(candle core.Candle, currentPosition *core.OpenPosition, symbol string) (core.TradeSignal, bool) {
	votes := make([]vote, 0, len(e.members))
	totalWeight := core.D("0")

	for _, m := range e.members {
		sig, ok := m.Strategy.Analyze(candle, currentPosition, symbol)
		totalWeight = totalWeight.Add(m.Weight)
		if !ok {
			continue
		}
		// Confidence defaults to 0.5 only when the sub-strategy does
		// not publish one of its own.
		confidence := core.D("0.5")
		if c, ok := sig.Confidence.Get(); ok {
			confidence = c
		}
		votes = append(votes, vote{kind: sig, confidence: confidence, weight: m.Weight})
	}

	if totalWeight.IsZero() {
		return core.TradeSignal{}, false
	}

	scoreFor := func(kind core.SignalKind) core.Decimal {
		matching := lo.Filter(votes, func(v vote, _ int) bool { return v.kind.Kind == kind })
		sum := core.D("0")
		for _, v := range matching {
			w := v.weight
			if e.settings.UseConfidenceWeighting {
				w = w.Mul(v.confidence)
			}
			sum = sum.Add(w)
		}
		return sum.Div(totalWeight)
	}

	hasPosition := currentPosition != nil && currentPosition.RemainingQuantity.IsPositive()

	if hasPosition {
		if scoreFor(core.SignalExit).GreaterThanOrEqual(e.settings.MinAgreement) {
			sig, _ := core.NewTradeSignal(symbol, core.SignalExit, candle.Close, "ensemble exit consensus")
			return sig, true
		}
		if scoreFor(core.SignalPartialExit).GreaterThanOrEqual(e.settings.MinAgreement) {
			return e.partialExitConsensus(votes, candle, symbol)
		}
		return core.TradeSignal{}, false
	}

	buyScore := scoreFor(core.SignalBuy)
	sellScore := scoreFor(core.SignalSell)
	buyHits := buyScore.GreaterThanOrEqual(e.settings.MinAgreement)
	sellHits := sellScore.GreaterThanOrEqual(e.settings.MinAgreement)

	if buyHits && sellHits {
		// Contradictory consensus: emit neither.
		return core.TradeSignal{}, false
	}
	if buyHits {
		return e.entryConsensus(votes, core.SignalBuy, candle, symbol)
	}
	if sellHits {
		return e.entryConsensus(votes, core.SignalSell, candle, symbol)
	}

	return core.TradeSignal{}, false
}

func (e *Ensemble) partialExitConsensus(votes []vote, candle core.Candle, symbol string) (core.TradeSignal, bool) {
	matching := lo.Filter(votes, func(v vote, _ int) bool { return v.kind.Kind == core.SignalPartialExit })
	if len(matching) == 0 {
		return core.TradeSignal{}, false
	}

	sumFraction := core.D("0")
	n := 0
	moveBreakeven := false
	var stop core.Maybe[core.Decimal]
	for _, v := range matching {
		if f, ok := v.kind.PartialExitFraction.Get(); ok {
			sumFraction = sumFraction.Add(f)
			n++
		}
		if v.kind.MoveStopToBreakeven {
			moveBreakeven = true
		}
		if !stop.IsSome() {
			if s, ok := v.kind.StopLoss.Get(); ok {
				stop = core.Some(s)
			}
		}
	}
	if n == 0 {
		return core.TradeSignal{}, false
	}
	meanFraction := sumFraction.Div(core.D(strconv.Itoa(n)))

	sig, _ := core.NewTradeSignal(symbol, core.SignalExit, candle.Close, "ensemble partial exit consensus")
	sig, err := sig.WithPartialExit(meanFraction)
	if err != nil {
		return core.TradeSignal{}, false
	}
	if moveBreakeven {
		sig = sig.WithBreakevenMove()
	}
	if s, ok := stop.Get(); ok {
		sig = sig.WithStopLoss(s)
	}
	return sig, true
}

func (e *Ensemble) entryConsensus(votes []vote, kind core.SignalKind, candle core.Candle, symbol string) (core.TradeSignal, bool) {
	matching := lo.Filter(votes, func(v vote, _ int) bool { return v.kind.Kind == kind })
	if len(matching) == 0 {
		return core.TradeSignal{}, false
	}

	long := kind == core.SignalBuy

	var stop, tp core.Maybe[core.Decimal]
	for _, v := range matching {
		if s, ok := v.kind.StopLoss.Get(); ok {
			cur, has := stop.Get()
			if !has {
				stop = core.Some(s)
			} else if long && s.GreaterThan(cur) {
				stop = core.Some(s)
			} else if !long && s.LessThan(cur) {
				stop = core.Some(s)
			}
		}
		if t, ok := v.kind.TakeProfit.Get(); ok {
			cur, has := tp.Get()
			if !has {
				tp = core.Some(t)
			} else if long && t.LessThan(cur) {
				tp = core.Some(t)
			} else if !long && t.GreaterThan(cur) {
				tp = core.Some(t)
			}
		}
	}

	sig, _ := core.NewTradeSignal(symbol, kind, candle.Close, "ensemble entry consensus")
	if s, ok := stop.Get(); ok {
		sig = sig.WithStopLoss(s)
	}
	if t, ok := tp.Get(); ok {
		sig = sig.WithTakeProfit(t)
	}
	return sig, true
}
