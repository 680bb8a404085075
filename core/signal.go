package core

// SignalKind enumerates the kinds of trade signal a strategy,
// filter chain, or ensemble may emit for a given candle.
type SignalKind string

const (
	SignalNone        SignalKind = "none"
	SignalBuy         SignalKind = "buy"
	SignalSell        SignalKind = "sell"
	SignalExit        SignalKind = "exit"
	SignalPartialExit SignalKind = "partial_exit"
)

// Direction is the side of an open position.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// TradeSignal is the output of a strategy/filter/ensemble evaluation
// for a single candle. A partial exit may carry a StopLoss, which the
// backtest engine applies to the remaining quantity unless
// MoveStopToBreakeven moves the stop to the entry price instead.
type TradeSignal struct {
	Symbol              string
	Kind                SignalKind
	Price               Decimal
	StopLoss            Maybe[Decimal]
	TakeProfit          Maybe[Decimal]
	Reason              string
	PartialExitFraction Maybe[Decimal]
	MoveStopToBreakeven bool
	Confidence          Maybe[Decimal]
}

// NewTradeSignal validates and constructs a TradeSignal. Price must
// be strictly positive; a PartialExit signal must carry a positive
// PartialExitFraction.
func NewTradeSignal(symbol string, kind SignalKind, price Decimal, reason string) (TradeSignal, error) {
	if !price.IsPositive() {
		return TradeSignal{}, newValidationError("Price", "must be positive")
	}
	if kind == SignalPartialExit {
		return TradeSignal{}, newValidationError("Partial exit fraction", "must be set through WithPartialExit")
	}
	return TradeSignal{
		Symbol: symbol,
		Kind:   kind,
		Price:  price,
		Reason: reason,
	}, nil
}

// WithStopLoss attaches a stop-loss to the signal (builder-style, used
// by strategies when constructing entries).
func (s TradeSignal) WithStopLoss(stop Decimal) TradeSignal {
	s.StopLoss = Some(stop)
	return s
}

// WithTakeProfit attaches a take-profit target to the signal.
func (s TradeSignal) WithTakeProfit(tp Decimal) TradeSignal {
	s.TakeProfit = Some(tp)
	return s
}

// WithPartialExit marks the signal as a PartialExit with the given
// fraction of the remaining position to close. Fraction must be in
// (0, 1].
func (s TradeSignal) WithPartialExit(fraction Decimal) (TradeSignal, error) {
	if !fraction.IsPositive() || fraction.GreaterThan(decimalOne) {
		return TradeSignal{}, newValidationError("Partial exit quantity", "fraction must be in (0,1]")
	}
	s.Kind = SignalPartialExit
	s.PartialExitFraction = Some(fraction)
	return s, nil
}

// WithBreakevenMove marks the signal as requesting the caller move
// the position's stop to breakeven.
func (s TradeSignal) WithBreakevenMove() TradeSignal {
	s.MoveStopToBreakeven = true
	return s
}

// WithConfidence attaches the publishing strategy's own confidence in
// this signal, used by the ensemble in place of its 0.5 default when
// UseConfidenceWeighting is set. Confidence must be in (0, 1].
func (s TradeSignal) WithConfidence(confidence Decimal) TradeSignal {
	s.Confidence = Some(confidence)
	return s
}

var decimalOne = D("1")

// IsActionable reports whether the signal is anything other than
// SignalNone.
func (s TradeSignal) IsActionable() bool {
	return s.Kind != SignalNone && s.Kind != ""
}

// IsExit reports whether the signal is an Exit or PartialExit, the
// two kinds the filter chain never suppresses.
func (s TradeSignal) IsExit() bool {
	return s.Kind == SignalExit || s.Kind == SignalPartialExit
}
