package core

// OpenPosition is the record of a live position for a symbol. The
// backtest engine holds and mutates it; risk.Manager keeps no position
// records, only the summed RiskAmount of open positions. Strategies
// never mutate it directly, they only emit signals the caller applies
// against it.
type OpenPosition struct {
	Symbol            string
	Direction         Direction
	InitialQuantity   Decimal
	RemainingQuantity Decimal
	EntryPrice        Decimal
	StopLoss          Decimal
	RiskAmount        Decimal
	BreakevenMoved    bool
	CurrentPrice      Decimal
}

// NewOpenPosition validates and constructs an OpenPosition. Quantity
// must be positive; RiskAmount is derived, never passed in, so it
// always equals |entry-stop|*qty by construction.
func NewOpenPosition(symbol string, dir Direction, quantity, entryPrice, stopLoss Decimal) (OpenPosition, error) {
	if !quantity.IsPositive() {
		return OpenPosition{}, newValidationError("Quantity", "must be positive")
	}
	if !entryPrice.IsPositive() {
		return OpenPosition{}, newValidationError("Entry price", "must be positive")
	}
	risk := entryPrice.Sub(stopLoss).Abs().Mul(quantity)
	return OpenPosition{
		Symbol:            symbol,
		Direction:         dir,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
		EntryPrice:        entryPrice,
		StopLoss:          stopLoss,
		RiskAmount:        risk,
		CurrentPrice:      entryPrice,
	}, nil
}

// ApplyPartialExit reduces RemainingQuantity by the given quantity
// and recomputes RiskAmount against the new stop. Callers (the backtest
// engine) are responsible for validating that qty <= RemainingQuantity.
func (p *OpenPosition) ApplyPartialExit(qty, newStop Decimal, moveToBreakeven bool) {
	p.RemainingQuantity = p.RemainingQuantity.Sub(qty)
	p.StopLoss = newStop
	if moveToBreakeven {
		p.BreakevenMoved = true
	}
	p.RiskAmount = p.EntryPrice.Sub(p.StopLoss).Abs().Mul(p.RemainingQuantity)
}

// MarkPrice updates the position's mark-to-market price.
func (p *OpenPosition) MarkPrice(price Decimal) {
	p.CurrentPrice = price
}

// UnrealizedPnL returns the mark-to-market PnL of the remaining
// quantity at the position's CurrentPrice.
func (p OpenPosition) UnrealizedPnL() Decimal {
	if p.Direction == DirectionLong {
		return p.CurrentPrice.Sub(p.EntryPrice).Mul(p.RemainingQuantity)
	}
	return p.EntryPrice.Sub(p.CurrentPrice).Mul(p.RemainingQuantity)
}
