package core

import "time"

// TradeResult classifies the outcome of a closed trade.
type TradeResult string

const (
	ResultWin       TradeResult = "win"
	ResultLoss      TradeResult = "loss"
	ResultBreakeven TradeResult = "breakeven"
)

// Trade is a journal entry for a position's lifecycle: created on
// Buy/Sell, mutated to closed on Exit. A PartialExit produces a child
// Trade record representing the closed slice, leaving the parent
// Trade open against the remaining quantity.
type Trade struct {
	Symbol      string
	Direction   Direction
	EntryTime   time.Time
	ExitTime    Maybe[time.Time]
	EntryPrice  Decimal
	ExitPrice   Maybe[Decimal]
	Quantity    Decimal
	StopLoss    Decimal
	TakeProfit  Maybe[Decimal]
	ExitReason  string
	Result      Maybe[TradeResult]
	RMultiple   Maybe[Decimal]
	NetPnL      Maybe[Decimal]
	GrossPnL    Maybe[Decimal]
	BarsInTrade Maybe[int]
	MAE         Maybe[Decimal]
	MFE         Maybe[Decimal]

	// initialRisk is the RiskAmount captured at entry, kept so
	// RMultiple can be computed on close without reaching back into
	// the risk manager after the position is gone.
	initialRisk Decimal
}

// NewTrade opens a journal entry for a newly filled entry order.
func NewTrade(symbol string, dir Direction, entryTime time.Time, entryPrice, quantity, stopLoss Decimal, takeProfit Maybe[Decimal], initialRisk Decimal) (Trade, error) {
	if !quantity.IsPositive() {
		return Trade{}, newValidationError("Quantity", "must be positive")
	}
	if !entryPrice.IsPositive() {
		return Trade{}, newValidationError("Entry price", "must be positive")
	}
	return Trade{
		Symbol:      symbol,
		Direction:   dir,
		EntryTime:   entryTime,
		EntryPrice:  entryPrice,
		Quantity:    quantity,
		StopLoss:    stopLoss,
		TakeProfit:  takeProfit,
		initialRisk: initialRisk,
	}, nil
}

// Close terminates the trade's lifecycle with the realized fill, net
// and gross PnL, bar count, and MAE/MFE observed over the trade's
// life. R-multiple is net PnL divided by the initial risk amount; if
// the initial risk was zero, RMultiple is left absent.
func (t *Trade) Close(exitTime time.Time, exitPrice, grossPnL, netPnL Decimal, reason string, barsInTrade int, mae, mfe Decimal) {
	t.ExitTime = Some(exitTime)
	t.ExitPrice = Some(exitPrice)
	t.ExitReason = reason
	t.GrossPnL = Some(grossPnL)
	t.NetPnL = Some(netPnL)
	t.BarsInTrade = Some(barsInTrade)
	t.MAE = Some(mae)
	t.MFE = Some(mfe)

	switch {
	case netPnL.IsPositive():
		t.Result = Some(ResultWin)
	case netPnL.IsNegative():
		t.Result = Some(ResultLoss)
	default:
		t.Result = Some(ResultBreakeven)
	}

	if t.initialRisk.IsPositive() {
		t.RMultiple = Some(netPnL.Div(t.initialRisk))
	}
}

// IsOpen reports whether the trade's lifecycle has not yet terminated.
func (t Trade) IsOpen() bool {
	_, done := t.ExitTime.Get()
	return !done
}
