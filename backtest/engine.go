package backtest

import (
	"github.com/raykavin/tradepulse/core"
	"github.com/raykavin/tradepulse/risk"
	"github.com/raykavin/tradepulse/strategy"
)

// Settings configures a single-symbol backtest run.
type Settings struct {
	InitialCapital core.Decimal
	CommissionPct  core.Decimal
	SlippagePct    core.Decimal
}

// Engine drives a strategy and a RiskManager over an ordered candle
// stream and produces a trade journal plus an equity curve. It has no
// external-adapter dependency: fills are computed analytically from
// the candle's close, slippage, and commission settings.
type Engine struct {
	symbol   string
	strategy strategy.Strategy
	risk     *risk.Manager
	settings Settings

	equity      core.Decimal
	trades      []core.Trade
	curve       []EquityPoint
	position    *core.OpenPosition
	openTrade   *core.Trade
	barsInTrade int
	mae, mfe    core.Decimal
	lastDay     int
}

// NewEngine constructs an Engine for a single symbol.
func NewEngine(symbol string, s strategy.Strategy, r *risk.Manager, settings Settings) *Engine {
	return &Engine{
		symbol:   symbol,
		strategy: s,
		risk:     r,
		settings: settings,
		equity:   settings.InitialCapital,
	}
}

// Run replays candles in order and returns the trade journal, the
// equity curve, and the computed PerformanceMetrics.
func (e *Engine) Run(candles []core.Candle) ([]core.Trade, []EquityPoint, PerformanceMetrics) {
	for _, c := range candles {
		e.step(c)
	}
	metrics := ComputeMetrics(e.trades, e.curve, e.settings.InitialCapital)
	return e.trades, e.curve, metrics
}

func (e *Engine) step(c core.Candle) {
	// Daily tracking rolls when the stream's candle time crosses a UTC
	// midnight, not wall-clock midnight.
	if rolled, day := risk.DayRolloverNeeded(c.OpenTime, e.lastDay); rolled {
		if e.lastDay != 0 {
			e.risk.ResetDailyTracking()
		}
		e.lastDay = day
	}

	signal, ok := e.strategy.Analyze(c, e.position, e.symbol)

	if ok {
		switch signal.Kind {
		case core.SignalBuy, core.SignalSell:
			if e.position == nil {
				e.openEntry(c, signal)
			}
		case core.SignalExit:
			if e.position != nil {
				e.closeExit(c, signal)
			}
		case core.SignalPartialExit:
			if e.position != nil {
				e.closePartial(c, signal)
			}
		}
	}

	e.markToMarket(c)
}

// fillPrice applies adverse slippage: entries fill worse for the
// trader in the direction of the trade, exits fill worse on unwind.
func (e *Engine) fillPrice(price core.Decimal, long bool, entering bool) core.Decimal {
	factor := e.settings.SlippagePct.Div(core.D("100"))
	adverse := long == entering // long entry or short exit both push price up
	if adverse {
		return price.Mul(core.D("1").Add(factor))
	}
	return price.Mul(core.D("1").Sub(factor))
}

func (e *Engine) commission(fillPrice, quantity core.Decimal) core.Decimal {
	return fillPrice.Mul(quantity).Mul(e.settings.CommissionPct).Div(core.D("100"))
}

func (e *Engine) openEntry(c core.Candle, signal core.TradeSignal) {
	long := signal.Kind == core.SignalBuy
	fill := e.fillPrice(c.Close, long, true)

	stop, hasStop := signal.StopLoss.Get()
	if !hasStop {
		return
	}

	size := e.risk.CalculatePositionSize(fill, stop, core.None[core.Decimal]())
	if !size.Quantity.IsPositive() {
		return
	}
	if ok, _ := e.risk.CanOpenPosition(); !ok {
		return
	}

	dir := core.DirectionLong
	if !long {
		dir = core.DirectionShort
	}
	pos, err := core.NewOpenPosition(e.symbol, dir, size.Quantity, fill, stop)
	if err != nil {
		return
	}

	comm := e.commission(fill, size.Quantity)
	e.equity = e.equity.Sub(comm)
	e.risk.RegisterOpenRisk(size.RiskAmount)

	trade, err := core.NewTrade(e.symbol, dir, c.CloseTime, fill, size.Quantity, stop, signal.TakeProfit, size.RiskAmount)
	if err != nil {
		return
	}

	e.position = &pos
	e.openTrade = &trade
	e.barsInTrade = 0
	e.mae = core.D("0")
	e.mfe = core.D("0")
}

func (e *Engine) closeExit(c core.Candle, signal core.TradeSignal) {
	pos := e.position
	long := pos.Direction == core.DirectionLong
	fill := e.fillPrice(c.Close, long, false)

	var gross core.Decimal
	if long {
		gross = fill.Sub(pos.EntryPrice).Mul(pos.RemainingQuantity)
	} else {
		gross = pos.EntryPrice.Sub(fill).Mul(pos.RemainingQuantity)
	}
	comm := e.commission(fill, pos.RemainingQuantity)
	net := gross.Sub(comm)

	e.equity = e.equity.Add(net)
	e.risk.ClearOpenRisk(pos.RiskAmount)

	if e.openTrade != nil {
		e.openTrade.Close(c.CloseTime, fill, gross, net, signal.Reason, e.barsInTrade, e.mae, e.mfe)
		e.trades = append(e.trades, *e.openTrade)
	}

	e.position = nil
	e.openTrade = nil
}

func (e *Engine) closePartial(c core.Candle, signal core.TradeSignal) {
	pos := e.position
	fraction, ok := signal.PartialExitFraction.Get()
	if !ok {
		return
	}

	long := pos.Direction == core.DirectionLong
	fill := e.fillPrice(c.Close, long, false)
	closedQty := pos.RemainingQuantity.Mul(fraction)

	var gross core.Decimal
	if long {
		gross = fill.Sub(pos.EntryPrice).Mul(closedQty)
	} else {
		gross = pos.EntryPrice.Sub(fill).Mul(closedQty)
	}
	comm := e.commission(fill, closedQty)
	net := gross.Sub(comm)
	e.equity = e.equity.Add(net)

	newStop := pos.StopLoss
	if stop, ok := signal.StopLoss.Get(); ok {
		newStop = stop
	}
	if signal.MoveStopToBreakeven {
		newStop = pos.EntryPrice
	}
	previousRisk := pos.RiskAmount
	pos.ApplyPartialExit(closedQty, newStop, signal.MoveStopToBreakeven)
	e.risk.ApplyPartialExit(pos.EntryPrice, newStop, pos.RemainingQuantity, previousRisk)

	if e.openTrade != nil {
		childReason := signal.Reason
		child := *e.openTrade
		child.Quantity = closedQty
		child.Close(c.CloseTime, fill, gross, net, childReason, e.barsInTrade, e.mae, e.mfe)
		e.trades = append(e.trades, child)
	}

	if !pos.RemainingQuantity.IsPositive() {
		e.position = nil
		e.openTrade = nil
	}
}

func (e *Engine) markToMarket(c core.Candle) {
	e.barsInTrade++
	marked := e.equity
	if e.position != nil {
		e.position.MarkPrice(c.Close)
		unrealized := e.position.UnrealizedPnL()
		e.risk.UpdateUnrealizedPnL(unrealized)
		marked = marked.Add(unrealized)

		if unrealized.LessThan(e.mae) {
			e.mae = unrealized
		}
		if unrealized.GreaterThan(e.mfe) {
			e.mfe = unrealized
		}
	} else {
		e.risk.UpdateUnrealizedPnL(core.D("0"))
	}

	e.risk.UpdateEquity(e.equity)
	e.curve = append(e.curve, EquityPoint{Time: c.CloseTime.Unix(), Equity: marked})
}
