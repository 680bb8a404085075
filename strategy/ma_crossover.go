package strategy

import (
	"github.com/raykavin/tradepulse/core"
	"github.com/raykavin/tradepulse/indicator"
	"github.com/raykavin/tradepulse/position"
)

// MACrossoverSettings configures the EMA crossover strategy.
type MACrossoverSettings struct {
	FastPeriod           int
	SlowPeriod           int
	RequireVolume        bool
	VolumePeriod         int
	VolumeThreshold      core.Decimal
	ATRPeriod            int
	ATRStopMultiplier    core.Decimal
	TakeProfitMultiplier core.Decimal
}

// DefaultMACrossoverSettings returns the standard parameters.
func DefaultMACrossoverSettings() MACrossoverSettings {
	return MACrossoverSettings{
		FastPeriod:           9,
		SlowPeriod:           21,
		RequireVolume:        false,
		VolumePeriod:         20,
		VolumeThreshold:      core.D("1.2"),
		ATRPeriod:            14,
		ATRStopMultiplier:    core.D("2.5"),
		TakeProfitMultiplier: core.D("1.5"),
	}
}

// MACrossover is the EMA crossover strategy.
type MACrossover struct {
	settings MACrossoverSettings

	fast   *indicator.EMA
	slow   *indicator.EMA
	atr    *indicator.ATR
	volume *indicator.Volume

	prevFast core.Maybe[core.Decimal]
	prevSlow core.Maybe[core.Decimal]
	sigs     signalHistory
	pos      *position.Manager
}

// NewMACrossover constructs an MACrossover strategy.
func NewMACrossover(s MACrossoverSettings) *MACrossover {
	return &MACrossover{
		settings: s,
		fast:     indicator.NewEMA(s.FastPeriod),
		slow:     indicator.NewEMA(s.SlowPeriod),
		atr:      indicator.NewATR(s.ATRPeriod),
		volume:   indicator.NewVolume(s.VolumePeriod, s.VolumeThreshold),
		pos:      position.New(),
	}
}

func (s *MACrossover) updateIndicators(c core.Candle) {
	s.sigs.beginCandle()
	if v, ok := s.fast.Value().Get(); ok {
		s.prevFast = core.Some(v)
	}
	if v, ok := s.slow.Value().Get(); ok {
		s.prevSlow = core.Some(v)
	}
	s.fast.Update(c.Close)
	s.slow.Update(c.Close)
	s.atr.Update(c)
	s.volume.Update(c.Volume)
}

func (s *MACrossover) ready() bool {
	return s.fast.Ready() && s.slow.Ready() && s.atr.Ready()
}

// Analyze evaluates one candle against the strategy's state machine.
func (s *MACrossover) Analyze(candle core.Candle, currentPosition *core.OpenPosition, symbol string) (core.TradeSignal, bool) {
	return Analyze(Hooks{
		UpdateIndicators: s.updateIndicators,
		IndicatorsReady:  s.ready,
		CheckEntry:       s.checkEntry,
		CheckExit:        s.checkExit,
		AfterSignal: func(sig core.TradeSignal) {
			s.sigs.record(sig.Kind)
		},
	}, candle, currentPosition, symbol)
}

func (s *MACrossover) checkEntry(c core.Candle, symbol string) (core.TradeSignal, bool) {
	fastPrev, ok1 := s.prevFast.Get()
	slowPrev, ok2 := s.prevSlow.Get()
	if !ok1 || !ok2 {
		return core.TradeSignal{}, false
	}
	fastNow, _ := s.fast.Value().Get()
	slowNow, _ := s.slow.Value().Get()
	atrVal, _ := s.atr.Value().Get()

	if s.settings.RequireVolume && !s.volume.IsSpike() {
		return core.TradeSignal{}, false
	}

	bullish := fastPrev.LessThanOrEqual(slowPrev) && fastNow.GreaterThan(slowNow)
	bearish := fastPrev.GreaterThanOrEqual(slowPrev) && fastNow.LessThan(slowNow)

	stopDist := atrVal.Mul(s.settings.ATRStopMultiplier)

	if bullish {
		stop := c.Close.Sub(stopDist)
		tp := c.Close.Add(stopDist.Mul(s.settings.TakeProfitMultiplier))
		s.pos.EnterLong(c.Close, stop)
		sig, _ := core.NewTradeSignal(symbol, core.SignalBuy, c.Close, "bullish ema crossover")
		return sig.WithStopLoss(stop).WithTakeProfit(tp), true
	}
	if bearish {
		stop := c.Close.Add(stopDist)
		tp := c.Close.Sub(stopDist.Mul(s.settings.TakeProfitMultiplier))
		s.pos.EnterShort(c.Close, stop)
		sig, _ := core.NewTradeSignal(symbol, core.SignalSell, c.Close, "bearish ema crossover")
		return sig.WithStopLoss(stop).WithTakeProfit(tp), true
	}

	return core.TradeSignal{}, false
}

func (s *MACrossover) checkExit(c core.Candle, p core.OpenPosition, symbol string) (core.TradeSignal, bool) {
	s.pos.IncrementBars()
	long := p.Direction == core.DirectionLong
	atrVal, _ := s.atr.Value().Get()
	stopDist := atrVal.Mul(s.settings.ATRStopMultiplier)

	if long {
		candidate := c.Close.Sub(stopDist)
		s.pos.UpdateLongStop(candidate, core.Some(c.High))
		stop, _ := s.pos.StopLoss().Get()
		if c.Low.LessThanOrEqual(stop) {
			sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "trailing stop hit")
			return sig, true
		}
	} else {
		candidate := c.Close.Add(stopDist)
		s.pos.UpdateShortStop(candidate, core.Some(c.Low))
		stop, _ := s.pos.StopLoss().Get()
		if c.High.GreaterThanOrEqual(stop) {
			sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "trailing stop hit")
			return sig, true
		}
	}

	fastNow, _ := s.fast.Value().Get()
	slowNow, _ := s.slow.Value().Get()
	fastPrev, _ := s.prevFast.Get()
	slowPrev, _ := s.prevSlow.Get()

	if long && fastPrev.GreaterThanOrEqual(slowPrev) && fastNow.LessThan(slowNow) {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "opposite crossover")
		return sig, true
	}
	if !long && fastPrev.LessThanOrEqual(slowPrev) && fastNow.GreaterThan(slowNow) {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "opposite crossover")
		return sig, true
	}

	return core.TradeSignal{}, false
}

// CurrentStopLoss exposes PositionManager's current stop.
func (s *MACrossover) CurrentStopLoss() core.Maybe[core.Decimal] { return s.pos.StopLoss() }

// Reset restores the strategy to its pre-first-candle state.
func (s *MACrossover) Reset() {
	set := s.settings
	*s = *NewMACrossover(set)
}
