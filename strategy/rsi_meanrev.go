package strategy

import (
	"github.com/raykavin/tradepulse/core"
	"github.com/raykavin/tradepulse/indicator"
	"github.com/raykavin/tradepulse/position"
)

// RSIMeanRevSettings configures the RSI mean-reversion strategy.
type RSIMeanRevSettings struct {
	RSIPeriod            int
	OversoldLevel        core.Decimal
	OverboughtLevel      core.Decimal
	NeutralLow           core.Decimal
	NeutralHigh          core.Decimal
	ExitOnNeutral        bool
	UseTrendFilter       bool
	TrendEMAPeriod       int
	RequireVolume        bool
	VolumePeriod         int
	VolumeThreshold      core.Decimal
	ATRPeriod            int
	ATRStopMultiplier    core.Decimal
	TakeProfitMultiplier core.Decimal
}

// DefaultRSIMeanRevSettings returns the standard parameters.
func DefaultRSIMeanRevSettings() RSIMeanRevSettings {
	return RSIMeanRevSettings{
		RSIPeriod:            14,
		OversoldLevel:        core.D("30"),
		OverboughtLevel:      core.D("70"),
		NeutralLow:           core.D("45"),
		NeutralHigh:          core.D("55"),
		ExitOnNeutral:        false,
		UseTrendFilter:       true,
		TrendEMAPeriod:       200,
		RequireVolume:        false,
		VolumePeriod:         20,
		VolumeThreshold:      core.D("1.2"),
		ATRPeriod:            14,
		ATRStopMultiplier:    core.D("2.5"),
		TakeProfitMultiplier: core.D("1.5"),
	}
}

// RSIMeanRev is the RSI mean-reversion strategy.
type RSIMeanRev struct {
	settings RSIMeanRevSettings

	rsi      *indicator.RSI
	trendEMA *indicator.EMA
	atr      *indicator.ATR
	volume   *indicator.Volume

	prevRSI core.Maybe[core.Decimal]
	sigs    signalHistory
	pos     *position.Manager
}

// NewRSIMeanRev constructs an RSIMeanRev strategy.
func NewRSIMeanRev(s RSIMeanRevSettings) *RSIMeanRev {
	return &RSIMeanRev{
		settings: s,
		rsi:      indicator.NewRSI(s.RSIPeriod),
		trendEMA: indicator.NewEMA(s.TrendEMAPeriod),
		atr:      indicator.NewATR(s.ATRPeriod),
		volume:   indicator.NewVolume(s.VolumePeriod, s.VolumeThreshold),
		pos:      position.New(),
	}
}

func (s *RSIMeanRev) updateIndicators(c core.Candle) {
	s.sigs.beginCandle()
	if v, ok := s.rsi.Value().Get(); ok {
		s.prevRSI = core.Some(v)
	}
	s.rsi.Update(c.Close)
	s.trendEMA.Update(c.Close)
	s.atr.Update(c)
	s.volume.Update(c.Volume)
}

func (s *RSIMeanRev) ready() bool {
	return s.rsi.Ready() && s.atr.Ready() && (!s.settings.UseTrendFilter || s.trendEMA.Ready())
}

// Analyze evaluates one candle against the strategy's state machine.
func (s *RSIMeanRev) Analyze(candle core.Candle, currentPosition *core.OpenPosition, symbol string) (core.TradeSignal, bool) {
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

func (s *RSIMeanRev) checkEntry(c core.Candle, symbol string) (core.TradeSignal, bool) {
	rsiNow, ok := s.rsi.Value().Get()
	if !ok {
		return core.TradeSignal{}, false
	}
	rsiPrev, ok := s.prevRSI.Get()
	if !ok {
		return core.TradeSignal{}, false
	}
	atrVal, _ := s.atr.Value().Get()

	if s.settings.RequireVolume && !s.volume.IsSpike() {
		return core.TradeSignal{}, false
	}

	oversoldRecovery := rsiPrev.LessThanOrEqual(s.settings.OversoldLevel) && rsiNow.GreaterThan(s.settings.OversoldLevel)
	overboughtReversal := rsiPrev.GreaterThanOrEqual(s.settings.OverboughtLevel) && rsiNow.LessThan(s.settings.OverboughtLevel)

	trendEMA, trendReady := s.trendEMA.Value().Get()

	if oversoldRecovery {
		if s.settings.UseTrendFilter && trendReady && c.Close.LessThan(trendEMA) {
			return core.TradeSignal{}, false
		}
		stopDist := atrVal.Mul(s.settings.ATRStopMultiplier)
		stop := c.Close.Sub(stopDist)
		tp := c.Close.Add(stopDist.Mul(s.settings.TakeProfitMultiplier))
		s.pos.EnterLong(c.Close, stop)
		sig, _ := core.NewTradeSignal(symbol, core.SignalBuy, c.Close, "rsi oversold recovery")
		return sig.WithStopLoss(stop).WithTakeProfit(tp), true
	}

	if overboughtReversal {
		if s.settings.UseTrendFilter && trendReady && c.Close.GreaterThan(trendEMA) {
			return core.TradeSignal{}, false
		}
		stopDist := atrVal.Mul(s.settings.ATRStopMultiplier)
		stop := c.Close.Add(stopDist)
		tp := c.Close.Sub(stopDist.Mul(s.settings.TakeProfitMultiplier))
		s.pos.EnterShort(c.Close, stop)
		sig, _ := core.NewTradeSignal(symbol, core.SignalSell, c.Close, "rsi overbought reversal")
		return sig.WithStopLoss(stop).WithTakeProfit(tp), true
	}

	return core.TradeSignal{}, false
}

func (s *RSIMeanRev) checkExit(c core.Candle, p core.OpenPosition, symbol string) (core.TradeSignal, bool) {
	s.pos.IncrementBars()
	long := p.Direction == core.DirectionLong
	rsiNow, _ := s.rsi.Value().Get()

	stop, _ := s.pos.StopLoss().Get()
	if long && c.Low.LessThanOrEqual(stop) {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "stop hit")
		return sig, true
	}
	if !long && c.High.GreaterThanOrEqual(stop) {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "stop hit")
		return sig, true
	}

	if long && rsiNow.GreaterThanOrEqual(s.settings.OverboughtLevel) {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "mean reversion complete")
		return sig, true
	}
	if !long && rsiNow.LessThanOrEqual(s.settings.OversoldLevel) {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "mean reversion complete")
		return sig, true
	}

	if s.settings.ExitOnNeutral && rsiNow.GreaterThanOrEqual(s.settings.NeutralLow) && rsiNow.LessThanOrEqual(s.settings.NeutralHigh) {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "rsi neutral")
		return sig, true
	}

	return core.TradeSignal{}, false
}

// CurrentStopLoss exposes PositionManager's current stop.
func (s *RSIMeanRev) CurrentStopLoss() core.Maybe[core.Decimal] { return s.pos.StopLoss() }

// Reset restores the strategy to its pre-first-candle state.
func (s *RSIMeanRev) Reset() {
	set := s.settings
	*s = *NewRSIMeanRev(set)
}
