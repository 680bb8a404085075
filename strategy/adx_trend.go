package strategy

import (
	"github.com/raykavin/tradepulse/core"
	"github.com/raykavin/tradepulse/indicator"
	"github.com/raykavin/tradepulse/position"
)

// ADXTrendSettings configures the ADX trend-following strategy.
type ADXTrendSettings struct {
	AdxPeriod            int
	AdxThreshold         core.Decimal
	AdxExitThreshold     core.Decimal
	FastEMAPeriod        int
	SlowEMAPeriod        int
	VolumePeriod         int
	VolumeThreshold      core.Decimal
	RequireVolume        bool
	RequireOBV           bool
	OBVLookback          int
	MinATRPct            core.Decimal
	MaxATRPct            core.Decimal
	RequireFreshTrend    bool
	RequireADXRising     bool
	SlopeLookback        int
	ATRPeriod            int
	ATRStopMultiplier    core.Decimal
	TakeProfitMultiplier core.Decimal
	PartialExitRMultiple core.Decimal
	PartialExitFraction  core.Decimal
	MaxBarsInTrade       int
	ADXFallingExitBars   int
	TrailingStopATRMult  core.Decimal
}

// DefaultADXTrendSettings returns the standard parameters.
func DefaultADXTrendSettings() ADXTrendSettings {
	return ADXTrendSettings{
		AdxPeriod:            14,
		AdxThreshold:         core.D("25"),
		AdxExitThreshold:     core.D("20"),
		FastEMAPeriod:        12,
		SlowEMAPeriod:        26,
		VolumePeriod:         20,
		VolumeThreshold:      core.D("1.5"),
		RequireVolume:        false,
		RequireOBV:           false,
		OBVLookback:          20,
		MinATRPct:            core.D("0.1"),
		MaxATRPct:            core.D("10"),
		RequireFreshTrend:    false,
		RequireADXRising:     false,
		SlopeLookback:        5,
		ATRPeriod:            14,
		ATRStopMultiplier:    core.D("2.5"),
		TakeProfitMultiplier: core.D("1.5"),
		PartialExitRMultiple: core.D("1.5"),
		PartialExitFraction:  core.D("0.5"),
		MaxBarsInTrade:       0,
		ADXFallingExitBars:   0,
		TrailingStopATRMult:  core.D("2.5"),
	}
}

// ADXTrend is the ADX trend-following strategy.
type ADXTrend struct {
	settings ADXTrendSettings

	adx     *indicator.ADX
	fastEMA *indicator.EMA
	slowEMA *indicator.EMA
	atr     *indicator.ATR
	volume  *indicator.Volume
	obv     *indicator.OBV

	pos *position.Manager

	wasBelowThreshold bool
	sigs              signalHistory
}

// NewADXTrend constructs an ADXTrend strategy with the given settings.
func NewADXTrend(s ADXTrendSettings) *ADXTrend {
	return &ADXTrend{
		settings:          s,
		adx:               indicator.NewADX(s.AdxPeriod),
		fastEMA:           indicator.NewEMA(s.FastEMAPeriod),
		slowEMA:           indicator.NewEMA(s.SlowEMAPeriod),
		atr:               indicator.NewATR(s.ATRPeriod),
		volume:            indicator.NewVolume(s.VolumePeriod, s.VolumeThreshold),
		obv:               indicator.NewOBV(s.OBVLookback),
		pos:               position.New(),
		wasBelowThreshold: true,
	}
}

func (s *ADXTrend) updateIndicators(c core.Candle) {
	s.sigs.beginCandle()
	s.adx.Update(c)
	s.fastEMA.Update(c.Close)
	s.slowEMA.Update(c.Close)
	s.atr.Update(c)
	s.volume.Update(c.Volume)
	s.obv.Update(c)
}

func (s *ADXTrend) ready() bool {
	return s.adx.Ready() && s.fastEMA.Ready() && s.slowEMA.Ready() && s.atr.Ready()
}

// Analyze evaluates one candle against the strategy's state machine.
func (s *ADXTrend) Analyze(candle core.Candle, currentPosition *core.OpenPosition, symbol string) (core.TradeSignal, bool) {
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

func (s *ADXTrend) checkEntry(c core.Candle, symbol string) (core.TradeSignal, bool) {
	adxVal, _ := s.adx.Value().Get()
	pdi, _ := s.adx.PlusDI().Get()
	mdi, _ := s.adx.MinusDI().Get()
	fast, _ := s.fastEMA.Value().Get()
	slow, _ := s.slowEMA.Value().Get()
	atrVal, _ := s.atr.Value().Get()

	crossedFresh := s.wasBelowThreshold && adxVal.GreaterThanOrEqual(s.settings.AdxThreshold)
	s.wasBelowThreshold = adxVal.LessThan(s.settings.AdxThreshold)

	if adxVal.LessThan(s.settings.AdxThreshold) {
		return core.TradeSignal{}, false
	}
	if s.settings.RequireFreshTrend && !crossedFresh {
		return core.TradeSignal{}, false
	}
	if s.settings.RequireADXRising && !s.adx.IsRising(s.settings.SlopeLookback) {
		return core.TradeSignal{}, false
	}
	if s.settings.RequireVolume && !s.volume.IsSpike() {
		return core.TradeSignal{}, false
	}

	atrPct := atrVal.Div(c.Close).Mul(core.D("100"))
	if atrPct.LessThan(s.settings.MinATRPct) || atrPct.GreaterThan(s.settings.MaxATRPct) {
		return core.TradeSignal{}, false
	}

	long := fast.GreaterThan(slow) && pdi.GreaterThan(mdi)
	short := fast.LessThan(slow) && mdi.GreaterThan(pdi)

	if !long && !short {
		return core.TradeSignal{}, false
	}
	if s.settings.RequireOBV {
		if long && !s.obv.IsBullish() {
			return core.TradeSignal{}, false
		}
		if short && !s.obv.IsBearish() {
			return core.TradeSignal{}, false
		}
	}

	confidence := adxConfidence(adxVal)

	stopDist := atrVal.Mul(s.settings.ATRStopMultiplier)
	if long {
		stop := c.Close.Sub(stopDist)
		tp := c.Close.Add(stopDist.Mul(s.settings.TakeProfitMultiplier))
		s.pos.EnterLong(c.Close, stop)
		sig, _ := core.NewTradeSignal(symbol, core.SignalBuy, c.Close, "adx trend long entry")
		return sig.WithStopLoss(stop).WithTakeProfit(tp).WithConfidence(confidence), true
	}

	stop := c.Close.Add(stopDist)
	tp := c.Close.Sub(stopDist.Mul(s.settings.TakeProfitMultiplier))
	s.pos.EnterShort(c.Close, stop)
	sig, _ := core.NewTradeSignal(symbol, core.SignalSell, c.Close, "adx trend short entry")
	return sig.WithStopLoss(stop).WithTakeProfit(tp).WithConfidence(confidence), true
}

// adxConfidence scales a raw ADX reading (0-100) into the (0,1] range
// the ensemble expects for vote weighting: a stronger trend reading
// is published as a higher-confidence vote rather than always falling
// back to the ensemble's 0.5 default.
func adxConfidence(adxVal core.Decimal) core.Decimal {
	confidence := adxVal.Div(core.D("100"))
	if confidence.GreaterThan(core.D("1")) {
		return core.D("1")
	}
	if confidence.LessThan(core.D("0.1")) {
		return core.D("0.1")
	}
	return confidence
}

func (s *ADXTrend) checkExit(c core.Candle, p core.OpenPosition, symbol string) (core.TradeSignal, bool) {
	s.pos.IncrementBars()
	atrVal, _ := s.atr.Value().Get()
	long := p.Direction == core.DirectionLong

	// 1. trailing stop
	if long {
		s.pos.UpdateHighest(c.High)
		highest, _ := s.pos.HighestSinceEntry().Get()
		candidate := highest.Sub(atrVal.Mul(s.settings.TrailingStopATRMult))
		s.pos.UpdateLongStop(candidate, core.None[core.Decimal]())
		stop, _ := s.pos.StopLoss().Get()
		if c.Low.LessThanOrEqual(stop) {
			sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "trailing stop hit")
			return sig, true
		}
	} else {
		s.pos.UpdateLowest(c.Low)
		lowest, _ := s.pos.LowestSinceEntry().Get()
		candidate := lowest.Add(atrVal.Mul(s.settings.TrailingStopATRMult))
		s.pos.UpdateShortStop(candidate, core.None[core.Decimal]())
		stop, _ := s.pos.StopLoss().Get()
		if c.High.GreaterThanOrEqual(stop) {
			sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "trailing stop hit")
			return sig, true
		}
	}

	// 2. partial exit / breakeven
	if !p.BreakevenMoved {
		if achievedR, ok := s.pos.AchievedR(long).Get(); ok && achievedR.GreaterThanOrEqual(s.settings.PartialExitRMultiple) {
			sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "partial exit")
			sig, err := sig.WithPartialExit(s.settings.PartialExitFraction)
			if err == nil {
				sig = sig.WithBreakevenMove().WithStopLoss(p.EntryPrice)
				s.pos.MoveToBreakeven()
				return sig, true
			}
		}
	}

	// 3. time stop
	if s.settings.MaxBarsInTrade > 0 && s.pos.BarsSinceEntry() >= s.settings.MaxBarsInTrade {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "time stop")
		return sig, true
	}

	// 4. ADX falling streak
	if s.settings.ADXFallingExitBars > 0 && s.adx.FallingStreak() >= s.settings.ADXFallingExitBars {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "adx falling streak")
		return sig, true
	}

	// 5. trend weakening
	adxVal, _ := s.adx.Value().Get()
	if adxVal.LessThan(s.settings.AdxExitThreshold) {
		sig, _ := core.NewTradeSignal(symbol, core.SignalExit, c.Close, "trend weakening")
		return sig, true
	}

	return core.TradeSignal{}, false
}

// CurrentStopLoss exposes the position manager's current stop.
func (s *ADXTrend) CurrentStopLoss() core.Maybe[core.Decimal] { return s.pos.StopLoss() }

// Reset restores the strategy to its pre-first-candle state.
func (s *ADXTrend) Reset() {
	set := s.settings
	*s = *NewADXTrend(set)
}
