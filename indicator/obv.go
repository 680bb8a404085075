package indicator

import "github.com/raykavin/tradepulse/core"

// OBV is the cumulative signed-volume on-balance-volume indicator:
// +volume on an up close, -volume on a down close, 0 on a flat close.
// It is ready on the second candle (the first establishes the
// baseline close).
type OBV struct {
	prevClose  core.Maybe[core.Decimal]
	cumulative core.Decimal
	trendSMA   *SMA
	ready      bool
}

// NewOBV constructs an OBV indicator with an SMA trend lookback used
// by IsBullish/IsBearish.
func NewOBV(trendLookback int) *OBV {
	return &OBV{trendSMA: NewSMA(trendLookback)}
}

// Update feeds a new candle and returns the new OBV value.
func (o *OBV) Update(c core.Candle) core.Maybe[core.Decimal] {
	prev, ok := o.prevClose.Get()
	o.prevClose = core.Some(c.Close)
	if !ok {
		return core.None[core.Decimal]()
	}

	switch {
	case c.Close.GreaterThan(prev):
		o.cumulative = o.cumulative.Add(c.Volume)
	case c.Close.LessThan(prev):
		o.cumulative = o.cumulative.Sub(c.Volume)
	}
	o.ready = true
	o.trendSMA.Update(o.cumulative)
	return core.Some(o.cumulative)
}

// Value returns the current OBV value, if ready.
func (o *OBV) Value() core.Maybe[core.Decimal] {
	if !o.ready {
		return core.None[core.Decimal]()
	}
	return core.Some(o.cumulative)
}

// Ready reports whether OBV has consumed at least two candles.
func (o *OBV) Ready() bool {
	return o.ready
}

// IsBullish reports whether OBV is above its trend SMA.
func (o *OBV) IsBullish() bool {
	avg, ok := o.trendSMA.Value().Get()
	return ok && o.cumulative.GreaterThan(avg)
}

// IsBearish reports whether OBV is below its trend SMA.
func (o *OBV) IsBearish() bool {
	avg, ok := o.trendSMA.Value().Get()
	return ok && o.cumulative.LessThan(avg)
}

// Reset restores the OBV to its pre-first-candle state.
func (o *OBV) Reset() {
	lookback := o.trendSMA.period
	*o = OBV{trendSMA: NewSMA(lookback)}
}
