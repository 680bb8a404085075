package indicator

import "github.com/raykavin/tradepulse/core"

// Volume is a rolling mean of the last n candles' volume, exposing
// the current ratio to that mean and a spike predicate.
type Volume struct {
	period    int
	threshold core.Decimal
	avg       *SMA
	current   core.Decimal
}

// NewVolume constructs a Volume indicator over the given period, with
// a spike threshold (ratio >= threshold => IsSpike).
func NewVolume(period int, spikeThreshold core.Decimal) *Volume {
	return &Volume{
		period:    period,
		threshold: spikeThreshold,
		avg:       NewSMA(period),
	}
}

// Update feeds a new volume sample.
func (v *Volume) Update(volume core.Decimal) core.Maybe[core.Decimal] {
	v.current = volume
	return v.avg.Update(volume)
}

// Ready reports whether the rolling window is full.
func (v *Volume) Ready() bool {
	return v.avg.Ready()
}

// Ratio returns current volume / rolling average, if ready.
func (v *Volume) Ratio() core.Maybe[core.Decimal] {
	avg, ok := v.avg.Value().Get()
	if !ok || avg.IsZero() {
		return core.None[core.Decimal]()
	}
	return core.Some(v.current.Div(avg))
}

// IsSpike reports whether the ratio meets or exceeds the configured
// spike threshold.
func (v *Volume) IsSpike() bool {
	r, ok := v.Ratio().Get()
	return ok && r.GreaterThanOrEqual(v.threshold)
}

// Reset restores the Volume indicator to its pre-first-sample state.
func (v *Volume) Reset() {
	v.avg.Reset()
	v.current = core.Decimal{}
}
