package indicator

import (
	"github.com/raykavin/tradepulse/core"
	"github.com/shopspring/decimal"
)

// EMA is an exponential moving average. The first n samples are
// averaged (an internal SMA) to seed the EMA value; from sample n+1
// onward it recurses as ema = alpha*x + (1-alpha)*ema_prev, with
// alpha = 2/(n+1). The value at sample n therefore equals the SMA of
// the first n closes.
type EMA struct {
	period int
	alpha  core.Decimal
	seed   *SMA
	value  core.Maybe[core.Decimal]
	ready  bool
}

// NewEMA constructs an EMA with the given period. Period must be >= 1.
func NewEMA(period int) *EMA {
	if period < 1 {
		panic("indicator: EMA period must be >= 1")
	}
	alpha := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(period + 1)))
	return &EMA{
		period: period,
		alpha:  alpha,
		seed:   NewSMA(period),
	}
}

// Update feeds a new sample and returns the new EMA value once ready.
func (e *EMA) Update(x core.Decimal) core.Maybe[core.Decimal] {
	if !e.ready {
		seedVal := e.seed.Update(x)
		if v, ok := seedVal.Get(); ok {
			e.value = core.Some(v)
			e.ready = true
		}
		return e.value
	}

	prev, _ := e.value.Get()
	next := e.alpha.Mul(x).Add(decimalOneMinus(e.alpha).Mul(prev))
	e.value = core.Some(next)
	return e.value
}

// Value returns the current EMA value, if ready.
func (e *EMA) Value() core.Maybe[core.Decimal] {
	return e.value
}

// Ready reports whether the EMA has been seeded.
func (e *EMA) Ready() bool {
	return e.ready
}

// Reset restores the EMA to its pre-first-sample state.
func (e *EMA) Reset() {
	e.seed.Reset()
	e.value = core.None[core.Decimal]()
	e.ready = false
}

func decimalOneMinus(a core.Decimal) core.Decimal {
	return decimal.NewFromInt(1).Sub(a)
}
