package indicator

import (
	"github.com/raykavin/tradepulse/core"
	"github.com/shopspring/decimal"
)

// ATR computes the Wilder-smoothed average true range over a period
// n, using the gap-inclusive true range
// TR = max(high-low, |high-prevClose|, |prevClose-low|).
// Requires n+1 candles (the first TR needs a previous close).
type ATR struct {
	period    int
	prevClose core.Maybe[core.Decimal]
	seeds     int
	trSum     core.Decimal
	avg       core.Decimal
	ready     bool
	value     core.Maybe[core.Decimal]
}

// NewATR constructs an ATR with the given period. Period must be >= 1.
func NewATR(period int) *ATR {
	if period < 1 {
		panic("indicator: ATR period must be >= 1")
	}
	return &ATR{period: period}
}

// Update feeds a new candle and returns the new ATR once ready.
func (a *ATR) Update(c core.Candle) core.Maybe[core.Decimal] {
	prev, ok := a.prevClose.Get()
	a.prevClose = core.Some(c.Close)
	if !ok {
		return core.None[core.Decimal]()
	}

	tr := c.TrueRange(prev)

	if !a.ready {
		a.trSum = a.trSum.Add(tr)
		a.seeds++
		if a.seeds == a.period {
			a.avg = a.trSum.Div(decimal.NewFromInt(int64(a.period)))
			a.ready = true
			a.value = core.Some(a.avg)
		}
		return a.value
	}

	n := decimal.NewFromInt(int64(a.period))
	nMinus1 := decimal.NewFromInt(int64(a.period - 1))
	a.avg = a.avg.Mul(nMinus1).Add(tr).Div(n)
	a.value = core.Some(a.avg)
	return a.value
}

// Value returns the current ATR value, if ready.
func (a *ATR) Value() core.Maybe[core.Decimal] {
	return a.value
}

// Ready reports whether the ATR has completed its seed window.
func (a *ATR) Ready() bool {
	return a.ready
}

// Reset restores the ATR to its pre-first-sample state.
func (a *ATR) Reset() {
	*a = ATR{period: a.period}
}
