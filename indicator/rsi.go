package indicator

import (
	"github.com/raykavin/tradepulse/core"
	"github.com/shopspring/decimal"
)

// RSI maintains Wilder-smoothed average gain/loss over a period n.
// The first n price deltas are accumulated and divided by n to seed
// avgGain/avgLoss; thereafter each is smoothed as
// avg = (avg_prev*(n-1) + current) / n. Ready after n+1 samples
// (the seed consumes n deltas, which requires n+1 prices).
type RSI struct {
	period    int
	prevClose core.Maybe[core.Decimal]
	seeds     int
	gainSum   core.Decimal
	lossSum   core.Decimal
	avgGain   core.Decimal
	avgLoss   core.Decimal
	ready     bool
	value     core.Maybe[core.Decimal]
}

// NewRSI constructs an RSI with the given period. Period must be >= 1.
func NewRSI(period int) *RSI {
	if period < 1 {
		panic("indicator: RSI period must be >= 1")
	}
	return &RSI{period: period}
}

// Update feeds a new close price and returns the new RSI once ready.
func (r *RSI) Update(close core.Decimal) core.Maybe[core.Decimal] {
	prev, ok := r.prevClose.Get()
	r.prevClose = core.Some(close)
	if !ok {
		return core.None[core.Decimal]()
	}

	delta := close.Sub(prev)
	gain := decimal.Zero
	loss := decimal.Zero
	if delta.IsPositive() {
		gain = delta
	} else if delta.IsNegative() {
		loss = delta.Abs()
	}

	if !r.ready {
		r.gainSum = r.gainSum.Add(gain)
		r.lossSum = r.lossSum.Add(loss)
		r.seeds++
		if r.seeds == r.period {
			n := decimal.NewFromInt(int64(r.period))
			r.avgGain = r.gainSum.Div(n)
			r.avgLoss = r.lossSum.Div(n)
			r.ready = true
			r.value = core.Some(r.compute())
		}
		return r.value
	}

	n := decimal.NewFromInt(int64(r.period))
	nMinus1 := decimal.NewFromInt(int64(r.period - 1))
	r.avgGain = r.avgGain.Mul(nMinus1).Add(gain).Div(n)
	r.avgLoss = r.avgLoss.Mul(nMinus1).Add(loss).Div(n)
	r.value = core.Some(r.compute())
	return r.value
}

func (r *RSI) compute() core.Decimal {
	if r.avgLoss.IsZero() {
		return decimal.NewFromInt(100)
	}
	rs := r.avgGain.Div(r.avgLoss)
	hundred := decimal.NewFromInt(100)
	return hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs)))
}

// Value returns the current RSI value, if ready.
func (r *RSI) Value() core.Maybe[core.Decimal] {
	return r.value
}

// Ready reports whether the RSI has completed its seed window.
func (r *RSI) Ready() bool {
	return r.ready
}

// Reset restores the RSI to its pre-first-sample state.
func (r *RSI) Reset() {
	*r = RSI{period: r.period}
}
