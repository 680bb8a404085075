package indicator

import (
	"github.com/raykavin/tradepulse/core"
	"github.com/shopspring/decimal"
)

// ADX maintains +DM, -DM and TR each Wilder-smoothed over period n,
// derives +DI/-DI and DX per candle, then Wilder-smooths DX itself
// over n samples to produce ADX. Ready after the DX seed window
// completes, 2n+1 candles in.
type ADX struct {
	period int

	prevCandle core.Maybe[core.Candle]

	// seed accumulators for +DM/-DM/TR
	seeds      int
	plusDMSum  core.Decimal
	minusDMSum core.Decimal
	trSum      core.Decimal
	smPlusDM   core.Decimal
	smMinusDM  core.Decimal
	smTR       core.Decimal
	diReady    bool

	plusDI  core.Maybe[core.Decimal]
	minusDI core.Maybe[core.Decimal]

	// seed accumulators for DX -> ADX
	dxSeeds int
	dxSum   core.Decimal
	adx     core.Decimal
	ready   bool
	value   core.Maybe[core.Decimal]

	// rolling history of ADX values for the rising/falling predicates
	history []core.Decimal
}

// NewADX constructs an ADX with the given period. Period must be >= 1.
func NewADX(period int) *ADX {
	if period < 1 {
		panic("indicator: ADX period must be >= 1")
	}
	return &ADX{period: period}
}

var hundred = decimal.NewFromInt(100)

// Update feeds a new candle and returns the new ADX once ready.
func (a *ADX) Update(c core.Candle) core.Maybe[core.Decimal] {
	prev, ok := a.prevCandle.Get()
	a.prevCandle = core.Some(c)
	if !ok {
		return core.None[core.Decimal]()
	}

	upMove := c.High.Sub(prev.High)
	downMove := prev.Low.Sub(c.Low)

	plusDM := decimal.Zero
	if upMove.IsPositive() && upMove.GreaterThan(downMove) {
		plusDM = upMove
	}
	minusDM := decimal.Zero
	if downMove.IsPositive() && downMove.GreaterThan(upMove) {
		minusDM = downMove
	}
	tr := c.TrueRange(prev.Close)

	if !a.diReady {
		a.plusDMSum = a.plusDMSum.Add(plusDM)
		a.minusDMSum = a.minusDMSum.Add(minusDM)
		a.trSum = a.trSum.Add(tr)
		a.seeds++
		if a.seeds == a.period {
			n := decimal.NewFromInt(int64(a.period))
			a.smPlusDM = a.plusDMSum.Div(n)
			a.smMinusDM = a.minusDMSum.Div(n)
			a.smTR = a.trSum.Div(n)
			a.diReady = true
			// DX accumulation starts on the next candle, so the n DX
			// seeds cover candles n+2 through 2n+1.
			a.computeDI()
		}
		return a.value
	}

	n := decimal.NewFromInt(int64(a.period))
	nMinus1 := decimal.NewFromInt(int64(a.period - 1))
	a.smPlusDM = a.smPlusDM.Mul(nMinus1).Add(plusDM).Div(n)
	a.smMinusDM = a.smMinusDM.Mul(nMinus1).Add(minusDM).Div(n)
	a.smTR = a.smTR.Mul(nMinus1).Add(tr).Div(n)
	a.computeDI()
	a.accumulateDX()
	return a.value
}

func (a *ADX) computeDI() {
	if a.smTR.IsZero() {
		a.plusDI = core.Some(decimal.Zero)
		a.minusDI = core.Some(decimal.Zero)
		return
	}
	a.plusDI = core.Some(hundred.Mul(a.smPlusDM).Div(a.smTR))
	a.minusDI = core.Some(hundred.Mul(a.smMinusDM).Div(a.smTR))
}

func (a *ADX) dx() core.Decimal {
	pdi, _ := a.plusDI.Get()
	mdi, _ := a.minusDI.Get()
	sum := pdi.Add(mdi)
	if sum.IsZero() {
		return decimal.Zero
	}
	return hundred.Mul(pdi.Sub(mdi).Abs()).Div(sum)
}

func (a *ADX) accumulateDX() {
	dx := a.dx()

	if !a.ready {
		a.dxSum = a.dxSum.Add(dx)
		a.dxSeeds++
		if a.dxSeeds == a.period {
			n := decimal.NewFromInt(int64(a.period))
			a.adx = a.dxSum.Div(n)
			a.ready = true
			a.value = core.Some(a.adx)
			a.pushHistory(a.adx)
		}
		return
	}

	n := decimal.NewFromInt(int64(a.period))
	nMinus1 := decimal.NewFromInt(int64(a.period - 1))
	a.adx = a.adx.Mul(nMinus1).Add(dx).Div(n)
	a.value = core.Some(a.adx)
	a.pushHistory(a.adx)
}

func (a *ADX) pushHistory(v core.Decimal) {
	a.history = append(a.history, v)
	maxLen := a.period * 4
	if len(a.history) > maxLen {
		a.history = a.history[len(a.history)-maxLen:]
	}
}

// Value returns the current ADX value, if ready.
func (a *ADX) Value() core.Maybe[core.Decimal] {
	return a.value
}

// PlusDI returns the current +DI value, if the DI seed window has
// completed (available slightly before ADX itself is ready).
func (a *ADX) PlusDI() core.Maybe[core.Decimal] {
	if !a.diReady {
		return core.None[core.Decimal]()
	}
	return a.plusDI
}

// MinusDI returns the current -DI value, if the DI seed window has
// completed.
func (a *ADX) MinusDI() core.Maybe[core.Decimal] {
	if !a.diReady {
		return core.None[core.Decimal]()
	}
	return a.minusDI
}

// Ready reports whether the ADX has completed its DX seed window.
func (a *ADX) Ready() bool {
	return a.ready
}

// IsRising reports whether the current ADX exceeds the average of the
// last lookback ADX values. Requires at least lookback+1 history
// samples; returns false if not enough history has accumulated.
func (a *ADX) IsRising(lookback int) bool {
	if !a.ready || len(a.history) < lookback+1 {
		return false
	}
	window := a.history[len(a.history)-lookback-1 : len(a.history)-1]
	sum := decimal.Zero
	for _, v := range window {
		sum = sum.Add(v)
	}
	avg := sum.Div(decimal.NewFromInt(int64(lookback)))
	current := a.history[len(a.history)-1]
	return current.GreaterThan(avg)
}

// FallingStreak returns the number of consecutive most-recent candles
// for which ADX strictly decreased from the prior value.
func (a *ADX) FallingStreak() int {
	if len(a.history) < 2 {
		return 0
	}
	streak := 0
	for i := len(a.history) - 1; i > 0; i-- {
		if a.history[i].LessThan(a.history[i-1]) {
			streak++
		} else {
			break
		}
	}
	return streak
}

// Reset restores the ADX to its pre-first-candle state.
func (a *ADX) Reset() {
	*a = ADX{period: a.period}
}
