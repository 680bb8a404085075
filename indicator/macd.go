package indicator

import "github.com/raykavin/tradepulse/core"

// MACD is EMA(fast) - EMA(slow), with a signal line of EMA(signal)
// over that difference, and a histogram of macd - signal. Defaults
// to the canonical 12/26/9 periods.
type MACD struct {
	fast   *EMA
	slow   *EMA
	signal *EMA

	macd      core.Maybe[core.Decimal]
	signalVal core.Maybe[core.Decimal]
	hist      core.Maybe[core.Decimal]
}

// NewMACD constructs a MACD with the given fast/slow/signal periods.
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fast:   NewEMA(fastPeriod),
		slow:   NewEMA(slowPeriod),
		signal: NewEMA(signalPeriod),
	}
}

// NewDefaultMACD constructs a MACD with the canonical 12/26/9 periods.
func NewDefaultMACD() *MACD {
	return NewMACD(12, 26, 9)
}

// Update feeds a new close price and returns the new MACD line value
// once both EMAs are ready.
func (m *MACD) Update(close core.Decimal) core.Maybe[core.Decimal] {
	fastVal := m.fast.Update(close)
	slowVal := m.slow.Update(close)

	fv, fok := fastVal.Get()
	sv, sok := slowVal.Get()
	if !fok || !sok {
		return core.None[core.Decimal]()
	}

	macd := fv.Sub(sv)
	m.macd = core.Some(macd)

	sig := m.signal.Update(macd)
	if sigVal, ok := sig.Get(); ok {
		m.signalVal = core.Some(sigVal)
		m.hist = core.Some(macd.Sub(sigVal))
	}

	return m.macd
}

// Value returns the current MACD line value, if ready.
func (m *MACD) Value() core.Maybe[core.Decimal] { return m.macd }

// Signal returns the current signal line value, if ready.
func (m *MACD) Signal() core.Maybe[core.Decimal] { return m.signalVal }

// Histogram returns the current histogram value, if ready.
func (m *MACD) Histogram() core.Maybe[core.Decimal] { return m.hist }

// Ready reports whether the signal line (and thus the histogram) is
// producing values; the MACD line itself is ready slightly earlier.
func (m *MACD) Ready() bool {
	_, ok := m.hist.Get()
	return ok
}

// Reset restores the MACD to its pre-first-sample state.
func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
	m.macd = core.None[core.Decimal]()
	m.signalVal = core.None[core.Decimal]()
	m.hist = core.None[core.Decimal]()
}
