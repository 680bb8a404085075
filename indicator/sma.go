// Package indicator implements the streaming incremental technical
// indicators that feed every strategy: each maintains only the state
// algorithmically required to produce its next value, never the full
// candle history, and exposes a uniform Update/Value/Ready/Reset
// contract.
package indicator

import (
	"github.com/raykavin/tradepulse/core"
	"github.com/shopspring/decimal"
)

// SMA is a simple moving average over the last n samples. It becomes
// ready the instant the n-th sample arrives.
type SMA struct {
	period int
	buf    []core.Decimal
	sum    core.Decimal
	pos    int
	filled bool
}

// NewSMA constructs an SMA with the given period. Period must be >= 1.
func NewSMA(period int) *SMA {
	if period < 1 {
		panic("indicator: SMA period must be >= 1")
	}
	return &SMA{
		period: period,
		buf:    make([]core.Decimal, period),
	}
}

// Update feeds a new sample and returns the new average once ready.
func (s *SMA) Update(x core.Decimal) core.Maybe[core.Decimal] {
	old := s.buf[s.pos]
	s.buf[s.pos] = x
	s.pos = (s.pos + 1) % s.period

	if s.filled {
		s.sum = s.sum.Sub(old).Add(x)
	} else {
		s.sum = s.sum.Add(x)
		if s.pos == 0 {
			s.filled = true
		}
	}

	return s.Value()
}

// Value returns the current average, if ready.
func (s *SMA) Value() core.Maybe[core.Decimal] {
	if !s.filled {
		return core.None[core.Decimal]()
	}
	return core.Some(s.sum.Div(decimal.NewFromInt(int64(s.period))))
}

// Ready reports whether the SMA has consumed a full window.
func (s *SMA) Ready() bool {
	return s.filled
}

// Reset restores the SMA to its pre-first-sample state.
func (s *SMA) Reset() {
	for i := range s.buf {
		s.buf[i] = core.Decimal{}
	}
	s.sum = core.Decimal{}
	s.pos = 0
	s.filled = false
}
