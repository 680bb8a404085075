// Package position implements the per-strategy finite-state helper
// that tracks entry, stop and price extremes across a position's
// life.
package position

import "github.com/raykavin/tradepulse/core"

// Manager is a stateful ratchet-stop tracker owned exclusively by the
// strategy that holds it.
type Manager struct {
	entryPrice        core.Maybe[core.Decimal]
	stopLoss          core.Maybe[core.Decimal]
	initialStop       core.Maybe[core.Decimal]
	highestSinceEntry core.Maybe[core.Decimal]
	lowestSinceEntry  core.Maybe[core.Decimal]
	barsSinceEntry    int
}

// New constructs an empty PositionManager.
func New() *Manager {
	return &Manager{}
}

// EnterLong opens a long position at price with the given initial
// stop, zeroing the bar counter.
func (m *Manager) EnterLong(price, stop core.Decimal) {
	m.entryPrice = core.Some(price)
	m.stopLoss = core.Some(stop)
	m.initialStop = core.Some(stop)
	m.highestSinceEntry = core.Some(price)
	m.lowestSinceEntry = core.Some(price)
	m.barsSinceEntry = 0
}

// EnterShort opens a short position at price with the given initial
// stop, zeroing the bar counter.
func (m *Manager) EnterShort(price, stop core.Decimal) {
	m.EnterLong(price, stop)
}

// UpdateLongStop ratchets the stop up to max(current, newStop) and
// extends HighestSinceEntry monotonically against an optional new
// high. A long stop never decreases.
func (m *Manager) UpdateLongStop(newStop core.Decimal, latestHigh core.Maybe[core.Decimal]) {
	cur, ok := m.stopLoss.Get()
	if !ok || newStop.GreaterThan(cur) {
		m.stopLoss = core.Some(newStop)
	}
	if h, ok := latestHigh.Get(); ok {
		cur, ok := m.highestSinceEntry.Get()
		if !ok || h.GreaterThan(cur) {
			m.highestSinceEntry = core.Some(h)
		}
	}
}

// UpdateShortStop ratchets the stop down to min(current, newStop) and
// extends LowestSinceEntry monotonically against an optional new low.
// A short stop never increases.
func (m *Manager) UpdateShortStop(newStop core.Decimal, latestLow core.Maybe[core.Decimal]) {
	cur, ok := m.stopLoss.Get()
	if !ok || newStop.LessThan(cur) {
		m.stopLoss = core.Some(newStop)
	}
	if l, ok := latestLow.Get(); ok {
		cur, ok := m.lowestSinceEntry.Get()
		if !ok || l.LessThan(cur) {
			m.lowestSinceEntry = core.Some(l)
		}
	}
}

// UpdateHighest extends HighestSinceEntry monotonically without
// touching the stop, for strategies that ratchet the stop only
// once a new candidate level is computed from the updated extreme.
func (m *Manager) UpdateHighest(high core.Decimal) {
	cur, ok := m.highestSinceEntry.Get()
	if !ok || high.GreaterThan(cur) {
		m.highestSinceEntry = core.Some(high)
	}
}

// UpdateLowest extends LowestSinceEntry monotonically without
// touching the stop.
func (m *Manager) UpdateLowest(low core.Decimal) {
	cur, ok := m.lowestSinceEntry.Get()
	if !ok || low.LessThan(cur) {
		m.lowestSinceEntry = core.Some(low)
	}
}

// MoveToBreakeven sets the stop to the entry price.
func (m *Manager) MoveToBreakeven() {
	if entry, ok := m.entryPrice.Get(); ok {
		m.stopLoss = core.Some(entry)
	}
}

// IncrementBars advances the bar counter by one; called once per
// candle while a position is open.
func (m *Manager) IncrementBars() {
	m.barsSinceEntry++
}

// Reset clears all fields back to the pre-entry state.
func (m *Manager) Reset() {
	*m = Manager{}
}

// EntryPrice returns the recorded entry price, if a position is open.
func (m *Manager) EntryPrice() core.Maybe[core.Decimal] { return m.entryPrice }

// StopLoss returns the current stop, if a position is open.
func (m *Manager) StopLoss() core.Maybe[core.Decimal] { return m.stopLoss }

// InitialStop returns the stop recorded at entry.
func (m *Manager) InitialStop() core.Maybe[core.Decimal] { return m.initialStop }

// HighestSinceEntry returns the highest price observed since entry.
func (m *Manager) HighestSinceEntry() core.Maybe[core.Decimal] { return m.highestSinceEntry }

// LowestSinceEntry returns the lowest price observed since entry.
func (m *Manager) LowestSinceEntry() core.Maybe[core.Decimal] { return m.lowestSinceEntry }

// BarsSinceEntry returns the number of candles observed since entry.
func (m *Manager) BarsSinceEntry() int { return m.barsSinceEntry }

// IsOpen reports whether a position has been entered.
func (m *Manager) IsOpen() bool {
	_, ok := m.entryPrice.Get()
	return ok
}

// AchievedR returns the favorable excursion divided by the initial
// risk distance |entry - initialStop|, used by the partial-exit /
// breakeven trigger. Direction selects which extreme (high for long,
// low for short) represents the favorable excursion.
func (m *Manager) AchievedR(long bool) core.Maybe[core.Decimal] {
	entry, ok := m.entryPrice.Get()
	if !ok {
		return core.None[core.Decimal]()
	}
	initStop, ok := m.initialStop.Get()
	if !ok {
		return core.None[core.Decimal]()
	}
	riskDistance := entry.Sub(initStop).Abs()
	if riskDistance.IsZero() {
		return core.None[core.Decimal]()
	}

	var favorable core.Decimal
	if long {
		h, ok := m.highestSinceEntry.Get()
		if !ok {
			return core.None[core.Decimal]()
		}
		favorable = h.Sub(entry)
	} else {
		l, ok := m.lowestSinceEntry.Get()
		if !ok {
			return core.None[core.Decimal]()
		}
		favorable = entry.Sub(l)
	}
	return core.Some(favorable.Div(riskDistance))
}
