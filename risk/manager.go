// Package risk implements the per-symbol and portfolio-level position
// sizing and drawdown controls.
package risk

import (
	"time"

	"github.com/raykavin/tradepulse/core"
)

// Settings configures a per-symbol Manager.
type Settings struct {
	RiskPerTradePct      core.Decimal
	MaxPortfolioHeatPct  core.Decimal
	MaxDrawdownPct       core.Decimal
	MaxDailyDrawdownPct  core.Decimal
	AtrStopMultiplier    core.Decimal
	TakeProfitMultiplier core.Decimal
	MinimumEquity        core.Decimal
}

// DefaultSettings returns the standard risk defaults.
func DefaultSettings() Settings {
	return Settings{
		RiskPerTradePct:      core.D("1.5"),
		MaxPortfolioHeatPct:  core.D("15"),
		MaxDrawdownPct:       core.D("20"),
		MaxDailyDrawdownPct:  core.D("3"),
		AtrStopMultiplier:    core.D("2.5"),
		TakeProfitMultiplier: core.D("1.5"),
		MinimumEquity:        core.D("100"),
	}
}

// ladderStep is one row of the drawdown-adjusted risk ladder.
type ladderStep struct {
	threshold  core.Decimal
	multiplier core.Decimal
}

var ladder = []ladderStep{
	{core.D("20"), core.D("0.25")},
	{core.D("15"), core.D("0.50")},
	{core.D("10"), core.D("0.75")},
	{core.D("5"), core.D("0.90")},
}

// PositionSize is the result of Manager.CalculatePositionSize.
type PositionSize struct {
	Quantity     core.Decimal
	RiskAmount   core.Decimal
	StopDistance core.Decimal
}

// Manager tracks one symbol's equity, drawdown, and open-position risk.
type Manager struct {
	symbol         string
	settings       Settings
	currentEquity  core.Decimal
	peakEquity     core.Decimal
	dayStartEquity core.Decimal
	unrealizedPnL  core.Decimal
	openRisk       core.Decimal // sum of risk_amount across this symbol's open positions
}

// NewManager constructs a Manager seeded with an initial equity.
func NewManager(symbol string, settings Settings, initialEquity core.Decimal) *Manager {
	return &Manager{
		symbol:         symbol,
		settings:       settings,
		currentEquity:  initialEquity,
		peakEquity:     initialEquity,
		dayStartEquity: initialEquity,
	}
}

// UpdateEquity records a new current equity and advances the peak
// high-water mark.
func (m *Manager) UpdateEquity(newEquity core.Decimal) {
	m.currentEquity = newEquity
	if newEquity.GreaterThan(m.peakEquity) {
		m.peakEquity = newEquity
	}
}

// UpdateUnrealizedPnL records the mark-to-market unrealized PnL used
// by can_open_position's total-drawdown check.
func (m *Manager) UpdateUnrealizedPnL(pnl core.Decimal) {
	m.unrealizedPnL = pnl
}

// ResetDailyTracking is called on UTC-midnight rollover.
func (m *Manager) ResetDailyTracking() {
	m.dayStartEquity = m.currentEquity
}

// CurrentDrawdown is peak-only drawdown (excludes unrealized PnL),
// used by the risk ladder. CanOpenPosition's gate folds unrealized
// PnL in; the ladder deliberately does not.
func (m *Manager) CurrentDrawdown() core.Decimal {
	if !m.peakEquity.IsPositive() {
		return core.D("0")
	}
	return m.peakEquity.Sub(m.currentEquity).Div(m.peakEquity).Mul(core.D("100"))
}

// DailyDrawdown is the decline from the day's starting equity.
func (m *Manager) DailyDrawdown() core.Decimal {
	if !m.dayStartEquity.IsPositive() {
		return core.D("0")
	}
	return m.dayStartEquity.Sub(m.currentEquity).Div(m.dayStartEquity).Mul(core.D("100"))
}

// TotalDrawdown folds in unrealized PnL on top of CurrentDrawdown's
// peak reference.
func (m *Manager) TotalDrawdown() core.Decimal {
	if !m.peakEquity.IsPositive() {
		return core.D("0")
	}
	equityWithUnrealized := m.currentEquity.Add(m.unrealizedPnL)
	return m.peakEquity.Sub(equityWithUnrealized).Div(m.peakEquity).Mul(core.D("100"))
}

// PortfolioHeat is this symbol's open risk as a percentage of current equity.
func (m *Manager) PortfolioHeat() core.Decimal {
	if !m.currentEquity.IsPositive() {
		return core.D("0")
	}
	return m.openRisk.Div(m.currentEquity).Mul(core.D("100"))
}

// drawdownMultiplier applies the ladder to the current peak-only drawdown.
func (m *Manager) drawdownMultiplier() core.Decimal {
	dd := m.CurrentDrawdown()
	for _, step := range ladder {
		if dd.GreaterThanOrEqual(step.threshold) {
			return step.multiplier
		}
	}
	return core.D("1.00")
}

// CalculatePositionSize sizes a new position from the stop distance,
// the drawdown-adjusted risk budget and the remaining heat headroom.
// atr is None when no ATR reading is available; when present it can
// only widen the assumed stop distance.
func (m *Manager) CalculatePositionSize(entry, stop core.Decimal, atr core.Maybe[core.Decimal]) PositionSize {
	if !m.currentEquity.IsPositive() {
		return PositionSize{Quantity: core.D("0"), RiskAmount: core.D("0"), StopDistance: core.D("0")}
	}

	stopDistance := entry.Sub(stop).Abs()
	if a, ok := atr.Get(); ok {
		atrBased := a.Mul(m.settings.AtrStopMultiplier)
		if atrBased.GreaterThan(stopDistance) {
			stopDistance = atrBased
		}
	}

	adjustedRiskPct := m.settings.RiskPerTradePct.Mul(m.drawdownMultiplier())
	riskAmount := m.currentEquity.Mul(adjustedRiskPct).Div(core.D("100"))

	currentHeat := m.PortfolioHeat()
	if currentHeat.Add(adjustedRiskPct).GreaterThan(m.settings.MaxPortfolioHeatPct) {
		remaining := m.settings.MaxPortfolioHeatPct.Sub(currentHeat)
		if remaining.IsNegative() {
			remaining = core.D("0")
		}
		riskAmount = m.currentEquity.Mul(remaining).Div(core.D("100"))
	}

	quantity := core.D("0")
	if stopDistance.IsPositive() {
		quantity = riskAmount.Div(stopDistance)
	}

	return PositionSize{Quantity: quantity, RiskAmount: riskAmount, StopDistance: stopDistance}
}

// CanOpenPosition reports whether this symbol may open a new position
// right now, and why not otherwise.
func (m *Manager) CanOpenPosition() (bool, string) {
	if !m.currentEquity.IsPositive() {
		return false, "equity is not positive"
	}
	if m.currentEquity.LessThan(m.settings.MinimumEquity) {
		return false, "equity below minimum_equity"
	}
	if m.DailyDrawdown().GreaterThanOrEqual(m.settings.MaxDailyDrawdownPct) {
		return false, "daily drawdown limit reached"
	}
	if m.TotalDrawdown().GreaterThanOrEqual(m.settings.MaxDrawdownPct) {
		return false, "total drawdown limit reached"
	}
	if m.PortfolioHeat().GreaterThanOrEqual(m.settings.MaxPortfolioHeatPct) {
		return false, "portfolio heat limit reached"
	}
	return true, ""
}

// RegisterOpenRisk adds a newly opened position's risk_amount to this
// symbol's tracked heat.
func (m *Manager) RegisterOpenRisk(riskAmount core.Decimal) {
	m.openRisk = m.openRisk.Add(riskAmount)
}

// ClearOpenRisk removes a closed position's contribution to heat.
func (m *Manager) ClearOpenRisk(riskAmount core.Decimal) {
	m.openRisk = m.openRisk.Sub(riskAmount)
	if m.openRisk.IsNegative() {
		m.openRisk = core.D("0")
	}
}

// ApplyPartialExit recomputes and replaces this symbol's tracked risk
// after a partial exit.
func (m *Manager) ApplyPartialExit(entry, newStop, remainingQty core.Decimal, previousRisk core.Decimal) core.Decimal {
	newRisk := entry.Sub(newStop).Abs().Mul(remainingQty)
	m.ClearOpenRisk(previousRisk)
	m.RegisterOpenRisk(newRisk)
	return newRisk
}

// TotalEquity is current equity plus unrealized PnL, used by the
// portfolio manager's aggregate equity.
func (m *Manager) TotalEquity() core.Decimal {
	return m.currentEquity.Add(m.unrealizedPnL)
}

// Symbol returns the symbol this Manager tracks.
func (m *Manager) Symbol() string { return m.symbol }

// DayRolloverNeeded reports whether the given candle time has crossed
// into a new UTC day relative to lastRolloverDay.
func DayRolloverNeeded(candleTime time.Time, lastRolloverDay int) (needed bool, day int) {
	day = candleTime.UTC().YearDay()
	return day != lastRolloverDay, day
}
