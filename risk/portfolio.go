package risk

import (
	"sync"

	"github.com/StudioSol/set"
	"github.com/raykavin/tradepulse/core"
)

// PortfolioSettings configures a PortfolioManager.
type PortfolioSettings struct {
	MaxTotalDrawdownPct    core.Decimal
	MaxCorrelatedRiskPct   core.Decimal
	MaxConcurrentPositions int
	CorrelationGroups      map[string]*set.LinkedHashSetString
}

// PortfolioStats is a point-in-time snapshot for reporting.
type PortfolioStats struct {
	TotalEquity   core.Decimal
	TotalPeak     core.Decimal
	TotalDrawdown core.Decimal
	OpenPositions int
	PerSymbolHeat map[string]core.Decimal
}

// PortfolioManager aggregates per-symbol Managers and applies the
// correlation-group and concurrency gates. Symbols may run on
// independent goroutines; every aggregate read/write goes through mu,
// so each exported call is atomic with respect to every other.
type PortfolioManager struct {
	mu        sync.Mutex
	settings  PortfolioSettings
	managers  map[string]*Manager
	totalPeak core.Decimal
}

// NewPortfolioManager constructs an empty PortfolioManager.
func NewPortfolioManager(settings PortfolioSettings) *PortfolioManager {
	return &PortfolioManager{
		settings: settings,
		managers: make(map[string]*Manager),
	}
}

// AddSymbol registers a per-symbol Manager under the portfolio.
func (p *PortfolioManager) AddSymbol(m *Manager) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.managers[m.Symbol()] = m
}

// totalEquity sums TotalEquity across every registered symbol.
func (p *PortfolioManager) totalEquity() core.Decimal {
	sum := core.D("0")
	for _, m := range p.managers {
		sum = sum.Add(m.TotalEquity())
	}
	return sum
}

// refreshPeak advances the high-water mark of aggregate equity.
func (p *PortfolioManager) refreshPeak() core.Decimal {
	equity := p.totalEquity()
	if equity.GreaterThan(p.totalPeak) {
		p.totalPeak = equity
	}
	return equity
}

// TotalDrawdown is the percentage decline of aggregate equity from its
// all-time high-water mark.
func (p *PortfolioManager) TotalDrawdown() core.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalDrawdown()
}

func (p *PortfolioManager) totalDrawdown() core.Decimal {
	equity := p.refreshPeak()
	if !p.totalPeak.IsPositive() {
		return core.D("0")
	}
	return p.totalPeak.Sub(equity).Div(p.totalPeak).Mul(core.D("100"))
}

// correlatedRisk sums the heat of every symbol in symbol's correlation
// group, including symbol itself. Symbols that belong to no group
// carry zero correlated risk.
func (p *PortfolioManager) correlatedRisk(symbol string) core.Decimal {
	for _, group := range p.settings.CorrelationGroups {
		if !group.InArray(symbol) {
			continue
		}
		sum := core.D("0")
		for name := range group.Iter() {
			if m, found := p.managers[name]; found {
				sum = sum.Add(m.PortfolioHeat())
			}
		}
		return sum
	}
	return core.D("0")
}

// OpenPositionCount reports the number of symbols the portfolio
// currently considers to have an open position, keyed on non-zero heat.
func (p *PortfolioManager) OpenPositionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.openPositionCount()
}

func (p *PortfolioManager) openPositionCount() int {
	count := 0
	for _, m := range p.managers {
		if m.PortfolioHeat().IsPositive() {
			count++
		}
	}
	return count
}

// CanOpenPosition applies the portfolio-level gates before delegating
// to the symbol's own RiskManager. The whole check is atomic with
// respect to every other portfolio-level call.
func (p *PortfolioManager) CanOpenPosition(symbol string) (bool, string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.totalDrawdown().GreaterThanOrEqual(p.settings.MaxTotalDrawdownPct) {
		return false, "total drawdown limit reached"
	}
	if p.correlatedRisk(symbol).GreaterThanOrEqual(p.settings.MaxCorrelatedRiskPct) {
		return false, "correlated risk limit reached"
	}
	if p.openPositionCount() >= p.settings.MaxConcurrentPositions {
		return false, "max concurrent positions reached"
	}

	m, ok := p.managers[symbol]
	if !ok {
		return false, "symbol not registered with portfolio"
	}
	return m.CanOpenPosition()
}

// GetPortfolioStats returns a snapshot of the portfolio's aggregate
// risk state for reporting and monitoring.
func (p *PortfolioManager) GetPortfolioStats() PortfolioStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	heat := make(map[string]core.Decimal, len(p.managers))
	for symbol, m := range p.managers {
		heat[symbol] = m.PortfolioHeat()
	}
	dd := p.totalDrawdown() // refreshes the peak before it is read below
	return PortfolioStats{
		TotalEquity:   p.totalEquity(),
		TotalPeak:     p.totalPeak,
		TotalDrawdown: dd,
		OpenPositions: p.openPositionCount(),
		PerSymbolHeat: heat,
	}
}
