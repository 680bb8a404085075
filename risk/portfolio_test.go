package risk

import (
	"testing"

	"github.com/StudioSol/set"
	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
)

func newTestPortfolio() *PortfolioManager {
	majors := set.NewLinkedHashSetString()
	majors.Add("BTCUSDT")
	majors.Add("ETHUSDT")

	p := NewPortfolioManager(PortfolioSettings{
		MaxTotalDrawdownPct:    core.D("25"),
		MaxCorrelatedRiskPct:   core.D("10"),
		MaxConcurrentPositions: 5,
		CorrelationGroups:      map[string]*set.LinkedHashSetString{"majors": majors},
	})
	p.AddSymbol(NewManager("BTCUSDT", DefaultSettings(), core.D("5000")))
	p.AddSymbol(NewManager("ETHUSDT", DefaultSettings(), core.D("5000")))
	return p
}

func TestCorrelatedRiskDenies(t *testing.T) {
	p := newTestPortfolio()
	p.managers["BTCUSDT"].RegisterOpenRisk(core.D("600")) // 12% heat on BTC alone

	ok, reason := p.CanOpenPosition("ETHUSDT")
	assert.False(t, ok)
	assert.Equal(t, "correlated risk limit reached", reason)
}

func TestUncorrelatedSymbolIndependent(t *testing.T) {
	p := newTestPortfolio()
	p.AddSymbol(NewManager("SOLUSDT", DefaultSettings(), core.D("5000")))
	p.managers["BTCUSDT"].RegisterOpenRisk(core.D("600"))

	ok, _ := p.CanOpenPosition("SOLUSDT")
	assert.True(t, ok, "a symbol in no correlation group must be unaffected by others' heat")
}

func TestMaxConcurrentPositionsDenies(t *testing.T) {
	p := NewPortfolioManager(PortfolioSettings{
		MaxTotalDrawdownPct:    core.D("25"),
		MaxCorrelatedRiskPct:   core.D("100"),
		MaxConcurrentPositions: 1,
	})
	p.AddSymbol(NewManager("BTCUSDT", DefaultSettings(), core.D("5000")))
	p.AddSymbol(NewManager("ETHUSDT", DefaultSettings(), core.D("5000")))
	p.managers["BTCUSDT"].RegisterOpenRisk(core.D("10"))

	ok, reason := p.CanOpenPosition("ETHUSDT")
	assert.False(t, ok)
	assert.Equal(t, "max concurrent positions reached", reason)
}

func TestTotalDrawdownAggregatesAcrossSymbols(t *testing.T) {
	p := newTestPortfolio()
	_ = p.GetPortfolioStats() // establish peak at 10000
	p.managers["BTCUSDT"].UpdateEquity(core.D("3500"))
	p.managers["ETHUSDT"].UpdateEquity(core.D("3500"))

	stats := p.GetPortfolioStats()
	assert.True(t, stats.TotalDrawdown.GreaterThanOrEqual(core.D("25")), "expected >=25%% drawdown, got %s", stats.TotalDrawdown)

	ok, reason := p.CanOpenPosition("BTCUSDT")
	assert.False(t, ok)
	assert.Equal(t, "total drawdown limit reached", reason)
}
