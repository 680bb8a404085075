package filter

import (
	"testing"

	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFilter struct {
	mode     Mode
	approved bool
	reason   string
}

func (f *stubFilter) Mode() Mode { return f.mode }
func (f *stubFilter) Evaluate(core.TradeSignal, core.StrategyState) Verdict {
	return Verdict{Approved: f.approved, Reason: f.reason}
}

func TestFilteredStrategyPassesApprovedSignal(t *testing.T) {
	sig := buySignal("43500", "48000")
	inner := &stubStrategy{signal: sig, ok: true}
	chain := NewChain(&stubFilter{mode: ModeConfirm, approved: true})
	fs := NewFilteredStrategy(inner, chain)

	out, ok := fs.Analyze(core.Candle{Symbol: "BTCUSDT", Close: core.D("45000")}, nil, "BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, core.SignalBuy, out.Kind)
}

func TestFilteredStrategySuppressesVetoedSignal(t *testing.T) {
	sig := buySignal("43500", "48000")
	inner := &stubStrategy{signal: sig, ok: true}
	chain := NewChain(&stubFilter{mode: ModeVeto, approved: false, reason: "no"})
	fs := NewFilteredStrategy(inner, chain)

	_, ok := fs.Analyze(core.Candle{Symbol: "BTCUSDT", Close: core.D("45000")}, nil, "BTCUSDT")
	assert.False(t, ok)
}

func TestFilteredStrategyPassesThroughNoSignal(t *testing.T) {
	inner := &stubStrategy{ok: false}
	chain := NewChain(&stubFilter{mode: ModeVeto, approved: false})
	fs := NewFilteredStrategy(inner, chain)

	_, ok := fs.Analyze(core.Candle{Symbol: "BTCUSDT", Close: core.D("45000")}, nil, "BTCUSDT")
	assert.False(t, ok)
}

func TestEnsembleStateAggregatesMemberCustomKeys(t *testing.T) {
	members := []EnsembleMember{
		{Strategy: &stateStub{custom: map[string]core.Decimal{"adx": core.D("30")}}, Weight: core.D("0.5")},
		{Strategy: &stateStub{custom: map[string]core.Decimal{"rsi": core.D("70")}}, Weight: core.D("0.5")},
	}
	e := NewEnsemble(EnsembleSettings{MinAgreement: core.D("0.6")}, members...)

	st := e.State()
	v, found := st.Custom["member0_adx"]
	require.True(t, found)
	assert.True(t, v.Equal(core.D("30")))
	v, found = st.Custom["member1_rsi"]
	require.True(t, found)
	assert.True(t, v.Equal(core.D("70")))
}

func TestEnsembleCurrentStopLossReturnsLowest(t *testing.T) {
	members := []EnsembleMember{
		{Strategy: &stateStub{stop: core.Some(core.D("43000"))}, Weight: core.D("0.5")},
		{Strategy: &stateStub{stop: core.Some(core.D("44000"))}, Weight: core.D("0.5")},
	}
	e := NewEnsemble(EnsembleSettings{MinAgreement: core.D("0.6")}, members...)

	stop, ok := e.CurrentStopLoss().Get()
	require.True(t, ok)
	assert.True(t, stop.Equal(core.D("43000")))
}

func TestEnsembleResetResetsEveryMember(t *testing.T) {
	a := &stateStub{}
	b := &stateStub{}
	e := NewEnsemble(EnsembleSettings{MinAgreement: core.D("0.6")},
		EnsembleMember{Strategy: a, Weight: core.D("0.5")},
		EnsembleMember{Strategy: b, Weight: core.D("0.5")},
	)

	e.Reset()
	assert.True(t, a.resetCalled)
	assert.True(t, b.resetCalled)
}

// stateStub is a minimal strategy.Strategy used to probe Ensemble's
// State/CurrentStopLoss/Reset delegation.
type stateStub struct {
	custom      map[string]core.Decimal
	stop        core.Maybe[core.Decimal]
	resetCalled bool
}

func (s *stateStub) Analyze(core.Candle, *core.OpenPosition, string) (core.TradeSignal, bool) {
	return core.TradeSignal{}, false
}
func (s *stateStub) State() core.StrategyState                 { return core.StrategyState{Custom: s.custom} }
func (s *stateStub) CurrentStopLoss() core.Maybe[core.Decimal] { return s.stop }
func (s *stateStub) Reset()                                    { s.resetCalled = true }
