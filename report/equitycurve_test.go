package report

import (
	"testing"

	"github.com/raykavin/tradepulse/backtest"
	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
)

func TestEquityCurveHistogramRendersForSufficientPoints(t *testing.T) {
	curve := make([]backtest.EquityPoint, 0, 20)
	equity := core.D("10000")
	for i := 0; i < 20; i++ {
		equity = equity.Add(core.D("10"))
		curve = append(curve, backtest.EquityPoint{Time: int64(i), Equity: equity})
	}

	out := EquityCurveHistogram(curve)
	assert.NotEmpty(t, out)
}

func TestEquityCurveHistogramReportsInsufficientData(t *testing.T) {
	out := EquityCurveHistogram(nil)
	assert.Contains(t, out, "not enough equity points")
}
