package report

import (
	"bytes"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/raykavin/tradepulse/backtest"
)

// EquityCurveHistogram renders a 15-bucket ASCII histogram of the
// backtest's per-bar percentage returns.
func EquityCurveHistogram(curve []backtest.EquityPoint) string {
	returns := barReturnsPct(curve)
	if len(returns) == 0 {
		return "not enough equity points to plot a distribution\n"
	}

	var buf bytes.Buffer
	hist := histogram.Hist(15, returns)
	_ = histogram.Fprint(&buf, hist, histogram.Linear(10))
	return buf.String()
}

// barReturnsPct converts an equity curve into successive percentage
// returns, mirroring backtest.equityCurveReturns but expressed in
// percent (0-100 scale) for the histogram's x-axis.
func barReturnsPct(curve []backtest.EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev, _ := curve[i-1].Equity.Float64()
		cur, _ := curve[i].Equity.Float64()
		if prev <= 0 {
			continue
		}
		returns = append(returns, (cur-prev)/prev*100)
	}
	return returns
}
