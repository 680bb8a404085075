// Package report renders a completed backtest's PerformanceMetrics as
// a table and its equity curve as an ASCII histogram, for terminal
// output.
package report

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/tradepulse/backtest"
)

// Table renders m as a two-column key/value table.
func Table(symbol string, m backtest.PerformanceMetrics) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)

	rows := [][]string{
		{"Symbol", symbol},
		{"Trades", fmt.Sprintf("%d", m.TotalTrades)},
		{"Wins", fmt.Sprintf("%d", m.WinningTrades)},
		{"Losses", fmt.Sprintf("%d", m.LosingTrades)},
		{"Win Rate", fmt.Sprintf("%s%%", m.WinRate.StringFixed(1))},
		{"Net PnL", m.TotalNetPnL.StringFixed(2)},
		{"Profit Factor", m.ProfitFactor.StringFixed(2)},
		{"Sharpe", m.Sharpe.StringFixed(2)},
		{"Sortino", m.Sortino.StringFixed(2)},
		{"Max Drawdown", fmt.Sprintf("%s%%", m.MaxDrawdownPct.StringFixed(2))},
		{"Total Return", fmt.Sprintf("%s%%", m.TotalReturn.StringFixed(2))},
		{"Annualized Return", fmt.Sprintf("%s%%", m.AnnualizedReturn.StringFixed(2))},
		{"Largest Win", m.LargestWin.StringFixed(2)},
		{"Largest Loss", m.LargestLoss.StringFixed(2)},
	}

	table.AppendBulk(rows)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()

	return buf.String()
}
