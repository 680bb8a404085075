package order

import (
	"github.com/raykavin/tradepulse/core"
)

// Action is the recommended resolution for a reconciliation
// discrepancy. The core never auto-resolves; it only reports.
type Action string

const (
	ActionClearSaved  Action = "clear_saved"
	ActionAdoptLive   Action = "adopt_live"
	ActionUpdateSaved Action = "update_saved"
)

// Field names a reconciled OpenPosition attribute.
type Field string

const (
	FieldDirection  Field = "direction"
	FieldQuantity   Field = "quantity"
	FieldEntryPrice Field = "entry_price"
)

// Discrepancy is one mismatched field between saved and live state
// for a single symbol; reconciliation reports per-field, not a single
// pass/fail.
type Discrepancy struct {
	Symbol string
	Field  Field
	Saved  string
	Live   string
	Action Action
}

// ReconciliationReport lists every discrepancy found between a
// persisted snapshot and the live state observed at restart.
type ReconciliationReport struct {
	Discrepancies []Discrepancy
}

// Clean reports whether no discrepancies were found.
func (r ReconciliationReport) Clean() bool {
	return len(r.Discrepancies) == 0
}

// tolerancePct is the 1% relative tolerance allowed for quantity and
// entry-price comparisons before flagging a mismatch.
var tolerancePct = core.D("1")

// Reconcile compares a persisted snapshot against the live open
// positions observed at restart and returns a report of
// discrepancies: direction mismatch, quantity diff beyond 1%
// tolerance, entry price diff beyond 1% tolerance.
func Reconcile(saved core.PersistedState, live []core.OpenPosition) ReconciliationReport {
	liveBySymbol := make(map[string]core.OpenPosition, len(live))
	for _, p := range live {
		liveBySymbol[p.Symbol] = p
	}

	var report ReconciliationReport

	for _, s := range saved.OpenPositions {
		l, ok := liveBySymbol[s.Symbol]
		if !ok {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Symbol: s.Symbol, Field: FieldDirection,
				Saved: string(s.Direction), Live: "absent", Action: ActionClearSaved,
			})
			continue
		}

		if s.Direction != l.Direction {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Symbol: s.Symbol, Field: FieldDirection,
				Saved: string(s.Direction), Live: string(l.Direction), Action: ActionAdoptLive,
			})
			continue // a direction mismatch supersedes further field checks for this symbol
		}

		if relativeDiffExceeds(s.RemainingQuantity, l.RemainingQuantity) {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Symbol: s.Symbol, Field: FieldQuantity,
				Saved: s.RemainingQuantity.String(), Live: l.RemainingQuantity.String(), Action: ActionUpdateSaved,
			})
		}

		if relativeDiffExceeds(s.EntryPrice, l.EntryPrice) {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Symbol: s.Symbol, Field: FieldEntryPrice,
				Saved: s.EntryPrice.String(), Live: l.EntryPrice.String(), Action: ActionUpdateSaved,
			})
		}
	}

	for _, l := range live {
		found := false
		for _, s := range saved.OpenPositions {
			if s.Symbol == l.Symbol {
				found = true
				break
			}
		}
		if !found {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Symbol: l.Symbol, Field: FieldDirection,
				Saved: "absent", Live: string(l.Direction), Action: ActionAdoptLive,
			})
		}
	}

	return report
}

// relativeDiffExceeds reports whether saved and live differ by more
// than the 1% tolerance, relative to the saved value.
func relativeDiffExceeds(saved, live core.Decimal) bool {
	if saved.IsZero() {
		return !live.IsZero()
	}
	diff := saved.Sub(live).Abs().Div(saved).Mul(core.D("100"))
	return diff.GreaterThan(tolerancePct)
}
