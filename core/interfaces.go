package core

import "context"

// Logger is the narrow structured-logging contract the core depends
// on. Components never import a concrete logging library directly;
// the composition root wires a concrete adapter (see logging/) in.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	WithFields(fields map[string]any) Logger
}

// Notifier is the out-of-core collaborator that surfaces human-facing
// alerts (Telegram, mail, …). The core never calls a concrete
// notification transport; it calls this interface.
type Notifier interface {
	Notify(ctx context.Context, message string)
	NotifyError(ctx context.Context, err error)
}

// PersistedState is the snapshot the host may persist for restart.
type PersistedState struct {
	OpenPositions        []OpenPosition
	PeakEquity           map[string]Decimal
	DayStartEquity       map[string]Decimal
	Day                  int
	LastCandleTimePerSym map[string]int64
}

// Storage is the persistence boundary collaborator: it knows nothing
// about trading semantics, only how to durably round-trip a
// PersistedState blob.
type Storage interface {
	SaveState(ctx context.Context, key string, state PersistedState) error
	LoadState(ctx context.Context, key string) (PersistedState, bool, error)
	Close() error
}

// ExecutionResult is returned by the order-executor collaborator for
// every submitted order.
type ExecutionResult struct {
	Success        bool
	OrderID        string
	FilledQuantity Decimal
	AveragePrice   Decimal
	Error          error
}

// OrderDispatcher is the out-of-core collaborator that performs
// quantity/price rounding to exchange precision, applies reduce-only
// semantics for stops/take-profits, and submits orders.
type OrderDispatcher interface {
	SubmitEntry(ctx context.Context, signal TradeSignal, quantity Decimal) (ExecutionResult, error)
	SubmitExit(ctx context.Context, symbol string, quantity Decimal, reduceOnly bool) (ExecutionResult, error)
}
