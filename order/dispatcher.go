// Package order implements the order-dispatch collaborator boundary:
// entry/exit submission with bounded retry, and the restart
// reconciliation report for the persistence boundary.
package order

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raykavin/tradepulse/core"
)

// RetrySettings bounds how many times an exit submission is retried
// before the dispatcher gives up and surfaces an alert.
type RetrySettings struct {
	MaxAttempts int
	Min         time.Duration
	Max         time.Duration
}

// DefaultRetrySettings returns the standard exit-retry bounds.
func DefaultRetrySettings() RetrySettings {
	return RetrySettings{
		MaxAttempts: 3,
		Min:         100 * time.Millisecond,
		Max:         1 * time.Second,
	}
}

// Dispatcher wraps a core.OrderDispatcher collaborator with a
// retry-then-alert policy for exit submission. Entries are
// best-effort and are never retried: a failed entry simply means no
// local position is created.
type Dispatcher struct {
	underlying core.OrderDispatcher
	notifier   core.Notifier
	logger     core.Logger
	retry      RetrySettings
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(underlying core.OrderDispatcher, notifier core.Notifier, logger core.Logger, retry RetrySettings) *Dispatcher {
	return &Dispatcher{underlying: underlying, notifier: notifier, logger: logger, retry: retry}
}

// SubmitEntry is a single best-effort attempt; non-success is logged
// and propagated so the caller never creates a local position record.
func (d *Dispatcher) SubmitEntry(ctx context.Context, signal core.TradeSignal, quantity core.Decimal) (core.ExecutionResult, error) {
	result, err := d.underlying.SubmitEntry(ctx, signal, quantity)
	if err != nil || !result.Success {
		d.logger.WithFields(map[string]any{
			"symbol": signal.Symbol,
			"kind":   signal.Kind,
		}).Warn("entry submission rejected; no position opened")
	}
	return result, err
}

// SubmitExit makes up to retry.MaxAttempts attempts in total, with
// exponential backoff between them, before giving up and emitting an alert through the notifier.
func (d *Dispatcher) SubmitExit(ctx context.Context, symbol string, quantity core.Decimal, reduceOnly bool) (core.ExecutionResult, error) {
	b := &backoff.Backoff{Min: d.retry.Min, Max: d.retry.Max}

	var lastResult core.ExecutionResult
	var lastErr error

	for attempt := 0; attempt < d.retry.MaxAttempts; attempt++ {
		lastResult, lastErr = d.underlying.SubmitExit(ctx, symbol, quantity, reduceOnly)
		if lastErr == nil && lastResult.Success {
			return lastResult, nil
		}

		if attempt < d.retry.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return lastResult, ctx.Err()
			case <-time.After(b.Duration()):
			}
		}
	}

	d.notifier.NotifyError(ctx, core.NewExecutionError(symbol, "exit submission failed after retry budget exhausted"))
	return lastResult, lastErr
}
