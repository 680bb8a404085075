package order

import (
	"context"
	"testing"
	"time"

	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	entryResult core.ExecutionResult
	entryErr    error
	exitResults []core.ExecutionResult
	exitErrs    []error
	exitCalls   int
}

func (f *fakeDispatcher) SubmitEntry(context.Context, core.TradeSignal, core.Decimal) (core.ExecutionResult, error) {
	return f.entryResult, f.entryErr
}

func (f *fakeDispatcher) SubmitExit(context.Context, string, core.Decimal, bool) (core.ExecutionResult, error) {
	i := f.exitCalls
	f.exitCalls++
	if i < len(f.exitResults) {
		return f.exitResults[i], f.exitErrs[i]
	}
	return core.ExecutionResult{}, nil
}

type fakeNotifier struct {
	errorCalls int
}

func (f *fakeNotifier) Notify(context.Context, string)     {}
func (f *fakeNotifier) NotifyError(context.Context, error) { f.errorCalls++ }

type fakeLogger struct{}

func (fakeLogger) Debug(...any)                            {}
func (fakeLogger) Info(...any)                             {}
func (fakeLogger) Warn(...any)                             {}
func (fakeLogger) Error(...any)                            {}
func (f fakeLogger) WithFields(map[string]any) core.Logger { return f }

func fastRetrySettings() RetrySettings {
	return RetrySettings{MaxAttempts: 3, Min: time.Millisecond, Max: 2 * time.Millisecond}
}

func TestSubmitExitSucceedsOnFirstAttempt(t *testing.T) {
	fd := &fakeDispatcher{exitResults: []core.ExecutionResult{{Success: true}}, exitErrs: []error{nil}}
	fn := &fakeNotifier{}
	d := NewDispatcher(fd, fn, fakeLogger{}, fastRetrySettings())

	result, err := d.SubmitExit(context.Background(), "BTCUSDT", dec("1"), true)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, fn.errorCalls)
	assert.Equal(t, 1, fd.exitCalls)
}

func TestSubmitExitRetriesThenSucceeds(t *testing.T) {
	fd := &fakeDispatcher{
		exitResults: []core.ExecutionResult{{Success: false}, {Success: false}, {Success: true}},
		exitErrs:    []error{nil, nil, nil},
	}
	d := NewDispatcher(fd, &fakeNotifier{}, fakeLogger{}, fastRetrySettings())

	result, err := d.SubmitExit(context.Background(), "BTCUSDT", dec("1"), true)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, fd.exitCalls)
}

func TestSubmitExitExhaustsBudgetAndAlerts(t *testing.T) {
	fd := &fakeDispatcher{
		exitResults: []core.ExecutionResult{{Success: false}, {Success: false}, {Success: false}},
		exitErrs:    []error{nil, nil, nil},
	}
	fn := &fakeNotifier{}
	d := NewDispatcher(fd, fn, fakeLogger{}, fastRetrySettings())

	result, _ := d.SubmitExit(context.Background(), "BTCUSDT", dec("1"), true)
	assert.False(t, result.Success)
	assert.Equal(t, 1, fn.errorCalls, "must alert exactly once after exhausting the retry budget")
	assert.Equal(t, 3, fd.exitCalls)
}

func TestSubmitEntryNeverRetries(t *testing.T) {
	fd := &fakeDispatcher{entryResult: core.ExecutionResult{Success: false}}
	d := NewDispatcher(fd, &fakeNotifier{}, fakeLogger{}, fastRetrySettings())

	sig, err := core.NewTradeSignal("BTCUSDT", core.SignalBuy, dec("100"), "test")
	require.NoError(t, err)

	result, err := d.SubmitEntry(context.Background(), sig, dec("1"))
	require.NoError(t, err)
	assert.False(t, result.Success)
}
