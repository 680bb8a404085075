package core

import (
	"errors"
	"fmt"
)

// Error kinds from the error taxonomy. IndicatorNotReady is not
// modeled as an error at all (it propagates as an absent Maybe);
// RiskPolicyDenied and ReconciliationMismatch are modeled as
// structured result values elsewhere (the (allowed, reason) pair from
// CanOpenPosition in package risk, order.ReconciliationReport), not errors. These sentinels cover construction-time
// validation and execution-boundary failures only.
var (
	// ErrInvalidInput marks a field-validation failure at a record
	// construction boundary.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExecutionRejected marks a non-success ExecutionResult
	// returned by an order-executor collaborator.
	ErrExecutionRejected = errors.New("execution rejected")
)

// ValidationError names the offending field of a failed construction
// ("Entry price", "Quantity", "Price", "Partial exit quantity").
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func newValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// ExecutionError wraps a rejection returned by the order-executor
// collaborator with the pair and reason, so callers can log a
// structured reason without inspecting the collaborator's own types.
type ExecutionError struct {
	Pair   string
	Reason string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution rejected for %s: %s", e.Pair, e.Reason)
}

func (e *ExecutionError) Unwrap() error {
	return ErrExecutionRejected
}

// NewExecutionError builds an ExecutionRejected error for the given
// pair and reason.
func NewExecutionError(pair, reason string) error {
	return &ExecutionError{Pair: pair, Reason: reason}
}
