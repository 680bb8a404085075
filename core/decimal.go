// Package core holds the domain types shared by every layer of the
// decision pipeline: candles, signals, positions, trades and the
// narrow collaborator interfaces (logging, notification, storage,
// order dispatch) the core is wired against.
package core

import "github.com/shopspring/decimal"

// Decimal is the fixed-point type used for every price, quantity,
// equity and PnL value in the core. Floating point is never used for
// money: decimal.Decimal carries arbitrary-precision base-10 math, so
// rounding error never leaks into risk or PnL calculations.
type Decimal = decimal.Decimal

// Maybe is an optional value. Indicators are undefined during warmup;
// rather than overload a zero value or use a pointer, Maybe makes
// "not yet ready" an explicit, checkable state.
type Maybe[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, ok: true}
}

// None returns an absent value.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Get returns the wrapped value and whether it was present.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.ok
}

// IsSome reports whether the value is present.
func (m Maybe[T]) IsSome() bool {
	return m.ok
}

// MustGet returns the wrapped value, panicking if absent. Only use
// where IsSome (or an equivalent readiness check) was already proven.
func (m Maybe[T]) MustGet() T {
	if !m.ok {
		panic("core: MustGet called on an absent Maybe value")
	}
	return m.value
}

// OrZero returns the wrapped value or the zero value of T if absent.
func (m Maybe[T]) OrZero() T {
	return m.value
}

// D is a convenience constructor for a Decimal from a string literal,
// used throughout construction code and tests to avoid float64
// round-tripping.
func D(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("core: invalid decimal literal " + s)
	}
	return d
}
