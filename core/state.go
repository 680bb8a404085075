package core

// StrategyState is an immutable snapshot of a strategy's evaluation
// for the current candle, exposed to the filter chain. Filters never
// see the strategy's internal indicator state directly, only this
// projection.
type StrategyState struct {
	LastSignal            Maybe[SignalKind]
	PrimaryIndicatorValue Maybe[Decimal]
	IsOverbought          bool
	IsOversold            bool
	IsTrending            bool
	Custom                map[string]Decimal
}

// CustomValue reads a strategy-defined keyed value from the snapshot.
// Filters look up indicator readings (e.g. "adx", "rsi") by key; the
// key namespace is owned by the strategy that published it.
func (s StrategyState) CustomValue(key string) Maybe[Decimal] {
	if s.Custom == nil {
		return None[Decimal]()
	}
	v, ok := s.Custom[key]
	if !ok {
		return None[Decimal]()
	}
	return Some(v)
}
