package core

import "time"

// Candle is an immutable OHLCV record for a single symbol and
// interval. Candles must arrive in strictly ascending OpenTime order;
// duplicates (same OpenTime) are the feed collaborator's
// responsibility to drop, not the core's.
type Candle struct {
	Symbol    string
	OpenTime  time.Time
	CloseTime time.Time
	Open      Decimal
	High      Decimal
	Low       Decimal
	Close     Decimal
	Volume    Decimal
}

// NewCandle validates and constructs a Candle. CloseTime must be
// strictly after OpenTime.
func NewCandle(symbol string, openTime, closeTime time.Time, open, high, low, close, volume Decimal) (Candle, error) {
	if !closeTime.After(openTime) {
		return Candle{}, newValidationError("Close time", "must be strictly greater than open time")
	}
	return Candle{
		Symbol:    symbol,
		OpenTime:  openTime,
		CloseTime: closeTime,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}, nil
}

// TrueRange computes the gap-inclusive true range against the
// previous candle's close: max(high-low, |high-prevClose|, |prevClose-low|).
func (c Candle) TrueRange(prevClose Decimal) Decimal {
	hl := c.High.Sub(c.Low)
	hc := c.High.Sub(prevClose).Abs()
	cl := prevClose.Sub(c.Low).Abs()

	tr := hl
	if hc.GreaterThan(tr) {
		tr = hc
	}
	if cl.GreaterThan(tr) {
		tr = cl
	}
	return tr
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close.GreaterThan(c.Open)
}

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool {
	return c.Close.LessThan(c.Open)
}
