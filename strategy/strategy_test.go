package strategy

import (
	"strconv"
	"testing"
	"time"

	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) core.Decimal { return core.D(s) }

func candleAt(i int, base time.Time, o, h, l, c, v string) core.Candle {
	return core.Candle{
		Symbol:    "BTCUSDT",
		OpenTime:  base.Add(time.Duration(i) * time.Hour),
		CloseTime: base.Add(time.Duration(i+1) * time.Hour),
		Open:      dec(o),
		High:      dec(h),
		Low:       dec(l),
		Close:     dec(c),
		Volume:    dec(v),
	}
}

func TestADXTrendNeverEntersWhileInPosition(t *testing.T) {
	s := NewADXTrend(DefaultADXTrendSettings())
	base := time.Now().UTC()
	price := 100.0

	var openPos *core.OpenPosition
	for i := 0; i < 120; i++ {
		price += 1.5
		c := candleAt(i, base,
			toStr(price-1), toStr(price+1), toStr(price-2), toStr(price), "1000")
		sig, ok := s.Analyze(c, openPos, "BTCUSDT")

		if openPos != nil {
			if ok {
				assert.Contains(t, []core.SignalKind{core.SignalExit, core.SignalPartialExit, core.SignalNone}, sig.Kind,
					"must never emit a non-exit signal while in position")
			}
			continue
		}

		if ok && sig.Kind == core.SignalBuy {
			p, err := core.NewOpenPosition("BTCUSDT", core.DirectionLong, dec("1"), sig.Price, sig.StopLoss.OrZero())
			require.NoError(t, err)
			openPos = &p
		}
	}
}

// toStr formats a float64 as a decimal literal for synthetic test
// candles only; production code never constructs Decimal from float64.
func toStr(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
