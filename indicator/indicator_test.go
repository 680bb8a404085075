package indicator

import (
	"testing"
	"time"

	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) core.Decimal { return core.D(s) }

func TestSMAWarmup(t *testing.T) {
	s := NewSMA(3)
	inputs := []string{"10", "20", "30", "25", "15"}
	var outputs []core.Maybe[core.Decimal]
	for _, in := range inputs {
		outputs = append(outputs, s.Update(dec(in)))
	}

	_, ok0 := outputs[0].Get()
	_, ok1 := outputs[1].Get()
	require.False(t, ok0)
	require.False(t, ok1)

	v2, ok2 := outputs[2].Get()
	require.True(t, ok2)
	assert.True(t, v2.Equal(dec("20")))

	v3, _ := outputs[3].Get()
	assert.True(t, v3.Equal(dec("25")))

	v4, _ := outputs[4].Get()
	expected := dec("30").Add(dec("25")).Add(dec("15")).Div(dec("3"))
	assert.True(t, v4.Equal(expected))
}

func TestEMAWarmupSeedsFromSMA(t *testing.T) {
	e := NewEMA(3)
	inputs := []string{"22.27", "22.19", "22.08", "22.17", "22.18"}
	var outputs []core.Maybe[core.Decimal]
	for _, in := range inputs {
		outputs = append(outputs, e.Update(dec(in)))
	}

	_, ok0 := outputs[0].Get()
	_, ok1 := outputs[1].Get()
	require.False(t, ok0)
	require.False(t, ok1)

	v2, ok2 := outputs[2].Get()
	require.True(t, ok2)
	seed := dec("22.27").Add(dec("22.19")).Add(dec("22.08")).Div(dec("3"))
	assert.True(t, v2.Equal(seed), "expected %s got %s", seed, v2)

	v3, _ := outputs[3].Get()
	assert.True(t, v3.Round(4).Equal(dec("22.175")), "got %s", v3)

	v4, _ := outputs[4].Get()
	assert.True(t, v4.Round(4).Equal(dec("22.1775")), "got %s", v4)
}

func TestATRGapInclusiveTrueRange(t *testing.T) {
	a := NewATR(2)
	base := time.Now().UTC()
	c1 := core.Candle{OpenTime: base, CloseTime: base.Add(time.Hour), High: dec("105"), Low: dec("98"), Close: dec("102")}
	c2 := core.Candle{OpenTime: base.Add(time.Hour), CloseTime: base.Add(2 * time.Hour), High: dec("108"), Low: dec("101"), Close: dec("107")}

	v1 := a.Update(c1)
	_, ok := v1.Get()
	require.False(t, ok)

	v2 := a.Update(c2)
	val, ok := v2.Get()
	require.False(t, ok) // ATR(2) needs 2 TR samples (3 candles) to be ready

	_ = val

	c3 := core.Candle{OpenTime: base.Add(2 * time.Hour), CloseTime: base.Add(3 * time.Hour), High: dec("110"), Low: dec("104"), Close: dec("106")}
	v3 := a.Update(c3)
	val3, ok3 := v3.Get()
	require.True(t, ok3)
	assert.True(t, val3.IsPositive())
	assert.True(t, val3.LessThanOrEqual(dec("7")))
}

func TestADXDirectionOnUptrend(t *testing.T) {
	adx := NewADX(3)
	base := time.Now().UTC()
	price := dec("100")
	step := dec("2")

	var last core.Maybe[core.Decimal]
	for i := 0; i < 20; i++ {
		high := price.Add(dec("1"))
		low := price.Sub(dec("1"))
		c := core.Candle{
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1) * time.Hour),
			Open:      price,
			High:      high,
			Low:       low,
			Close:     price,
		}
		last = adx.Update(c)
		price = price.Add(step)
	}

	_, ok := last.Get()
	require.True(t, ok, "ADX should be ready after a sustained uptrend")
	require.True(t, adx.Ready())

	pdi, ok := adx.PlusDI().Get()
	require.True(t, ok)
	mdi, ok := adx.MinusDI().Get()
	require.True(t, ok)
	assert.True(t, pdi.GreaterThan(mdi), "+DI should exceed -DI on a monotone uptrend")
}

func TestResetEquivalence(t *testing.T) {
	seq := []string{"1", "2", "3", "4", "5", "4", "3", "6", "7", "8"}

	e1 := NewEMA(3)
	for _, s := range seq {
		e1.Update(dec(s))
	}

	e2 := NewEMA(3)
	e2.Update(dec("999"))
	e2.Update(dec("-42"))
	e2.Reset()
	for _, s := range seq {
		e2.Update(dec(s))
	}

	v1, ok1 := e1.Value().Get()
	v2, ok2 := e2.Value().Get()
	require.Equal(t, ok1, ok2)
	assert.True(t, v1.Equal(v2))
}

func TestVolumeSpike(t *testing.T) {
	v := NewVolume(3, dec("2"))
	v.Update(dec("100"))
	v.Update(dec("100"))
	v.Update(dec("100"))
	require.True(t, v.Ready())
	// The rolling average includes the new sample: (100+100+400)/3 = 200,
	// so the ratio is 400/200 = 2.
	v.Update(dec("400"))
	require.True(t, v.IsSpike())
}

func TestOBVBullishBearish(t *testing.T) {
	obv := NewOBV(3)
	base := time.Now().UTC()
	closes := []string{"10", "11", "12", "13", "14"}
	prevClose := dec("9")
	for i, cStr := range closes {
		c := core.Candle{
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1) * time.Hour),
			Open:      prevClose,
			Close:     dec(cStr),
			High:      dec(cStr),
			Low:       prevClose,
			Volume:    dec("100"),
		}
		obv.Update(c)
		prevClose = dec(cStr)
	}
	require.True(t, obv.Ready())
	assert.True(t, obv.IsBullish())
}
