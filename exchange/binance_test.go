package exchange

import (
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/raykavin/tradepulse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) core.Decimal { return core.D(s) }

func TestConvertKlineParsesOHLCV(t *testing.T) {
	k := binance.Kline{
		OpenTime:  1700000000000,
		CloseTime: 1700000059999,
		Open:      "100.5",
		High:      "101.0",
		Low:       "99.5",
		Close:     "100.8",
		Volume:    "12.34",
	}

	candle, err := convertKline("BTCUSDT", k)
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", candle.Symbol)
	assert.True(t, candle.Open.Equal(dec("100.5")))
	assert.True(t, candle.Close.Equal(dec("100.8")))
	assert.Equal(t, time.UnixMilli(1700000000000), candle.OpenTime)
}

func TestConvertKlineRejectsGarbagePrice(t *testing.T) {
	k := binance.Kline{OpenTime: 1, CloseTime: 2, Open: "not-a-number"}
	_, err := convertKline("BTCUSDT", k)
	assert.Error(t, err)
}

func TestFormatQuantityRoundsDownToStepSize(t *testing.T) {
	s := &Spot{assetsInfo: map[string]AssetInfo{
		"BTCUSDT": {StepSize: 0.001},
	}}

	got := s.formatQuantity("BTCUSDT", dec("1.23456"))
	assert.Equal(t, "1.234", got)
}

func TestFormatQuantityPassesThroughWithoutAssetInfo(t *testing.T) {
	s := &Spot{assetsInfo: map[string]AssetInfo{}}
	got := s.formatQuantity("UNKNOWN", dec("1.5"))
	assert.Equal(t, "1.5", got)
}
