package exchange

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCandlesFromCSVParsesHeaderedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "btc.csv")
	content := "time,open,high,low,close,volume\n" +
		"1700000000,100,101,99,100.5,10\n" +
		"1700003600,100.5,102,100,101.5,12\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	candles, err := LoadCandlesFromCSV(path, "BTCUSDT", time.Hour)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, "BTCUSDT", candles[0].Symbol)
	assert.True(t, candles[0].Close.Equal(dec("100.5")))
	assert.True(t, candles[1].Open.Equal(dec("100.5")))
}

func TestLoadCandlesFromCSVRejectsMissingFile(t *testing.T) {
	_, err := LoadCandlesFromCSV("/nonexistent/path.csv", "BTCUSDT", time.Hour)
	assert.Error(t, err)
}
