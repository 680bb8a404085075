package exchange

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/raykavin/tradepulse/core"
)

// LoadCandlesFromCSV reads a "time,open,high,low,close,volume" CSV
// file (unix-seconds timestamps) into an ascending-ordered candle
// slice for symbol. Loading is single-timeframe: every strategy runs
// on its configured timeframe directly, so no resampling happens
// here.
func LoadCandlesFromCSV(path, symbol string, barDuration time.Duration) ([]core.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candle CSV %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse candle CSV %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("candle CSV %s is empty", path)
	}

	start := 0
	if _, err := strconv.Atoi(rows[0][0]); err != nil {
		start = 1 // header row present
	}

	candles := make([]core.Candle, 0, len(rows)-start)
	for _, row := range rows[start:] {
		candle, err := parseCandleRow(row, symbol, barDuration)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseCandleRow(row []string, symbol string, barDuration time.Duration) (core.Candle, error) {
	if len(row) < 6 {
		return core.Candle{}, fmt.Errorf("candle row has %d fields, want at least 6", len(row))
	}

	ts, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return core.Candle{}, fmt.Errorf("failed to parse candle timestamp %q: %w", row[0], err)
	}
	open, err := parseDecimal(row[1])
	if err != nil {
		return core.Candle{}, err
	}
	high, err := parseDecimal(row[2])
	if err != nil {
		return core.Candle{}, err
	}
	low, err := parseDecimal(row[3])
	if err != nil {
		return core.Candle{}, err
	}
	closePrice, err := parseDecimal(row[4])
	if err != nil {
		return core.Candle{}, err
	}
	volume, err := parseDecimal(row[5])
	if err != nil {
		return core.Candle{}, err
	}

	openTime := time.Unix(ts, 0).UTC()
	return core.NewCandle(symbol, openTime, openTime.Add(barDuration), open, high, low, closePrice, volume)
}
