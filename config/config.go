// Package config loads the settings records for each strategy/risk
// layer from a YAML file.
package config

import (
	"fmt"
	"os"

	str2duration "github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

// TelegramSettings configures the Telegram notification channel.
type TelegramSettings struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	Users   []int  `yaml:"users"`
}

// StrategySettings configures one symbol's strategy/filter/risk stack.
type StrategySettings struct {
	Symbol         string             `yaml:"symbol"`
	TimeframeRaw   string             `yaml:"timeframe"`
	CandleDataPath string             `yaml:"candle_data_path"`
	ADXTrend       *ADXTrendConfig    `yaml:"adx_trend,omitempty"`
	RSIMeanRev     *RSIMeanRevConfig  `yaml:"rsi_mean_rev,omitempty"`
	MACrossover    *MACrossoverConfig `yaml:"ma_crossover,omitempty"`
}

// Timeframe validates TimeframeRaw ("1h", "15m", "4h30m") against the
// duration grammar used for exchange candle intervals.
func (s StrategySettings) Timeframe() (string, error) {
	if _, err := str2duration.ParseDuration(s.TimeframeRaw); err != nil {
		return "", fmt.Errorf("invalid timeframe %q: %w", s.TimeframeRaw, err)
	}
	return s.TimeframeRaw, nil
}

// ADXTrendConfig is the YAML-loadable form of strategy.ADXTrendSettings.
type ADXTrendConfig struct {
	AdxPeriod     int    `yaml:"adx_period"`
	AdxThreshold  string `yaml:"adx_threshold"`
	AtrPeriod     int    `yaml:"atr_period"`
	AtrMultiplier string `yaml:"atr_multiplier"`
}

// RSIMeanRevConfig is the YAML-loadable form of strategy.RSIMeanRevSettings.
type RSIMeanRevConfig struct {
	RSIPeriod       int    `yaml:"rsi_period"`
	OversoldLevel   string `yaml:"oversold_level"`
	OverboughtLevel string `yaml:"overbought_level"`
}

// MACrossoverConfig is the YAML-loadable form of strategy.MACrossoverSettings.
type MACrossoverConfig struct {
	FastPeriod int `yaml:"fast_period"`
	SlowPeriod int `yaml:"slow_period"`
}

// RiskConfig is the YAML-loadable form of risk.Settings.
type RiskConfig struct {
	RiskPerTradePct      string `yaml:"risk_per_trade_pct"`
	MaxPortfolioHeatPct  string `yaml:"max_portfolio_heat_pct"`
	MaxDrawdownPct       string `yaml:"max_drawdown_pct"`
	MaxDailyDrawdownPct  string `yaml:"max_daily_drawdown_pct"`
	AtrStopMultiplier    string `yaml:"atr_stop_multiplier"`
	TakeProfitMultiplier string `yaml:"take_profit_multiplier"`
	MinimumEquity        string `yaml:"minimum_equity"`
}

// BacktestConfig is the YAML-loadable form of backtest.Settings.
type BacktestConfig struct {
	InitialCapital string `yaml:"initial_capital"`
	CommissionPct  string `yaml:"commission_pct"`
	SlippagePct    string `yaml:"slippage_pct"`
}

// Settings is the application's top-level configuration tree.
type Settings struct {
	Pairs       []string           `yaml:"pairs"`
	Telegram    TelegramSettings   `yaml:"telegram"`
	Strategies  []StrategySettings `yaml:"strategies"`
	Risk        RiskConfig         `yaml:"risk"`
	Backtest    BacktestConfig     `yaml:"backtest"`
	LogLevel    string             `yaml:"log_level"`
	StoragePath string             `yaml:"storage_path"`
}

// Load reads and parses a YAML settings file from path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &s, nil
}
