// Command backtest is the composition root wiring config, logging,
// storage, the exchange CSV feed, the strategy/filter stack, risk
// management and the backtest engine together.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/raykavin/tradepulse/backtest"
	"github.com/raykavin/tradepulse/config"
	"github.com/raykavin/tradepulse/core"
	"github.com/raykavin/tradepulse/exchange"
	"github.com/raykavin/tradepulse/filter"
	"github.com/raykavin/tradepulse/logging"
	"github.com/raykavin/tradepulse/notification"
	"github.com/raykavin/tradepulse/report"
	"github.com/raykavin/tradepulse/risk"
	"github.com/raykavin/tradepulse/storage"
	"github.com/raykavin/tradepulse/strategy"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML settings file")
	flag.Parse()
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "missing required -config flag")
		os.Exit(1)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	logLevel := nonEmpty(cfg.LogLevel, "info")
	logger, err := logging.NewZerolog(logLevel, "2006-01-02 15:04:05", true, false)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	store, err := openStorage(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	var notifier core.Notifier
	if cfg.Telegram.Enabled {
		tg, err := notification.NewTelegram(notification.Settings{
			Token: cfg.Telegram.Token,
			Users: cfg.Telegram.Users,
		}, logger)
		if err != nil {
			return fmt.Errorf("initializing telegram notifier: %w", err)
		}
		notifier = tg
	}

	backtestSettings := backtest.Settings{
		InitialCapital: core.D(nonEmpty(cfg.Backtest.InitialCapital, "10000")),
		CommissionPct:  core.D(nonEmpty(cfg.Backtest.CommissionPct, "0.1")),
		SlippagePct:    core.D(nonEmpty(cfg.Backtest.SlippagePct, "0.05")),
	}
	riskSettings := buildRiskSettings(cfg.Risk)

	ctx := context.Background()
	peakEquity := map[string]core.Decimal{}

	for _, sc := range cfg.Strategies {
		if err := runSymbol(ctx, logger, notifier, sc, riskSettings, backtestSettings, peakEquity); err != nil {
			return fmt.Errorf("strategy %s: %w", sc.Symbol, err)
		}
	}

	if err := store.SaveState(ctx, "backtest-run", core.PersistedState{PeakEquity: peakEquity}); err != nil {
		logger.Error("failed to persist backtest snapshot: ", err)
	}

	return nil
}

func runSymbol(
	ctx context.Context,
	logger core.Logger,
	notifier core.Notifier,
	sc config.StrategySettings,
	riskSettings risk.Settings,
	backtestSettings backtest.Settings,
	peakEquity map[string]core.Decimal,
) error {
	tf, err := sc.Timeframe()
	if err != nil {
		return err
	}
	barDuration, err := str2duration.ParseDuration(tf)
	if err != nil {
		return err
	}

	candles, err := exchange.LoadCandlesFromCSV(sc.CandleDataPath, sc.Symbol, barDuration)
	if err != nil {
		return fmt.Errorf("loading candles: %w", err)
	}

	strat, err := buildStrategy(sc)
	if err != nil {
		return err
	}

	manager := risk.NewManager(sc.Symbol, riskSettings, backtestSettings.InitialCapital)
	engine := backtest.NewEngine(sc.Symbol, strat, manager, backtestSettings)

	logger.WithFields(map[string]any{"symbol": sc.Symbol, "candles": len(candles)}).Info("running backtest")
	_, curve, metrics := engine.Run(candles)

	fmt.Println(report.Table(sc.Symbol, metrics))
	fmt.Println(report.EquityCurveHistogram(curve))

	peak := backtestSettings.InitialCapital
	for _, p := range curve {
		if p.Equity.GreaterThan(peak) {
			peak = p.Equity
		}
	}
	peakEquity[sc.Symbol] = peak

	if notifier != nil {
		notifier.Notify(ctx, fmt.Sprintf(
			"backtest complete for %s: %d trades, net pnl %s",
			sc.Symbol, metrics.TotalTrades, metrics.TotalNetPnL.StringFixed(2),
		))
	}

	return nil
}

// buildStrategy constructs the configured strategy for sc, wrapped in
// a filter.FilteredStrategy using the filter naturally matched to the
// state that strategy publishes: ADXTrend publishes "adx" so it gets
// an ADXFilter veto, RSIMeanRev publishes "rsi" so it gets an
// RSIFilter confirm, MACrossover publishes its prior signal and
// IsTrending so it gets a TrendAlignmentFilter veto that blocks
// whipsaw entries contradicting the prior signal. Confirm mode would
// starve a standalone crossover strategy outright: its prior signal
// before any Buy is always the opposite entry or an exit, so the
// confirm predicate could never hold outside an ensemble.
func buildStrategy(sc config.StrategySettings) (strategy.Strategy, error) {
	switch {
	case sc.ADXTrend != nil:
		settings := strategy.DefaultADXTrendSettings()
		c := sc.ADXTrend
		if c.AdxPeriod > 0 {
			settings.AdxPeriod = c.AdxPeriod
		}
		if c.AtrPeriod > 0 {
			settings.ATRPeriod = c.AtrPeriod
		}
		if c.AdxThreshold != "" {
			settings.AdxThreshold = core.D(c.AdxThreshold)
		}
		if c.AtrMultiplier != "" {
			settings.ATRStopMultiplier = core.D(c.AtrMultiplier)
		}
		strat := strategy.NewADXTrend(settings)
		chain := filter.NewChain(filter.NewADXFilter(settings.AdxExitThreshold, settings.AdxThreshold, filter.ModeVeto))
		return filter.NewFilteredStrategy(strat, chain), nil

	case sc.RSIMeanRev != nil:
		settings := strategy.DefaultRSIMeanRevSettings()
		c := sc.RSIMeanRev
		if c.RSIPeriod > 0 {
			settings.RSIPeriod = c.RSIPeriod
		}
		if c.OversoldLevel != "" {
			settings.OversoldLevel = core.D(c.OversoldLevel)
		}
		if c.OverboughtLevel != "" {
			settings.OverboughtLevel = core.D(c.OverboughtLevel)
		}
		strat := strategy.NewRSIMeanRev(settings)
		chain := filter.NewChain(filter.NewRSIFilter(settings.OverboughtLevel, settings.OversoldLevel, filter.ModeConfirm))
		return filter.NewFilteredStrategy(strat, chain), nil

	case sc.MACrossover != nil:
		settings := strategy.DefaultMACrossoverSettings()
		c := sc.MACrossover
		if c.FastPeriod > 0 {
			settings.FastPeriod = c.FastPeriod
		}
		if c.SlowPeriod > 0 {
			settings.SlowPeriod = c.SlowPeriod
		}
		strat := strategy.NewMACrossover(settings)
		chain := filter.NewChain(filter.NewTrendAlignmentFilter(filter.ModeVeto, false))
		return filter.NewFilteredStrategy(strat, chain), nil

	default:
		return nil, fmt.Errorf("symbol %s declares no strategy block", sc.Symbol)
	}
}

func buildRiskSettings(c config.RiskConfig) risk.Settings {
	settings := risk.DefaultSettings()
	if c.RiskPerTradePct != "" {
		settings.RiskPerTradePct = core.D(c.RiskPerTradePct)
	}
	if c.MaxPortfolioHeatPct != "" {
		settings.MaxPortfolioHeatPct = core.D(c.MaxPortfolioHeatPct)
	}
	if c.MaxDrawdownPct != "" {
		settings.MaxDrawdownPct = core.D(c.MaxDrawdownPct)
	}
	if c.MaxDailyDrawdownPct != "" {
		settings.MaxDailyDrawdownPct = core.D(c.MaxDailyDrawdownPct)
	}
	if c.AtrStopMultiplier != "" {
		settings.AtrStopMultiplier = core.D(c.AtrStopMultiplier)
	}
	if c.TakeProfitMultiplier != "" {
		settings.TakeProfitMultiplier = core.D(c.TakeProfitMultiplier)
	}
	if c.MinimumEquity != "" {
		settings.MinimumEquity = core.D(c.MinimumEquity)
	}
	return settings
}

func openStorage(path string) (core.Storage, error) {
	if path == "" {
		return storage.NewBuntMemory()
	}
	return storage.NewBuntFile(path)
}

func nonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
