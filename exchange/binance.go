// Package exchange adapts github.com/adshao/go-binance/v2 to the
// core.OrderDispatcher collaborator contract and to a candle feed,
// and loads historical candles from CSV files.
package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/raykavin/tradepulse/core"
	"github.com/shopspring/decimal"
)

// AssetInfo carries the exchange-reported precision/limits for a
// symbol, used to round order quantity/price to tradeable increments.
type AssetInfo struct {
	BaseAssetPrecision int
	QuotePrecision     int
	StepSize           float64
	TickSize           float64
	MinQuantity        float64
	MaxQuantity        float64
}

// Spot dispatches entry/exit orders against Binance spot and fetches
// historical candles. It implements core.OrderDispatcher; the
// best-effort-vs-retried distinction lives one layer up, in
// order.Dispatcher, which wraps this as its underlying collaborator.
type Spot struct {
	ctx        context.Context
	client     *binance.Client
	assetsInfo map[string]AssetInfo
}

// Option configures a Spot client.
type Option func(*Spot)

// WithCredentials sets the API credentials used for order submission.
func WithCredentials(key, secret string) Option {
	return func(s *Spot) { s.client = binance.NewClient(key, secret) }
}

// WithTestNet enables the Binance testnet.
func WithTestNet() Option {
	return func(_ *Spot) { binance.UseTestnet = true }
}

// NewSpot creates a Spot client, pinging the exchange and caching
// per-symbol precision/limits from its exchange-info response.
func NewSpot(ctx context.Context, options ...Option) (*Spot, error) {
	binance.WebsocketKeepalive = true

	s := &Spot{
		ctx:        ctx,
		client:     binance.NewClient("", ""),
		assetsInfo: make(map[string]AssetInfo),
	}
	for _, opt := range options {
		opt(s)
	}

	if err := s.client.NewPingService().Do(ctx); err != nil {
		return nil, fmt.Errorf("binance ping failed: %w", err)
	}

	info, err := s.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange info: %w", err)
	}
	for _, symbol := range info.Symbols {
		asset := AssetInfo{
			BaseAssetPrecision: symbol.BaseAssetPrecision,
			QuotePrecision:     symbol.QuotePrecision,
		}
		for _, filter := range symbol.Filters {
			typ, _ := filter["filterType"].(string)
			switch typ {
			case string(binance.SymbolFilterTypeLotSize):
				asset.StepSize, _ = strconv.ParseFloat(str(filter["stepSize"]), 64)
				asset.MinQuantity, _ = strconv.ParseFloat(str(filter["minQty"]), 64)
				asset.MaxQuantity, _ = strconv.ParseFloat(str(filter["maxQty"]), 64)
			case string(binance.SymbolFilterTypePriceFilter):
				asset.TickSize, _ = strconv.ParseFloat(str(filter["tickSize"]), 64)
			}
		}
		s.assetsInfo[symbol.Symbol] = asset
	}

	return s, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// SubmitEntry submits a market order opening a new position in the
// signal's direction.
func (s *Spot) SubmitEntry(ctx context.Context, signal core.TradeSignal, quantity core.Decimal) (core.ExecutionResult, error) {
	side := binance.SideTypeBuy
	if signal.Kind == core.SignalSell {
		side = binance.SideTypeSell
	}
	return s.submitMarket(ctx, signal.Symbol, side, quantity)
}

// SubmitExit submits a market order closing (or reducing) an existing
// position. reduceOnly is accepted for interface symmetry with
// futures-style dispatchers; spot orders are reduce-only by
// construction and the flag has no separate effect here.
func (s *Spot) SubmitExit(ctx context.Context, symbol string, quantity core.Decimal, _ bool) (core.ExecutionResult, error) {
	return s.submitMarket(ctx, symbol, binance.SideTypeSell, quantity)
}

func (s *Spot) submitMarket(ctx context.Context, symbol string, side binance.SideType, quantity core.Decimal) (core.ExecutionResult, error) {
	qtyStr := s.formatQuantity(symbol, quantity)

	order, err := s.client.NewCreateOrderService().
		Symbol(symbol).
		Type(binance.OrderTypeMarket).
		Side(side).
		Quantity(qtyStr).
		NewOrderRespType(binance.NewOrderRespTypeFULL).
		Do(ctx)
	if err != nil {
		return core.ExecutionResult{Success: false, Error: err}, nil
	}

	cost, err := decimal.NewFromString(order.CummulativeQuoteQuantity)
	if err != nil {
		return core.ExecutionResult{Success: false, Error: err}, nil
	}
	filled, err := decimal.NewFromString(order.ExecutedQuantity)
	if err != nil {
		return core.ExecutionResult{Success: false, Error: err}, nil
	}

	avgPrice := core.D("0")
	if filled.IsPositive() {
		avgPrice = cost.Div(filled)
	}

	return core.ExecutionResult{
		Success:        true,
		OrderID:        strconv.FormatInt(order.OrderID, 10),
		FilledQuantity: filled,
		AveragePrice:   avgPrice,
	}, nil
}

func (s *Spot) formatQuantity(symbol string, quantity core.Decimal) string {
	info, ok := s.assetsInfo[symbol]
	if !ok || info.StepSize == 0 {
		return quantity.String()
	}
	step := decimal.NewFromFloat(info.StepSize)
	rounded := quantity.Div(step).Truncate(0).Mul(step)
	return rounded.String()
}

// CandlesByLimit fetches the most recent `limit` completed candles for
// symbol/interval, discarding the final (possibly incomplete) bar.
func (s *Spot) CandlesByLimit(ctx context.Context, symbol, interval string, limit int) ([]core.Candle, error) {
	data, err := s.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit + 1).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	candles := make([]core.Candle, 0, len(data))
	for i, k := range data {
		if i == len(data)-1 {
			break
		}
		candle, err := convertKline(symbol, *k)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func convertKline(symbol string, k binance.Kline) (core.Candle, error) {
	openTime := time.UnixMilli(k.OpenTime)
	closeTime := time.UnixMilli(k.CloseTime)

	open, err := parseDecimal(k.Open)
	if err != nil {
		return core.Candle{}, err
	}
	high, err := parseDecimal(k.High)
	if err != nil {
		return core.Candle{}, err
	}
	low, err := parseDecimal(k.Low)
	if err != nil {
		return core.Candle{}, err
	}
	closePrice, err := parseDecimal(k.Close)
	if err != nil {
		return core.Candle{}, err
	}
	volume, err := parseDecimal(k.Volume)
	if err != nil {
		return core.Candle{}, err
	}

	return core.NewCandle(symbol, openTime, closeTime, open, high, low, closePrice, volume)
}

func parseDecimal(s string) (core.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return core.Decimal{}, fmt.Errorf("failed to parse decimal %q: %w", s, err)
	}
	return d, nil
}

var _ core.OrderDispatcher = (*Spot)(nil)
