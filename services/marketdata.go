package services

import (
	"context"
	"time"

	"matty-api/config"
	"matty-api/models"
	"matty-api/observability"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

const dataProvider = "alpaca_data"

// MarketDataService wraps the Alpaca SDK clients for quotes, bars, and the
// market clock/calendar.
type MarketDataService struct {
	tradeClient *alpaca.Client
	dataClient  *marketdata.Client
	limiter     *ProviderLimiter
}

// NewMarketDataService creates a new MarketDataService instance.
func NewMarketDataService(cfg *config.Config, limiter *ProviderLimiter) *MarketDataService {
	tradeClient := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    cfg.Alpaca.APIKey,
		APISecret: cfg.Alpaca.APISecret,
		BaseURL:   cfg.Alpaca.TradingBaseURL,
	})

	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    cfg.Alpaca.APIKey,
		APISecret: cfg.Alpaca.APISecret,
		BaseURL:   cfg.Alpaca.DataBaseURL,
	})

	return &MarketDataService{
		tradeClient: tradeClient,
		dataClient:  dataClient,
		limiter:     limiter,
	}
}

// GetLatestQuote returns the latest quote for a symbol.
func (s *MarketDataService) GetLatestQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := s.limiter.Wait(ctx, dataProvider); err != nil {
		return nil, err
	}

	metrics := observability.GetMetrics()
	metrics.RecordUpstreamRequest(dataProvider, "get_latest_quote")
	timer := metrics.NewTimer()
	defer timer.ObserveUpstream(dataProvider, "get_latest_quote")

	quote, err := WithCircuitBreaker(ctx, BreakerAlpacaData, func() (*marketdata.Quote, error) {
		return s.dataClient.GetLatestQuote(symbol, marketdata.GetLatestQuoteRequest{})
	})
	if err != nil {
		s.recordError("get_latest_quote", err)
		return nil, &models.UpstreamError{Provider: dataProvider, Operation: "get_latest_quote", Err: err}
	}

	return &models.Quote{
		Symbol:    symbol,
		Bid:       decimal.NewFromFloat(quote.BidPrice),
		Ask:       decimal.NewFromFloat(quote.AskPrice),
		BidSize:   int64(quote.BidSize),
		AskSize:   int64(quote.AskSize),
		Timestamp: quote.Timestamp,
	}, nil
}

// GetDailyBars returns daily bars covering the last `days` calendar days.
func (s *MarketDataService) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	if err := s.limiter.Wait(ctx, dataProvider); err != nil {
		return nil, err
	}

	metrics := observability.GetMetrics()
	metrics.RecordUpstreamRequest(dataProvider, "get_daily_bars")
	timer := metrics.NewTimer()
	defer timer.ObserveUpstream(dataProvider, "get_daily_bars")

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	bars, err := WithCircuitBreaker(ctx, BreakerAlpacaData, func() ([]marketdata.Bar, error) {
		return s.dataClient.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     start,
			End:       end,
		})
	})
	if err != nil {
		s.recordError("get_daily_bars", err)
		return nil, &models.UpstreamError{Provider: dataProvider, Operation: "get_daily_bars", Err: err}
	}

	result := make([]models.Bar, 0, len(bars))
	for _, bar := range bars {
		result = append(result, models.Bar{
			Symbol:    symbol,
			Timestamp: bar.Timestamp,
			Open:      decimal.NewFromFloat(bar.Open),
			High:      decimal.NewFromFloat(bar.High),
			Low:       decimal.NewFromFloat(bar.Low),
			Close:     decimal.NewFromFloat(bar.Close),
			Volume:    int64(bar.Volume),
			VWAP:      decimal.NewFromFloat(bar.VWAP),
		})
	}

	return result, nil
}

// GetClock returns the market open/close clock. No fallback here: callers
// must handle the absence of status.
func (s *MarketDataService) GetClock(ctx context.Context) (*models.MarketStatus, error) {
	if err := s.limiter.Wait(ctx, dataProvider); err != nil {
		return nil, err
	}

	metrics := observability.GetMetrics()
	metrics.RecordUpstreamRequest(dataProvider, "get_clock")
	timer := metrics.NewTimer()
	defer timer.ObserveUpstream(dataProvider, "get_clock")

	clock, err := WithCircuitBreaker(ctx, BreakerAlpacaData, func() (*alpaca.Clock, error) {
		return s.tradeClient.GetClock()
	})
	if err != nil {
		s.recordError("get_clock", err)
		return nil, &models.UpstreamError{Provider: dataProvider, Operation: "get_clock", Err: err}
	}

	return &models.MarketStatus{
		IsOpen:    clock.IsOpen,
		NextOpen:  clock.NextOpen,
		NextClose: clock.NextClose,
		Timestamp: clock.Timestamp,
	}, nil
}

// GetCalendar returns the trading days from today through the next week.
func (s *MarketDataService) GetCalendar(ctx context.Context) ([]models.CalendarDay, error) {
	if err := s.limiter.Wait(ctx, dataProvider); err != nil {
		return nil, err
	}

	metrics := observability.GetMetrics()
	metrics.RecordUpstreamRequest(dataProvider, "get_calendar")
	timer := metrics.NewTimer()
	defer timer.ObserveUpstream(dataProvider, "get_calendar")

	start := time.Now()
	end := start.AddDate(0, 0, 7)

	days, err := WithCircuitBreaker(ctx, BreakerAlpacaData, func() ([]alpaca.CalendarDay, error) {
		return s.tradeClient.GetCalendar(alpaca.GetCalendarRequest{
			Start: start,
			End:   end,
		})
	})
	if err != nil {
		s.recordError("get_calendar", err)
		return nil, &models.UpstreamError{Provider: dataProvider, Operation: "get_calendar", Err: err}
	}

	result := make([]models.CalendarDay, 0, len(days))
	for _, day := range days {
		result = append(result, models.CalendarDay{
			Date:  day.Date,
			Open:  day.Open,
			Close: day.Close,
		})
	}

	return result, nil
}

func (s *MarketDataService) recordError(operation string, err error) {
	observability.GetMetrics().RecordUpstreamError(dataProvider, operation, "error")
	observability.WithProvider(dataProvider).Error("upstream call failed",
		"operation", operation,
		"error", err)
}

// Compile-time interface verification
var _ MarketDataServiceInterface = (*MarketDataService)(nil)
