package app

import (
	"context"
	"strings"

	"matty-api/models"
	"matty-api/services"
)

// GetQuote returns the latest quote for a symbol.
func (a *App) GetQuote(ctx context.Context, symbol string) (*models.MarketQuote, error) {
	if symbol == "" {
		return nil, models.NewMissingFieldsError("symbol")
	}

	quote, err := a.marketData.GetLatestQuote(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, err
	}

	bid, _ := quote.Bid.Float64()
	ask, _ := quote.Ask.Float64()
	return &models.MarketQuote{
		Symbol:    quote.Symbol,
		BidPrice:  bid,
		AskPrice:  ask,
		BidSize:   quote.BidSize,
		AskSize:   quote.AskSize,
		Timestamp: quote.Timestamp,
	}, nil
}

// GetWatchlist returns the symbol-keyed day-over-day snapshot for every
// configured watchlist symbol. Individual symbol failures degrade to
// synthetic entries; this never errors.
func (a *App) GetWatchlist(ctx context.Context) map[string]models.WatchlistEntry {
	return a.watchlist.Snapshot(ctx)
}

// GetMarketStatus returns the market clock.
func (a *App) GetMarketStatus(ctx context.Context) (*models.MarketStatus, error) {
	return a.marketData.GetClock(ctx)
}

// GetMarketCalendar returns the upcoming trading days.
func (a *App) GetMarketCalendar(ctx context.Context) ([]models.CalendarDay, error) {
	return a.marketData.GetCalendar(ctx)
}

// GetAsset returns one tradable asset by symbol.
func (a *App) GetAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	if symbol == "" {
		return nil, models.NewMissingFieldsError("symbol")
	}
	return a.broker.GetAsset(ctx, strings.ToUpper(symbol))
}

// SearchAssets searches active US equities by name or symbol fragment.
func (a *App) SearchAssets(ctx context.Context, search string) ([]models.Asset, error) {
	return a.broker.SearchAssets(ctx, services.AssetQuery{Search: search})
}
