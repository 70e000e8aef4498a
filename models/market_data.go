package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents real-time quote data for a symbol.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Bid       decimal.Decimal `json:"bid"`
	Ask       decimal.Decimal `json:"ask"`
	BidSize   int64           `json:"bid_size"`
	AskSize   int64           `json:"ask_size"`
	Timestamp time.Time       `json:"timestamp"`
}

// Bar represents OHLCV price data for a time period.
type Bar struct {
	Symbol    string          `json:"symbol"`
	Timestamp time.Time       `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
	VWAP      decimal.Decimal `json:"vwap"`
}

// MarketQuote is the wire shape for the single-quote endpoint.
type MarketQuote struct {
	Symbol    string    `json:"symbol"`
	BidPrice  float64   `json:"bid_price"`
	AskPrice  float64   `json:"ask_price"`
	BidSize   int64     `json:"bid_size"`
	AskSize   int64     `json:"ask_size"`
	Timestamp time.Time `json:"timestamp"`
}

// WatchlistEntry is one symbol's day-over-day snapshot. Ephemeral: clients
// poll; nothing is persisted.
type WatchlistEntry struct {
	Symbol        string    `json:"symbol"`
	CurrentPrice  float64   `json:"current_price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

// MarketStatus is the upstream clock snapshot.
type MarketStatus struct {
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
	Timestamp time.Time `json:"timestamp"`
}

// CalendarDay is one upcoming trading day.
type CalendarDay struct {
	Date  string `json:"date"`
	Open  string `json:"open"`
	Close string `json:"close"`
}
