package services

import (
	"context"

	"matty-api/models"
)

// BrokerServiceInterface defines the interface for brokerage account,
// trading and money-movement operations
type BrokerServiceInterface interface {
	// Account operations
	CreateAccount(ctx context.Context, application *models.AccountApplication) (*models.BrokerAccount, error)
	GetAccount(ctx context.Context, accountID string) (*models.BrokerAccount, error)
	GetTradeAccount(ctx context.Context, accountID string) (*models.TradeAccount, error)

	// Trading operations
	GetPositions(ctx context.Context, accountID string) ([]models.Position, error)
	GetOrders(ctx context.Context, accountID, status string, limit int) ([]models.Order, error)
	CreateOrder(ctx context.Context, accountID string, payload models.OrderPayload) (*models.Order, error)
	CancelOrder(ctx context.Context, accountID, orderID string) error

	// History operations
	GetActivities(ctx context.Context, accountID string, q ActivityQuery) ([]models.Activity, error)
	GetPortfolioHistory(ctx context.Context, accountID, period, timeframe string) (*models.PortfolioHistory, error)

	// Money movement
	CreateTransfer(ctx context.Context, accountID string, payload models.TransferPayload) (*models.Transfer, error)

	// Asset operations
	GetAsset(ctx context.Context, symbol string) (*models.Asset, error)
	SearchAssets(ctx context.Context, q AssetQuery) ([]models.Asset, error)
}

// MarketDataServiceInterface defines the interface for market data operations
type MarketDataServiceInterface interface {
	GetLatestQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error)
	GetClock(ctx context.Context) (*models.MarketStatus, error)
	GetCalendar(ctx context.Context) ([]models.CalendarDay, error)
}

// CardIssuerInterface defines the interface for virtual card provisioning
type CardIssuerInterface interface {
	Configured() bool
	CreateVirtualCard(ctx context.Context, accountID string) *models.VirtualCard
}

// PaymentServiceInterface defines the interface for payment intent creation
type PaymentServiceInterface interface {
	Configured() bool
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}
