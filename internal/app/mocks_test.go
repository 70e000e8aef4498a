package app

import (
	"context"

	"matty-api/models"
	"matty-api/services"
)

// mockBroker records the last payloads it received so tests can assert on
// the normalized upstream requests.
type mockBroker struct {
	account      *models.BrokerAccount
	tradeAccount *models.TradeAccount
	order        *models.Order
	transfer     *models.Transfer
	err          error

	lastApplication *models.AccountApplication
	lastOrder       models.OrderPayload
	lastTransfer    models.TransferPayload
	lastActivityQ   services.ActivityQuery
	lastOrdersQ     struct {
		status string
		limit  int
	}
	lastHistoryQ struct {
		period    string
		timeframe string
	}
	canceled []string
}

func (m *mockBroker) CreateAccount(ctx context.Context, application *models.AccountApplication) (*models.BrokerAccount, error) {
	m.lastApplication = application
	return m.account, m.err
}

func (m *mockBroker) GetAccount(ctx context.Context, accountID string) (*models.BrokerAccount, error) {
	return m.account, m.err
}

func (m *mockBroker) GetTradeAccount(ctx context.Context, accountID string) (*models.TradeAccount, error) {
	return m.tradeAccount, m.err
}

func (m *mockBroker) GetPositions(ctx context.Context, accountID string) ([]models.Position, error) {
	return nil, m.err
}

func (m *mockBroker) GetOrders(ctx context.Context, accountID, status string, limit int) ([]models.Order, error) {
	m.lastOrdersQ.status = status
	m.lastOrdersQ.limit = limit
	return nil, m.err
}

func (m *mockBroker) CreateOrder(ctx context.Context, accountID string, payload models.OrderPayload) (*models.Order, error) {
	m.lastOrder = payload
	return m.order, m.err
}

func (m *mockBroker) CancelOrder(ctx context.Context, accountID, orderID string) error {
	m.canceled = append(m.canceled, orderID)
	return m.err
}

func (m *mockBroker) GetActivities(ctx context.Context, accountID string, q services.ActivityQuery) ([]models.Activity, error) {
	m.lastActivityQ = q
	return nil, m.err
}

func (m *mockBroker) GetPortfolioHistory(ctx context.Context, accountID, period, timeframe string) (*models.PortfolioHistory, error) {
	m.lastHistoryQ.period = period
	m.lastHistoryQ.timeframe = timeframe
	return &models.PortfolioHistory{Timeframe: timeframe}, m.err
}

func (m *mockBroker) CreateTransfer(ctx context.Context, accountID string, payload models.TransferPayload) (*models.Transfer, error) {
	m.lastTransfer = payload
	return m.transfer, m.err
}

func (m *mockBroker) GetAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	return &models.Asset{Symbol: symbol}, m.err
}

func (m *mockBroker) SearchAssets(ctx context.Context, q services.AssetQuery) ([]models.Asset, error) {
	return nil, m.err
}

type mockMarketData struct {
	quote *models.Quote
	bars  []models.Bar
	err   error
}

func (m *mockMarketData) GetLatestQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	return m.quote, m.err
}

func (m *mockMarketData) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	return m.bars, m.err
}

func (m *mockMarketData) GetClock(ctx context.Context) (*models.MarketStatus, error) {
	return &models.MarketStatus{IsOpen: true}, m.err
}

func (m *mockMarketData) GetCalendar(ctx context.Context) ([]models.CalendarDay, error) {
	return nil, m.err
}

type mockCardIssuer struct {
	card       *models.VirtualCard
	configured bool
	lastAcct   string
}

func (m *mockCardIssuer) Configured() bool { return m.configured }

func (m *mockCardIssuer) CreateVirtualCard(ctx context.Context, accountID string) *models.VirtualCard {
	m.lastAcct = accountID
	return m.card
}

type mockPayments struct {
	secret string
	err    error
}

func (m *mockPayments) Configured() bool { return true }

func (m *mockPayments) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	return m.secret, m.err
}

// Compile-time interface verification
var _ services.BrokerServiceInterface = (*mockBroker)(nil)
var _ services.MarketDataServiceInterface = (*mockMarketData)(nil)
var _ services.CardIssuerInterface = (*mockCardIssuer)(nil)
var _ services.PaymentServiceInterface = (*mockPayments)(nil)
