package app

import (
	"context"
	"time"

	"matty-api/config"
	"matty-api/marketwatch"
	"matty-api/models"
	"matty-api/observability"
	"matty-api/services"

	"github.com/go-playground/validator/v10"
)

// App struct holds application dependencies using interfaces for testability
type App struct {
	cfg        *config.Config
	broker     services.BrokerServiceInterface
	marketData services.MarketDataServiceInterface
	cards      services.CardIssuerInterface
	payments   services.PaymentServiceInterface
	watchlist  *marketwatch.Aggregator
	validate   *validator.Validate
}

// New creates a new App application struct
func New(cfg *config.Config, broker services.BrokerServiceInterface, marketData services.MarketDataServiceInterface, cards services.CardIssuerInterface, payments services.PaymentServiceInterface) *App {
	return &App{
		cfg:        cfg,
		broker:     broker,
		marketData: marketData,
		cards:      cards,
		payments:   payments,
		watchlist:  marketwatch.NewAggregator(marketData, cfg.Watchlist.Symbols),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateAccount opens a brokerage account and provisions its virtual card.
// Card issuance is best-effort: a failed or unconfigured issuer degrades to
// a synthesized card and never rolls the account back.
func (a *App) CreateAccount(ctx context.Context, req *models.CreateAccountRequest, callerIP string) (*models.CreateAccountResponse, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, models.NewMissingFieldsError(missing...)
	}

	application := a.buildApplication(req, callerIP, time.Now().UTC())
	if err := a.validate.Struct(application); err != nil {
		return nil, models.NewValidationError("invalid account application: %v", err)
	}

	account, err := a.broker.CreateAccount(ctx, application)
	if err != nil {
		return nil, err
	}

	observability.Info("brokerage account created",
		"account_id", account.ID,
		"account_number", account.AccountNumber)

	card := a.cards.CreateVirtualCard(ctx, account.ID)

	return &models.CreateAccountResponse{
		Success:       true,
		AlpacaAccount: account,
		VirtualCard:   card,
		Message:       "Account created successfully. Virtual card will be available shortly.",
	}, nil
}

// GetAccount returns the brokerage account record.
func (a *App) GetAccount(ctx context.Context, accountID string) (*models.BrokerAccount, error) {
	if accountID == "" {
		return nil, models.NewMissingFieldsError("accountId")
	}
	return a.broker.GetAccount(ctx, accountID)
}

// GetBalance returns the account's buying power figures as numbers.
func (a *App) GetBalance(ctx context.Context, accountID string) (*models.Balance, error) {
	if accountID == "" {
		return nil, models.NewMissingFieldsError("accountId")
	}

	acct, err := a.broker.GetTradeAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	balance := models.BalanceFromTradeAccount(accountID, acct, time.Now().UTC())
	return &balance, nil
}

// GetPositions returns the account's open positions.
func (a *App) GetPositions(ctx context.Context, accountID string) ([]models.Position, error) {
	if accountID == "" {
		return nil, models.NewMissingFieldsError("accountId")
	}
	return a.broker.GetPositions(ctx, accountID)
}

// GetOrders returns the account's orders. An empty status is not forwarded,
// leaving the broker's own default filter in effect.
func (a *App) GetOrders(ctx context.Context, accountID, status string, limit int) ([]models.Order, error) {
	if accountID == "" {
		return nil, models.NewMissingFieldsError("accountId")
	}
	if limit <= 0 {
		limit = 50
	}
	return a.broker.GetOrders(ctx, accountID, status, limit)
}

// GetActivities returns the account's activity log.
func (a *App) GetActivities(ctx context.Context, accountID, activityType, date string) ([]models.Activity, error) {
	if accountID == "" {
		return nil, models.NewMissingFieldsError("accountId")
	}
	return a.broker.GetActivities(ctx, accountID, services.ActivityQuery{
		ActivityType: activityType,
		Date:         date,
		PageSize:     100,
	})
}

// GetPortfolioHistory returns the account's equity curve.
func (a *App) GetPortfolioHistory(ctx context.Context, accountID, period, timeframe string) (*models.PortfolioHistory, error) {
	if accountID == "" {
		return nil, models.NewMissingFieldsError("accountId")
	}
	if period == "" {
		period = "1D"
	}
	if timeframe == "" {
		timeframe = "1Min"
	}
	return a.broker.GetPortfolioHistory(ctx, accountID, period, timeframe)
}

// CreatePaymentIntent creates a payment intent for funding flows.
func (a *App) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if amount <= 0 {
		return "", models.NewValidationError("amount must be a positive number of cents, got %d", amount)
	}
	return a.payments.CreatePaymentIntent(ctx, amount, currency)
}

// Health reports provider configuration and circuit breaker states.
func (a *App) Health() map[string]any {
	return map[string]any{
		"status":            "ok",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"alpaca_configured": a.cfg.HasAlpaca(),
		"lithic_configured": a.cfg.HasLithic(),
		"stripe_configured": a.cfg.HasStripe(),
		"circuit_breakers":  services.GetGlobalRegistry().Status(),
	}
}
