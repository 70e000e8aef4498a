package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"matty-api/config"
	"matty-api/models"
	"matty-api/observability"
)

const brokerProvider = "alpaca_broker"

// BrokerService handles communication with the Alpaca Broker API: account
// lifecycle, trading, transfers, activities, and asset lookups. Every call
// goes through the per-provider token bucket, the circuit breaker, and the
// bounded-retry policy, in that order.
type BrokerService struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	limiter    *ProviderLimiter
	retry      RetryConfig
}

// NewBrokerService creates a new BrokerService instance.
func NewBrokerService(cfg *config.Config, limiter *ProviderLimiter) *BrokerService {
	retry := DefaultRetryConfig
	retry.MaxRetries = cfg.Upstream.MaxRetries

	return &BrokerService{
		apiKey:     cfg.Alpaca.APIKey,
		apiSecret:  cfg.Alpaca.APISecret,
		baseURL:    strings.TrimRight(cfg.Alpaca.BrokerBaseURL, "/"),
		httpClient: &http.Client{Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second},
		limiter:    limiter,
		retry:      retry,
	}
}

// CreateAccount submits a full account application to the broker.
func (s *BrokerService) CreateAccount(ctx context.Context, application *models.AccountApplication) (*models.BrokerAccount, error) {
	var account models.BrokerAccount
	if err := s.call(ctx, "create_account", http.MethodPost, "/v1/accounts", nil, application, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccount returns the broker's account record.
func (s *BrokerService) GetAccount(ctx context.Context, accountID string) (*models.BrokerAccount, error) {
	var account models.BrokerAccount
	path := "/v1/accounts/" + url.PathEscape(accountID)
	if err := s.call(ctx, "get_account", http.MethodGet, path, nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetTradeAccount returns the account record with its balance fields, which
// arrive as decimal strings and feed the reshaped balance snapshot.
func (s *BrokerService) GetTradeAccount(ctx context.Context, accountID string) (*models.TradeAccount, error) {
	var account models.TradeAccount
	path := "/v1/accounts/" + url.PathEscape(accountID)
	if err := s.call(ctx, "get_balance", http.MethodGet, path, nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetPositions returns the account's open positions.
func (s *BrokerService) GetPositions(ctx context.Context, accountID string) ([]models.Position, error) {
	positions := []models.Position{}
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/positions"
	if err := s.call(ctx, "get_positions", http.MethodGet, path, nil, nil, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// GetOrders returns the account's order history, optionally filtered by
// status. The broker treats limit as a page cap.
func (s *BrokerService) GetOrders(ctx context.Context, accountID, status string, limit int) ([]models.Order, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if status != "" {
		query.Set("status", status)
	}

	orders := []models.Order{}
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/orders"
	if err := s.call(ctx, "get_orders", http.MethodGet, path, query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder submits a normalized order payload for the account.
func (s *BrokerService) CreateOrder(ctx context.Context, accountID string, payload models.OrderPayload) (*models.Order, error) {
	var order models.Order
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/orders"
	if err := s.call(ctx, "create_order", http.MethodPost, path, nil, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder asks the broker to cancel an order. The broker rejects the
// cancel if the order is already filled or otherwise not cancelable.
func (s *BrokerService) CancelOrder(ctx context.Context, accountID, orderID string) error {
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/orders/" + url.PathEscape(orderID)
	return s.call(ctx, "cancel_order", http.MethodDelete, path, nil, nil, nil)
}

// ActivityQuery filters the account activity log.
type ActivityQuery struct {
	ActivityType string
	Date         string
	PageSize     int
}

// GetActivities returns the account's activity log.
func (s *BrokerService) GetActivities(ctx context.Context, accountID string, q ActivityQuery) ([]models.Activity, error) {
	if q.PageSize <= 0 {
		q.PageSize = 100
	}
	query := url.Values{}
	query.Set("page_size", strconv.Itoa(q.PageSize))
	if q.ActivityType != "" {
		query.Set("activity_type", q.ActivityType)
	}
	if q.Date != "" {
		query.Set("date", q.Date)
	}

	activities := []models.Activity{}
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/activities"
	if err := s.call(ctx, "get_activities", http.MethodGet, path, query, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetPortfolioHistory returns the account's equity curve.
func (s *BrokerService) GetPortfolioHistory(ctx context.Context, accountID, period, timeframe string) (*models.PortfolioHistory, error) {
	query := url.Values{}
	query.Set("period", period)
	query.Set("timeframe", timeframe)

	var history models.PortfolioHistory
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/portfolio/history"
	if err := s.call(ctx, "get_portfolio_history", http.MethodGet, path, query, nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// CreateTransfer initiates an ACH transfer for the account.
func (s *BrokerService) CreateTransfer(ctx context.Context, accountID string, payload models.TransferPayload) (*models.Transfer, error) {
	var transfer models.Transfer
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/transfers"
	if err := s.call(ctx, "create_transfer", http.MethodPost, path, nil, payload, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

// GetAsset returns the broker's record for one tradable asset.
func (s *BrokerService) GetAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	var asset models.Asset
	path := "/v1/assets/" + url.PathEscape(symbol)
	if err := s.call(ctx, "get_asset", http.MethodGet, path, nil, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// AssetQuery filters asset search.
type AssetQuery struct {
	Search     string
	Status     string
	AssetClass string
}

// SearchAssets searches the broker's tradable assets.
func (s *BrokerService) SearchAssets(ctx context.Context, q AssetQuery) ([]models.Asset, error) {
	if q.Status == "" {
		q.Status = "active"
	}
	if q.AssetClass == "" {
		q.AssetClass = "us_equity"
	}
	query := url.Values{}
	query.Set("status", q.Status)
	query.Set("asset_class", q.AssetClass)
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	assets := []models.Asset{}
	if err := s.call(ctx, "search_assets", http.MethodGet, "/v1/assets", query, nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// call runs one broker operation through the token bucket, circuit breaker,
// and retry policy.
func (s *BrokerService) call(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	if err := s.limiter.Wait(ctx, brokerProvider); err != nil {
		return err
	}

	_, err := WithCircuitBreaker(ctx, BreakerAlpacaBroker, func() (struct{}, error) {
		err := WithRetry(ctx, s.retry, func() error {
			return s.do(ctx, operation, method, path, query, body, out)
		})
		return struct{}{}, err
	})
	return err
}

func (s *BrokerService) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	metrics := observability.GetMetrics()
	metrics.RecordUpstreamRequest(brokerProvider, operation)
	timer := metrics.NewTimer()
	defer timer.ObserveUpstream(brokerProvider, operation)

	reqURL := s.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", operation, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.SetBasicAuth(s.apiKey, s.apiSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamError(brokerProvider, operation, "network")
		return &models.UpstreamError{Provider: brokerProvider, Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		metrics.RecordUpstreamError(brokerProvider, operation, strconv.Itoa(resp.StatusCode))
		observability.WithProvider(brokerProvider).Error("upstream call failed",
			"operation", operation,
			"status", resp.StatusCode,
			"body", string(raw))
		return &models.UpstreamError{
			Provider:   brokerProvider,
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordUpstreamError(brokerProvider, operation, "decode")
		return &models.UpstreamError{Provider: brokerProvider, Operation: operation, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// Compile-time interface verification
var _ BrokerServiceInterface = (*BrokerService)(nil)
