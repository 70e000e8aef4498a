// Package client is a typed Go facade over the Matty HTTP API, mirroring
// the contracts the mobile app consumes.
package client

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

	"matty-api/models"

	"github.com/shopspring/decimal"
)

// APIError carries the server's error message and status code.
type APIError struct {
	StatusCode int
	Message    string
	// Required lists the missing fields on a 400 validation response.
	Required []string
}

func (e *APIError) Error() string {
	if len(e.Required) > 0 {
		return fmt.Sprintf("api error %d: %s (required: %s)", e.StatusCode, e.Message, strings.Join(e.Required, ", "))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to one Matty backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateAccount opens a brokerage account with its virtual card.
func (c *Client) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.CreateAccountResponse, error) {
	var resp models.CreateAccountResponse
	if err := c.do(ctx, http.MethodPost, "/api/create-alpaca-account", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccount returns the brokerage account record.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*models.BrokerAccount, error) {
	var account models.BrokerAccount
	if err := c.do(ctx, http.MethodGet, "/api/account/"+url.PathEscape(accountID), nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetBalance returns the cash/buying-power snapshot.
func (c *Client) GetBalance(ctx context.Context, accountID string) (*models.Balance, error) {
	var balance models.Balance
	if err := c.do(ctx, http.MethodGet, "/api/account/"+url.PathEscape(accountID)+"/balance", nil, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetPositions returns the account's open positions.
func (c *Client) GetPositions(ctx context.Context, accountID string) ([]models.Position, error) {
	var positions []models.Position
	if err := c.do(ctx, http.MethodGet, "/api/account/"+url.PathEscape(accountID)+"/positions", nil, nil, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// GetOrders returns order history filtered by status.
func (c *Client) GetOrders(ctx context.Context, accountID, status string, limit int) ([]models.Order, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/account/"+url.PathEscape(accountID)+"/orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetActivities returns the account activity log.
func (c *Client) GetActivities(ctx context.Context, accountID, activityType, date string) ([]models.Activity, error) {
	query := url.Values{}
	if activityType != "" {
		query.Set("activity_type", activityType)
	}
	if date != "" {
		query.Set("date", date)
	}

	var activities []models.Activity
	if err := c.do(ctx, http.MethodGet, "/api/account/"+url.PathEscape(accountID)+"/activities", query, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetPortfolioHistory returns the account's equity curve.
func (c *Client) GetPortfolioHistory(ctx context.Context, accountID, period, timeframe string) (*models.PortfolioHistory, error) {
	query := url.Values{}
	if period != "" {
		query.Set("period", period)
	}
	if timeframe != "" {
		query.Set("timeframe", timeframe)
	}

	var history models.PortfolioHistory
	if err := c.do(ctx, http.MethodGet, "/api/account/"+url.PathEscape(accountID)+"/portfolio-history", query, nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// ExecuteTrade submits an order.
func (c *Client) ExecuteTrade(ctx context.Context, req *models.TradeRequest) (*models.TradeResponse, error) {
	var resp models.TradeResponse
	if err := c.do(ctx, http.MethodPost, "/api/execute-trade", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelOrder cancels an open order.
func (c *Client) CancelOrder(ctx context.Context, accountID, orderID string) error {
	path := "/api/account/" + url.PathEscape(accountID) + "/orders/" + url.PathEscape(orderID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Transfer initiates an ACH transfer.
func (c *Client) Transfer(ctx context.Context, req *models.TransferRequest) (*models.TransferResponse, error) {
	var resp models.TransferResponse
	if err := c.do(ctx, http.MethodPost, "/api/transfer", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimulateAlgoTrading fetches the scripted demo activity feed.
func (c *Client) SimulateAlgoTrading(ctx context.Context, accountID string, amount decimal.Decimal) (*models.AlgoSimulationResponse, error) {
	body := map[string]any{"accountId": accountID, "amount": amount}
	var resp models.AlgoSimulationResponse
	if err := c.do(ctx, http.MethodPost, "/api/simulate-algo-trading", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetQuote returns the latest quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.MarketQuote, error) {
	var quote models.MarketQuote
	if err := c.do(ctx, http.MethodGet, "/api/market/quotes/"+url.PathEscape(symbol), nil, nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetWatchlist returns the watchlist snapshot.
func (c *Client) GetWatchlist(ctx context.Context) (map[string]models.WatchlistEntry, error) {
	var entries map[string]models.WatchlistEntry
	if err := c.do(ctx, http.MethodGet, "/api/market/watchlist", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetMarketStatus returns the market clock.
func (c *Client) GetMarketStatus(ctx context.Context) (*models.MarketStatus, error) {
	var status models.MarketStatus
	if err := c.do(ctx, http.MethodGet, "/api/market/status", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMarketCalendar returns upcoming trading days.
func (c *Client) GetMarketCalendar(ctx context.Context) ([]models.CalendarDay, error) {
	var days []models.CalendarDay
	if err := c.do(ctx, http.MethodGet, "/api/market/calendar", nil, nil, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// GetAsset returns one tradable asset by symbol.
func (c *Client) GetAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	var asset models.Asset
	if err := c.do(ctx, http.MethodGet, "/api/assets/"+url.PathEscape(symbol), nil, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// SearchAssets searches active US equities.
func (c *Client) SearchAssets(ctx context.Context, search string) ([]models.Asset, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	var assets []models.Asset
	if err := c.do(ctx, http.MethodGet, "/api/assets", query, nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// CreatePaymentIntent returns a client secret for the payment sheet.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	body := map[string]any{"amount": amountCents, "currency": currency}
	var resp struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := c.do(ctx, http.MethodPost, "/create-payment-intent", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.ClientSecret, nil
}

// Health returns the raw health document.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var health map[string]any
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &health); err != nil {
		return nil, err
	}
	return health, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	var wire struct {
		Error    string   `json:"error"`
		Message  string   `json:"message"`
		Required []string `json:"required"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &wire); err == nil && wire.Error != "" {
		apiErr.Message = wire.Error
		if wire.Message != "" {
			apiErr.Message = wire.Error + ": " + wire.Message
		}
		apiErr.Required = wire.Required
	}
	return apiErr
}
