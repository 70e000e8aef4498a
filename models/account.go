package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the broker-owned account lifecycle state. This service
// never transitions it; it only surfaces the upstream view.
type AccountStatus string

const (
	AccountStatusSubmitted      AccountStatus = "SUBMITTED"
	AccountStatusActionRequired AccountStatus = "ACTION_REQUIRED"
	AccountStatusApproved       AccountStatus = "APPROVED"
	AccountStatusActive         AccountStatus = "ACTIVE"
	AccountStatusRejected       AccountStatus = "REJECTED"
	AccountStatusDisabled       AccountStatus = "DISABLED"
	AccountStatusClosed         AccountStatus = "ACCOUNT_CLOSED"
)

// BrokerAccount mirrors the broker's account record. Monetary fields stay
// decimal strings exactly as the upstream sends them.
type BrokerAccount struct {
	ID            string        `json:"id"`
	AccountNumber string        `json:"account_number"`
	Status        AccountStatus `json:"status"`
	CryptoStatus  string        `json:"crypto_status,omitempty"`
	Currency      string        `json:"currency"`
	Cash          string        `json:"cash,omitempty"`
	BuyingPower   string        `json:"buying_power,omitempty"`
	LastEquity    string        `json:"last_equity,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	AccountType   string        `json:"account_type,omitempty"`
	Contact       *Contact      `json:"contact,omitempty"`
	Identity      *Identity     `json:"identity,omitempty"`
}

// TradeAccount is the trading-side account record the balance snapshot is
// derived from. All balances arrive as decimal strings.
type TradeAccount struct {
	ID                       string `json:"id"`
	AccountNumber            string `json:"account_number"`
	Status                   string `json:"status"`
	Currency                 string `json:"currency"`
	Cash                     string `json:"cash"`
	BuyingPower              string `json:"buying_power"`
	RegTBuyingPower          string `json:"regt_buying_power"`
	DaytradingBuyingPower    string `json:"daytrading_buying_power"`
	NonMarginableBuyingPower string `json:"non_marginable_buying_power"`
	Equity                   string `json:"equity"`
	LastEquity               string `json:"last_equity"`
}

// Balance is the reshaped snapshot returned to clients: the only read where
// upstream decimal strings are coerced to numbers.
type Balance struct {
	AccountID                string    `json:"account_id"`
	Cash                     float64   `json:"cash"`
	BuyingPower              float64   `json:"buying_power"`
	RegTBuyingPower          float64   `json:"regt_buying_power"`
	DaytradingBuyingPower    float64   `json:"daytrading_buying_power"`
	NonMarginableBuyingPower float64   `json:"non_marginable_buying_power"`
	LastUpdated              time.Time `json:"last_updated"`
}

// BalanceFromTradeAccount coerces the upstream decimal strings into numeric
// values. Unparseable or absent fields collapse to zero, matching the
// upstream invariant that balances are non-negative decimal strings.
func BalanceFromTradeAccount(accountID string, acct *TradeAccount, now time.Time) Balance {
	return Balance{
		AccountID:                accountID,
		Cash:                     coerceDecimal(acct.Cash),
		BuyingPower:              coerceDecimal(acct.BuyingPower),
		RegTBuyingPower:          coerceDecimal(acct.RegTBuyingPower),
		DaytradingBuyingPower:    coerceDecimal(acct.DaytradingBuyingPower),
		NonMarginableBuyingPower: coerceDecimal(acct.NonMarginableBuyingPower),
		LastUpdated:              now,
	}
}

func coerceDecimal(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
