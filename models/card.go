package models

import "time"

type CardState string

const (
	CardStateOpen   CardState = "OPEN"
	CardStatePaused CardState = "PAUSED"
	CardStateClosed CardState = "CLOSED"
)

// CardFunding links a card to the brokerage account that backs it.
type CardFunding struct {
	AccountName  string `json:"account_name"`
	AccountToken string `json:"account_token"`
}

// VirtualCard is the card-issuing record returned alongside a new brokerage
// account. When the issuer is unreachable or unconfigured the service
// synthesizes this record locally; that fallback is a documented behavior,
// and callers cannot distinguish it by shape.
type VirtualCard struct {
	Token      string      `json:"token"`
	PAN        string      `json:"pan"`
	ExpMonth   string      `json:"exp_month"`
	ExpYear    string      `json:"exp_year"`
	CVV        string      `json:"cvv"`
	Type       string      `json:"type"`
	State      CardState   `json:"state"`
	SpendLimit int64       `json:"spend_limit"`
	Created    time.Time   `json:"created"`
	Funding    CardFunding `json:"funding"`
}
