package mocks

// The market-data shapes below mirror the Alpaca data API wire format
// consumed by the SDK client, not this service's own models.

// QuoteWire is one NBBO quote in data-API format.
type QuoteWire struct {
	Timestamp   string   `json:"t"`
	BidExchange string   `json:"bx"`
	BidPrice    float64  `json:"bp"`
	BidSize     uint32   `json:"bs"`
	AskExchange string   `json:"ax"`
	AskPrice    float64  `json:"ap"`
	AskSize     uint32   `json:"as"`
	Conditions  []string `json:"c"`
	Tape        string   `json:"z"`
}

// BarWire is one OHLCV bar in data-API format.
type BarWire struct {
	Timestamp  string  `json:"t"`
	Open       float64 `json:"o"`
	High       float64 `json:"h"`
	Low        float64 `json:"l"`
	Close      float64 `json:"c"`
	Volume     uint64  `json:"v"`
	TradeCount uint64  `json:"n"`
	VWAP       float64 `json:"vw"`
}

// ClockWire is the trading-API market clock.
type ClockWire struct {
	Timestamp string `json:"timestamp"`
	IsOpen    bool   `json:"is_open"`
	NextOpen  string `json:"next_open"`
	NextClose string `json:"next_close"`
}

// CalendarDayWire is one trading-API calendar day.
type CalendarDayWire struct {
	Date  string `json:"date"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

// BrokerAccountWire is the broker-API account record. It carries both the
// identity fields and the trading balances so one response serves the
// account read and the balance read.
type BrokerAccountWire struct {
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
	CreatedAt                string `json:"created_at"`
}

// CardWire is a card record in issuer-API format.
type CardWire struct {
	Token      string `json:"token"`
	PAN        string `json:"pan"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	CVV        string `json:"cvv"`
	Type       string `json:"type"`
	State      string `json:"state"`
	SpendLimit int64  `json:"spend_limit"`
	Created    string `json:"created"`
}
