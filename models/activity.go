package models

// Activity mirrors one entry from the broker's account activity log.
type Activity struct {
	ID              string `json:"id"`
	ActivityType    string `json:"activity_type"`
	Date            string `json:"date,omitempty"`
	TransactionTime string `json:"transaction_time,omitempty"`
	NetAmount       string `json:"net_amount,omitempty"`
	Symbol          string `json:"symbol,omitempty"`
	Qty             string `json:"qty,omitempty"`
	Price           string `json:"price,omitempty"`
	Side            string `json:"side,omitempty"`
	Description     string `json:"description,omitempty"`
	Status          string `json:"status,omitempty"`
}

// PortfolioHistory is the broker's equity-curve series.
type PortfolioHistory struct {
	Timestamp     []int64   `json:"timestamp"`
	Equity        []float64 `json:"equity"`
	ProfitLoss    []float64 `json:"profit_loss"`
	ProfitLossPct []float64 `json:"profit_loss_pct"`
	BaseValue     float64   `json:"base_value"`
	Timeframe     string    `json:"timeframe"`
}

// Asset mirrors the broker's tradable asset record.
type Asset struct {
	ID           string `json:"id"`
	Class        string `json:"class,omitempty"`
	Exchange     string `json:"exchange"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	Tradable     bool   `json:"tradable"`
	Marginable   bool   `json:"marginable,omitempty"`
	Shortable    bool   `json:"shortable,omitempty"`
	EasyToBorrow bool   `json:"easy_to_borrow,omitempty"`
	Fractionable bool   `json:"fractionable,omitempty"`
}

// AlgoActivityStep is one line of the scripted demo trading feed. Demo-only:
// nothing here reflects real orders.
type AlgoActivityStep struct {
	Time   string `json:"time"`
	Action string `json:"action"`
	Stock  string `json:"stock,omitempty"`
	Amount string `json:"amount,omitempty"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// AlgoSimulationResponse is the scripted demo feed response.
type AlgoSimulationResponse struct {
	Success     bool               `json:"success"`
	Activity    []AlgoActivityStep `json:"activity"`
	TotalProfit string             `json:"total_profit"`
	Message     string             `json:"message"`
}
