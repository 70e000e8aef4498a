package models

// Position mirrors the broker's position record for an (account, symbol)
// pair. Derived entirely upstream and recomputed on every fetch; quantity
// may be fractional, so every numeric field stays a decimal string.
type Position struct {
	AssetID        string `json:"asset_id"`
	Symbol         string `json:"symbol"`
	Exchange       string `json:"exchange,omitempty"`
	AssetClass     string `json:"asset_class,omitempty"`
	Qty            string `json:"qty"`
	Side           string `json:"side"`
	MarketValue    string `json:"market_value"`
	CostBasis      string `json:"cost_basis"`
	UnrealizedPL   string `json:"unrealized_pl"`
	UnrealizedPLPC string `json:"unrealized_plpc"`
	CurrentPrice   string `json:"current_price"`
	AvgEntryPrice  string `json:"avg_entry_price"`
	LastdayPrice   string `json:"lastday_price,omitempty"`
	ChangeToday    string `json:"change_today,omitempty"`
}
