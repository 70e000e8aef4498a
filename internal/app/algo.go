package app

import (
	"fmt"

	"matty-api/models"

	"github.com/shopspring/decimal"
)

// SimulateAlgoTrading returns a scripted intraday activity feed for demo
// screens. No orders are placed; the feed and the 3.1% profit figure are
// fabricated from the requested amount.
func (a *App) SimulateAlgoTrading(accountID string, amount decimal.Decimal) (*models.AlgoSimulationResponse, error) {
	var missing []string
	if accountID == "" {
		missing = append(missing, "accountId")
	}
	if amount.IsZero() {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return nil, models.NewMissingFieldsError(missing...)
	}
	if amount.Sign() <= 0 {
		return nil, models.NewValidationError("amount must be a positive number, got %s", amount.String())
	}

	aaplLeg := amount.Mul(decimal.NewFromFloat(0.4))
	tslaLeg := amount.Mul(decimal.NewFromFloat(0.3))
	profit := amount.Mul(decimal.NewFromFloat(0.031))

	activity := []models.AlgoActivityStep{
		{
			Time:   "09:30 AM",
			Action: "Funds moved to trading account",
			Amount: "$" + amount.String(),
			Type:   "deposit",
			Status: "completed",
		},
		{
			Time:   "09:45 AM",
			Action: "Algorithm identified opportunity in AAPL",
			Type:   "analysis",
			Status: "completed",
		},
		{
			Time:   "10:15 AM",
			Action: "Bought AAPL",
			Stock:  "AAPL",
			Amount: dollars(aaplLeg),
			Type:   "buy",
			Status: "completed",
		},
		{
			Time:   "11:30 AM",
			Action: "Bought TSLA",
			Stock:  "TSLA",
			Amount: dollars(tslaLeg),
			Type:   "buy",
			Status: "completed",
		},
		{
			Time:   "01:45 PM",
			Action: "Sold AAPL for profit",
			Stock:  "AAPL",
			Amount: dollars(aaplLeg.Mul(decimal.NewFromFloat(1.035))),
			Type:   "sell",
			Status: "completed",
		},
		{
			Time:   "02:30 PM",
			Action: "Sold TSLA for profit",
			Stock:  "TSLA",
			Amount: dollars(tslaLeg.Mul(decimal.NewFromFloat(1.028))),
			Type:   "sell",
			Status: "completed",
		},
		{
			Time:   "04:01 PM",
			Action: "Trading profits returned to Matty Card",
			Amount: dollars(profit),
			Type:   "return",
			Status: "completed",
		},
	}

	return &models.AlgoSimulationResponse{
		Success:     true,
		Activity:    activity,
		TotalProfit: profit.StringFixed(2),
		Message:     "Algorithmic trading simulation completed",
	}, nil
}

func dollars(d decimal.Decimal) string {
	return fmt.Sprintf("$%s", d.StringFixed(2))
}
