package app

import (
	"context"
	"fmt"
	"strings"

	"matty-api/models"
	"matty-api/observability"
)

// ExecuteTrade validates, normalizes and submits an order for the account.
func (a *App) ExecuteTrade(ctx context.Context, req *models.TradeRequest) (*models.TradeResponse, error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	payload := req.Normalize()
	order, err := a.broker.CreateOrder(ctx, req.AccountID, payload)
	if err != nil {
		return nil, err
	}

	observability.GetMetrics().RecordOrderSubmitted(payload.Side, payload.Type)
	observability.Info("order submitted",
		"account_id", req.AccountID,
		"symbol", payload.Symbol,
		"side", payload.Side,
		"qty", payload.Qty)

	return &models.TradeResponse{
		Success: true,
		Order:   order,
		Message: fmt.Sprintf("%s order for %s shares of %s submitted successfully",
			strings.ToUpper(payload.Side), payload.Qty, payload.Symbol),
	}, nil
}

// CancelOrder cancels an open order.
func (a *App) CancelOrder(ctx context.Context, accountID, orderID string) error {
	if accountID == "" {
		return models.NewMissingFieldsError("accountId")
	}
	if orderID == "" {
		return models.NewMissingFieldsError("orderId")
	}
	return a.broker.CancelOrder(ctx, accountID, orderID)
}

// InitiateTransfer starts an ACH transfer for the account. The bank
// relationship defaults to the configured placeholder when absent.
func (a *App) InitiateTransfer(ctx context.Context, req *models.TransferRequest) (*models.TransferResponse, error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	bankID := req.BankID
	if bankID == "" {
		bankID = a.cfg.Alpaca.DefaultBankRelationshipID
	}

	transfer, err := a.broker.CreateTransfer(ctx, req.AccountID, models.TransferPayload{
		TransferType:   "ach",
		RelationshipID: bankID,
		Amount:         req.Amount.String(),
		Direction:      req.Direction,
	})
	if err != nil {
		return nil, err
	}

	observability.Info("transfer initiated",
		"account_id", req.AccountID,
		"amount", req.Amount.String(),
		"direction", req.Direction)

	return &models.TransferResponse{
		Success:  true,
		Transfer: transfer,
		Message:  "Transfer initiated successfully. Funds will arrive within 1-2 business days.",
	}, nil
}
