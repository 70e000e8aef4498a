package models

import "github.com/shopspring/decimal"

type TransferDirection string

const (
	TransferIncoming TransferDirection = "INCOMING"
	TransferOutgoing TransferDirection = "OUTGOING"
)

// Transfer mirrors the broker's ACH transfer record. Created once, never
// mutated locally; settlement happens upstream over 1-2 business days.
type Transfer struct {
	ID             string `json:"id"`
	AccountID      string `json:"account_id,omitempty"`
	RelationshipID string `json:"relationship_id,omitempty"`
	Type           string `json:"type,omitempty"`
	Amount         string `json:"amount"`
	Direction      string `json:"direction"`
	Status         string `json:"status,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// TransferRequest is the inbound ACH transfer contract.
type TransferRequest struct {
	AccountID string          `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
	BankID    string          `json:"bank_id,omitempty"`
}

// MissingFields returns the absent required fields in wire-contract order.
func (r *TransferRequest) MissingFields() []string {
	var missing []string
	if r.AccountID == "" {
		missing = append(missing, "accountId")
	}
	if r.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if r.Direction == "" {
		missing = append(missing, "direction")
	}
	return missing
}

// Validate checks the request locally before anything is sent upstream.
func (r *TransferRequest) Validate() *ValidationError {
	if missing := r.MissingFields(); len(missing) > 0 {
		return NewMissingFieldsError(missing...)
	}
	if r.Amount.Sign() <= 0 {
		return NewValidationError("amount must be a positive number, got %s", r.Amount.String())
	}
	switch TransferDirection(r.Direction) {
	case TransferIncoming, TransferOutgoing:
	default:
		return NewValidationError("direction must be INCOMING or OUTGOING, got %q", r.Direction)
	}
	return nil
}

// TransferPayload is the normalized broker submission.
type TransferPayload struct {
	TransferType   string `json:"transfer_type"`
	RelationshipID string `json:"relationship_id"`
	Amount         string `json:"amount"`
	Direction      string `json:"direction"`
}

// TransferResponse acknowledges initiation; settlement is upstream's job.
type TransferResponse struct {
	Success  bool      `json:"success"`
	Transfer *Transfer `json:"transfer"`
	Message  string    `json:"message"`
}
