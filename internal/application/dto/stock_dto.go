package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
)

// ReceiptRequest body for POST /api/stock/receipts.
type ReceiptRequest struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Condition string          `json:"condition,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// IssueRequest body for POST /api/stock/issues.
type IssueRequest struct {
	ItemID       string          `json:"item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Condition    string          `json:"condition,omitempty"`
	EmployeeID   string          `json:"employee_id,omitempty"`
	EquipmentID  string          `json:"equipment_id,omitempty"`
	ProjectID    string          `json:"project_id,omitempty"`
	ToLocationID string          `json:"to_location_id,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// TransferRequest body for POST /api/stock/transfers.
type TransferRequest struct {
	ItemID       string `json:"item_id"`
	ToLocationID string `json:"to_location_id"`
	Notes        string `json:"notes,omitempty"`
}

// ReturnRequest body for POST /api/stock/returns.
type ReturnRequest struct {
	OriginTransactionID string          `json:"origin_transaction_id"`
	Quantity            decimal.Decimal `json:"quantity"`
	Notes               string          `json:"notes,omitempty"`
}

// AdjustmentRequest body for POST /api/stock/adjustments.
type AdjustmentRequest struct {
	ItemID         string          `json:"item_id"`
	TargetQuantity decimal.Decimal `json:"target_quantity"`
	Notes          string          `json:"notes,omitempty"`
}

// TransactionResponse is one stock-ledger row.
type TransactionResponse struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	ItemID          string          `json:"item_id"`
	Type            string          `json:"type"`
	Condition       string          `json:"condition,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	QuantityBefore  decimal.Decimal `json:"quantity_before"`
	QuantityAfter   decimal.Decimal `json:"quantity_after"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	FromLocationID  string          `json:"from_location_id,omitempty"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	OriginTxnID     string          `json:"origin_transaction_id,omitempty"`
	EmployeeID      string          `json:"employee_id,omitempty"`
	EquipmentID     string          `json:"equipment_id,omitempty"`
	ProjectID       string          `json:"project_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       string          `json:"created_by"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// FromTransaction maps the entity to its response shape.
func FromTransaction(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Number:          t.Number,
		ItemID:          t.ItemID,
		Type:            t.Type,
		Condition:       string(t.Condition),
		Quantity:        t.Quantity,
		QuantityBefore:  t.QuantityBefore,
		QuantityAfter:   t.QuantityAfter,
		UnitPrice:       t.UnitPrice,
		FromLocationID:  t.FromLocationID,
		ToLocationID:    t.ToLocationID,
		OriginTxnID:     t.OriginTxnID,
		EmployeeID:      t.EmployeeID,
		EquipmentID:     t.EquipmentID,
		ProjectID:       t.ProjectID,
		Notes:           t.Notes,
		CreatedBy:       t.CreatedBy,
		TransactionDate: t.TransactionDate,
	}
}

// FromTransactions maps a ledger slice.
func FromTransactions(list []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(list))
	for i, t := range list {
		out[i] = FromTransaction(t)
	}
	return out
}
