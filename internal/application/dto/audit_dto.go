package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
)

// StartAuditRequest body for POST /api/audits.
type StartAuditRequest struct {
	Type       string `json:"type"` // FULL, CATEGORY, LOCATION, SINGLE_ITEM
	CategoryID string `json:"category_id,omitempty"`
	LocationID string `json:"location_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
}

// RecordCountRequest body for POST /api/audits/:id/counts.
type RecordCountRequest struct {
	ItemID         string          `json:"item_id"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
}

// AuditResponse is the public view of a count session.
type AuditResponse struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	Type          string          `json:"type"`
	CategoryID    string          `json:"category_id,omitempty"`
	LocationID    string          `json:"location_id,omitempty"`
	Status        string          `json:"status"`
	TotalItems    int             `json:"total_items"`
	ItemsChecked  int             `json:"items_checked"`
	ItemsWithDiff int             `json:"items_with_diff"`
	TotalShortage decimal.Decimal `json:"total_shortage"`
	TotalSurplus  decimal.Decimal `json:"total_surplus"`
	CreatedBy     string          `json:"created_by"`
	AuditDate     time.Time       `json:"audit_date"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FromAudit maps the entity to its response shape.
func FromAudit(a *entity.Audit) AuditResponse {
	return AuditResponse{
		ID:            a.ID,
		Number:        a.Number,
		Type:          a.Type,
		CategoryID:    a.CategoryID,
		LocationID:    a.LocationID,
		Status:        a.Status,
		TotalItems:    a.TotalItems,
		ItemsChecked:  a.ItemsChecked,
		ItemsWithDiff: a.ItemsWithDiff,
		TotalShortage: a.TotalShortage,
		TotalSurplus:  a.TotalSurplus,
		CreatedBy:     a.CreatedBy,
		AuditDate:     a.AuditDate,
		UpdatedAt:     a.UpdatedAt,
	}
}

// FromAudits maps a session slice.
func FromAudits(list []*entity.Audit) []AuditResponse {
	out := make([]AuditResponse, len(list))
	for i, a := range list {
		out[i] = FromAudit(a)
	}
	return out
}

// NextItemResponse is the counter's work unit: the item to count next, or
// exhausted=true when the walk is done.
type NextItemResponse struct {
	Exhausted bool          `json:"exhausted"`
	Item      *ItemResponse `json:"item,omitempty"`
	Audit     AuditResponse `json:"audit"`
}

// AuditItemResponse is one counted line.
type AuditItemResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name"`
	SystemQuantity  decimal.Decimal `json:"system_quantity"`
	ActualQuantity  decimal.Decimal `json:"actual_quantity"`
	Difference      decimal.Decimal `json:"difference"`
	HasDiscrepancy  bool            `json:"has_discrepancy"`
	DiscrepancyType string          `json:"discrepancy_type"`
	AdjustmentTxnID string          `json:"adjustment_txn_id,omitempty"`
}

// FromAuditItem maps the entity to its response shape.
func FromAuditItem(it *entity.AuditItem) AuditItemResponse {
	return AuditItemResponse{
		ID:              it.ID,
		ItemID:          it.ItemID,
		ItemCode:        it.ItemCode,
		ItemName:        it.ItemName,
		SystemQuantity:  it.SystemQuantity,
		ActualQuantity:  it.ActualQuantity,
		Difference:      it.Difference,
		HasDiscrepancy:  it.HasDiscrepancy,
		DiscrepancyType: it.DiscrepancyType,
		AdjustmentTxnID: it.AdjustmentTxnID,
	}
}

// FromAuditItems maps a counted-line slice.
func FromAuditItems(list []*entity.AuditItem) []AuditItemResponse {
	out := make([]AuditItemResponse, len(list))
	for i, it := range list {
		out[i] = FromAuditItem(it)
	}
	return out
}
