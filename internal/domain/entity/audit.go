package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Audit scope types.
const (
	AuditTypeFull       = "FULL"
	AuditTypeCategory   = "CATEGORY"
	AuditTypeLocation   = "LOCATION"
	AuditTypeSingleItem = "SINGLE_ITEM"
)

// Audit statuses. IN_PROGRESS is the only non-terminal state.
const (
	AuditStatusInProgress = "IN_PROGRESS"
	AuditStatusCompleted  = "COMPLETED"
	AuditStatusCancelled  = "CANCELLED"
)

// Discrepancy types for a counted item.
const (
	DiscrepancySurplus  = "SURPLUS"
	DiscrepancyShortage = "SHORTAGE"
	DiscrepancyMatch    = "MATCH"
)

// Audit is one physical-count session. The item-id snapshot and the cursor
// are persisted so an interrupted session resumes deterministically.
// CurrentItemID/CurrentSystemQty hold the item last presented to the counter
// together with the system quantity observed at presentation time; the
// recorded count is compared against that observation, never a re-read.
type Audit struct {
	ID               string
	Number           string // AUD-{date}-{seq}
	Type             string
	CategoryID       string // CATEGORY scope
	LocationID       string // LOCATION scope
	Status           string
	ItemIDs          []string // ordered snapshot resolved at start
	NextIndex        int      // cursor into ItemIDs
	CurrentItemID    string   // presented, not yet counted or skipped
	CurrentSystemQty decimal.Decimal
	TotalItems       int
	ItemsChecked     int
	ItemsWithDiff    int
	TotalShortage    decimal.Decimal
	TotalSurplus     decimal.Decimal
	CreatedBy        string
	AuditDate        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Exhausted reports whether the walk visited every snapshot item and no
// presented item awaits a count.
func (a *Audit) Exhausted() bool {
	return a.NextIndex >= len(a.ItemIDs) && a.CurrentItemID == ""
}

// AdjustmentNone marks a discrepant line that needed no ADJUST transaction
// because the item already sat at the counted value when the audit was
// applied.
const AdjustmentNone = "none"

// AuditItem is one counted line of an audit: the system quantity at
// presentation, the physically counted quantity and their signed difference.
// Written once; AdjustmentTxnID is filled when the reconciliation creates the
// corrective ADJUST transaction, which keeps apply resumable without
// duplicates.
type AuditItem struct {
	ID              string
	AuditID         string
	ItemID          string
	ItemCode        string // snapshot
	ItemName        string // snapshot
	SystemQuantity  decimal.Decimal
	ActualQuantity  decimal.Decimal
	Difference      decimal.Decimal // actual - system
	HasDiscrepancy  bool
	DiscrepancyType string
	AdjustmentTxnID string
	CreatedAt       time.Time
}

// ClassifyDifference returns the discrepancy type for a signed difference.
func ClassifyDifference(diff decimal.Decimal) string {
	switch {
	case diff.IsPositive():
		return DiscrepancySurplus
	case diff.IsNegative():
		return DiscrepancyShortage
	default:
		return DiscrepancyMatch
	}
}
