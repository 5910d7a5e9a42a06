package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel domain errors.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrValidation        = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate resource")
	ErrConflict          = errors.New("conflict with current state")
	ErrLocationUnchanged = errors.New("destination location equals current location")
)

// InsufficientStockError rejects an issue or transfer that exceeds the
// available quantity. Requested and Available let the caller report exactly
// how far short the stock fell.
type InsufficientStockError struct {
	ItemID    string
	Condition string // empty for aggregate-only checks
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	if e.Condition != "" {
		return fmt.Sprintf("insufficient stock for item %s (%s): requested %s, available %s",
			e.ItemID, e.Condition, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for item %s: requested %s, available %s",
		e.ItemID, e.Requested, e.Available)
}

// OverReturnError rejects a return that exceeds the remaining returnable
// balance of the originating OUT transaction.
type OverReturnError struct {
	OriginTransactionID string
	Requested           decimal.Decimal
	Returnable          decimal.Decimal
}

func (e *OverReturnError) Error() string {
	return fmt.Sprintf("return of %s exceeds returnable balance %s on transaction %s",
		e.Requested, e.Returnable, e.OriginTransactionID)
}

// InvalidAuditStateError rejects an operation against an audit whose state
// does not admit it (double apply, count after cancel, apply before the
// walk is finished, ...).
type InvalidAuditStateError struct {
	AuditID string
	Status  string
	Reason  string
}

func (e *InvalidAuditStateError) Error() string {
	return fmt.Sprintf("audit %s in state %s: %s", e.AuditID, e.Status, e.Reason)
}

// ConcurrencyConflictError signals an optimistic-lock mismatch on an item
// update. The caller must retry from a fresh read, never re-apply the same
// delta blindly.
type ConcurrencyConflictError struct {
	ItemID string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrent update detected on item %s", e.ItemID)
}
