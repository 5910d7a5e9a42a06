package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock transaction types.
const (
	TransactionTypeIN       = "IN"       // receipt
	TransactionTypeOUT      = "OUT"      // issue
	TransactionTypeTRANSFER = "TRANSFER" // relocation between storage locations
	TransactionTypeRETURN   = "RETURN"   // reversal of a prior OUT
	TransactionTypeADJUST   = "ADJUST"   // audit reconciliation overwrite
)

// TransactionTypeValid reports whether t is one of the five ledger types.
func TransactionTypeValid(t string) bool {
	switch t {
	case TransactionTypeIN, TransactionTypeOUT, TransactionTypeTRANSFER,
		TransactionTypeRETURN, TransactionTypeADJUST:
		return true
	}
	return false
}

// Transaction is one append-only stock-ledger record. Quantity is always a
// positive magnitude; the type determines the sign of its effect.
// QuantityAfter is fully determined by QuantityBefore, Quantity and Type.
// Rows are written once, atomically with the paired item update, and never
// rewritten or deleted.
type Transaction struct {
	ID              string
	Number          string // unique, {TYPE}-{date}-{seq}
	ItemID          string
	Type            string
	Condition       Condition // bucket the movement touched; ConditionNone for aggregate-only
	Quantity        decimal.Decimal
	QuantityBefore  decimal.Decimal
	QuantityAfter   decimal.Decimal
	UnitPrice       decimal.Decimal // snapshot at transaction time
	FromLocationID  string
	ToLocationID    string
	OriginTxnID     string // RETURN only: the OUT being reversed
	EmployeeID      string
	EquipmentID     string
	ProjectID       string
	Notes           string
	CreatedBy       string
	TransactionDate time.Time
	CreatedAt       time.Time
}
