package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a stock-keeping unit of the spare-parts warehouse. Quantity is the
// aggregate on hand; the four condition buckets either all sit at zero
// (unpartitioned legacy item) or sum exactly to Quantity. UnitPrice is the
// weighted-average cost recomputed on every receipt; TotalValue is always
// Quantity * UnitPrice.
//
// Items are mutated exclusively through the stock engine and never deleted,
// only deactivated.
type Item struct {
	ID             string
	Code           string // category-prefixed sequence, unique
	Name           string
	Barcode        string // optional, unique when present
	CategoryID     string
	LocationID     string
	Unit           string
	Quantity       decimal.Decimal
	QtyNew         decimal.Decimal
	QtyUsed        decimal.Decimal
	QtyRefurbished decimal.Decimal
	QtyImport      decimal.Decimal
	MinQuantity    decimal.Decimal
	UnitPrice      decimal.Decimal
	TotalValue     decimal.Decimal
	Active         bool
	Version        int64 // optimistic lock, bumped on every update
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Partitioned reports whether the item tracks condition buckets. An item with
// all four buckets at zero is aggregate-only.
func (i *Item) Partitioned() bool {
	return !i.QtyNew.IsZero() || !i.QtyUsed.IsZero() ||
		!i.QtyRefurbished.IsZero() || !i.QtyImport.IsZero()
}

// PartitionSum returns the sum of the four condition buckets.
func (i *Item) PartitionSum() decimal.Decimal {
	return i.QtyNew.Add(i.QtyUsed).Add(i.QtyRefurbished).Add(i.QtyImport)
}

// ConditionQty returns the quantity held in the given bucket. For
// ConditionNone it returns the aggregate.
func (i *Item) ConditionQty(c Condition) decimal.Decimal {
	switch c {
	case ConditionNew:
		return i.QtyNew
	case ConditionUsed:
		return i.QtyUsed
	case ConditionRefurbished:
		return i.QtyRefurbished
	case ConditionImport:
		return i.QtyImport
	default:
		return i.Quantity
	}
}

// AddConditionQty adds delta (which may be negative) to the given bucket.
// ConditionNone leaves the buckets untouched.
func (i *Item) AddConditionQty(c Condition, delta decimal.Decimal) {
	switch c {
	case ConditionNew:
		i.QtyNew = i.QtyNew.Add(delta)
	case ConditionUsed:
		i.QtyUsed = i.QtyUsed.Add(delta)
	case ConditionRefurbished:
		i.QtyRefurbished = i.QtyRefurbished.Add(delta)
	case ConditionImport:
		i.QtyImport = i.QtyImport.Add(delta)
	}
}

// AvailableFor returns the quantity an issue for the given condition may draw
// from: the named bucket when the item is partitioned, the aggregate
// otherwise.
func (i *Item) AvailableFor(c Condition) decimal.Decimal {
	if c.Partitioning() && i.Partitioned() {
		return i.ConditionQty(c)
	}
	return i.Quantity
}

// RecalculateTotalValue refreshes TotalValue from Quantity and UnitPrice.
// Called after every mutation.
func (i *Item) RecalculateTotalValue() {
	i.TotalValue = i.Quantity.Mul(i.UnitPrice)
}

// CheckInvariants verifies the item's quantity invariants: non-negative
// aggregate and buckets, partition sum equal to the aggregate when
// partitioned, and TotalValue consistent with Quantity * UnitPrice.
func (i *Item) CheckInvariants() error {
	if i.Quantity.IsNegative() {
		return fmt.Errorf("item %s: negative quantity %s", i.ID, i.Quantity)
	}
	for _, c := range Conditions {
		if i.ConditionQty(c).IsNegative() {
			return fmt.Errorf("item %s: negative %s bucket %s", i.ID, c, i.ConditionQty(c))
		}
	}
	if i.Partitioned() && !i.PartitionSum().Equal(i.Quantity) {
		return fmt.Errorf("item %s: partition sum %s != quantity %s", i.ID, i.PartitionSum(), i.Quantity)
	}
	if !i.TotalValue.Equal(i.Quantity.Mul(i.UnitPrice)) {
		return fmt.Errorf("item %s: total value %s != quantity*price %s",
			i.ID, i.TotalValue, i.Quantity.Mul(i.UnitPrice))
	}
	return nil
}
