package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func partitionedItem() *entity.Item {
	item := &entity.Item{
		ID:        "item-1",
		Code:      "REP-00001",
		Name:      "bearing 6204",
		Quantity:  d("10"),
		QtyNew:    d("6"),
		QtyUsed:   d("4"),
		UnitPrice: d("5"),
		Active:    true,
	}
	item.RecalculateTotalValue()
	return item
}

func TestItem_Partitioned(t *testing.T) {
	item := partitionedItem()
	assert.True(t, item.Partitioned())

	legacy := &entity.Item{Quantity: d("7")}
	assert.False(t, legacy.Partitioned(), "all buckets zero means aggregate-only")
}

func TestItem_PartitionSumMatchesAggregate(t *testing.T) {
	item := partitionedItem()
	assert.True(t, item.PartitionSum().Equal(item.Quantity))
	require.NoError(t, item.CheckInvariants())
}

func TestItem_AvailableFor(t *testing.T) {
	item := partitionedItem()
	assert.True(t, item.AvailableFor(entity.ConditionNew).Equal(d("6")))
	assert.True(t, item.AvailableFor(entity.ConditionUsed).Equal(d("4")))
	assert.True(t, item.AvailableFor(entity.ConditionRefurbished).IsZero())
	assert.True(t, item.AvailableFor(entity.ConditionNone).Equal(d("10")))

	// An unpartitioned item answers with the aggregate for any condition.
	legacy := &entity.Item{Quantity: d("7")}
	assert.True(t, legacy.AvailableFor(entity.ConditionNew).Equal(d("7")))
}

func TestItem_AddConditionQty(t *testing.T) {
	item := partitionedItem()
	item.AddConditionQty(entity.ConditionUsed, d("-3"))
	assert.True(t, item.QtyUsed.Equal(d("1")))

	// ConditionNone never touches the buckets.
	item.AddConditionQty(entity.ConditionNone, d("100"))
	assert.True(t, item.PartitionSum().Equal(d("7")))
}

func TestItem_CheckInvariants_RejectsBrokenPartition(t *testing.T) {
	item := partitionedItem()
	item.QtyNew = d("5") // sum 9 != aggregate 10
	assert.Error(t, item.CheckInvariants())
}

func TestItem_CheckInvariants_RejectsNegativeQuantity(t *testing.T) {
	item := &entity.Item{Quantity: d("-1")}
	assert.Error(t, item.CheckInvariants())
}

func TestItem_CheckInvariants_RejectsStaleTotalValue(t *testing.T) {
	item := partitionedItem()
	item.UnitPrice = d("9") // TotalValue not refreshed
	assert.Error(t, item.CheckInvariants())

	item.RecalculateTotalValue()
	assert.NoError(t, item.CheckInvariants())
}

func TestClassifyDifference(t *testing.T) {
	assert.Equal(t, entity.DiscrepancySurplus, entity.ClassifyDifference(d("2")))
	assert.Equal(t, entity.DiscrepancyShortage, entity.ClassifyDifference(d("-2")))
	assert.Equal(t, entity.DiscrepancyMatch, entity.ClassifyDifference(decimal.Zero))
}

func TestCondition_Partitioning(t *testing.T) {
	assert.True(t, entity.ConditionNew.Partitioning())
	assert.False(t, entity.ConditionNone.Partitioning())
	assert.False(t, entity.Condition("BROKEN").Partitioning())
	assert.False(t, entity.Condition("BROKEN").Valid())
	assert.True(t, entity.ConditionNone.Valid())
}
