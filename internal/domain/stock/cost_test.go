package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/stock"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWeightedAverageCost_BlendsTwoReceipts(t *testing.T) {
	// 10 units at 5.00 on hand, 10 more arrive at 7.00 -> 6.00 average.
	got := stock.WeightedAverageCost(d("10"), d("5"), d("10"), d("7"))
	assert.True(t, got.Equal(d("6")), "expected 6, got %s", got)
}

func TestWeightedAverageCost_FirstReceiptTakesReceiptPrice(t *testing.T) {
	got := stock.WeightedAverageCost(decimal.Zero, decimal.Zero, d("4"), d("12.50"))
	assert.True(t, got.Equal(d("12.50")))
}

func TestWeightedAverageCost_UnevenQuantities(t *testing.T) {
	// 3 at 10.00 plus 1 at 2.00 -> 8.00 average.
	got := stock.WeightedAverageCost(d("3"), d("10"), d("1"), d("2"))
	assert.True(t, got.Equal(d("8")), "expected 8, got %s", got)
}

func TestWeightedAverageCost_ZeroCombinedQuantity(t *testing.T) {
	got := stock.WeightedAverageCost(decimal.Zero, d("99"), decimal.Zero, d("3"))
	assert.True(t, got.Equal(d("3")), "receipt price must win when nothing is on hand")
}
