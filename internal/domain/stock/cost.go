// Package stock holds the pure domain services of the stock ledger.
package stock

import "github.com/shopspring/decimal"

// WeightedAverageCost blends a receipt into the current average unit price
// (domain service, no persistence):
//
//	newPrice = (currentQty*currentPrice + receiptQty*receiptPrice) / (currentQty + receiptQty)
//
// When the combined quantity is not positive the receipt price wins outright,
// which also covers the first receipt onto an empty item.
func WeightedAverageCost(currentQty, currentPrice, receiptQty, receiptPrice decimal.Decimal) decimal.Decimal {
	sum := currentQty.Add(receiptQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return receiptPrice
	}
	num := currentQty.Mul(currentPrice).Add(receiptQty.Mul(receiptPrice))
	return num.Div(sum)
}
