package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundToDecimalPrecision rounds the quantity down to the specified
// decimal precision.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

// WeightedAveragePrice returns the quantity-weighted mean price of two
// fills.
func WeightedAveragePrice(priceA, qtyA, priceB, qtyB float64) float64 {
	totalQty := decimal.NewFromFloat(qtyA).Add(decimal.NewFromFloat(qtyB))
	if totalQty.IsZero() {
		return 0
	}

	amountA := decimal.NewFromFloat(priceA).Mul(decimal.NewFromFloat(qtyA))
	amountB := decimal.NewFromFloat(priceB).Mul(decimal.NewFromFloat(qtyB))

	avg, _ := amountA.Add(amountB).Div(totalQty).Float64()

	return avg
}
