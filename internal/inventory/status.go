package inventory

import (
	"restaurant-order-services/internal/models"

	"github.com/shopspring/decimal"
)

// Classify maps a stock level to its status. The boundaries are inclusive:
// exactly zero is out of stock and exactly the minimum is low.
func Classify(quantity decimal.Decimal, minimum decimal.Decimal) models.StockStatus {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return models.StockOut
	}
	if quantity.LessThanOrEqual(minimum) {
		return models.StockLow
	}
	return models.StockIn
}
