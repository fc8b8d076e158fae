package inventory

import (
	"testing"

	"restaurant-order-services/internal/models"

	"github.com/shopspring/decimal"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		quantity string
		minimum  string
		expected models.StockStatus
	}{
		{name: "negative", quantity: "-1", minimum: "5", expected: models.StockOut},
		{name: "zero", quantity: "0", minimum: "5", expected: models.StockOut},
		{name: "at minimum", quantity: "5", minimum: "5", expected: models.StockLow},
		{name: "fraction below minimum", quantity: "0.25", minimum: "0.5", expected: models.StockLow},
		{name: "above minimum", quantity: "5.001", minimum: "5", expected: models.StockIn},
		{name: "zero minimum", quantity: "1", minimum: "0", expected: models.StockIn},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(decimal.RequireFromString(tc.quantity), decimal.RequireFromString(tc.minimum))
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}
