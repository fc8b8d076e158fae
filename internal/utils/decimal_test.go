package utils

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestNumericToDecimal(t *testing.T) {
	cases := []struct {
		name     string
		value    pgtype.Numeric
		expected string
	}{
		{name: "two decimals", value: pgtype.Numeric{Int: big.NewInt(1999), Exp: -2, Valid: true}, expected: "19.99"},
		{name: "positive exponent", value: pgtype.Numeric{Int: big.NewInt(12), Exp: 2, Valid: true}, expected: "1200"},
		{name: "null", value: pgtype.Numeric{}, expected: "0"},
		{name: "nan", value: pgtype.Numeric{NaN: true, Valid: true}, expected: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NumericToDecimal(tc.value).String(); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}
