package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Restaurant is printed on invoices and drives the tax line.
type Restaurant struct {
	Name      string
	Address   string
	Phone     string
	Email     string
	TaxNumber string
	Footer    string
	Currency  string
	TaxRate   decimal.Decimal
}

type restaurantFile struct {
	Name      string   `yaml:"name"`
	Address   string   `yaml:"address"`
	Phone     string   `yaml:"phone"`
	Email     string   `yaml:"email"`
	TaxNumber string   `yaml:"tax_number"`
	Footer    string   `yaml:"footer"`
	Currency  string   `yaml:"currency"`
	TaxRate   *float64 `yaml:"tax_rate"`
}

func DefaultRestaurant() Restaurant {
	return Restaurant{
		Name:      "Your Restaurant Name",
		Address:   "Restaurant Address",
		Phone:     "Phone Number",
		Email:     "email@restaurant.com",
		TaxNumber: "TAX123456",
		Footer:    "Thank you for dining with us!",
		Currency:  "USD",
		TaxRate:   decimal.RequireFromString("0.10"),
	}
}

// LoadRestaurant reads a YAML profile. Missing keys keep their defaults and
// an empty path returns the defaults unchanged.
func LoadRestaurant(path string) (Restaurant, error) {
	profile := DefaultRestaurant()
	path = strings.TrimSpace(path)
	if path == "" {
		return profile, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Restaurant{}, fmt.Errorf("read restaurant profile: %w", err)
	}
	var file restaurantFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Restaurant{}, fmt.Errorf("parse restaurant profile: %w", err)
	}

	override := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	override(&profile.Name, file.Name)
	override(&profile.Address, file.Address)
	override(&profile.Phone, file.Phone)
	override(&profile.Email, file.Email)
	override(&profile.TaxNumber, file.TaxNumber)
	override(&profile.Footer, file.Footer)
	override(&profile.Currency, file.Currency)

	if file.TaxRate != nil {
		rate := decimal.NewFromFloat(*file.TaxRate)
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return Restaurant{}, fmt.Errorf("tax_rate must be in [0, 1), got %s", rate)
		}
		profile.TaxRate = rate
	}
	return profile, nil
}
