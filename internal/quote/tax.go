package quote

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sales-tax rates keyed by country then region. Rates are the combined
// rate a quote must charge (e.g. HST for the Atlantic provinces).
var taxRates = map[string]map[string]decimal.Decimal{
	"canada": {
		"nova scotia":               decimal.RequireFromString("0.15"),
		"new brunswick":             decimal.RequireFromString("0.15"),
		"newfoundland and labrador": decimal.RequireFromString("0.15"),
		"prince edward island":      decimal.RequireFromString("0.15"),
		"ontario":                   decimal.RequireFromString("0.13"),
		"quebec":                    decimal.RequireFromString("0.14975"),
		"british columbia":          decimal.RequireFromString("0.12"),
		"manitoba":                  decimal.RequireFromString("0.12"),
		"saskatchewan":              decimal.RequireFromString("0.11"),
		"alberta":                   decimal.RequireFromString("0.05"),
	},
	"united states": {
		"texas":      decimal.RequireFromString("0.0625"),
		"florida":    decimal.RequireFromString("0.06"),
		"california": decimal.RequireFromString("0.0725"),
		"new york":   decimal.RequireFromString("0.04"),
		"washington": decimal.RequireFromString("0.065"),
	},
}

// countryDefaults apply when the region has no entry.
var countryDefaults = map[string]decimal.Decimal{
	"canada":        decimal.RequireFromString("0.05"), // federal GST
	"united states": decimal.Zero,
}

// TaxRate resolves the quote tax rate solely from (country, region).
// Unknown locations are quoted tax-free rather than guessed.
func TaxRate(country, region string) decimal.Decimal {
	c := strings.ToLower(strings.TrimSpace(country))
	r := strings.ToLower(strings.TrimSpace(region))
	if c == "usa" || c == "us" {
		c = "united states"
	}
	if regions, ok := taxRates[c]; ok {
		if rate, ok := regions[r]; ok {
			return rate
		}
		if rate, ok := countryDefaults[c]; ok {
			return rate
		}
	}
	return decimal.Zero
}
