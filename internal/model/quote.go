package model

import "github.com/shopspring/decimal"

// QuoteItem is one priced line of a quote. Custom items carry a caller-fixed
// price and never receive markup.
type QuoteItem struct {
	Item      string          `json:"item"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // final per-unit price, markup included
	Custom    bool            `json:"custom"`
}

// QuoteDraft is a computed quote held as pending state until the user
// supplies the customer's name or e-mail, at which point it is rendered and
// delivered, then discarded.
type QuoteDraft struct {
	JobName       string          `json:"job_name"`
	Items         []QuoteItem     `json:"items"`
	IsFixedPrice  bool            `json:"is_fixed_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`

	// Items the pricing ledger had no entry for; surfaced as a warning, not
	// an error.
	MissingPrices []string `json:"missing_prices,omitempty"`
}
