// Package quote parses quote requests and prices them: itemized lines are
// resolved against the external pricing ledger and marked up, custom-priced
// lines are taken as final, and tax is applied by the user's location.
package quote

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgermate/ledgermate/internal/ledger"
	"github.com/ledgermate/ledgermate/internal/model"
)

// ErrNotQuote means the text does not look like a quote request at all.
var ErrNotQuote = errors.New("not a quote request")

// DefaultMarkupPercent is applied to priced items when no per-item or
// overall percentage is given.
var DefaultMarkupPercent = decimal.NewFromInt(40)

var (
	headerRe    = regexp.MustCompile(`(?i)^quote\s+(?:for\s+)?([^:]+):\s*(.+)$`)
	fixedRe     = regexp.MustCompile(`(?i)^\$?\s*(\d[\d,]*(?:\.\d{1,2})?)\s+for\s+(.+)$`)
	customRe    = regexp.MustCompile(`(?i)^\$\s*(\d[\d,]*(?:\.\d{1,2})?)\s+for\s+(.+)$`)
	qtyItemRe   = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s+(.+?)(?:\s+plus\s+(\d+(?:\.\d+)?)\s*%)?$`)
	overallRe   = regexp.MustCompile(`(?i)^(?:all\s+)?plus\s+(\d+(?:\.\d+)?)\s*%$`)
	measureRe   = regexp.MustCompile(`(?i)^(?:sheets?|bundles?|rolls?|boxes|box|bags?|pieces?|sticks?|lengths?|tubes?|gallons?|cans?)\s+of\s+`)
)

// Engine prices quote requests against the pricing ledger.
type Engine struct {
	prices          ledger.PriceSource
	pricingLedgerID string
}

func NewEngine(prices ledger.PriceSource, pricingLedgerID string) *Engine {
	return &Engine{prices: prices, pricingLedgerID: pricingLedgerID}
}

// Parse turns a "quote for <job>: ..." message into a draft. The draft is
// never final here: the caller stores it pending and asks for the customer's
// identity.
func (e *Engine) Parse(ctx context.Context, text, country, region string) (*model.QuoteDraft, error) {
	m := headerRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, ErrNotQuote
	}
	jobName := strings.TrimSpace(m[1])
	body := strings.TrimSpace(m[2])

	draft := &model.QuoteDraft{JobName: jobName}

	// Fixed-price shape: a bare number (no $ required) for a description,
	// with no item list.
	if fm := fixedRe.FindStringSubmatch(body); fm != nil && !strings.Contains(body, ",") {
		price, err := parseMoney(fm[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotQuote, err)
		}
		draft.IsFixedPrice = true
		draft.Items = []model.QuoteItem{{
			Item:      strings.TrimSpace(fm[2]),
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: price,
			Custom:    true,
		}}
		return e.total(draft, country, region), nil
	}

	entries, overallMarkup := splitEntries(body)
	if len(entries) == 0 {
		return nil, ErrNotQuote
	}

	priceMap, err := e.prices.GetPriceMap(ctx, e.pricingLedgerID)
	if err != nil {
		return nil, fmt.Errorf("pricing ledger: %w", err)
	}

	for _, entry := range entries {
		if cm := customRe.FindStringSubmatch(entry); cm != nil {
			price, err := parseMoney(cm[1])
			if err != nil {
				continue
			}
			draft.Items = append(draft.Items, model.QuoteItem{
				Item:      strings.TrimSpace(cm[2]),
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: price, // custom price is final, no markup
				Custom:    true,
			})
			continue
		}

		qm := qtyItemRe.FindStringSubmatch(entry)
		if qm == nil {
			draft.MissingPrices = append(draft.MissingPrices, entry)
			continue
		}
		qty, err := decimal.NewFromString(qm[1])
		if err != nil {
			draft.MissingPrices = append(draft.MissingPrices, entry)
			continue
		}
		name := strings.TrimSpace(qm[2])

		base, ok := lookupPrice(priceMap, name)
		if !ok {
			draft.MissingPrices = append(draft.MissingPrices, name)
			continue
		}

		markup := DefaultMarkupPercent
		if overallMarkup != nil {
			markup = *overallMarkup
		}
		if qm[3] != "" {
			// Per-item percentage overrides the overall one.
			perItem, err := decimal.NewFromString(qm[3])
			if err == nil {
				markup = perItem
			}
		}

		factor := decimal.NewFromInt(1).Add(markup.Div(decimal.NewFromInt(100)))
		draft.Items = append(draft.Items, model.QuoteItem{
			Item:      name,
			Quantity:  qty,
			UnitPrice: base.Mul(factor).Round(2),
		})
	}

	if len(draft.Items) == 0 && len(draft.MissingPrices) == 0 {
		return nil, ErrNotQuote
	}

	return e.total(draft, country, region), nil
}

func (e *Engine) total(draft *model.QuoteDraft, country, region string) *model.QuoteDraft {
	subtotal := decimal.Zero
	for _, item := range draft.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(item.Quantity))
	}
	draft.Subtotal = subtotal.Round(2)
	draft.Tax = subtotal.Mul(TaxRate(country, region)).Round(2)
	draft.Total = draft.Subtotal.Add(draft.Tax)
	return draft
}

// splitEntries breaks the item list on commas. A standalone trailing
// "plus N%" entry is the overall markup, not an item.
func splitEntries(body string) ([]string, *decimal.Decimal) {
	parts := strings.Split(body, ",")
	entries := make([]string, 0, len(parts))
	var overall *decimal.Decimal

	for _, p := range parts {
		entry := strings.TrimSpace(p)
		if entry == "" {
			continue
		}
		if om := overallRe.FindStringSubmatch(entry); om != nil {
			if pct, err := decimal.NewFromString(om[1]); err == nil {
				overall = &pct
			}
			continue
		}
		entries = append(entries, entry)
	}
	return entries, overall
}

// lookupPrice tries the normalized name, then the name with a leading
// measure phrase stripped ("bundles of shingles" -> "shingles").
func lookupPrice(prices map[string]decimal.Decimal, name string) (decimal.Decimal, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if price, ok := prices[key]; ok {
		return price, true
	}
	stripped := measureRe.ReplaceAllString(key, "")
	if stripped != key {
		if price, ok := prices[stripped]; ok {
			return price, true
		}
	}
	// Singularize a simple trailing "s".
	if strings.HasSuffix(stripped, "s") {
		if price, ok := prices[strings.TrimSuffix(stripped, "s")]; ok {
			return price, true
		}
	}
	return decimal.Zero, false
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}
