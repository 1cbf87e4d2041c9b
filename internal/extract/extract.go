// Package extract turns free-text messages into typed transaction records
// using ordered pattern rules and lookup tables. Everything here is pure and
// deterministic; probabilistic fallback lives with the callers.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgermate/ledgermate/internal/model"
)

var (
	currencyAmountRe = regexp.MustCompile(`\$\s*(\d[\d,]*(?:\.\d{1,2})?)`)
	keywordAmountRe  = regexp.MustCompile(`(?i)\b(?:spent|paid|got|received|collected|cost|for|worth\s+of)\s+(\d[\d,]*(?:\.\d{1,2})?)\b`)

	storeAtRe = regexp.MustCompile(`(?i)\b(?:at|from)\s+(.+?)(?:\s+(?:today|tonight|yesterday|tomorrow|last\s+\w+|this\s+\w+|next\s+\w+|on\s+\w+)\b.*)?[.!]?$`)

	spentOnRe = regexp.MustCompile(`(?i)\bspent\s+\$?\s*\d[\d,]*(?:\.\d{1,2})?\s+(?:on|for)\s+(.+?)(?:\s+(?:at|from)\s.*|\s+(?:today|yesterday|last\s+\w+|this\s+\w+)\b.*)?[.!]?$`)
	boughtRe  = regexp.MustCompile(`(?i)\b(?:bought|purchased|ordered|grabbed|picked\s+up|got)\s+(?:\$?\s*\d[\d,]*(?:\.\d{1,2})?\s+(?:worth\s+of|of)\s+)?(.+?)(?:\s+(?:at|from)\s.*|\s+for\s+\$?\s*\d.*|\s+(?:today|yesterday|last\s+\w+|this\s+\w+)\b.*)?[.!]?$`)
	lumberRe  = regexp.MustCompile(`(?i)\b\d+\s*x\s*\d+s?(?:\s+(?:lumber|boards?|studs?))?\b`)

	revenueRe = regexp.MustCompile(`(?i)\b(?:received|got\s+paid|was\s+paid|collected|invoiced)\s+\$?\s*(\d[\d,]*(?:\.\d{1,2})?)\s+(?:from|for)\s+(.+?)(?:\s+(?:today|yesterday|last\s+\w+|this\s+\w+)\b.*)?[.!]?$`)

	billRe = regexp.MustCompile(`(?i)^(?:my\s+|the\s+)?(.+?)\s+bill\s+(?:of\s+|for\s+)?\$?\s*(\d[\d,]*(?:\.\d{1,2})?)(?:\s+(?:is\s+)?due\s+(?:on\s+)?(.+?))?[.!]?$`)
)

// genericStores are captures that name no store at all; they force the
// known-store fallback.
var genericStores = map[string]bool{
	"store": true, "the store": true, "a store": true,
	"shop": true, "the shop": true, "town": true,
}

// Amount finds a currency-marked or keyword-preceded amount and normalizes
// it to two decimal places.
func Amount(text string) (decimal.Decimal, bool) {
	m := currencyAmountRe.FindStringSubmatch(text)
	if m == nil {
		m = keywordAmountRe.FindStringSubmatch(text)
	}
	if m == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

// Store resolves the purchase location: an "at/from <name>" phrase bounded
// by temporal keywords wins, then a substring match on the known-store list.
func Store(text string) (string, bool) {
	if m := storeAtRe.FindStringSubmatch(text); m != nil {
		name := cleanField(m[1])
		if name != "" && !genericStores[strings.ToLower(name)] {
			if canonical, ok := matchKnownStore(name); ok {
				return canonical, true
			}
			return name, true
		}
	}
	return matchKnownStore(text)
}

// Item resolves what was bought: verb-anchored phrasing first, then lumber
// dimensions, then the known-materials table.
func Item(text string) (string, bool) {
	for _, re := range []*regexp.Regexp{spentOnRe, boughtRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			item := cleanField(m[1])
			if item != "" && !strings.Contains(item, "$") {
				return item, true
			}
		}
	}
	if m := lumberRe.FindString(text); m != "" {
		return strings.TrimSpace(m), true
	}
	return matchKnownMaterial(text)
}

// Expense parses a free-text expense. Amount, store and item must all
// resolve; an unresolvable item degrades to "Miscellaneous Purchase" only
// when the store confirms a construction context.
func Expense(text string, now time.Time) (*model.TransactionRecord, bool) {
	amount, ok := Amount(text)
	if !ok {
		return nil, false
	}

	store, storeOK := Store(text)
	if !storeOK {
		return nil, false
	}

	item, itemOK := Item(text)
	if !itemOK {
		if !IsConstructionStore(store) {
			return nil, false
		}
		item = "Miscellaneous Purchase"
	}

	date, dated := ParseDate(text, now)
	if !dated {
		date = midnight(now)
	}

	category := "General"
	if IsConstructionStore(store) {
		category = "Construction Materials"
	}

	return &model.TransactionRecord{
		Date:     date,
		Item:     item,
		Amount:   amount,
		Store:    store,
		Kind:     model.KindExpense,
		Category: category,
	}, true
}

// Revenue parses "received <amount> from <source>" style messages. It is
// deliberately narrower than Expense: revenue phrasing varies far less.
func Revenue(text string, now time.Time) (*model.TransactionRecord, bool) {
	m := revenueRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil, false
	}
	source := cleanField(m[2])
	if source == "" {
		return nil, false
	}

	date, dated := ParseDate(text, now)
	if !dated {
		date = midnight(now)
	}

	return &model.TransactionRecord{
		Date:     date,
		Item:     source,
		Amount:   amount.Round(2),
		Store:    source,
		Kind:     model.KindRevenue,
		Category: "Income",
	}, true
}

// Bill parses "<payee> bill for <amount> [due <date>]" messages. The due
// date defaults to the receipt date when absent or unparseable.
func Bill(text string, now time.Time) (*model.TransactionRecord, bool) {
	m := billRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, false
	}

	payee := cleanField(m[1])
	if payee == "" {
		return nil, false
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", ""))
	if err != nil {
		return nil, false
	}

	date := midnight(now)
	if m[3] != "" {
		if due, ok := ParseDate(m[3], now); ok {
			date = due
		}
	}

	return &model.TransactionRecord{
		Date:     date,
		Item:     payee + " bill",
		Amount:   amount.Round(2),
		Store:    payee,
		Kind:     model.KindBill,
		Category: "Bills",
	}, true
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,!?:;")
	return strings.TrimSpace(s)
}
