package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordKind distinguishes the three row types the ledger knows about.
type RecordKind string

const (
	KindExpense RecordKind = "expense"
	KindRevenue RecordKind = "revenue"
	KindBill    RecordKind = "bill"
)

// TransactionRecord is a parsed financial entry. It is immutable once
// appended to the ledger; the pipeline only ever builds new ones.
type TransactionRecord struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Item     string          `json:"item"` // item for expenses, description for revenue/bills
	Amount   decimal.Decimal `json:"amount"`
	Store    string          `json:"store"` // store for expenses, source for revenue, payee for bills
	Job      string          `json:"job"`
	Kind     RecordKind      `json:"kind"`
	Category string          `json:"category"`
}

// GenerateID assigns a fresh UUID when the record has none yet.
func (r *TransactionRecord) GenerateID() {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
}

// AmountString renders the amount as a currency string with two decimals.
func (r *TransactionRecord) AmountString() string {
	return "$" + r.Amount.StringFixed(2)
}

// Row flattens the record into the 7-column positional layout the ledger
// service expects: date, item, amount, store, job, kind, category.
func (r *TransactionRecord) Row() []string {
	return []string{
		r.Date.Format("2006-01-02"),
		r.Item,
		r.Amount.StringFixed(2),
		r.Store,
		r.Job,
		string(r.Kind),
		r.Category,
	}
}
