// Package ledger is the client for the system of record: append-only
// transaction rows in a spreadsheet-like store, user profiles, and the
// read-only pricing table the quote engine consumes.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ledgermate/ledgermate/internal/model"
)

// Columns of the positional row schema.
const (
	ColDate = iota
	ColItem
	ColAmount
	ColStore
	ColJob
	ColKind
	ColCategory
	columnCount
)

// Service is the ledger contract. Rows are 7-column positional:
// date, item, amount, store, job, kind, category.
type Service interface {
	GetOrCreateLedger(ctx context.Context, userHandle string) (string, error)
	AppendRow(ctx context.Context, ledgerID string, row []string) error
	ReadRows(ctx context.Context, ledgerID string) ([][]string, error)
	ExportCSV(ctx context.Context, ledgerID string) ([]byte, error)
}

// PriceSource resolves unit prices for quote items, keyed by normalized
// (lowercased, trimmed) item name.
type PriceSource interface {
	GetPriceMap(ctx context.Context, pricingLedgerID string) (map[string]decimal.Decimal, error)
}

// ProfileRepository stores user profiles keyed by messaging handle.
type ProfileRepository interface {
	GetProfile(ctx context.Context, handle string) (*model.UserProfile, error)
	CreateProfile(ctx context.Context, p *model.UserProfile) error
	UpdateProfile(ctx context.Context, p *model.UserProfile) error
}
