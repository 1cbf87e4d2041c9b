package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supabase-community/supabase-go"

	"github.com/ledgermate/ledgermate/internal/model"
)

// SupabaseClient implements Service, PriceSource and ProfileRepository on
// top of postgrest tables.
type SupabaseClient struct {
	client *supabase.Client
}

func NewSupabaseClient(url, key string) (*SupabaseClient, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	return &SupabaseClient{client: client}, nil
}

type ledgerDoc struct {
	ID         string    `json:"id"`
	UserHandle string    `json:"user_handle"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

type rowDoc struct {
	LedgerID  string    `json:"ledger_id"`
	Date      string    `json:"date"`
	Item      string    `json:"item"`
	Amount    string    `json:"amount"`
	Store     string    `json:"store"`
	Job       string    `json:"job"`
	Kind      string    `json:"kind"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type priceDoc struct {
	LedgerID string `json:"ledger_id"`
	Item     string `json:"item"`
	Price    string `json:"unit_price"`
}

func (c *SupabaseClient) GetOrCreateLedger(ctx context.Context, userHandle string) (string, error) {
	data, _, err := c.client.From("ledgers").
		Select("*", "", false).
		Eq("user_handle", userHandle).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to look up ledger: %w", err)
	}

	var existing []ledgerDoc
	if err := json.Unmarshal(data, &existing); err != nil {
		return "", fmt.Errorf("failed to parse ledgers: %w", err)
	}
	if len(existing) > 0 {
		return existing[0].ID, nil
	}

	doc := ledgerDoc{ID: uuid.New().String(), UserHandle: userHandle}
	if _, _, err := c.client.From("ledgers").Insert(doc, false, "", "", "").Execute(); err != nil {
		return "", fmt.Errorf("failed to create ledger: %w", err)
	}
	return doc.ID, nil
}

func (c *SupabaseClient) AppendRow(ctx context.Context, ledgerID string, row []string) error {
	if len(row) != columnCount {
		return fmt.Errorf("ledger row must have %d columns, got %d", columnCount, len(row))
	}
	doc := rowDoc{
		LedgerID: ledgerID,
		Date:     row[ColDate],
		Item:     row[ColItem],
		Amount:   row[ColAmount],
		Store:    row[ColStore],
		Job:      row[ColJob],
		Kind:     row[ColKind],
		Category: row[ColCategory],
	}
	if _, _, err := c.client.From("ledger_rows").Insert(doc, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

func (c *SupabaseClient) ReadRows(ctx context.Context, ledgerID string) ([][]string, error) {
	data, _, err := c.client.From("ledger_rows").
		Select("*", "", false).
		Eq("ledger_id", ledgerID).
		Order("date.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var docs []rowDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{d.Date, d.Item, d.Amount, d.Store, d.Job, d.Kind, d.Category})
	}
	return rows, nil
}

// ExportCSV renders the full ledger as CSV for e-mail dispatch.
func (c *SupabaseClient) ExportCSV(ctx context.Context, ledgerID string) ([]byte, error) {
	rows, err := c.ReadRows(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Date", "Item", "Amount", "Store", "Job", "Kind", "Category"})
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *SupabaseClient) GetPriceMap(ctx context.Context, pricingLedgerID string) (map[string]decimal.Decimal, error) {
	data, _, err := c.client.From("price_list").
		Select("*", "", false).
		Eq("ledger_id", pricingLedgerID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to read price list: %w", err)
	}

	var docs []priceDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse price list: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(docs))
	for _, d := range docs {
		price, err := decimal.NewFromString(d.Price)
		if err != nil {
			continue // a malformed price row hides that item, it does not break the table
		}
		prices[strings.ToLower(strings.TrimSpace(d.Item))] = price
	}
	return prices, nil
}

func (c *SupabaseClient) GetProfile(ctx context.Context, handle string) (*model.UserProfile, error) {
	data, _, err := c.client.From("profiles").
		Select("*", "", false).
		Eq("handle", handle).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profiles []model.UserProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

func (c *SupabaseClient) CreateProfile(ctx context.Context, p *model.UserProfile) error {
	p.CreatedAt = time.Now()
	if _, _, err := c.client.From("profiles").Insert(p, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (c *SupabaseClient) UpdateProfile(ctx context.Context, p *model.UserProfile) error {
	if _, _, err := c.client.From("profiles").
		Update(p, "", "").
		Eq("handle", p.Handle).
		Execute(); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
