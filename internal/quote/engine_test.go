package quote

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePriceSource struct {
	prices map[string]decimal.Decimal
	err    error
}

func (f *fakePriceSource) GetPriceMap(_ context.Context, _ string) (map[string]decimal.Decimal, error) {
	return f.prices, f.err
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testEngine() *Engine {
	return NewEngine(&fakePriceSource{prices: map[string]decimal.Decimal{
		"shingle": money("30.00"),
		"plywood": money("45.00"),
		"nail":    money("8.50"),
	}}, "pricing-1")
}

func TestParseFixedPrice(t *testing.T) {
	e := testEngine()

	q, err := e.Parse(context.Background(), "quote for 123 Happy St: 675 for siding repair", "Canada", "Nova Scotia")
	require.NoError(t, err)

	assert.Equal(t, "123 Happy St", q.JobName)
	assert.True(t, q.IsFixedPrice)
	require.Len(t, q.Items, 1)
	assert.Equal(t, "siding repair", q.Items[0].Item)
	assert.True(t, q.Items[0].Custom)
	// Fixed price is final, no markup: 675 + 15% HST.
	assert.True(t, q.Subtotal.Equal(money("675")), "subtotal %s", q.Subtotal)
	assert.True(t, q.Tax.Equal(money("101.25")), "tax %s", q.Tax)
	assert.True(t, q.Total.Equal(money("776.25")), "total %s", q.Total)
}

func TestParseItemizedDefaultMarkup(t *testing.T) {
	e := testEngine()

	q, err := e.Parse(context.Background(), "quote for 85 Westmount: 15 shingles, 10 plywood", "Canada", "Nova Scotia")
	require.NoError(t, err)

	require.Len(t, q.Items, 2)
	// 30.00 * 1.40 = 42.00; 45.00 * 1.40 = 63.00.
	assert.True(t, q.Items[0].UnitPrice.Equal(money("42.00")), "unit %s", q.Items[0].UnitPrice)
	assert.True(t, q.Items[1].UnitPrice.Equal(money("63.00")), "unit %s", q.Items[1].UnitPrice)
	// 15*42 + 10*63 = 630 + 630 = 1260.
	assert.True(t, q.Subtotal.Equal(money("1260.00")), "subtotal %s", q.Subtotal)
	assert.True(t, q.Tax.Equal(money("189.00")), "tax %s", q.Tax)
	assert.True(t, q.Total.Equal(money("1449.00")), "total %s", q.Total)
	assert.Empty(t, q.MissingPrices)
}

func TestParseMarkupOverrides(t *testing.T) {
	e := testEngine()

	t.Run("overall markup segment", func(t *testing.T) {
		q, err := e.Parse(context.Background(), "quote for deck: 10 plywood, plus 20%", "Canada", "Alberta")
		require.NoError(t, err)
		require.Len(t, q.Items, 1)
		// 45.00 * 1.20 = 54.00.
		assert.True(t, q.Items[0].UnitPrice.Equal(money("54.00")), "unit %s", q.Items[0].UnitPrice)
	})

	t.Run("per-item markup beats overall", func(t *testing.T) {
		q, err := e.Parse(context.Background(), "quote for deck: 10 plywood plus 10%, 15 shingles, plus 20%", "Canada", "Alberta")
		require.NoError(t, err)
		require.Len(t, q.Items, 2)
		// plywood 45.00 * 1.10 = 49.50; shingles 30.00 * 1.20 = 36.00.
		assert.True(t, q.Items[0].UnitPrice.Equal(money("49.50")), "unit %s", q.Items[0].UnitPrice)
		assert.True(t, q.Items[1].UnitPrice.Equal(money("36.00")), "unit %s", q.Items[1].UnitPrice)
	})
}

func TestParseCustomPricedLine(t *testing.T) {
	e := testEngine()

	q, err := e.Parse(context.Background(), "quote for roof: 15 shingles, $200 for cleanup", "Canada", "Nova Scotia")
	require.NoError(t, err)

	require.Len(t, q.Items, 2)
	// Custom line keeps its price as-is.
	assert.Equal(t, "cleanup", q.Items[1].Item)
	assert.True(t, q.Items[1].Custom)
	assert.True(t, q.Items[1].UnitPrice.Equal(money("200")), "unit %s", q.Items[1].UnitPrice)
	assert.False(t, q.Items[0].Custom)
}

func TestParseMeasureWordsAndPlurals(t *testing.T) {
	e := testEngine()

	q, err := e.Parse(context.Background(), "quote for roof: 4 bundles of shingles, 6 nails", "Canada", "Nova Scotia")
	require.NoError(t, err)

	require.Len(t, q.Items, 2)
	assert.True(t, q.Items[0].UnitPrice.Equal(money("42.00")), "unit %s", q.Items[0].UnitPrice)
	assert.True(t, q.Items[1].UnitPrice.Equal(money("11.90")), "unit %s", q.Items[1].UnitPrice)
}

func TestParseMissingPrices(t *testing.T) {
	e := testEngine()

	q, err := e.Parse(context.Background(), "quote for shed: 15 shingles, 3 widgets", "Canada", "Nova Scotia")
	require.NoError(t, err)

	require.Len(t, q.Items, 1)
	assert.Equal(t, []string{"widgets"}, q.MissingPrices)
	// Totals cover priced items only; the gap is flagged, not fatal.
	assert.True(t, q.Subtotal.Equal(money("630.00")), "subtotal %s", q.Subtotal)
}

func TestParseNotAQuote(t *testing.T) {
	e := testEngine()

	_, err := e.Parse(context.Background(), "spent $50 at Lowe's", "Canada", "Nova Scotia")
	assert.ErrorIs(t, err, ErrNotQuote)

	_, err = e.Parse(context.Background(), "quote 123 Happy St no colon here", "Canada", "Nova Scotia")
	assert.ErrorIs(t, err, ErrNotQuote)
}

func TestTaxRate(t *testing.T) {
	tests := []struct {
		name    string
		country string
		region  string
		want    string
	}{
		{name: "atlantic HST", country: "Canada", region: "Nova Scotia", want: "0.15"},
		{name: "ontario", country: "canada", region: "ontario", want: "0.13"},
		{name: "canada default GST", country: "Canada", region: "Yukon", want: "0.05"},
		{name: "us state", country: "USA", region: "Texas", want: "0.0625"},
		{name: "us default", country: "United States", region: "Oregon", want: "0"},
		{name: "unknown country", country: "France", region: "", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TaxRate(tt.country, tt.region)
			assert.True(t, got.Equal(money(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}
