package extract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermate/ledgermate/internal/model"
)

func fields(problems []Problem) []string {
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = p.Field
	}
	return out
}

func TestValidate(t *testing.T) {
	good := &model.TransactionRecord{
		Date:   time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		Item:   "nails",
		Amount: decimal.NewFromInt(50),
		Store:  "Home Depot",
	}
	assert.Nil(t, Validate(good, model.KindExpense))

	t.Run("nil record", func(t *testing.T) {
		problems := Validate(nil, model.KindExpense)
		require.Len(t, problems, 1)
		assert.Equal(t, "record", problems[0].Field)
	})

	t.Run("zero amount", func(t *testing.T) {
		r := *good
		r.Amount = decimal.Zero
		assert.Contains(t, fields(Validate(&r, model.KindExpense)), "amount")
	})

	t.Run("negative amount", func(t *testing.T) {
		r := *good
		r.Amount = decimal.NewFromInt(-5)
		assert.Contains(t, fields(Validate(&r, model.KindExpense)), "amount")
	})

	t.Run("short store name", func(t *testing.T) {
		r := *good
		r.Store = "HB"
		assert.Contains(t, fields(Validate(&r, model.KindExpense)), "store")
	})

	t.Run("field name follows kind", func(t *testing.T) {
		r := *good
		r.Store = " "
		assert.Contains(t, fields(Validate(&r, model.KindRevenue)), "source")
		assert.Contains(t, fields(Validate(&r, model.KindBill)), "payee")
	})

	t.Run("zero date", func(t *testing.T) {
		r := *good
		r.Date = time.Time{}
		assert.Contains(t, fields(Validate(&r, model.KindExpense)), "date")
	})
}

func TestValidateJobName(t *testing.T) {
	assert.Nil(t, ValidateJobName("85 Westmount siding"))
	assert.NotNil(t, ValidateJobName("ab"))
	assert.NotNil(t, ValidateJobName("  "))
}
