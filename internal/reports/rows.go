package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgermate/ledgermate/internal/ledger"
	"github.com/ledgermate/ledgermate/internal/model"
)

// entry is one ledger row in typed form.
type entry struct {
	date     time.Time
	item     string
	amount   decimal.Decimal
	store    string
	job      string
	kind     model.RecordKind
	category string
}

// parseRows converts positional ledger rows, skipping rows that no longer
// parse (hand-edited spreadsheets happen).
func parseRows(rows [][]string) []entry {
	entries := make([]entry, 0, len(rows))
	for _, row := range rows {
		if len(row) < 7 {
			continue
		}
		date, err := time.Parse("2006-01-02", row[ledger.ColDate])
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(row[ledger.ColAmount])
		if err != nil {
			continue
		}
		entries = append(entries, entry{
			date:     date,
			item:     row[ledger.ColItem],
			amount:   amount,
			store:    row[ledger.ColStore],
			job:      row[ledger.ColJob],
			kind:     model.RecordKind(row[ledger.ColKind]),
			category: row[ledger.ColCategory],
		})
	}
	return entries
}

type filter func(entry) bool

func sum(entries []entry, keep filter) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if keep(e) {
			total = total.Add(e.amount)
		}
	}
	return total
}

func byKind(kind model.RecordKind) filter {
	return func(e entry) bool { return e.kind == kind }
}

func and(filters ...filter) filter {
	return func(e entry) bool {
		for _, f := range filters {
			if !f(e) {
				return false
			}
		}
		return true
	}
}

func inMonth(year int, month time.Month) filter {
	return func(e entry) bool {
		return e.date.Year() == year && e.date.Month() == month
	}
}

func inYear(year int) filter {
	return func(e entry) bool { return e.date.Year() == year }
}

func onJob(job string) filter {
	lowered := normalize(job)
	return func(e entry) bool { return normalize(e.job) == lowered }
}

func inCategory(category string) filter {
	lowered := normalize(category)
	return func(e entry) bool { return normalize(e.category) == lowered }
}

func between(start, end time.Time) filter {
	return func(e entry) bool {
		return !e.date.Before(start) && !e.date.After(end)
	}
}
