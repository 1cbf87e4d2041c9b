// Package reports answers ad hoc analytics questions against the ledger:
// a fixed ladder of pattern-specific computations, then the AI intent
// classifier for anything the patterns miss.
package reports

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgermate/ledgermate/internal/ai"
	"github.com/ledgermate/ledgermate/internal/ledger"
	"github.com/ledgermate/ledgermate/internal/model"
	"github.com/ledgermate/ledgermate/internal/state"
)

// Answer is a finished reply, optionally with a rendered chart.
type Answer struct {
	Text  string
	Chart []byte // PNG, nil unless a chart was requested
}

var metricsKeywords = []string{
	"how much", "profit", "revenue", "spend", "spent", "expenses",
	"bills due", "average monthly", "year to date", "ytd", "chart",
	"what did i make", "how am i doing",
}

// LooksLikeQuery reports whether text reads like a metrics question. Short
// follow-ups ride on LastQueryContext instead (see Interpreter.Answer).
func LooksLikeQuery(text string) bool {
	if billsDueRe.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range metricsKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsFollowUp reports whether text is a short follow-up ("how about 12
// Oak?") that should inherit the previous question's intent. Anything
// longer than a few words after the lead-in is a fresh message, not a
// follow-up.
func IsFollowUp(text string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSpace(text), "?")
	loc := followUpLeadRe.FindStringIndex(trimmed)
	if loc == nil {
		return false
	}
	rest := strings.TrimSpace(trimmed[loc[1]:])
	return rest != "" && len(strings.Fields(rest)) <= 4
}

// IsBillsDueQuery reports whether text asks which bills are coming due,
// as opposed to logging a new bill.
func IsBillsDueQuery(text string) bool {
	return billsDueRe.MatchString(text)
}

var (
	billsDueRe     = regexp.MustCompile(`(?i)\bbills?\s+(?:are\s+)?due\b`)
	profitMonthRe  = regexp.MustCompile(`(?i)\bprofit\b.*\bin\s+(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	profitJobRe    = regexp.MustCompile(`(?i)\bprofit\b.*\b(?:on|for|from)\s+(?:the\s+)?(?:job\s+)?(.+?)\s*\??$`)
	spendCatJobRe  = regexp.MustCompile(`(?i)\bspen[dt]\b.*\bon\s+(.+?)\s+(?:for|on)\s+(?:the\s+)?(.+?)\s*\??$`)
	ytdRe          = regexp.MustCompile(`(?i)\byear\s+to\s+date\b|\bytd\b|\bthis\s+year\b`)
	expensesMonRe  = regexp.MustCompile(`(?i)\b(?:expenses|spen[dt])\b.*\bthis\s+month\b`)
	revenueJobRe   = regexp.MustCompile(`(?i)\brevenue\b.*\b(?:on|for|from)\s+(?:the\s+)?(?:job\s+)?(.+?)\s*\??$`)
	avgProfitRe    = regexp.MustCompile(`(?i)\baverage\s+monthly\s+profit\b`)
	chartRe        = regexp.MustCompile(`(?i)\bchart\b.*\b(?:monthly\s+)?expenses\b|\bexpenses?\s+chart\b`)
	followUpLeadRe = regexp.MustCompile(`(?i)^(?:how|what)\s+about\s+|^and\s+(?:for\s+)?`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// Interpreter runs the query ladder against the user's ledger.
type Interpreter struct {
	ledgers ledger.Service
	aic     ai.Client
	meter   *ai.Meter
	states  state.Repository
	log     *zap.Logger
	now     func() time.Time
}

func NewInterpreter(ledgers ledger.Service, aic ai.Client, meter *ai.Meter, states state.Repository, log *zap.Logger) *Interpreter {
	return &Interpreter{
		ledgers: ledgers,
		aic:     aic,
		meter:   meter,
		states:  states,
		log:     log,
		now:     time.Now,
	}
}

// Answer computes a reply. handled is false when the question is not a
// metrics query after all (the AI classified it "unknown"); the caller
// falls through to the generic text handler.
func (i *Interpreter) Answer(ctx context.Context, profile *model.UserProfile, text string) (answer *Answer, handled bool, err error) {
	rows, err := i.ledgers.ReadRows(ctx, profile.LedgerID)
	if err != nil {
		return nil, false, fmt.Errorf("read ledger: %w", err)
	}
	entries := parseRows(rows)
	now := i.now()

	// A short follow-up inherits the previous question's intent.
	if IsFollowUp(text) {
		last, err := i.states.GetLastQuery(ctx, profile.Handle)
		if err != nil {
			return nil, false, err
		}
		if last.Fresh(now) {
			job := strings.TrimSpace(followUpLeadRe.ReplaceAllString(strings.TrimSuffix(strings.TrimSpace(text), "?"), ""))
			if job != "" {
				switch last.Intent {
				case "profit":
					return i.profitForJob(ctx, profile, entries, job)
				case "revenue":
					return i.revenueForJob(ctx, profile, entries, job)
				}
			}
		}
	}

	if chartRe.MatchString(text) {
		return i.monthlyExpenseChart(entries, now)
	}

	if billsDueRe.MatchString(text) {
		return i.billsDue(entries, now)
	}

	if m := profitMonthRe.FindStringSubmatch(text); m != nil {
		month := monthsByName[strings.ToLower(m[1])]
		year := now.Year()
		if month > now.Month() {
			year-- // "profit in November" asked in January means last November
		}
		revenue := sum(entries, and(byKind(model.KindRevenue), inMonth(year, month)))
		expenses := sum(entries, and(byKind(model.KindExpense), inMonth(year, month)))
		profit := revenue.Sub(expenses)
		return &Answer{Text: fmt.Sprintf("Profit for %s: $%s (revenue $%s, expenses $%s).",
			m[1], profit.StringFixed(2), revenue.StringFixed(2), expenses.StringFixed(2))}, true, nil
	}

	if ytdRe.MatchString(text) && strings.Contains(strings.ToLower(text), "profit") {
		revenue := sum(entries, and(byKind(model.KindRevenue), inYear(now.Year())))
		expenses := sum(entries, and(byKind(model.KindExpense), inYear(now.Year())))
		return &Answer{Text: fmt.Sprintf("Year-to-date profit: $%s (revenue $%s, expenses $%s).",
			revenue.Sub(expenses).StringFixed(2), revenue.StringFixed(2), expenses.StringFixed(2))}, true, nil
	}

	if expensesMonRe.MatchString(text) {
		total := sum(entries, and(byKind(model.KindExpense), inMonth(now.Year(), now.Month())))
		return &Answer{Text: fmt.Sprintf("Total expenses this month: $%s.", total.StringFixed(2))}, true, nil
	}

	if avgProfitRe.MatchString(text) {
		return i.averageMonthlyProfit(entries)
	}

	if m := spendCatJobRe.FindStringSubmatch(text); m != nil {
		category, job := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		total := sum(entries, and(byKind(model.KindExpense), inCategory(category), onJob(job)))
		if !total.IsZero() {
			return &Answer{Text: fmt.Sprintf("You've spent $%s on %s for %s.",
				total.StringFixed(2), category, job)}, true, nil
		}
	}

	if m := profitJobRe.FindStringSubmatch(text); m != nil {
		if job := strings.TrimSpace(m[1]); job != "" && hasJob(entries, job) {
			return i.profitForJob(ctx, profile, entries, job)
		}
	}

	if m := revenueJobRe.FindStringSubmatch(text); m != nil {
		if job := strings.TrimSpace(m[1]); job != "" && hasJob(entries, job) {
			return i.revenueForJob(ctx, profile, entries, job)
		}
	}

	return i.classify(ctx, profile, entries, text)
}

// classify is the AI fallback behind the pattern ladder.
func (i *Interpreter) classify(ctx context.Context, profile *model.UserProfile, entries []entry, text string) (*Answer, bool, error) {
	if err := i.meter.Charge(ctx, profile); err != nil {
		return nil, false, err
	}
	result, err := i.aic.ClassifyIntent(ctx, text)
	if err != nil {
		return nil, false, fmt.Errorf("intent classification: %w", err)
	}

	i.log.Debug("classified metrics query",
		zap.String("intent", result.Intent),
		zap.String("job", result.Job))

	switch result.Intent {
	case "profit":
		if result.Job != "" {
			return i.profitForJob(ctx, profile, entries, result.Job)
		}
	case "revenue":
		if result.Job != "" {
			return i.revenueForJob(ctx, profile, entries, result.Job)
		}
	case "unknown":
		return nil, false, nil
	}
	if result.Response != "" {
		return &Answer{Text: result.Response}, true, nil
	}
	return nil, false, nil
}

func (i *Interpreter) profitForJob(ctx context.Context, profile *model.UserProfile, entries []entry, job string) (*Answer, bool, error) {
	revenue := sum(entries, and(byKind(model.KindRevenue), onJob(job)))
	expenses := sum(entries, and(byKind(model.KindExpense), onJob(job)))
	i.rememberQuery(ctx, profile.Handle, "profit", job)
	return &Answer{Text: fmt.Sprintf("Profit on %s: $%s (revenue $%s, expenses $%s).",
		job, revenue.Sub(expenses).StringFixed(2), revenue.StringFixed(2), expenses.StringFixed(2))}, true, nil
}

func (i *Interpreter) revenueForJob(ctx context.Context, profile *model.UserProfile, entries []entry, job string) (*Answer, bool, error) {
	revenue := sum(entries, and(byKind(model.KindRevenue), onJob(job)))
	i.rememberQuery(ctx, profile.Handle, "revenue", job)
	return &Answer{Text: fmt.Sprintf("Revenue on %s: $%s.", job, revenue.StringFixed(2))}, true, nil
}

func (i *Interpreter) billsDue(entries []entry, now time.Time) (*Answer, bool, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueSoon := between(start, start.AddDate(0, 1, 0))

	var lines []string
	total := decimal.Zero
	for _, e := range entries {
		if e.kind != model.KindBill || !dueSoon(e) {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s — $%s due %s", e.store, e.amount.StringFixed(2), e.date.Format("Jan 2")))
		total = total.Add(e.amount)
	}
	if len(lines) == 0 {
		return &Answer{Text: "No bills due in the next month."}, true, nil
	}
	return &Answer{Text: fmt.Sprintf("Bills due in the next month (total $%s):\n%s",
		total.StringFixed(2), strings.Join(lines, "\n"))}, true, nil
}

func (i *Interpreter) averageMonthlyProfit(entries []entry) (*Answer, bool, error) {
	profits := map[string]decimal.Decimal{}
	for _, e := range entries {
		key := e.date.Format("2006-01")
		switch e.kind {
		case model.KindRevenue:
			profits[key] = profits[key].Add(e.amount)
		case model.KindExpense:
			profits[key] = profits[key].Sub(e.amount)
		}
	}
	if len(profits) == 0 {
		return &Answer{Text: "No transactions logged yet, so no profit to average."}, true, nil
	}
	total := decimal.Zero
	for _, p := range profits {
		total = total.Add(p)
	}
	avg := total.Div(decimal.NewFromInt(int64(len(profits)))).Round(2)
	return &Answer{Text: fmt.Sprintf("Average monthly profit over %d month(s): $%s.",
		len(profits), avg.StringFixed(2))}, true, nil
}

func (i *Interpreter) monthlyExpenseChart(entries []entry, now time.Time) (*Answer, bool, error) {
	png, err := RenderMonthlyExpenseChart(entries, now)
	if err != nil {
		return nil, false, fmt.Errorf("render chart: %w", err)
	}
	if png == nil {
		return &Answer{Text: "No expenses logged yet, nothing to chart."}, true, nil
	}
	return &Answer{Text: "Here's your monthly expense chart.", Chart: png}, true, nil
}

func (i *Interpreter) rememberQuery(ctx context.Context, handle, intent, job string) {
	err := i.states.SetLastQuery(ctx, handle, &model.LastQueryContext{
		Intent:    intent,
		Job:       job,
		Timestamp: i.now(),
	})
	if err != nil {
		// Losing the follow-up hint is not worth failing the answer.
		i.log.Warn("failed to store last query context", zap.Error(err))
	}
}

func hasJob(entries []entry, job string) bool {
	for _, e := range entries {
		if normalize(e.job) == normalize(job) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
