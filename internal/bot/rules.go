package bot

import (
	"regexp"
	"strings"

	"github.com/ledgermate/ledgermate/internal/model"
	"github.com/ledgermate/ledgermate/internal/reports"
)

// Predicates for the dispatch ladder. Kept separate from the handlers so a
// test can walk the rule table and assert each one in isolation.

var (
	startJobRe  = regexp.MustCompile(`(?i)^(?:start\s+job|job\s+start)\b\s*(.*)$`)
	finishJobRe = regexp.MustCompile(`(?i)^finish\s+job\s+(.+)$`)
	emailRe     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var revenueKeywords = []string{
	"received", "got paid", "was paid", "collected", "payment from", "invoiced",
}

const chiefKeyword = "message the chief"

func (b *Bot) matchPendingQuote(t *turn) bool {
	return t.pending != nil && t.pending.Kind == model.PendingQuote
}

func (b *Bot) matchChief(t *turn) bool {
	if t.pending != nil && t.pending.Kind == model.PendingChiefMessage {
		return true
	}
	return strings.HasPrefix(t.lower, chiefKeyword)
}

func (b *Bot) matchPendingConfirm(t *turn) bool {
	if t.pending == nil {
		return false
	}
	switch t.pending.Kind {
	case model.PendingExpense, model.PendingRevenue, model.PendingBill,
		model.PendingJob, model.PendingCorrection, model.PendingEdit:
		return true
	}
	return false
}

func matchStartJob(t *turn) bool {
	return startJobRe.MatchString(t.text)
}

func matchEmailSpreadsheet(t *turn) bool {
	return strings.Contains(t.lower, "email") &&
		(strings.Contains(t.lower, "spreadsheet") || strings.Contains(t.lower, "ledger"))
}

// A bills-due question also contains "bill"; it belongs to the metrics
// rule, not the logging pipeline.
func matchBill(t *turn) bool {
	return strings.Contains(t.lower, "bill") && !reports.IsBillsDueQuery(t.text)
}

func matchRevenue(t *turn) bool {
	for _, kw := range revenueKeywords {
		if strings.Contains(t.lower, kw) {
			return true
		}
	}
	return false
}

func matchFinishJob(t *turn) bool {
	return finishJobRe.MatchString(t.text)
}

func (b *Bot) matchMetrics(t *turn) bool {
	if reports.LooksLikeQuery(t.text) {
		return true
	}
	return reports.IsFollowUp(t.text)
}

func matchMedia(t *turn) bool {
	return t.msg.HasMedia()
}

func matchQuote(t *turn) bool {
	return strings.HasPrefix(t.lower, "quote")
}
