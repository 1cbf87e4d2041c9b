package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledgermate/ledgermate/internal/model"
)

const (
	replyNotUnderstood = "Sorry, I didn't catch that. You can text me an expense " +
		"(\"$50 of nails from Home Depot\"), a payment (\"received $750 from the Dale St job\"), " +
		"a bill, a quote request, or ask about your numbers."

	replyInternalError = "Something went wrong on my end. Please try that again in a moment."

	replyQuotaExceeded = "You've used up this month's AI assists. Upgrade your plan to keep " +
		"smart parsing, or send the entry in a standard format like \"$50 of nails from Home Depot\"."

	replyFreeTierReject = "I couldn't read that one. Could you resend it like " +
		"\"$50 of nails from Home Depot\"?"

	replyConfirmVocab = "Please reply yes, no, or edit."

	replyEditPrompt = "Okay — send that entry again in your own words and I'll take another pass."

	replyChiefPrompt = "What should I pass along to the chief?"

	replyChiefSent = "Passed along. The chief will get back to you."
)

// quotaReply picks the denial wording: free-tier users get the
// resend-in-standard-format nudge, paid users the exhausted-allowance
// notice.
func quotaReply(p *model.UserProfile) string {
	if p.Tier.AICallAllowance() == 0 {
		return replyFreeTierReject
	}
	return replyQuotaExceeded
}

// confirmPrompt renders a pending record for yes/no/edit confirmation.
func confirmPrompt(r *model.TransactionRecord) string {
	var what string
	switch r.Kind {
	case model.KindRevenue:
		what = fmt.Sprintf("%s from %s", r.AmountString(), r.Store)
	case model.KindBill:
		what = fmt.Sprintf("%s bill, %s due %s", r.Store, r.AmountString(), r.Date.Format("Jan 2"))
	default:
		what = fmt.Sprintf("%s for %s at %s", r.AmountString(), r.Item, r.Store)
	}
	return fmt.Sprintf("Got it: %s on %s. Log it? (yes/no/edit)", what, r.Date.Format("Jan 2"))
}

// correctionPrompt renders old -> new per suggested field.
func correctionPrompt(r *model.TransactionRecord, suggested map[string]string) string {
	current := map[string]string{
		"date":     r.Date.Format("2006-01-02"),
		"item":     r.Item,
		"amount":   r.Amount.StringFixed(2),
		"store":    r.Store,
		"job":      r.Job,
		"category": r.Category,
	}

	fields := make([]string, 0, len(suggested))
	for f := range suggested {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var lines []string
	for _, f := range fields {
		old := current[f]
		if old == "" {
			old = "(missing)"
		}
		lines = append(lines, fmt.Sprintf("• %s: %s → %s", f, old, suggested[f]))
	}

	return fmt.Sprintf("That didn't fully parse. Here's my best guess:\n%s\nUse these? (yes/no)",
		strings.Join(lines, "\n"))
}

// loggedReply confirms a finalized record.
func loggedReply(r *model.TransactionRecord) string {
	switch r.Kind {
	case model.KindRevenue:
		return fmt.Sprintf("Logged: %s received from %s. ✅", r.AmountString(), r.Store)
	case model.KindBill:
		return fmt.Sprintf("Logged: %s bill for %s, due %s. ✅", r.Store, r.AmountString(), r.Date.Format("Jan 2"))
	default:
		return fmt.Sprintf("Logged: %s, %s at %s. ✅", r.AmountString(), r.Item, r.Store)
	}
}

// quotePrompt renders the draft and asks for the customer identity that
// finalizes it.
func quotePrompt(q *model.QuoteDraft) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Quote for %s:\n", q.JobName)
	for _, item := range q.Items {
		fmt.Fprintf(&sb, "• %s × %s @ $%s = $%s\n",
			item.Item, item.Quantity.String(), item.UnitPrice.StringFixed(2),
			item.UnitPrice.Mul(item.Quantity).StringFixed(2))
	}
	fmt.Fprintf(&sb, "Subtotal: $%s\nTax: $%s\nTotal: $%s\n",
		q.Subtotal.StringFixed(2), q.Tax.StringFixed(2), q.Total.StringFixed(2))

	if len(q.MissingPrices) > 0 {
		fmt.Fprintf(&sb, "⚠️ No price on file for: %s\n", strings.Join(q.MissingPrices, ", "))
	}

	sb.WriteString("Who is this quote for? Send the customer's name or e-mail.")
	return sb.String()
}

// renderQuoteDocument is the full text body used for e-mail delivery.
func renderQuoteDocument(q *model.QuoteDraft, p *model.UserProfile) string {
	var sb strings.Builder
	if p.CompanyName != "" {
		fmt.Fprintf(&sb, "%s\n", p.CompanyName)
	}
	if p.Address != "" {
		fmt.Fprintf(&sb, "%s\n", p.Address)
	}
	if p.TaxNumber != "" {
		fmt.Fprintf(&sb, "Tax registration: %s\n", p.TaxNumber)
	}
	fmt.Fprintf(&sb, "\nQuote — %s\n", q.JobName)
	if q.CustomerName != "" {
		fmt.Fprintf(&sb, "Prepared for: %s\n", q.CustomerName)
	}
	sb.WriteString("\n")
	for _, item := range q.Items {
		fmt.Fprintf(&sb, "%-30s %6s × $%s = $%s\n",
			item.Item, item.Quantity.String(), item.UnitPrice.StringFixed(2),
			item.UnitPrice.Mul(item.Quantity).StringFixed(2))
	}
	fmt.Fprintf(&sb, "\nSubtotal: $%s\nTax:      $%s\nTotal:    $%s\n",
		q.Subtotal.StringFixed(2), q.Tax.StringFixed(2), q.Total.StringFixed(2))
	return sb.String()
}
