package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgermate/ledgermate/internal/ai"
	"github.com/ledgermate/ledgermate/internal/extract"
	"github.com/ledgermate/ledgermate/internal/model"
)

func isYesReply(lower string) bool {
	switch lower {
	case "yes", "y", "yep", "yeah", "yup", "sure", "ok", "okay", "confirm", "correct":
		return true
	}
	return false
}

func isNoReply(lower string) bool {
	switch lower {
	case "no", "n", "nope", "nah", "cancel", "scrap it", "wrong":
		return true
	}
	return false
}

// handlePendingConfirm resolves a yes/no/edit reply against whatever is
// awaiting confirmation. Unrecognized replies re-prompt without touching
// the pending state.
func (b *Bot) handlePendingConfirm(ctx context.Context, t *turn) (string, error) {
	p := t.pending

	// An edit resend is re-parsed as the original record kind; the
	// reply text is the new entry, not a yes/no.
	if p.Kind == model.PendingEdit {
		if err := b.states.DeletePending(ctx, t.profile.Handle); err != nil {
			return "", err
		}
		return b.extractAndConfirm(ctx, t, p.EditKind, t.text)
	}

	switch {
	case isYesReply(t.lower):
		return b.confirmYes(ctx, t, p)
	case isNoReply(t.lower):
		return b.confirmNo(ctx, t, p)
	case t.lower == "edit":
		pend := &model.PendingState{
			Kind:      model.PendingEdit,
			EditKind:  p.Record.Kind,
			CreatedAt: b.now(),
		}
		if err := b.states.SetPending(ctx, t.profile.Handle, pend); err != nil {
			return "", err
		}
		return replyEditPrompt, nil
	}
	return replyConfirmVocab, nil
}

func (b *Bot) confirmYes(ctx context.Context, t *turn, p *model.PendingState) (string, error) {
	switch p.Kind {
	case model.PendingJob:
		t.profile.ActiveJob = p.Record.Job
		if err := b.profiles.UpdateProfile(ctx, t.profile); err != nil {
			return "", err
		}
		if err := b.states.DeletePending(ctx, t.profile.Handle); err != nil {
			return "", err
		}
		return fmt.Sprintf("On it. New entries will be attached to %s until you finish the job.", p.Record.Job), nil

	case model.PendingCorrection:
		applyFields(p.Record, p.Suggested, b.now())
		return b.finalize(ctx, t, p.Record)

	default:
		return b.finalize(ctx, t, p.Record)
	}
}

func (b *Bot) confirmNo(ctx context.Context, t *turn, p *model.PendingState) (string, error) {
	// Rejecting a correction suggestion flows into an edit resend rather
	// than dropping the entry outright.
	if p.Kind == model.PendingCorrection {
		pend := &model.PendingState{
			Kind:      model.PendingEdit,
			EditKind:  p.Record.Kind,
			CreatedAt: b.now(),
		}
		if err := b.states.SetPending(ctx, t.profile.Handle, pend); err != nil {
			return "", err
		}
		return replyEditPrompt, nil
	}

	if err := b.states.DeletePending(ctx, t.profile.Handle); err != nil {
		return "", err
	}
	return "Okay, scrapped it. Nothing was logged.", nil
}

// finalize appends the confirmed record and clears the pending slot.
func (b *Bot) finalize(ctx context.Context, t *turn, r *model.TransactionRecord) (string, error) {
	if r.Job == "" {
		r.Job = t.profile.ActiveJob
	}
	r.GenerateID()

	if err := b.ledgers.AppendRow(ctx, t.profile.LedgerID, r.Row()); err != nil {
		return "", err
	}
	if err := b.states.DeletePending(ctx, t.profile.Handle); err != nil {
		return "", err
	}
	b.log.Info("record appended",
		zap.String("from", t.profile.Handle),
		zap.String("kind", string(r.Kind)),
		zap.String("amount", r.Amount.StringFixed(2)))
	return loggedReply(r), nil
}

// handleQuoteFinalize resolves a pending quote by customer identity: an
// e-mail address mails the rendered quote, anything else names the
// customer and returns the document in chat.
func (b *Bot) handleQuoteFinalize(ctx context.Context, t *turn) (string, error) {
	q := t.pending.Quote
	reply := strings.TrimSpace(t.msg.Text())

	if isNoReply(t.lower) {
		if err := b.states.DeletePending(ctx, t.profile.Handle); err != nil {
			return "", err
		}
		return "Scrapped the quote.", nil
	}

	if err := b.states.DeletePending(ctx, t.profile.Handle); err != nil {
		return "", err
	}

	if emailRe.MatchString(reply) {
		q.CustomerEmail = reply
		doc := renderQuoteDocument(q, t.profile)
		subject := fmt.Sprintf("Quote for %s", q.JobName)
		if err := b.mail.SendText(ctx, q.CustomerEmail, subject, doc); err != nil {
			return "", err
		}
		return fmt.Sprintf("Quote sent to %s. 📧", q.CustomerEmail), nil
	}

	q.CustomerName = reply
	return renderQuoteDocument(q, t.profile), nil
}

// handleChief is the two-phase operator relay: the keyword opens a draft,
// the next message is forwarded verbatim. Text after the keyword on the
// same line skips the draft step.
func (b *Bot) handleChief(ctx context.Context, t *turn) (string, error) {
	if b.chiefHandle == "" {
		return "There's no chief number set up for your crew yet.", nil
	}

	if t.pending != nil && t.pending.Kind == model.PendingChiefMessage {
		if err := b.forwardToChief(ctx, t.profile, t.msg.Text()); err != nil {
			return "", err
		}
		if err := b.states.DeletePending(ctx, t.profile.Handle); err != nil {
			return "", err
		}
		return replyChiefSent, nil
	}

	// The keyword is ASCII, so slicing the original by its length keeps the
	// user's casing without assuming ToLower preserved byte offsets.
	orig := strings.TrimSpace(t.msg.Text())
	if len(orig) >= len(chiefKeyword) && strings.EqualFold(orig[:len(chiefKeyword)], chiefKeyword) {
		body := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(orig[len(chiefKeyword):]), ":,- "))
		if body != "" {
			if err := b.forwardToChief(ctx, t.profile, body); err != nil {
				return "", err
			}
			return replyChiefSent, nil
		}
	}

	pend := &model.PendingState{Kind: model.PendingChiefMessage, CreatedAt: b.now()}
	if err := b.states.SetPending(ctx, t.profile.Handle, pend); err != nil {
		return "", err
	}
	return replyChiefPrompt, nil
}

func (b *Bot) forwardToChief(ctx context.Context, from *model.UserProfile, body string) error {
	who := from.Name
	if who == "" {
		who = from.Handle
	}
	return b.sender.SendText(ctx, b.chiefHandle, fmt.Sprintf("Message from %s: %s", who, body))
}

// extractAndConfirm is the shared record pipeline: deterministic parse,
// validation, AI-assisted correction of partial parses, full AI fallback
// for misses, always ending in a confirmation prompt.
func (b *Bot) extractAndConfirm(ctx context.Context, t *turn, kind model.RecordKind, text string) (string, error) {
	var (
		record *model.TransactionRecord
		ok     bool
	)
	switch kind {
	case model.KindRevenue:
		record, ok = extract.Revenue(text, b.now())
	case model.KindBill:
		record, ok = extract.Bill(text, b.now())
	default:
		record, ok = extract.Expense(text, b.now())
	}

	if !ok {
		return b.aiExtract(ctx, t, kind, text)
	}

	if problems := extract.Validate(record, kind); len(problems) > 0 {
		return b.negotiateCorrection(ctx, t, record, problems, text)
	}

	return b.storeConfirm(ctx, t, record)
}

// aiExtract is the full-extraction fallback when the deterministic parse
// found nothing at all.
func (b *Bot) aiExtract(ctx context.Context, t *turn, kind model.RecordKind, text string) (string, error) {
	if err := b.meter.Charge(ctx, t.profile); err != nil {
		if errors.Is(err, ai.ErrQuotaExceeded) {
			return quotaReply(t.profile), nil
		}
		return "", err
	}

	fields, err := b.aic.ExtractRecord(ctx, text, kind)
	if err != nil {
		if errors.Is(err, ai.ErrBadCompletion) {
			return replyNotUnderstood, nil
		}
		return "", err
	}

	record := recordFromFields(fields, kind, b.now())
	if problems := extract.Validate(record, kind); len(problems) > 0 {
		return replyNotUnderstood, nil
	}
	return b.storeConfirm(ctx, t, record)
}

// negotiateCorrection asks the AI for replacement values for the invalid
// fields and parks them as a correction suggestion.
func (b *Bot) negotiateCorrection(ctx context.Context, t *turn, record *model.TransactionRecord, problems []extract.Problem, text string) (string, error) {
	if err := b.meter.Charge(ctx, t.profile); err != nil {
		if errors.Is(err, ai.ErrQuotaExceeded) {
			return quotaReply(t.profile), nil
		}
		return "", err
	}

	partial := fieldsFromRecord(record)
	fields := make([]string, 0, len(problems))
	for _, p := range problems {
		fields = append(fields, p.Field)
	}

	suggested, err := b.aic.SuggestCorrections(ctx, text, partial, fields)
	if err != nil {
		if errors.Is(err, ai.ErrBadCompletion) {
			return replyNotUnderstood, nil
		}
		return "", err
	}
	if len(suggested) == 0 {
		return replyNotUnderstood, nil
	}

	pend := &model.PendingState{
		Kind:      model.PendingCorrection,
		Record:    record,
		Suggested: suggested,
		CreatedAt: b.now(),
	}
	if err := b.states.SetPending(ctx, t.profile.Handle, pend); err != nil {
		return "", err
	}
	return correctionPrompt(record, suggested), nil
}

func (b *Bot) storeConfirm(ctx context.Context, t *turn, record *model.TransactionRecord) (string, error) {
	pend := &model.PendingState{
		Kind:      pendingKindFor(record.Kind),
		Record:    record,
		CreatedAt: b.now(),
	}
	if err := b.states.SetPending(ctx, t.profile.Handle, pend); err != nil {
		return "", err
	}
	return confirmPrompt(record), nil
}

func pendingKindFor(kind model.RecordKind) model.PendingKind {
	switch kind {
	case model.KindRevenue:
		return model.PendingRevenue
	case model.KindBill:
		return model.PendingBill
	}
	return model.PendingExpense
}

// fieldsFromRecord flattens the non-empty record fields to the field-map
// shape the completion service works in.
func fieldsFromRecord(r *model.TransactionRecord) map[string]string {
	m := map[string]string{}
	if !r.Date.IsZero() {
		m["date"] = r.Date.Format("2006-01-02")
	}
	if r.Item != "" {
		m["item"] = r.Item
	}
	if r.Amount.IsPositive() {
		m["amount"] = r.Amount.StringFixed(2)
	}
	if r.Store != "" {
		m["store"] = r.Store
	}
	if r.Job != "" {
		m["job"] = r.Job
	}
	if r.Category != "" {
		m["category"] = r.Category
	}
	return m
}

// recordFromFields builds a record from a completion field map. Dates come
// back either ISO or in the user's own words; both are accepted.
func recordFromFields(fields map[string]string, kind model.RecordKind, now time.Time) *model.TransactionRecord {
	r := &model.TransactionRecord{Kind: kind, Date: now}

	if v := fields["date"]; v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			r.Date = d
		} else if d, ok := extract.ParseDate(v, now); ok {
			r.Date = d
		}
	}
	r.Item = strings.TrimSpace(fields["item"])
	if v := fields["amount"]; v != "" {
		if amt, err := decimal.NewFromString(strings.TrimPrefix(v, "$")); err == nil {
			r.Amount = amt
		}
	}
	r.Store = strings.TrimSpace(fields["store"])
	r.Job = strings.TrimSpace(fields["job"])
	r.Category = strings.TrimSpace(fields["category"])
	if r.Category == "" {
		switch kind {
		case model.KindRevenue:
			r.Category = "Income"
		case model.KindBill:
			r.Category = "Bills"
		default:
			r.Category = "General"
		}
	}
	return r
}

// applyFields merges accepted correction suggestions over the record.
func applyFields(r *model.TransactionRecord, fields map[string]string, now time.Time) {
	for f, v := range fields {
		v = strings.TrimSpace(v)
		switch f {
		case "date":
			if d, err := time.Parse("2006-01-02", v); err == nil {
				r.Date = d
			} else if d, ok := extract.ParseDate(v, now); ok {
				r.Date = d
			}
		case "item":
			r.Item = v
		case "amount":
			if amt, err := decimal.NewFromString(strings.TrimPrefix(v, "$")); err == nil {
				r.Amount = amt
			}
		case "store":
			r.Store = v
		case "job":
			r.Job = v
		case "category":
			r.Category = v
		}
	}
}
