package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ledgermate/ledgermate/internal/ai"
	"github.com/ledgermate/ledgermate/internal/extract"
	"github.com/ledgermate/ledgermate/internal/model"
	"github.com/ledgermate/ledgermate/internal/quote"
)

// handleStartJob sets the active cost center after a confirmation round
// trip. The job name falls back to the AI when it cannot be split out.
func (b *Bot) handleStartJob(ctx context.Context, t *turn) (string, error) {
	m := startJobRe.FindStringSubmatch(t.text)
	name := strings.TrimSpace(m[1])

	if name == "" {
		if err := b.meter.Charge(ctx, t.profile); err != nil {
			if errors.Is(err, ai.ErrQuotaExceeded) {
				return "What should I call the job? Try \"start job 85 Westmount siding\".", nil
			}
			return "", err
		}
		extracted, err := b.aic.ExtractJobName(ctx, t.text)
		if err != nil || extracted == "" {
			return "What should I call the job? Try \"start job 85 Westmount siding\".", nil
		}
		name = extracted
	}

	if problems := extract.ValidateJobName(name); problems != nil {
		return "That job name is too short. Try \"start job 85 Westmount siding\".", nil
	}

	record := &model.TransactionRecord{Job: name, Kind: model.KindExpense}
	err := b.states.SetPending(ctx, t.profile.Handle, &model.PendingState{
		Kind:      model.PendingJob,
		Record:    record,
		CreatedAt: b.now(),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Start job %q and attach new entries to it? (yes/no)", name), nil
}

// handleFinishJob closes the named job immediately, no confirmation.
func (b *Bot) handleFinishJob(ctx context.Context, t *turn) (string, error) {
	m := finishJobRe.FindStringSubmatch(t.text)
	name := strings.TrimSpace(m[1])

	if strings.EqualFold(t.profile.ActiveJob, name) {
		t.profile.ActiveJob = ""
		if err := b.profiles.UpdateProfile(ctx, t.profile); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Wrapped up %s. New entries won't be attached to it anymore.", name), nil
}

func (b *Bot) handleBill(ctx context.Context, t *turn) (string, error) {
	return b.extractAndConfirm(ctx, t, model.KindBill, t.text)
}

func (b *Bot) handleRevenue(ctx context.Context, t *turn) (string, error) {
	return b.extractAndConfirm(ctx, t, model.KindRevenue, t.text)
}

// handleMetrics answers an analytics question; an "unknown" classification
// falls through to the generic text handler, which owns ambiguous text.
func (b *Bot) handleMetrics(ctx context.Context, t *turn) (string, error) {
	answer, handled, err := b.reports.Answer(ctx, t.profile, t.text)
	if err != nil {
		if errors.Is(err, ai.ErrQuotaExceeded) {
			return quotaReply(t.profile), nil
		}
		return "", err
	}
	if !handled {
		return b.handleGenericText(ctx, t)
	}
	if answer.Chart != nil {
		if err := b.sender.SendMedia(ctx, t.profile.Handle, answer.Text, answer.Chart, "image/png"); err != nil {
			return "", err
		}
		return "", nil
	}
	return answer.Text, nil
}

// handleMedia turns an attachment into text (OCR for images, transcription
// for audio) and runs the expense pipeline on the result.
func (b *Bot) handleMedia(ctx context.Context, t *turn) (string, error) {
	var text string
	var err error

	switch {
	case strings.HasPrefix(t.msg.MediaContentType, "audio/"):
		audio, contentType, ferr := b.fetcher.FetchMedia(ctx, t.msg.MediaURL)
		if ferr != nil {
			return "", ferr
		}
		text, err = b.stt.Transcribe(ctx, audio, contentType)
	case strings.HasPrefix(t.msg.MediaContentType, "image/"):
		text, err = b.ocr.ExtractText(ctx, t.msg.MediaURL)
	default:
		return "I can read receipt photos and voice notes, but not that attachment type.", nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "I couldn't read anything usable from that. Mind typing it out?", nil
	}

	b.log.Debug("media converted to text", zap.String("from", t.profile.Handle), zap.Int("chars", len(text)))
	return b.extractAndConfirm(ctx, t, model.KindExpense, text)
}

// handleQuote computes a draft and stores it pending customer identity.
func (b *Bot) handleQuote(ctx context.Context, t *turn) (string, error) {
	draft, err := b.quotes.Parse(ctx, t.text, t.profile.Country, t.profile.Region)
	if err != nil {
		if err == quote.ErrNotQuote {
			return "I couldn't read that quote. Try \"quote for 123 Happy St: 15 shingles, 10 plywood\" " +
				"or \"quote for 123 Happy St: 675 for siding\".", nil
		}
		return "", err
	}

	err = b.states.SetPending(ctx, t.profile.Handle, &model.PendingState{
		Kind:      model.PendingQuote,
		Quote:     draft,
		CreatedAt: b.now(),
	})
	if err != nil {
		return "", err
	}
	return quotePrompt(draft), nil
}

// handleEmailSpreadsheet exports the ledger and mails it to the profile
// address.
func (b *Bot) handleEmailSpreadsheet(ctx context.Context, t *turn) (string, error) {
	if t.profile.Email == "" {
		return "I don't have an e-mail on file for you yet. Tell me where to send it, like " +
			"\"email my spreadsheet to me@example.com\" — or re-run setup.", nil
	}
	csvData, err := b.ledgers.ExportCSV(ctx, t.profile.LedgerID)
	if err != nil {
		return "", err
	}
	err = b.mail.SendAttachment(ctx, t.profile.Email,
		"Your ledger export",
		"Attached is the current export of your books.",
		"ledger.csv", csvData, "text/csv")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Sent! Your spreadsheet is on its way to %s. 📧", t.profile.Email), nil
}

// handleGenericText is the catch-all for free text: expense first, then
// revenue, with the shared fallback chain behind both.
func (b *Bot) handleGenericText(ctx context.Context, t *turn) (string, error) {
	if _, ok := extract.Revenue(t.text, b.now()); ok {
		return b.extractAndConfirm(ctx, t, model.KindRevenue, t.text)
	}
	return b.extractAndConfirm(ctx, t, model.KindExpense, t.text)
}
