// Package bot is the per-message decision procedure: given the user's
// profile, conversation state and the inbound message, it picks exactly one
// handler in a fixed priority order and produces the reply.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ledgermate/ledgermate/internal/ai"
	"github.com/ledgermate/ledgermate/internal/ledger"
	"github.com/ledgermate/ledgermate/internal/mailer"
	"github.com/ledgermate/ledgermate/internal/media"
	"github.com/ledgermate/ledgermate/internal/model"
	"github.com/ledgermate/ledgermate/internal/onboarding"
	"github.com/ledgermate/ledgermate/internal/quote"
	"github.com/ledgermate/ledgermate/internal/reports"
	"github.com/ledgermate/ledgermate/internal/state"
	"github.com/ledgermate/ledgermate/internal/transport"
)

// Bot owns the handler dependencies. All external calls go through the
// injected interfaces so tests can fake them.
type Bot struct {
	profiles ledger.ProfileRepository
	ledgers  ledger.Service
	states   state.Repository
	onboard  *onboarding.Machine
	quotes   *quote.Engine
	aic      ai.Client
	meter    *ai.Meter
	reports  *reports.Interpreter
	sender   transport.Sender
	fetcher  transport.MediaFetcher
	ocr      media.OCR
	stt      media.Transcriber
	mail     mailer.Mailer

	chiefHandle string
	log         *zap.Logger
	now         func() time.Time

	rules []rule
}

// Deps bundles the constructor arguments.
type Deps struct {
	Profiles ledger.ProfileRepository
	Ledgers  ledger.Service
	States   state.Repository
	Onboard  *onboarding.Machine
	Quotes   *quote.Engine
	AI       ai.Client
	Meter    *ai.Meter
	Reports  *reports.Interpreter
	Sender   transport.Sender
	Fetcher  transport.MediaFetcher
	OCR      media.OCR
	STT      media.Transcriber
	Mail     mailer.Mailer

	ChiefHandle string
	Log         *zap.Logger
}

func New(d Deps) *Bot {
	b := &Bot{
		profiles:    d.Profiles,
		ledgers:     d.Ledgers,
		states:      d.States,
		onboard:     d.Onboard,
		quotes:      d.Quotes,
		aic:         d.AI,
		meter:       d.Meter,
		reports:     d.Reports,
		sender:      d.Sender,
		fetcher:     d.Fetcher,
		ocr:         d.OCR,
		stt:         d.STT,
		mail:        d.Mail,
		chiefHandle: d.ChiefHandle,
		log:         d.Log,
		now:         time.Now,
	}
	b.rules = b.buildRules()
	return b
}

// turn is the evaluated context of one inbound message.
type turn struct {
	msg     transport.InboundMessage
	text    string // effective text, button presses included
	lower   string
	profile *model.UserProfile
	pending *model.PendingState
}

// rule is one (predicate, handler) pair of the dispatch ladder. The first
// matching rule handles the whole turn.
type rule struct {
	name   string
	match  func(*turn) bool
	handle func(context.Context, *turn) (string, error)
}

// buildRules returns the dispatch ladder in priority order. Order is the
// contract; the router walks this slice front to back and stops at the
// first match.
func (b *Bot) buildRules() []rule {
	return []rule{
		{name: "finalize-quote", match: b.matchPendingQuote, handle: b.handleQuoteFinalize},
		{name: "chief-message", match: b.matchChief, handle: b.handleChief},
		{name: "pending-confirm", match: b.matchPendingConfirm, handle: b.handlePendingConfirm},
		{name: "start-job", match: matchStartJob, handle: b.handleStartJob},
		{name: "email-spreadsheet", match: matchEmailSpreadsheet, handle: b.handleEmailSpreadsheet},
		{name: "bill", match: matchBill, handle: b.handleBill},
		{name: "revenue", match: matchRevenue, handle: b.handleRevenue},
		{name: "finish-job", match: matchFinishJob, handle: b.handleFinishJob},
		{name: "metrics", match: b.matchMetrics, handle: b.handleMetrics},
		{name: "media", match: matchMedia, handle: b.handleMedia},
		{name: "quote", match: matchQuote, handle: b.handleQuote},
		{name: "generic-text", match: matchAlways, handle: b.handleGenericText},
	}
}

// HandleMessage runs one full turn: profile load/create, onboarding, then
// the dispatch ladder. All failures are converted to a user-facing reply;
// nothing propagates to the transport as a fault.
func (b *Bot) HandleMessage(ctx context.Context, msg transport.InboundMessage) {
	log := b.log.With(zap.String("from", msg.From))

	reply, err := b.route(ctx, msg)
	if err != nil {
		log.Error("turn failed", zap.Error(err))
		reply = b.errorReply(err)
	}
	if reply == "" {
		return
	}
	if err := b.sender.SendText(ctx, msg.From, reply); err != nil {
		log.Error("failed to send reply", zap.Error(err))
	}
}

func (b *Bot) route(ctx context.Context, msg transport.InboundMessage) (string, error) {
	profile, err := b.loadOrCreateProfile(ctx, msg.From)
	if err != nil {
		return "", err
	}
	if err := b.meter.CountMessage(ctx, profile); err != nil {
		// Usage accounting never blocks a turn.
		b.log.Warn("failed to count message", zap.Error(err))
	}

	if profile.OnboardingInProgress {
		return b.runOnboarding(ctx, profile, msg)
	}

	pending, err := b.states.GetPending(ctx, msg.From)
	if err != nil {
		return "", err
	}

	t := &turn{
		msg:     msg,
		text:    msg.Text(),
		lower:   strings.ToLower(strings.TrimSpace(msg.Text())),
		profile: profile,
		pending: pending,
	}

	for _, r := range b.rules {
		if r.match(t) {
			b.log.Debug("dispatching", zap.String("rule", r.name), zap.String("from", msg.From))
			return r.handle(ctx, t)
		}
	}
	return replyNotUnderstood, nil
}

func (b *Bot) loadOrCreateProfile(ctx context.Context, handle string) (*model.UserProfile, error) {
	profile, err := b.profiles.GetProfile(ctx, handle)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &model.UserProfile{
		Handle:               handle,
		Tier:                 model.TierFree,
		OnboardingInProgress: true,
	}
	if err := b.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	b.log.Info("new user", zap.String("handle", handle))
	return profile, nil
}

func (b *Bot) runOnboarding(ctx context.Context, profile *model.UserProfile, msg transport.InboundMessage) (string, error) {
	s, err := b.states.GetOnboarding(ctx, profile.Handle)
	if err != nil {
		return "", err
	}
	if s == nil {
		return b.onboard.Begin(ctx, profile)
	}
	reply, _, err := b.onboard.Advance(ctx, profile, s, msg.Text(), msg.MediaURL)
	return reply, err
}

func (b *Bot) errorReply(err error) string {
	if errors.Is(err, ai.ErrQuotaExceeded) {
		return replyQuotaExceeded
	}
	return replyInternalError
}

func matchAlways(*turn) bool { return true }
