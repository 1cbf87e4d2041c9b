package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgermate/ledgermate/internal/ai"
	"github.com/ledgermate/ledgermate/internal/model"
	"github.com/ledgermate/ledgermate/internal/onboarding"
	"github.com/ledgermate/ledgermate/internal/quote"
	"github.com/ledgermate/ledgermate/internal/reports"
	"github.com/ledgermate/ledgermate/internal/transport"
)

var botNow = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

// --- fakes ---

type memProfiles struct {
	byHandle map[string]*model.UserProfile
}

func (m *memProfiles) GetProfile(_ context.Context, handle string) (*model.UserProfile, error) {
	return m.byHandle[handle], nil
}
func (m *memProfiles) CreateProfile(_ context.Context, p *model.UserProfile) error {
	m.byHandle[p.Handle] = p
	return nil
}
func (m *memProfiles) UpdateProfile(_ context.Context, p *model.UserProfile) error {
	m.byHandle[p.Handle] = p
	return nil
}

type memLedger struct {
	rows   map[string][][]string
	prices map[string]decimal.Decimal
	csv    []byte
}

func newMemLedger() *memLedger {
	return &memLedger{rows: map[string][][]string{}, prices: map[string]decimal.Decimal{}}
}

func (m *memLedger) GetOrCreateLedger(_ context.Context, handle string) (string, error) {
	return "ledger-" + handle, nil
}
func (m *memLedger) AppendRow(_ context.Context, ledgerID string, row []string) error {
	m.rows[ledgerID] = append(m.rows[ledgerID], row)
	return nil
}
func (m *memLedger) ReadRows(_ context.Context, ledgerID string) ([][]string, error) {
	return m.rows[ledgerID], nil
}
func (m *memLedger) ExportCSV(context.Context, string) ([]byte, error) { return m.csv, nil }
func (m *memLedger) GetPriceMap(context.Context, string) (map[string]decimal.Decimal, error) {
	return m.prices, nil
}

type memStates struct {
	onboarding map[string]*model.OnboardingState
	pending    map[string]*model.PendingState
	lastQuery  map[string]*model.LastQueryContext
}

func newMemStates() *memStates {
	return &memStates{
		onboarding: map[string]*model.OnboardingState{},
		pending:    map[string]*model.PendingState{},
		lastQuery:  map[string]*model.LastQueryContext{},
	}
}

func (m *memStates) GetOnboarding(_ context.Context, h string) (*model.OnboardingState, error) {
	return m.onboarding[h], nil
}
func (m *memStates) SetOnboarding(_ context.Context, h string, s *model.OnboardingState) error {
	m.onboarding[h] = s
	return nil
}
func (m *memStates) DeleteOnboarding(_ context.Context, h string) error {
	delete(m.onboarding, h)
	return nil
}
func (m *memStates) GetPending(_ context.Context, h string) (*model.PendingState, error) {
	return m.pending[h], nil
}
func (m *memStates) SetPending(_ context.Context, h string, s *model.PendingState) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.pending[h] = s
	return nil
}
func (m *memStates) DeletePending(_ context.Context, h string) error {
	delete(m.pending, h)
	return nil
}
func (m *memStates) GetLastQuery(_ context.Context, h string) (*model.LastQueryContext, error) {
	return m.lastQuery[h], nil
}
func (m *memStates) SetLastQuery(_ context.Context, h string, s *model.LastQueryContext) error {
	m.lastQuery[h] = s
	return nil
}

type sentMessage struct {
	to   string
	body string
}

type fakeSender struct {
	sent  []sentMessage
	media [][]byte
}

func (f *fakeSender) SendText(_ context.Context, to, body string) error {
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	return nil
}
func (f *fakeSender) SendTemplate(_ context.Context, to, _ string, _ ...string) error {
	f.sent = append(f.sent, sentMessage{to: to})
	return nil
}
func (f *fakeSender) SendMedia(_ context.Context, to, body string, media []byte, _ string) error {
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	f.media = append(f.media, media)
	return nil
}

type fakeFetcher struct {
	data []byte
	ct   string
}

func (f *fakeFetcher) FetchMedia(context.Context, string) ([]byte, string, error) {
	return f.data, f.ct, nil
}

type fakeOCR struct{ text string }

func (f *fakeOCR) ExtractText(context.Context, string) (string, error) { return f.text, nil }

type fakeSTT struct{ text string }

func (f *fakeSTT) Transcribe(context.Context, []byte, string) (string, error) { return f.text, nil }

type sentMail struct {
	to       string
	subject  string
	filename string
}

type fakeMailer struct {
	mails []sentMail
}

func (f *fakeMailer) SendText(_ context.Context, to, subject, _ string) error {
	f.mails = append(f.mails, sentMail{to: to, subject: subject})
	return nil
}
func (f *fakeMailer) SendAttachment(_ context.Context, to, subject, _, filename string, _ []byte, _ string) error {
	f.mails = append(f.mails, sentMail{to: to, subject: subject, filename: filename})
	return nil
}

type scriptedAI struct {
	extracted   map[string]string
	suggestions map[string]string
	intent      *ai.IntentResult
	jobName     string

	extractCalls  int
	suggestCalls  int
	classifyCalls int
}

func (s *scriptedAI) ExtractRecord(context.Context, string, model.RecordKind) (map[string]string, error) {
	s.extractCalls++
	if s.extracted == nil {
		return nil, ai.ErrBadCompletion
	}
	return s.extracted, nil
}
func (s *scriptedAI) SuggestCorrections(context.Context, string, map[string]string, []string) (map[string]string, error) {
	s.suggestCalls++
	if s.suggestions == nil {
		return nil, ai.ErrBadCompletion
	}
	return s.suggestions, nil
}
func (s *scriptedAI) ClassifyIntent(context.Context, string) (*ai.IntentResult, error) {
	s.classifyCalls++
	if s.intent == nil {
		return &ai.IntentResult{Intent: "unknown"}, nil
	}
	return s.intent, nil
}
func (s *scriptedAI) ExtractJobName(context.Context, string) (string, error) {
	return s.jobName, nil
}

// --- harness ---

type fixture struct {
	bot      *Bot
	profiles *memProfiles
	ledgers  *memLedger
	states   *memStates
	sender   *fakeSender
	mailer   *fakeMailer
	aic      *scriptedAI
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	profiles := &memProfiles{byHandle: map[string]*model.UserProfile{}}
	ledgers := newMemLedger()
	states := newMemStates()
	sender := &fakeSender{}
	mail := &fakeMailer{}
	aic := &scriptedAI{}
	log := zap.NewNop()
	meter := ai.NewMeter(profiles)

	b := New(Deps{
		Profiles:    profiles,
		Ledgers:     ledgers,
		States:      states,
		Onboard:     onboarding.NewMachine(states, profiles, ledgers, log),
		Quotes:      quote.NewEngine(ledgers, "pricing-1"),
		AI:          aic,
		Meter:       meter,
		Reports:     reports.NewInterpreter(ledgers, aic, meter, states, log),
		Sender:      sender,
		Fetcher:     &fakeFetcher{},
		OCR:         &fakeOCR{},
		STT:         &fakeSTT{},
		Mail:        mail,
		ChiefHandle: "15550001111",
		Log:         log,
	})
	b.now = func() time.Time { return botNow }

	return &fixture{bot: b, profiles: profiles, ledgers: ledgers, states: states,
		sender: sender, mailer: mail, aic: aic}
}

const testHandle = "19025551234"

func (f *fixture) seedUser() *model.UserProfile {
	p := &model.UserProfile{
		Handle:   testHandle,
		Name:     "Mike",
		Country:  "Canada",
		Region:   "Nova Scotia",
		Email:    "mike@example.com",
		LedgerID: "ledger-" + testHandle,
		Tier:     model.TierCrew,
	}
	f.profiles.byHandle[testHandle] = p
	return p
}

func (f *fixture) send(t *testing.T, body string) string {
	t.Helper()
	reply, err := f.bot.route(context.Background(), transport.InboundMessage{From: testHandle, Body: body})
	require.NoError(t, err)
	return reply
}

// --- tests ---

func TestFirstMessageStartsOnboarding(t *testing.T) {
	f := newFixture(t)

	reply := f.send(t, "hello")
	assert.Contains(t, reply, "what's your name")

	p := f.profiles.byHandle[testHandle]
	require.NotNil(t, p)
	assert.True(t, p.OnboardingInProgress)
	assert.Equal(t, model.TierFree, p.Tier)
	assert.NotNil(t, f.states.onboarding[testHandle])
}

func TestExpenseConfirmAndLog(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	reply := f.send(t, "just got $17.50 of nails and glue from Home Depot today")
	assert.Contains(t, reply, "$17.50")
	assert.Contains(t, reply, "(yes/no/edit)")
	require.NotNil(t, f.states.pending[testHandle])

	reply = f.send(t, "yes")
	assert.Contains(t, reply, "Logged:")

	rows := f.ledgers.rows["ledger-"+testHandle]
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-09-01", rows[0][0])
	assert.Equal(t, "nails and glue", rows[0][1])
	assert.Equal(t, "17.50", rows[0][2])
	assert.Equal(t, "Home Depot", rows[0][3])
	assert.Nil(t, f.states.pending[testHandle], "pending cleared after logging")
}

func TestSecondYesDoesNotDoubleLog(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	f.send(t, "spent $50 on tools at Lowe's")
	f.send(t, "yes")
	require.Len(t, f.ledgers.rows["ledger-"+testHandle], 1)

	// No pending left: a stray second "yes" falls through to the generic
	// handler and must not append again.
	f.send(t, "yes")
	assert.Len(t, f.ledgers.rows["ledger-"+testHandle], 1)
}

func TestNoCancelsPending(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	f.send(t, "spent $50 on tools at Lowe's")
	reply := f.send(t, "no")
	assert.Contains(t, reply, "scrapped")
	assert.Empty(t, f.ledgers.rows["ledger-"+testHandle])
	assert.Nil(t, f.states.pending[testHandle])
}

func TestGibberishReplyRePromptsConfirmation(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	f.send(t, "spent $50 on tools at Lowe's")
	reply := f.send(t, "perhaps")
	assert.Equal(t, replyConfirmVocab, reply)
	assert.NotNil(t, f.states.pending[testHandle], "pending survives a bad reply")
}

func TestEditFlow(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	f.send(t, "spent $50 on tools at Lowe's")
	reply := f.send(t, "edit")
	assert.Equal(t, replyEditPrompt, reply)
	require.NotNil(t, f.states.pending[testHandle])
	assert.Equal(t, model.PendingEdit, f.states.pending[testHandle].Kind)

	reply = f.send(t, "spent $55 on tools at Kent")
	assert.Contains(t, reply, "$55.00")
	assert.Contains(t, reply, "Kent")

	f.send(t, "yes")
	rows := f.ledgers.rows["ledger-"+testHandle]
	require.Len(t, rows, 1)
	assert.Equal(t, "55.00", rows[0][2])
}

func TestCorrectionNegotiation(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	f.aic.suggestions = map[string]string{"store": "Halifax Building Supply"}

	// "HB" is too short to be a store name, so the parse is partial.
	reply := f.send(t, "spent $50 on tools at HB")
	assert.Contains(t, reply, "best guess")
	assert.Contains(t, reply, "Halifax Building Supply")
	assert.Equal(t, 1, f.aic.suggestCalls)
	require.NotNil(t, f.states.pending[testHandle])
	assert.Equal(t, model.PendingCorrection, f.states.pending[testHandle].Kind)

	reply = f.send(t, "yes")
	assert.Contains(t, reply, "Logged:")
	rows := f.ledgers.rows["ledger-"+testHandle]
	require.Len(t, rows, 1)
	assert.Equal(t, "Halifax Building Supply", rows[0][3])
}

func TestCorrectionRejectedBecomesEdit(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	f.aic.suggestions = map[string]string{"store": "Halifax Building Supply"}

	f.send(t, "spent $50 on tools at HB")
	reply := f.send(t, "no")
	assert.Equal(t, replyEditPrompt, reply)
	require.NotNil(t, f.states.pending[testHandle])
	assert.Equal(t, model.PendingEdit, f.states.pending[testHandle].Kind)
	assert.Empty(t, f.ledgers.rows["ledger-"+testHandle])
}

func TestFreeTierGetsNoAIFallback(t *testing.T) {
	f := newFixture(t)
	p := f.seedUser()
	p.Tier = model.TierFree
	f.aic.extracted = map[string]string{"amount": "50", "store": "Somewhere", "item": "stuff"}

	reply := f.send(t, "you know, the usual thing from the usual place, fifty bucks")
	assert.Equal(t, replyFreeTierReject, reply)
	assert.Zero(t, f.aic.extractCalls, "quota denial happens before any completion call")
}

func TestAIFallbackExtraction(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	f.aic.extracted = map[string]string{
		"amount": "85.00", "store": "Payless Lumber", "item": "decking screws", "date": "2026-08-30",
	}

	reply := f.send(t, "grabbed the usual box from payless yesterday, eighty five")
	assert.Contains(t, reply, "$85.00")
	assert.Equal(t, 1, f.aic.extractCalls)

	f.send(t, "yes")
	rows := f.ledgers.rows["ledger-"+testHandle]
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-08-30", rows[0][0])
	assert.Equal(t, "Payless Lumber", rows[0][3])
}

func TestRevenueFlow(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	reply := f.send(t, "received $750 from the Dale St job")
	assert.Contains(t, reply, "$750.00")
	f.send(t, "yes")

	rows := f.ledgers.rows["ledger-"+testHandle]
	require.Len(t, rows, 1)
	assert.Equal(t, "revenue", rows[0][5])
}

func TestBillFlow(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	reply := f.send(t, "Bell bill for $112 due April 12")
	assert.Contains(t, reply, "Bell")
	f.send(t, "yes")

	rows := f.ledgers.rows["ledger-"+testHandle]
	require.Len(t, rows, 1)
	assert.Equal(t, "bill", rows[0][5])
	assert.Equal(t, "2026-04-12", rows[0][0])
}

func TestJobLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	reply := f.send(t, "start job 85 Westmount siding")
	assert.Contains(t, reply, "85 Westmount siding")
	reply = f.send(t, "yes")
	assert.Contains(t, reply, "attached")
	assert.Equal(t, "85 Westmount siding", f.profiles.byHandle[testHandle].ActiveJob)

	// Entries logged while the job is active carry it.
	f.send(t, "spent $50 on tools at Lowe's")
	f.send(t, "yes")
	rows := f.ledgers.rows["ledger-"+testHandle]
	require.Len(t, rows, 1)
	assert.Equal(t, "85 Westmount siding", rows[0][4])

	// Finishing is immediate, no confirmation.
	reply = f.send(t, "finish job 85 Westmount siding")
	assert.Contains(t, reply, "Wrapped up")
	assert.Empty(t, f.profiles.byHandle[testHandle].ActiveJob)
	assert.Nil(t, f.states.pending[testHandle])
}

func TestQuoteFlowByEmail(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	f.ledgers.prices["shingle"] = decimal.RequireFromString("30.00")

	reply := f.send(t, "quote for 123 Happy St: 15 shingles")
	assert.Contains(t, reply, "Quote for 123 Happy St")
	assert.Contains(t, reply, "Who is this quote for?")
	require.NotNil(t, f.states.pending[testHandle])
	assert.Equal(t, model.PendingQuote, f.states.pending[testHandle].Kind)

	reply = f.send(t, "customer@example.com")
	assert.Contains(t, reply, "customer@example.com")
	require.Len(t, f.mailer.mails, 1)
	assert.Equal(t, "customer@example.com", f.mailer.mails[0].to)
	assert.Nil(t, f.states.pending[testHandle])
}

func TestQuoteFlowByName(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	f.send(t, "quote for 123 Happy St: 675 for siding repair")
	reply := f.send(t, "Sarah Jones")
	assert.Contains(t, reply, "Prepared for: Sarah Jones")
	assert.Contains(t, reply, "776.25") // 675 + 15% HST
	assert.Empty(t, f.mailer.mails)
}

func TestChiefRelay(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	reply := f.send(t, "message the chief")
	assert.Equal(t, replyChiefPrompt, reply)

	reply = f.send(t, "Need two more bundles of shingles at Westmount")
	assert.Equal(t, replyChiefSent, reply)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "15550001111", f.sender.sent[0].to)
	assert.Contains(t, f.sender.sent[0].body, "Mike")
	assert.Contains(t, f.sender.sent[0].body, "two more bundles")
}

func TestChiefInlineBodyKeepsOriginalText(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	// Lowercasing changes the byte length of these runes; the forwarded
	// body must still be the user's exact text.
	reply := f.send(t, "Message the chief: İlker wants Ⱥ-grade plywood at Westmount")
	assert.Equal(t, replyChiefSent, reply)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "15550001111", f.sender.sent[0].to)
	assert.Contains(t, f.sender.sent[0].body, "İlker wants Ⱥ-grade plywood at Westmount")
	assert.Nil(t, f.states.pending[testHandle], "inline body skips the draft step")
}

func TestEmailSpreadsheet(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	f.ledgers.csv = []byte("date,item\n")

	reply := f.send(t, "email me my spreadsheet")
	assert.Contains(t, reply, "mike@example.com")
	require.Len(t, f.mailer.mails, 1)
	assert.Equal(t, "mike@example.com", f.mailer.mails[0].to)
	assert.Equal(t, "ledger.csv", f.mailer.mails[0].filename)
}

func TestReceiptImageRunsExpensePipeline(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	f.bot.ocr = &fakeOCR{text: "HOME DEPOT\ntotal $43.17"}

	reply, err := f.bot.route(context.Background(), transport.InboundMessage{
		From:             testHandle,
		MediaURL:         "https://media.example.com/receipt.jpg",
		MediaContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "$43.17")
	assert.Contains(t, reply, "Home Depot")
}

func TestVoiceNoteRunsExpensePipeline(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	f.bot.fetcher = &fakeFetcher{data: []byte("ogg"), ct: "audio/ogg"}
	f.bot.stt = &fakeSTT{text: "spent $50 on tools at Lowe's"}

	reply, err := f.bot.route(context.Background(), transport.InboundMessage{
		From:             testHandle,
		MediaURL:         "https://media.example.com/note.ogg",
		MediaContentType: "audio/ogg",
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "$50.00")
	assert.Contains(t, reply, "Lowe's")
}

func TestMetricsQueryThroughRouter(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	ledgerID := "ledger-" + testHandle
	f.ledgers.rows[ledgerID] = [][]string{
		{"2026-08-01", "payment", "3000.00", "client", "85 Westmount", "revenue", "Income"},
		{"2026-08-03", "siding", "1100.00", "Kent", "85 Westmount", "expense", "Construction Materials"},
	}

	reply := f.send(t, "what's my profit on 85 Westmount?")
	assert.Contains(t, reply, "$1900.00")
}

func TestBillsDueQuestionRoutesToMetrics(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	due := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	f.ledgers.rows["ledger-"+testHandle] = [][]string{
		{due, "internet", "112.00", "Bell", "", "bill", "Bills"},
	}

	// Contains "bill", but it is a question; the logging rule must let it
	// through to the reports ladder.
	reply := f.send(t, "What bills are due next month?")
	assert.Contains(t, reply, "Bills due in the next month")
	assert.Contains(t, reply, "$112.00")
	assert.Nil(t, f.states.pending[testHandle], "a question must not open a bill confirmation")
	assert.Zero(t, f.aic.extractCalls)
	assert.Zero(t, f.aic.classifyCalls)
}

func TestAndExpenseAfterQueryIsNotAFollowUp(t *testing.T) {
	f := newFixture(t)
	f.seedUser()
	f.ledgers.rows["ledger-"+testHandle] = [][]string{
		{"2026-08-01", "payment", "3000.00", "client", "85 Westmount", "revenue", "Income"},
		{"2026-08-03", "siding", "1100.00", "Kent", "85 Westmount", "expense", "Construction Materials"},
	}

	reply := f.send(t, "what's my profit on 85 Westmount?")
	assert.Contains(t, reply, "$1900.00")

	// A full entry that merely starts with "and" goes to the expense
	// pipeline, not the follow-up branch.
	reply = f.send(t, "and got $20 of nails from Home Depot")
	assert.Contains(t, reply, "$20.00")
	assert.Contains(t, reply, "(yes/no/edit)")
	require.NotNil(t, f.states.pending[testHandle])
	assert.Equal(t, model.PendingExpense, f.states.pending[testHandle].Kind)
}

func TestQuotaErrorSurfacesFriendlyReply(t *testing.T) {
	f := newFixture(t)
	p := f.seedUser()
	p.Tier = model.TierSolo
	p.Usage = model.Usage{Period: time.Now().Format("2006-01"), AICalls: model.TierSolo.AICallAllowance()}

	f.bot.HandleMessage(context.Background(), transport.InboundMessage{
		From: testHandle,
		Body: "how am I doing compared to the spring?",
	})

	require.NotEmpty(t, f.sender.sent)
	last := f.sender.sent[len(f.sender.sent)-1]
	assert.Equal(t, replyQuotaExceeded, last.body)
}

func TestFreeTierMetricsFallbackGetsNudge(t *testing.T) {
	f := newFixture(t)
	p := f.seedUser()
	p.Tier = model.TierFree

	// The ladder misses, so the question needs the classifier; free-tier
	// denial gets the resend nudge, not the upgrade notice.
	reply := f.send(t, "how am I doing compared to the spring?")
	assert.Equal(t, replyFreeTierReject, reply)
	assert.Zero(t, f.aic.classifyCalls)
}

func TestRulePriorityPendingBeatsKeywords(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	// "no" while a bill is pending must hit the confirm rule even though
	// the text contains nothing bill-like, and a pending confirm must win
	// over every keyword rule.
	f.send(t, "Bell bill for $112 due April 12")
	require.NotNil(t, f.states.pending[testHandle])

	reply := f.send(t, "no")
	assert.Contains(t, reply, "scrapped")
	assert.Empty(t, f.ledgers.rows["ledger-"+testHandle])
}

func TestUnknownTextFallsBackToNotUnderstood(t *testing.T) {
	f := newFixture(t)
	f.seedUser()

	// Crew tier, but the AI cannot make sense of it either.
	reply := f.send(t, "hey how's it going")
	assert.Equal(t, replyNotUnderstood, reply)
}

func TestRuleTableOrder(t *testing.T) {
	f := newFixture(t)
	want := []string{
		"finalize-quote", "chief-message", "pending-confirm", "start-job",
		"email-spreadsheet", "bill", "revenue", "finish-job", "metrics",
		"media", "quote", "generic-text",
	}
	require.Len(t, f.bot.rules, len(want))
	for i, r := range f.bot.rules {
		assert.Equal(t, want[i], r.name, fmt.Sprintf("rule %d", i))
	}
}
