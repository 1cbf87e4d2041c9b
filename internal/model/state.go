package model

import (
	"errors"
	"time"
)

// OnboardingState tracks progress through the profile-collection flow. It
// exists only while UserProfile.OnboardingInProgress is true and is deleted
// when the finished profile is assembled.
type OnboardingState struct {
	Step                     int               `json:"step"`
	Responses                map[string]string `json:"responses"`
	DetectedCountry          string            `json:"detected_country"`
	DetectedRegion           string            `json:"detected_region"`
	LocationConfirmed        bool              `json:"location_confirmed"`
	AwaitingLocationResponse bool              `json:"awaiting_location_response"`
	EditMode                 bool              `json:"edit_mode"`
}

// PendingKind names the single active variant of a PendingState.
type PendingKind string

const (
	PendingExpense      PendingKind = "expense"
	PendingRevenue      PendingKind = "revenue"
	PendingBill         PendingKind = "bill"
	PendingJob          PendingKind = "job"
	PendingQuote        PendingKind = "quote"
	PendingCorrection   PendingKind = "correction"
	PendingChiefMessage PendingKind = "chief_message"
	PendingEdit         PendingKind = "edit"
)

// ErrInvalidPendingState is returned by the state repository when a write
// would not represent exactly one variant.
var ErrInvalidPendingState = errors.New("pending state must hold exactly one variant")

// PendingState is the tagged union of everything that can await a user
// reply: an unconfirmed transaction, an unfinalized quote, a correction
// suggestion, an operator message draft, or an edit resend. At most one
// exists per user.
type PendingState struct {
	Kind      PendingKind        `json:"kind"`
	Record    *TransactionRecord `json:"record,omitempty"`
	Quote     *QuoteDraft        `json:"quote,omitempty"`
	Suggested map[string]string  `json:"suggested,omitempty"` // field -> suggested value, correction only
	EditKind  RecordKind         `json:"edit_kind,omitempty"`  // what the resend should be parsed as
	CreatedAt time.Time          `json:"created_at"`
}

// Validate enforces the one-active-variant invariant.
func (p *PendingState) Validate() error {
	switch p.Kind {
	case PendingExpense, PendingRevenue, PendingBill, PendingJob:
		if p.Record == nil || p.Quote != nil || p.Suggested != nil {
			return ErrInvalidPendingState
		}
	case PendingQuote:
		if p.Quote == nil || p.Record != nil || p.Suggested != nil {
			return ErrInvalidPendingState
		}
	case PendingCorrection:
		if p.Record == nil || len(p.Suggested) == 0 || p.Quote != nil {
			return ErrInvalidPendingState
		}
	case PendingChiefMessage, PendingEdit:
		if p.Record != nil || p.Quote != nil || p.Suggested != nil {
			return ErrInvalidPendingState
		}
	default:
		return ErrInvalidPendingState
	}
	return nil
}

// LastQueryContext lets a short follow-up metrics question inherit the
// previous question's intent. Entries older than its TTL are ignored.
type LastQueryContext struct {
	Intent    string    `json:"intent"`
	Job       string    `json:"job"`
	Timestamp time.Time `json:"timestamp"`
}

// LastQueryTTL is the validity window for a LastQueryContext.
const LastQueryTTL = 5 * time.Minute

// Fresh reports whether the context is still inside its validity window.
func (c *LastQueryContext) Fresh(now time.Time) bool {
	return c != nil && now.Sub(c.Timestamp) <= LastQueryTTL
}
