// Package ai wraps the completion service used as the probabilistic
// fallback behind the deterministic extractors: field extraction, field
// correction, and free-text intent classification. All calls are metered
// against the user's subscription allowance.
package ai

import (
	"context"
	"errors"

	"github.com/ledgermate/ledgermate/internal/model"
)

var (
	// ErrQuotaExceeded is returned before any completion call when the
	// user's monthly AI allowance is spent (or their tier has none).
	ErrQuotaExceeded = errors.New("ai call allowance exhausted")

	// ErrBadCompletion means the service answered but not with usable JSON.
	ErrBadCompletion = errors.New("completion was not valid JSON")
)

// IntentResult is the classifier's answer for a free-text metrics question.
type IntentResult struct {
	Intent   string `json:"intent"` // profit, revenue, expenses, bills, unknown, or other
	Job      string `json:"job"`
	Period   string `json:"period"`
	Response string `json:"response"`
}

// Client is the text-in/JSON-out completion contract. Field maps use the
// record field names: date, item, amount, store, job, category.
type Client interface {
	// ExtractRecord attempts a full extraction when the deterministic parse
	// produced nothing.
	ExtractRecord(ctx context.Context, text string, kind model.RecordKind) (map[string]string, error)

	// SuggestCorrections proposes replacement values for the problem fields
	// of a partially extracted record.
	SuggestCorrections(ctx context.Context, text string, partial map[string]string, problems []string) (map[string]string, error)

	// ClassifyIntent interprets a metrics question the pattern ladder did
	// not recognize.
	ClassifyIntent(ctx context.Context, text string) (*IntentResult, error)

	// ExtractJobName pulls a job name out of a start-job message whose name
	// could not be split out deterministically.
	ExtractJobName(ctx context.Context, text string) (string, error)
}
