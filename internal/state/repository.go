// Package state holds the typed conversation-state repository: onboarding
// progress, the single pending confirmation, and the last metrics-query
// context, all keyed by user handle.
package state

import (
	"context"

	"github.com/ledgermate/ledgermate/internal/model"
)

// Repository is the contract the rest of the pipeline relies on. Set
// operations are last-writer-wins; Get returns (nil, nil) when no document
// exists.
type Repository interface {
	GetOnboarding(ctx context.Context, handle string) (*model.OnboardingState, error)
	SetOnboarding(ctx context.Context, handle string, s *model.OnboardingState) error
	DeleteOnboarding(ctx context.Context, handle string) error

	GetPending(ctx context.Context, handle string) (*model.PendingState, error)
	SetPending(ctx context.Context, handle string, s *model.PendingState) error
	DeletePending(ctx context.Context, handle string) error

	GetLastQuery(ctx context.Context, handle string) (*model.LastQueryContext, error)
	SetLastQuery(ctx context.Context, handle string, s *model.LastQueryContext) error
}
