package ai

import (
	"context"
	"time"

	"github.com/ledgermate/ledgermate/internal/ledger"
	"github.com/ledgermate/ledgermate/internal/model"
)

// Meter charges AI calls against a profile's monthly allowance. Charge must
// succeed before the completion client is invoked; a quota denial means no
// call is attempted at all.
type Meter struct {
	profiles ledger.ProfileRepository
	now      func() time.Time
}

func NewMeter(profiles ledger.ProfileRepository) *Meter {
	return &Meter{profiles: profiles, now: time.Now}
}

// Charge consumes one AI call. The usage window resets when the month
// rolls over.
func (m *Meter) Charge(ctx context.Context, p *model.UserProfile) error {
	allowance := p.Tier.AICallAllowance()
	if allowance == 0 {
		return ErrQuotaExceeded
	}

	period := m.now().Format("2006-01")
	if p.Usage.Period != period {
		p.Usage = model.Usage{Period: period}
	}
	if p.Usage.AICalls >= allowance {
		return ErrQuotaExceeded
	}

	p.Usage.AICalls++
	return m.profiles.UpdateProfile(ctx, p)
}

// CountMessage records one inbound message against the profile. Message
// counts are informational; they never deny service.
func (m *Meter) CountMessage(ctx context.Context, p *model.UserProfile) error {
	period := m.now().Format("2006-01")
	if p.Usage.Period != period {
		p.Usage = model.Usage{Period: period}
	}
	p.Usage.Messages++
	return m.profiles.UpdateProfile(ctx, p)
}
