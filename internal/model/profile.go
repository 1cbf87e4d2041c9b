package model

import "time"

// Tier is the subscription level that gates AI usage.
type Tier string

const (
	TierFree Tier = "free"
	TierSolo Tier = "solo"
	TierCrew Tier = "crew"
)

// Usage tracks per-month consumption of metered resources.
type Usage struct {
	Period   string `json:"period"` // YYYY-MM
	Messages int    `json:"messages"`
	AICalls  int    `json:"ai_calls"`
}

// UserProfile is the durable record for one messaging handle. It is created
// on the first inbound message and filled in over the course of onboarding.
type UserProfile struct {
	Handle       string `json:"handle"` // normalized phone-like identity
	Name         string `json:"name"`
	Country      string `json:"country"`
	Region       string `json:"region"`
	BusinessType string `json:"business_type"`
	Industry     string `json:"industry"`
	ChargesTax   bool   `json:"charges_tax"`

	LedgerID string `json:"ledger_id"` // opaque handle into the ledger service

	// Quote branding.
	CompanyName string `json:"company_name"`
	TaxNumber   string `json:"tax_number"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	LogoURL     string `json:"logo_url"`

	Tier                 Tier      `json:"tier"`
	OnboardingInProgress bool      `json:"onboarding_in_progress"`
	ActiveJob            string    `json:"active_job"`
	Usage                Usage     `json:"usage"`
	CreatedAt            time.Time `json:"created_at"`
}

// AICallAllowance returns the monthly AI-call budget for a tier. The free
// tier gets none: extraction failures fall back to a resend request instead.
func (t Tier) AICallAllowance() int {
	switch t {
	case TierSolo:
		return 300
	case TierCrew:
		return 1500
	default:
		return 0
	}
}
