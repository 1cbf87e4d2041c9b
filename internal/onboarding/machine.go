// Package onboarding walks a new user through profile collection: name,
// location (auto-detected with confirmation, or manual), business details,
// optional bills and quote-branding sections, and a logo upload.
package onboarding

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ledgermate/ledgermate/internal/ledger"
	"github.com/ledgermate/ledgermate/internal/model"
	"github.com/ledgermate/ledgermate/internal/state"
)

// Step numbers. 0 collects the name; 1 is reserved for the location
// confirmation exchange; 2 and 3 are the manual location fallback; 4..16
// are the linear question list; 17 is the logo upload.
const (
	StepName = iota
	StepLocationConfirm
	StepCountry
	StepRegion
	StepBusinessType
	StepIndustry
	StepTeamSize
	StepJobTypes
	StepChargesTax
	StepAddBills
	StepBillsDetail
	StepNeedQuotes
	StepCompanyName
	StepTaxNumber
	StepAddress
	StepWebsite
	StepEmail
	StepLogo
	stepDone
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var prompts = map[int]string{
	StepName:         "Welcome! I keep the books for your contracting business right here in chat. First things first: what's your name?",
	StepCountry:      "No problem. What country are you in?",
	StepRegion:       "And your province or state?",
	StepBusinessType: "What type of business do you run? (e.g. sole proprietor, incorporated)",
	StepIndustry:     "What's your trade? (roofing, siding, general contracting, ...)",
	StepTeamSize:     "How many people work with you, including yourself?",
	StepJobTypes:     "What kind of jobs do you usually take on?",
	StepChargesTax:   "Do you charge sales tax on your invoices? (yes/no)",
	StepAddBills:     "Want me to track recurring bills like phone or insurance? (yes/no)",
	StepBillsDetail:  "List your recurring bills, one per line (e.g. \"Bell $112 monthly\").",
	StepNeedQuotes:   "Will you need me to prepare customer quotes? (yes/no)",
	StepCompanyName:  "What company name should appear on your quotes?",
	StepTaxNumber:    "What's your tax registration number? (type \"no\" to skip)",
	StepAddress:      "What business address should appear on quotes?",
	StepWebsite:      "Company website, if any? (type \"no\" to skip)",
	StepEmail:        "Last one: what e-mail should I send your documents to?",
	StepLogo:         "Send me your company logo as an image, or reply \"no\" to skip it.",
}

// Machine advances onboarding state one message at a time.
type Machine struct {
	states   state.Repository
	profiles ledger.ProfileRepository
	ledgers  ledger.Service
	log      *zap.Logger
}

func NewMachine(states state.Repository, profiles ledger.ProfileRepository, ledgers ledger.Service, log *zap.Logger) *Machine {
	return &Machine{states: states, profiles: profiles, ledgers: ledgers, log: log}
}

// Begin creates fresh onboarding state and returns the opening prompt.
func (m *Machine) Begin(ctx context.Context, profile *model.UserProfile) (string, error) {
	s := &model.OnboardingState{Step: StepName, Responses: map[string]string{}}
	if err := m.states.SetOnboarding(ctx, profile.Handle, s); err != nil {
		return "", err
	}
	return prompts[StepName], nil
}

// Advance consumes one reply and returns the next prompt. done is true once
// the profile has been assembled and onboarding state deleted.
func (m *Machine) Advance(ctx context.Context, profile *model.UserProfile, s *model.OnboardingState, body, mediaURL string) (reply string, done bool, err error) {
	body = strings.TrimSpace(body)

	if s.AwaitingLocationResponse {
		return m.handleLocationResponse(ctx, profile, s, body)
	}

	switch s.Step {
	case StepName:
		if body == "" {
			return prompts[StepName], false, nil
		}
		s.Responses["name"] = body

		country, region, detected := DetectLocation(profile.Handle)
		if detected {
			s.DetectedCountry = country
			s.DetectedRegion = region
			s.AwaitingLocationResponse = true
			s.Step = StepLocationConfirm
			if err := m.states.SetOnboarding(ctx, profile.Handle, s); err != nil {
				return "", false, err
			}
			loc := country
			if region != "" {
				loc = fmt.Sprintf("%s, %s", region, country)
			}
			return fmt.Sprintf("Thanks %s! Looks like you're in %s. Is that right? (Yes / Edit / Cancel)", body, loc), false, nil
		}

		s.Step = StepCountry
		if err := m.states.SetOnboarding(ctx, profile.Handle, s); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Thanks %s! %s", body, prompts[StepCountry]), false, nil

	case StepCountry:
		s.Responses["country"] = body
		return m.advanceTo(ctx, profile, s, StepRegion)

	case StepRegion:
		s.Responses["region"] = body
		return m.advanceTo(ctx, profile, s, StepBusinessType)

	case StepBusinessType:
		s.Responses["business_type"] = body
		return m.advanceTo(ctx, profile, s, StepIndustry)

	case StepIndustry:
		s.Responses["industry"] = body
		return m.advanceTo(ctx, profile, s, StepTeamSize)

	case StepTeamSize:
		s.Responses["team_size"] = body
		return m.advanceTo(ctx, profile, s, StepJobTypes)

	case StepJobTypes:
		s.Responses["job_types"] = body
		return m.advanceTo(ctx, profile, s, StepChargesTax)

	case StepChargesTax:
		s.Responses["charges_tax"] = body
		return m.advanceTo(ctx, profile, s, StepAddBills)

	case StepAddBills:
		s.Responses["add_bills"] = body
		if isNo(body) {
			// Declining bills skips the detail step.
			return m.advanceTo(ctx, profile, s, StepNeedQuotes)
		}
		return m.advanceTo(ctx, profile, s, StepBillsDetail)

	case StepBillsDetail:
		s.Responses["bills_detail"] = body
		return m.advanceTo(ctx, profile, s, StepNeedQuotes)

	case StepNeedQuotes:
		s.Responses["need_quotes"] = body
		if isNo(body) {
			// No quotes: skip the whole branding section, straight to done.
			return m.complete(ctx, profile, s)
		}
		return m.advanceTo(ctx, profile, s, StepCompanyName)

	case StepCompanyName:
		s.Responses["company_name"] = body
		return m.advanceTo(ctx, profile, s, StepTaxNumber)

	case StepTaxNumber:
		if !isNo(body) {
			s.Responses["tax_number"] = body
		}
		return m.advanceTo(ctx, profile, s, StepAddress)

	case StepAddress:
		s.Responses["address"] = body
		return m.advanceTo(ctx, profile, s, StepWebsite)

	case StepWebsite:
		if !isNo(body) {
			s.Responses["website"] = body
		}
		return m.advanceTo(ctx, profile, s, StepEmail)

	case StepEmail:
		s.Responses["email"] = body
		return m.advanceTo(ctx, profile, s, StepLogo)

	case StepLogo:
		switch {
		case mediaURL != "":
			s.Responses["logo_url"] = mediaURL
		case isNo(body):
			// Logo stays empty.
		default:
			// Anything else re-prompts without advancing.
			return prompts[StepLogo], false, nil
		}
		return m.complete(ctx, profile, s)
	}

	return "", false, fmt.Errorf("onboarding: unknown step %d", s.Step)
}

// handleLocationResponse resolves the Yes/Edit/Cancel confirmation. "Yes"
// jumps straight to step 4; anything that declines routes through the two
// manual location steps first.
func (m *Machine) handleLocationResponse(ctx context.Context, profile *model.UserProfile, s *model.OnboardingState, body string) (string, bool, error) {
	s.AwaitingLocationResponse = false

	switch strings.ToLower(body) {
	case "yes", "y", "yeah", "yep", "correct":
		s.Responses["country"] = s.DetectedCountry
		s.Responses["region"] = s.DetectedRegion
		s.LocationConfirmed = true
		return m.advanceTo(ctx, profile, s, StepBusinessType)
	case "edit", "cancel", "no", "n":
		s.EditMode = true
		return m.advanceTo(ctx, profile, s, StepCountry)
	default:
		s.AwaitingLocationResponse = true
		if err := m.states.SetOnboarding(ctx, profile.Handle, s); err != nil {
			return "", false, err
		}
		return "Please reply Yes, Edit, or Cancel.", false, nil
	}
}

func (m *Machine) advanceTo(ctx context.Context, profile *model.UserProfile, s *model.OnboardingState, step int) (string, bool, error) {
	s.Step = step
	if err := m.states.SetOnboarding(ctx, profile.Handle, s); err != nil {
		return "", false, err
	}
	return prompts[step], false, nil
}

// complete validates the collected e-mail, assembles the profile, provisions
// a ledger, and deletes the onboarding state. An invalid e-mail keeps the
// user at the terminal step.
func (m *Machine) complete(ctx context.Context, profile *model.UserProfile, s *model.OnboardingState) (string, bool, error) {
	email := s.Responses["email"]
	needsQuotes := !isNo(s.Responses["need_quotes"])
	if email != "" && !emailRe.MatchString(email) {
		s.Step = StepEmail
		if err := m.states.SetOnboarding(ctx, profile.Handle, s); err != nil {
			return "", false, err
		}
		return "That e-mail doesn't look right. " + prompts[StepEmail], false, nil
	}
	if needsQuotes && email == "" {
		return m.advanceTo(ctx, profile, s, StepEmail)
	}

	profile.Name = s.Responses["name"]
	profile.Country = s.Responses["country"]
	profile.Region = s.Responses["region"]
	profile.BusinessType = s.Responses["business_type"]
	profile.Industry = s.Responses["industry"]
	profile.ChargesTax = isYes(s.Responses["charges_tax"])
	profile.CompanyName = s.Responses["company_name"]
	profile.TaxNumber = s.Responses["tax_number"]
	profile.Address = s.Responses["address"]
	profile.Email = email
	profile.LogoURL = s.Responses["logo_url"]
	profile.OnboardingInProgress = false

	ledgerID, err := m.ledgers.GetOrCreateLedger(ctx, profile.Handle)
	if err != nil {
		return "", false, fmt.Errorf("provision ledger: %w", err)
	}
	profile.LedgerID = ledgerID

	if err := m.profiles.UpdateProfile(ctx, profile); err != nil {
		return "", false, err
	}
	if err := m.states.DeleteOnboarding(ctx, profile.Handle); err != nil {
		return "", false, err
	}

	m.log.Info("onboarding complete",
		zap.String("handle", profile.Handle),
		zap.String("ledger", ledgerID))

	return fmt.Sprintf("You're all set, %s! Your books are ready. "+
		"Just text me expenses like \"$50 of nails from Home Depot\" and I'll log them.", profile.Name), true, nil
}

func isNo(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no", "n", "nope", "skip", "none":
		return true
	}
	return false
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "yeah", "yep", "sure":
		return true
	}
	return false
}
