package onboarding

import "strings"

// Area-code regions for NANP numbers. Only codes the assistant's user base
// actually signs up from; unknown codes fall back to manual entry.
var nanpRegions = map[string][2]string{
	"902": {"Canada", "Nova Scotia"},
	"782": {"Canada", "Nova Scotia"},
	"506": {"Canada", "New Brunswick"},
	"709": {"Canada", "Newfoundland and Labrador"},
	"416": {"Canada", "Ontario"},
	"647": {"Canada", "Ontario"},
	"613": {"Canada", "Ontario"},
	"514": {"Canada", "Quebec"},
	"604": {"Canada", "British Columbia"},
	"403": {"Canada", "Alberta"},
	"780": {"Canada", "Alberta"},
	"306": {"Canada", "Saskatchewan"},
	"204": {"Canada", "Manitoba"},
	"212": {"United States", "New York"},
	"305": {"United States", "Florida"},
	"512": {"United States", "Texas"},
	"206": {"United States", "Washington"},
	"415": {"United States", "California"},
}

// DetectLocation guesses country and region from a phone-like handle.
func DetectLocation(handle string) (country, region string, ok bool) {
	digits := strings.TrimPrefix(strings.TrimSpace(handle), "whatsapp:")
	digits = strings.TrimPrefix(digits, "+")

	if strings.HasPrefix(digits, "1") && len(digits) >= 4 {
		if loc, found := nanpRegions[digits[1:4]]; found {
			return loc[0], loc[1], true
		}
		return "", "", false
	}
	switch {
	case strings.HasPrefix(digits, "44"):
		return "United Kingdom", "", true
	case strings.HasPrefix(digits, "61"):
		return "Australia", "", true
	}
	return "", "", false
}
