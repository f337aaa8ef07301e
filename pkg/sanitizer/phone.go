package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Regions tried in order when a number arrives without a country prefix.
var supportedRegions = []string{
	"ID",
	"US",
}

// NormalizePhone parses a customer phone number and formats it to E.164.
// Returns "" when the number cannot be parsed for any supported region,
// letting the validator reject it with a field error.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
