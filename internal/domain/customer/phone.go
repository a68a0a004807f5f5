package customer

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers typed without a country code
const DefaultRegion = "IN"

// NormalizePhone parses a phone number and formats it as E.164
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("phone number cannot be empty")
	}
	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// SamePhone compares two numbers after normalisation. Unparseable numbers
// fall back to a digits-only comparison.
func SamePhone(a, b string) bool {
	na, errA := NormalizePhone(a, DefaultRegion)
	nb, errB := NormalizePhone(b, DefaultRegion)
	if errA == nil && errB == nil {
		return na == nb
	}
	da, db := digitsOnly(a), digitsOnly(b)
	return da != "" && da == db
}

// WhatsAppLink builds a wa.me deep link for the number
func WhatsAppLink(raw string) string {
	e164, err := NormalizePhone(raw, DefaultRegion)
	if err != nil {
		e164 = raw
	}
	digits := digitsOnly(e164)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
