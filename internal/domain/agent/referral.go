package agent

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/taponce/backend/internal/domain/shared"
)

const (
	referralPrefix   = "TAP"
	referralBodySize = 6
	// no 0/O or 1/I to keep codes readable when typed from a card
	referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateReferralCode returns a random code such as TAP7KX2QM.
// Uniqueness is enforced by the repository, callers retry on collision.
func GenerateReferralCode() (string, error) {
	var b strings.Builder
	b.WriteString(referralPrefix)
	size := big.NewInt(int64(len(referralAlphabet)))
	for i := 0; i < referralBodySize; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(referralAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeReferralCode upper-cases and trims a code typed by a user
func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateReferralCode checks length and charset
func ValidateReferralCode(code string) error {
	if len(code) < 4 || len(code) > 20 {
		return shared.NewDomainError("INVALID_REFERRAL_CODE", "Referral code must be 4-20 characters")
	}
	for _, r := range code {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return shared.NewDomainError("INVALID_REFERRAL_CODE", "Referral code may contain only letters and digits")
		}
	}
	return nil
}
