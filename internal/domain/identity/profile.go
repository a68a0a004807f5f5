package identity

import (
	"crypto/rand"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"

	"github.com/taponce/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the single role a profile holds
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Password cost for bcrypt
const bcryptCost = 12

const minPasswordLength = 8

// Profile is one authenticated person. Agents and customers hang off a
// profile one-to-one.
type Profile struct {
	shared.BaseAggregateRoot
	Email               string
	FullName            string
	Phone               string
	Role                Role
	PasswordHash        string
	ClaimToken          string
	ClaimTokenExpiresAt *time.Time
	ClaimedAt           *time.Time
	LastLoginAt         *time.Time
}

// NewProfile creates a profile without a password. Customers created from an
// order receive a claim token to set one later.
func NewProfile(email, fullName, phone string, role Role) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(fullName) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	return &Profile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FullName:          fullName,
		Phone:             strings.TrimSpace(phone),
		Role:              role,
	}, nil
}

// NewProfileWithPassword creates a profile that can log in straight away
func NewProfileWithPassword(email, fullName, phone string, role Role, password string) (*Profile, error) {
	p, err := NewProfile(email, fullName, phone, role)
	if err != nil {
		return nil, err
	}
	if err := p.SetPassword(password); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPassword validates and hashes a new password
func (p *Profile) SetPassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	p.PasswordHash = string(hash)
	p.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (p *Profile) VerifyPassword(password string) bool {
	if p.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}

// HasPassword returns true once the profile can log in
func (p *Profile) HasPassword() bool {
	return p.PasswordHash != ""
}

// IssueClaimToken creates a random single-use token valid for ttl
func (p *Profile) IssueClaimToken(ttl time.Duration) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate claim token")
	}
	token := hex.EncodeToString(buf)
	expires := time.Now().Add(ttl)
	p.ClaimToken = token
	p.ClaimTokenExpiresAt = &expires
	p.UpdatedAt = time.Now()
	return token, nil
}

// Claim errors
var (
	ErrClaimTokenInvalid = shared.NewDomainError("INVALID_CLAIM_TOKEN", "Claim link is invalid")
	ErrClaimTokenExpired = shared.NewDomainError("CLAIM_TOKEN_EXPIRED", "Claim link has expired")
	ErrAlreadyClaimed    = shared.NewDomainError("ALREADY_CLAIMED", "Account has already been claimed")
)

// ValidateClaimToken checks token against the stored one
func (p *Profile) ValidateClaimToken(token string, now time.Time) error {
	if p.ClaimedAt != nil {
		return ErrAlreadyClaimed
	}
	if p.ClaimToken == "" || token == "" || p.ClaimToken != token {
		return ErrClaimTokenInvalid
	}
	if p.ClaimTokenExpiresAt != nil && now.After(*p.ClaimTokenExpiresAt) {
		return ErrClaimTokenExpired
	}
	return nil
}

// Claim sets the password and burns the token
func (p *Profile) Claim(token, password string) error {
	now := time.Now()
	if err := p.ValidateClaimToken(token, now); err != nil {
		return err
	}
	if err := p.SetPassword(password); err != nil {
		return err
	}
	p.ClaimedAt = &now
	p.ClaimToken = ""
	p.ClaimTokenExpiresAt = nil
	p.IncrementVersion()
	p.AddDomainEvent(NewProfileClaimedEvent(p))
	return nil
}

// RecordLogin stamps a successful login
func (p *Profile) RecordLogin() {
	now := time.Now()
	p.LastLoginAt = &now
}

// IsAdmin returns true for admin profiles
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
