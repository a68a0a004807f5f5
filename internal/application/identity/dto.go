package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/identity"
)

// LoginInput contains the input for login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput is the body of POST /auth/refresh
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput carries the tokens to revoke. The access token comes from the
// authenticated request, the refresh token from the body.
type LogoutInput struct {
	AccessJTI    string        `json:"-"`
	AccessTTL    time.Duration `json:"-"`
	RefreshToken string        `json:"refresh_token"`
}

// ClaimInput is the body of POST /auth/claim-account
type ClaimInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ProfileInfo is the identity returned with tokens
type ProfileInfo struct {
	ID       uuid.UUID     `json:"id"`
	Email    string        `json:"email"`
	FullName string        `json:"full_name"`
	Phone    string        `json:"phone"`
	Role     identity.Role `json:"role"`
	AgentID  *uuid.UUID    `json:"agent_id,omitempty"`
	Slug     string        `json:"slug,omitempty"`
}

// TokenResult is returned by login, refresh and claim
type TokenResult struct {
	AccessToken           string      `json:"access_token"`
	RefreshToken          string      `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time   `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time   `json:"refresh_token_expires_at"`
	TokenType             string      `json:"token_type"`
	Profile               ProfileInfo `json:"profile"`
}

// ClaimInfo is what GET /auth/claim-account shows before the password is set
type ClaimInfo struct {
	Email     string        `json:"email"`
	FullName  string        `json:"full_name"`
	Role      identity.Role `json:"role"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}
