// Package auth issues and validates the API's bearer tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims are the TapOnce token claims. AgentID is set only for agent profiles.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	Role      identity.Role `json:"role"`
	AgentID   string        `json:"agent_id,omitempty"`
	TokenType TokenType     `json:"token_type"`
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// JWTService handles JWT token operations
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := []byte(cfg.RefreshSecret)
	if cfg.RefreshSecret == "" {
		refreshSecret = []byte(cfg.Secret)
	}

	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     refreshSecret,
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
	}
}

// Subject identifies who a token pair is issued to
type Subject struct {
	UserID  uuid.UUID
	Email   string
	Role    identity.Role
	AgentID *uuid.UUID
}

// GenerateTokenPair issues a fresh access and refresh token
func (s *JWTService) GenerateTokenPair(sub Subject) (*TokenPair, error) {
	now := time.Now()

	access, err := s.sign(s.claims(sub, TokenTypeAccess, now, s.accessExpiration), s.accessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(s.claims(sub, TokenTypeRefresh, now, s.refreshExpiration), s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  now.Add(s.accessExpiration),
		RefreshTokenExpiresAt: now.Add(s.refreshExpiration),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) claims(sub Subject, typ TokenType, now time.Time, ttl time.Duration) *Claims {
	c := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   sub.UserID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    sub.UserID.String(),
		Email:     sub.Email,
		Role:      sub.Role,
		TokenType: typ,
	}
	if sub.AgentID != nil {
		c.AgentID = sub.AgentID.String()
	}
	return c
}

func (s *JWTService) sign(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.refreshSecret, TokenTypeRefresh)
}

func (s *JWTService) validate(tokenString string, secret []byte, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != expected {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if !claims.Role.IsValid() {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// UserUUID parses the user ID claim
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// AgentUUID parses the agent ID claim. It returns nil for non-agents.
func (c *Claims) AgentUUID() *uuid.UUID {
	if c.AgentID == "" {
		return nil
	}
	id, err := uuid.Parse(c.AgentID)
	if err != nil {
		return nil
	}
	return &id
}

// IssuedAtTime returns the token's issued-at time
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// RemainingTTL returns the time until the token expires
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := time.Until(c.ExpiresAt.Time); remaining > 0 {
		return remaining
	}
	return 0
}

// AccessTokenExpiration returns the configured access token lifetime
func (s *JWTService) AccessTokenExpiration() time.Duration {
	return s.accessExpiration
}
