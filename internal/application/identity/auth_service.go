// Package identity holds login, token refresh, logout and the account claim
// flow used by customers created from an order.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/application/transaction"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountSuspended   = shared.NewDomainError("ACCOUNT_SUSPENDED", "Account has been suspended")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	ErrTokenExpired       = shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	ErrTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
)

// AgentFinder resolves the agent behind a profile
type AgentFinder interface {
	FindByProfileID(ctx context.Context, profileID uuid.UUID) (*agent.Agent, error)
}

// AuthService handles authentication operations
type AuthService struct {
	profiles       identity.ProfileRepository
	customers      customer.CustomerRepository
	agents         AgentFinder
	scope          transaction.Scope
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	profiles identity.ProfileRepository,
	customers customer.CustomerRepository,
	agents AgentFinder,
	scope transaction.Scope,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		profiles:   profiles,
		customers:  customers,
		agents:     agents,
		scope:      scope,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Login authenticates a profile by email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenResult, error) {
	s.logger.Info("Login attempt", zap.String("email", input.Email))

	profile, err := s.profiles.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Profile not found during login", zap.String("email", input.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Unclaimed customers have no password and fail here too
	if !profile.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("profile_id", profile.ID.String()))
		return nil, ErrInvalidCredentials
	}

	result, err := s.issue(ctx, profile)
	if err != nil {
		return nil, err
	}

	profile.RecordLogin()
	if err := s.profiles.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("Profile logged in",
		zap.String("profile_id", profile.ID.String()),
		zap.String("role", profile.Role.String()))
	return result, nil
}

// Refresh rotates a refresh token. The old one is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	profileID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	result, err := s.issue(ctx, profile)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			s.logger.Error("Failed to revoke rotated refresh token", zap.Error(err))
		}
	}
	s.logger.Info("Token refreshed", zap.String("profile_id", profileID.String()))
	return result, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil {
		return nil
	}
	if input.AccessJTI != "" {
		if err := s.blacklist.Revoke(ctx, input.AccessJTI, input.AccessTTL); err != nil {
			return err
		}
	}
	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err != nil {
			// an unusable refresh token needs no revocation
			return nil
		}
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			return err
		}
	}
	s.logger.Info("Profile logged out", zap.String("jti", input.AccessJTI))
	return nil
}

// IsRevoked is used by the JWT middleware on every request
func (s *AuthService) IsRevoked(ctx context.Context, claims *auth.Claims) error {
	return s.checkRevoked(ctx, claims)
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

// Me returns the identity of the authenticated profile
func (s *AuthService) Me(ctx context.Context, profileID uuid.UUID) (*ProfileInfo, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	info, err := s.profileInfo(ctx, profile)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ValidateClaim checks a claim token without consuming it
func (s *AuthService) ValidateClaim(ctx context.Context, token string) (*ClaimInfo, error) {
	profile, err := s.findByClaimToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := profile.ValidateClaimToken(token, time.Now()); err != nil {
		return nil, err
	}
	return &ClaimInfo{
		Email:     profile.Email,
		FullName:  profile.FullName,
		Role:      profile.Role,
		ExpiresAt: profile.ClaimTokenExpiresAt,
	}, nil
}

// CompleteClaim sets the password, burns the token and activates the
// customer profile in one transaction, then logs the profile in.
func (s *AuthService) CompleteClaim(ctx context.Context, input ClaimInput) (*TokenResult, error) {
	profile, err := s.findByClaimToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if err := profile.Claim(input.Token, input.Password); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if err := repos.Profiles().Save(ctx, profile); err != nil {
			return err
		}
		if profile.Role != identity.RoleCustomer {
			return nil
		}
		c, err := repos.Customers().FindByProfileID(ctx, profile.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		if c.Status == customer.CustomerStatusPending {
			c.Activate()
			return repos.Customers().Save(ctx, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account claimed",
		zap.String("profile_id", profile.ID.String()),
		zap.String("role", profile.Role.String()))
	s.publish(ctx, profile)
	return s.issue(ctx, profile)
}

func (s *AuthService) findByClaimToken(ctx context.Context, token string) (*identity.Profile, error) {
	if token == "" {
		return nil, identity.ErrClaimTokenInvalid
	}
	profile, err := s.profiles.FindByClaimToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, identity.ErrClaimTokenInvalid
		}
		return nil, err
	}
	return profile, nil
}

// issue checks the account can log in and builds a token pair
func (s *AuthService) issue(ctx context.Context, profile *identity.Profile) (*TokenResult, error) {
	info, err := s.profileInfo(ctx, profile)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{
		UserID:  profile.ID,
		Email:   profile.Email,
		Role:    profile.Role,
		AgentID: info.AgentID,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Profile:               info,
	}, nil
}

func (s *AuthService) profileInfo(ctx context.Context, profile *identity.Profile) (ProfileInfo, error) {
	info := ProfileInfo{
		ID:       profile.ID,
		Email:    profile.Email,
		FullName: profile.FullName,
		Phone:    profile.Phone,
		Role:     profile.Role,
	}

	switch profile.Role {
	case identity.RoleAgent:
		a, err := s.agents.FindByProfileID(ctx, profile.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return info, nil
			}
			return info, err
		}
		if a.Status == agent.AgentStatusSuspended {
			return info, ErrAccountSuspended
		}
		info.AgentID = &a.ID
	case identity.RoleCustomer:
		c, err := s.customers.FindByProfileID(ctx, profile.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return info, nil
			}
			return info, err
		}
		if c.Status == customer.CustomerStatusSuspended {
			return info, ErrAccountSuspended
		}
		info.Slug = c.Slug
	}
	return info, nil
}

func (s *AuthService) publish(ctx context.Context, p *identity.Profile) {
	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish profile events", zap.Error(err))
	}
}
