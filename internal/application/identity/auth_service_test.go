package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/application/transaction"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/auth"
	"github.com/taponce/backend/internal/infrastructure/config"
	"github.com/taponce/backend/tests/testutil"
	"go.uber.org/zap"
)

// MockProfileRepository is a mock implementation of identity.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByClaimToken(ctx context.Context, token string) (*identity.Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByRole(ctx context.Context, role identity.Role) ([]identity.Profile, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, p *identity.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of customer.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindBySlug(ctx context.Context, slug string) (*customer.Customer, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockAgentFinder is a mock implementation of AgentFinder
type MockAgentFinder struct {
	mock.Mock
}

func (m *MockAgentFinder) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

type authFixture struct {
	service   *AuthService
	profiles  *MockProfileRepository
	customers *MockCustomerRepository
	agents    *MockAgentFinder
	blacklist *auth.InMemoryTokenBlacklist
	jwt       *auth.JWTService
	publisher *testutil.RecordingPublisher
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		profiles:  new(MockProfileRepository),
		customers: new(MockCustomerRepository),
		agents:    new(MockAgentFinder),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		publisher: testutil.NewRecordingPublisher(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-that-is-long-enough-32",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "taponce-test",
		}),
	}
	scope := &transaction.NoOpScope{ProfileRepo: f.profiles, CustomerRepo: f.customers}
	f.service = NewAuthService(f.profiles, f.customers, f.agents, scope, f.jwt, f.blacklist, zap.NewNop())
	f.service.SetEventPublisher(f.publisher)
	return f
}

func agentProfile(t *testing.T) (*identity.Profile, *agent.Agent) {
	t.Helper()
	p, err := identity.NewProfileWithPassword("agent@example.com", "Asha Patil", "9800000000", identity.RoleAgent, "correct-horse")
	require.NoError(t, err)
	a, err := agent.NewAgent(p.ID, "TAPASHA01", nil, "Pune")
	require.NoError(t, err)
	require.NoError(t, a.ChangeStatus(agent.AgentStatusActive))
	return p, a
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("agent login carries the agent id", func(t *testing.T) {
		f := newAuthFixture()
		p, a := agentProfile(t)
		f.profiles.On("FindByEmail", ctx, "agent@example.com").Return(p, nil)
		f.profiles.On("Save", ctx, p).Return(nil)
		f.agents.On("FindByProfileID", ctx, p.ID).Return(a, nil)

		result, err := f.service.Login(ctx, LoginInput{Email: "agent@example.com", Password: "correct-horse"})
		require.NoError(t, err)

		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, identity.RoleAgent, result.Profile.Role)
		require.NotNil(t, result.Profile.AgentID)
		assert.Equal(t, a.ID, *result.Profile.AgentID)
		assert.NotNil(t, p.LastLoginAt)

		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, p.ID.String(), claims.UserID)
		assert.Equal(t, a.ID, *claims.AgentUUID())
		f.profiles.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		p, _ := agentProfile(t)
		f.profiles.On("FindByEmail", ctx, "agent@example.com").Return(p, nil)

		_, err := f.service.Login(ctx, LoginInput{Email: "agent@example.com", Password: "wrong-horse"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		f.profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.profiles.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := f.service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unclaimed customer cannot log in", func(t *testing.T) {
		f := newAuthFixture()
		p, err := identity.NewProfile("ravi@example.com", "Ravi Kumar", "", identity.RoleCustomer)
		require.NoError(t, err)
		f.profiles.On("FindByEmail", ctx, "ravi@example.com").Return(p, nil)

		_, err = f.service.Login(ctx, LoginInput{Email: "ravi@example.com", Password: "anything1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("suspended agent", func(t *testing.T) {
		f := newAuthFixture()
		p, a := agentProfile(t)
		require.NoError(t, a.ChangeStatus(agent.AgentStatusSuspended))
		f.profiles.On("FindByEmail", ctx, "agent@example.com").Return(p, nil)
		f.agents.On("FindByProfileID", ctx, p.ID).Return(a, nil)

		_, err := f.service.Login(ctx, LoginInput{Email: "agent@example.com", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrAccountSuspended)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	p, a := agentProfile(t)
	f.profiles.On("FindByEmail", ctx, "agent@example.com").Return(p, nil)
	f.profiles.On("FindByID", ctx, p.ID).Return(p, nil)
	f.profiles.On("Save", ctx, p).Return(nil)
	f.agents.On("FindByProfileID", ctx, p.ID).Return(a, nil)

	login, err := f.service.Login(ctx, LoginInput{Email: "agent@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	t.Run("rotated token cannot be reused", func(t *testing.T) {
		_, err := f.service.Refresh(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.service.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := f.service.Refresh(ctx, refreshed.AccessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("logout revokes both tokens", func(t *testing.T) {
		claims, err := f.jwt.ValidateAccessToken(refreshed.AccessToken)
		require.NoError(t, err)

		require.NoError(t, f.service.Logout(ctx, LogoutInput{
			AccessJTI:    claims.ID,
			AccessTTL:    claims.RemainingTTL(),
			RefreshToken: refreshed.RefreshToken,
		}))

		assert.ErrorIs(t, f.service.IsRevoked(ctx, claims), ErrTokenRevoked)
		_, err = f.service.Refresh(ctx, refreshed.RefreshToken)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})
}

func TestAuthService_Claim(t *testing.T) {
	ctx := context.Background()

	newCustomer := func(t *testing.T) (*identity.Profile, *customer.Customer, string) {
		t.Helper()
		p, err := identity.NewProfile("ravi@example.com", "Ravi Kumar", "9123456780", identity.RoleCustomer)
		require.NoError(t, err)
		token, err := p.IssueClaimToken(72 * time.Hour)
		require.NoError(t, err)
		c, err := customer.NewCustomer(p.ID, "ravi-kumar", "Ravi Kumar", "9123456780", "ravi@example.com", "doctor")
		require.NoError(t, err)
		return p, c, token
	}

	t.Run("validate shows who is claiming", func(t *testing.T) {
		f := newAuthFixture()
		p, _, token := newCustomer(t)
		f.profiles.On("FindByClaimToken", ctx, token).Return(p, nil)

		info, err := f.service.ValidateClaim(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "ravi@example.com", info.Email)
		assert.Equal(t, identity.RoleCustomer, info.Role)
		assert.NotNil(t, info.ExpiresAt)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newAuthFixture()
		f.profiles.On("FindByClaimToken", ctx, "nope").Return(nil, shared.ErrNotFound)

		_, err := f.service.ValidateClaim(ctx, "nope")
		assert.ErrorIs(t, err, identity.ErrClaimTokenInvalid)

		_, err = f.service.ValidateClaim(ctx, "")
		assert.ErrorIs(t, err, identity.ErrClaimTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture()
		p, _, token := newCustomer(t)
		past := time.Now().Add(-time.Hour)
		p.ClaimTokenExpiresAt = &past
		f.profiles.On("FindByClaimToken", ctx, token).Return(p, nil)

		_, err := f.service.ValidateClaim(ctx, token)
		assert.ErrorIs(t, err, identity.ErrClaimTokenExpired)
	})

	t.Run("complete activates the customer and logs in", func(t *testing.T) {
		f := newAuthFixture()
		p, c, token := newCustomer(t)
		f.profiles.On("FindByClaimToken", ctx, token).Return(p, nil)
		f.profiles.On("Save", ctx, p).Return(nil).Once()
		f.customers.On("FindByProfileID", ctx, p.ID).Return(c, nil)
		f.customers.On("Save", ctx, c).Return(nil).Once()

		result, err := f.service.CompleteClaim(ctx, ClaimInput{Token: token, Password: "new-password"})
		require.NoError(t, err)

		assert.Equal(t, customer.CustomerStatusActive, c.Status)
		assert.NotNil(t, p.ClaimedAt)
		assert.Empty(t, p.ClaimToken)
		assert.True(t, p.VerifyPassword("new-password"))
		assert.Equal(t, "ravi-kumar", result.Profile.Slug)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, []string{identity.EventTypeProfileClaimed}, f.publisher.Types())
		f.profiles.AssertExpectations(t)
		f.customers.AssertExpectations(t)
	})

	t.Run("short password leaves the token usable", func(t *testing.T) {
		f := newAuthFixture()
		p, _, token := newCustomer(t)
		f.profiles.On("FindByClaimToken", ctx, token).Return(p, nil)

		_, err := f.service.CompleteClaim(ctx, ClaimInput{Token: token, Password: "short"})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_PASSWORD", de.Code)
		assert.Equal(t, token, p.ClaimToken)
		f.profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
