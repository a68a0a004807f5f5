// Package testutil provides common test utilities for the TapOnce backend.
// It contains helpers for in-memory and mocked databases, Gin test contexts
// and polling assertions.
package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a new mock database for testing.
// The caller is responsible for calling Close() when done.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// Close closes the mock database connection.
func (m *MockDB) Close() error {
	return m.SqlDB.Close()
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	err := m.Mock.ExpectationsWereMet()
	require.NoError(t, err, "Unmet database expectations")
}

// NewSQLiteDB opens an in-memory SQLite database with every table migrated.
// One connection keeps the database shared across transactions.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open SQLite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...), "Failed to migrate models")
	return db
}

// TestContext wraps a Gin test context with HTTP recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext creates a new Gin test context.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	return &TestContext{
		Context:  c,
		Recorder: w,
		Engine:   engine,
	}
}

// NewTestContextWithRequest creates a Gin test context with a custom request.
func NewTestContextWithRequest(t *testing.T, method, path string, body *http.Request) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)

	if body != nil {
		c.Request = body
	} else {
		c.Request = httptest.NewRequest(method, path, nil)
	}

	return &TestContext{
		Context:  c,
		Recorder: w,
		Engine:   engine,
	}
}

// SetRequestID sets a request ID in the context.
func (tc *TestContext) SetRequestID(id string) {
	tc.Context.Set("request_id", id)
}

// SetPrincipal sets the authenticated profile and role the way the JWT middleware does.
func (tc *TestContext) SetPrincipal(profileID uuid.UUID, role string) {
	tc.Context.Set("jwt_user_id", profileID.String())
	tc.Context.Set("jwt_role", role)
}

// SetHeader sets a header on the request.
func (tc *TestContext) SetHeader(key, value string) {
	tc.Context.Request.Header.Set(key, value)
}

// ResponseBody returns the response body as bytes.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// NewTestUUID generates a deterministic UUID for testing.
// Uses the provided seed string to create a reproducible UUID.
func NewTestUUID(seed string) uuid.UUID {
	// Create a namespace UUID for testing
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestAdminID returns a standard admin profile ID for tests.
func TestAdminID() uuid.UUID {
	return NewTestUUID("test-admin")
}

// TestAgentProfileID returns a standard agent profile ID for tests.
func TestAgentProfileID() uuid.UUID {
	return NewTestUUID("test-agent")
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// ContextWithCancel creates a cancellable context for tests.
func ContextWithCancel(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithCancel(context.Background())
}

// AssertEventually retries an assertion function until it passes or times out.
func AssertEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	t.Fatalf("Condition not met within %v: %v", timeout, msgAndArgs)
}

// AssertNever verifies a condition never becomes true within the duration.
func AssertNever(t *testing.T, condition func() bool, duration, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if condition() {
			t.Fatalf("Condition unexpectedly became true: %v", msgAndArgs)
		}
		time.Sleep(interval)
	}
}
