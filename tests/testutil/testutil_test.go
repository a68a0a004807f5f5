package testutil

import (
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	assert.NotNil(t, mockDB.SqlDB)
}

func TestMockDB_ExpectationsWereMet(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	// No expectations set, should pass
	mockDB.ExpectationsWereMet(t)
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Recorder)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestTestContext_SetRequestID(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetRequestID("req-123")

	val, exists := tc.Context.Get("request_id")
	assert.True(t, exists)
	assert.Equal(t, "req-123", val)
}

func TestTestContext_SetPrincipal(t *testing.T) {
	tc := NewTestContext(t)
	id := TestAdminID()

	tc.SetPrincipal(id, "admin")

	val, exists := tc.Context.Get("jwt_user_id")
	assert.True(t, exists)
	assert.Equal(t, id.String(), val)
	assert.Equal(t, "admin", tc.Context.GetString("jwt_role"))
}

func TestTestContext_SetHeader(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetHeader("Authorization", "Bearer token")

	assert.Equal(t, "Bearer token", tc.Context.Request.Header.Get("Authorization"))
}

func TestTestContext_ResponseCode(t *testing.T) {
	tc := NewTestContext(t)
	tc.Recorder.WriteHeader(http.StatusCreated)

	assert.Equal(t, http.StatusCreated, tc.ResponseCode())
}

func TestNewTestUUID(t *testing.T) {
	uuid1 := NewTestUUID("test-seed")
	uuid2 := NewTestUUID("test-seed")
	uuid3 := NewTestUUID("different-seed")

	// Same seed should produce same UUID
	assert.Equal(t, uuid1, uuid2)

	// Different seed should produce different UUID
	assert.NotEqual(t, uuid1, uuid3)
}

func TestFixedIDs(t *testing.T) {
	assert.Equal(t, TestAdminID(), TestAdminID())
	assert.NotEqual(t, TestAdminID(), TestAgentProfileID())
}

func TestNewSQLiteDB(t *testing.T) {
	db := NewSQLiteDB(t)

	assert.True(t, db.Migrator().HasTable("orders"))
	assert.True(t, db.Migrator().HasTable("agents"))
}

func TestContextWithTimeout(t *testing.T) {
	ctx, cancel := ContextWithTimeout(t, 100*time.Millisecond)
	defer cancel()

	require.NotNil(t, ctx)

	// Context should have deadline
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.True(t, deadline.After(time.Now()))
}

func TestContextWithCancel(t *testing.T) {
	ctx, cancel := ContextWithCancel(t)

	select {
	case <-ctx.Done():
		t.Fatal("Context should not be cancelled yet")
	default:
		// Expected
	}

	cancel()

	select {
	case <-ctx.Done():
		// Expected
	default:
		t.Fatal("Context should be cancelled")
	}
}

func TestAssertEventually(t *testing.T) {
	var counter atomic.Int32
	go func() {
		time.Sleep(50 * time.Millisecond)
		counter.Store(1)
	}()

	AssertEventually(t, func() bool {
		return counter.Load() == 1
	}, 500*time.Millisecond, 10*time.Millisecond)
}

func TestAssertNever(t *testing.T) {
	value := false

	AssertNever(t, func() bool {
		return value
	}, 50*time.Millisecond, 10*time.Millisecond)
}

func TestRunHTTPTestCase(t *testing.T) {
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "hello",
		})
	}

	tc := HTTPTestCase{
		Name:           "simple test",
		Method:         http.MethodGet,
		Path:           "/test",
		ExpectedStatus: http.StatusOK,
		ExpectedBody: map[string]any{
			"success": true,
		},
	}

	RunHTTPTestCase(t, handler, tc)
}

func TestRunHTTPTestCases(t *testing.T) {
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	}

	cases := []HTTPTestCase{
		{
			Name:           "case 1",
			ExpectedStatus: http.StatusOK,
		},
		{
			Name:           "case 2",
			ExpectedStatus: http.StatusOK,
		},
	}

	RunHTTPTestCases(t, handler, cases)
}

func TestJSONResponse(t *testing.T) {
	tc := NewTestContext(t)
	tc.Context.JSON(http.StatusOK, gin.H{"key": "value"})

	resp := JSONResponse(t, tc)
	assert.Equal(t, "value", resp["key"])
}

func TestJSONResponseAs(t *testing.T) {
	type Response struct {
		Key string `json:"key"`
	}

	tc := NewTestContext(t)
	tc.Context.JSON(http.StatusOK, gin.H{"key": "value"})

	resp := JSONResponseAs[Response](t, tc)
	assert.Equal(t, "value", resp.Key)
}

func TestAssertSuccessResponse(t *testing.T) {
	tc := NewTestContext(t)
	tc.Context.JSON(http.StatusOK, gin.H{"success": true})

	AssertSuccessResponse(t, tc)
}

func TestToJSONReader(t *testing.T) {
	data := map[string]string{"key": "value"}
	reader := ToJSONReader(t, data)

	require.NotNil(t, reader)
}

func TestRunHTTPTestCase_PrincipalAndErrorCode(t *testing.T) {
	agentID := uuid.New()
	handler := func(c *gin.Context) {
		if c.GetString("jwt_role") != "agent" || c.GetString("jwt_user_id") != agentID.String() {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{"code": "UNAUTHORIZED"}})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": gin.H{"code": "FORBIDDEN"}})
	}

	RunHTTPTestCases(t, handler, []HTTPTestCase{
		{
			Name:              "anonymous caller",
			Method:            http.MethodPost,
			Path:              "/api/payouts",
			ExpectedStatus:    http.StatusUnauthorized,
			ExpectedErrorCode: "UNAUTHORIZED",
		},
		{
			Name:              "agent caller",
			Method:            http.MethodPost,
			Path:              "/api/payouts",
			Principal:         &Principal{ProfileID: agentID, Role: "agent"},
			ExpectedStatus:    http.StatusForbidden,
			ExpectedErrorCode: "FORBIDDEN",
		},
	})
}
