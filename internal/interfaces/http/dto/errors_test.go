package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeAccountSuspended, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeEmailInUse, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientBalance, http.StatusUnprocessableEntity},
		{ErrCodeBelowMSPConfirmation, http.StatusUnprocessableEntity},
		{ErrCodeClaimTokenExpired, http.StatusGone},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unlisted codes fall back by shape
		{"INVALID_PHONE", http.StatusBadRequest},
		{"SOME_RULE", http.StatusUnprocessableEntity},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Order not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Nil(t, resp.Data)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
		{Field: "phone", Message: "This field is required"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-1", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeConflict, "Duplicate submission", "req-9")
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	errMap := decoded["error"].(map[string]any)
	assert.Equal(t, "CONFLICT", errMap["code"])
	assert.Equal(t, "req-9", errMap["request_id"])
	assert.NotContains(t, errMap, "details")
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		pages    int
	}{
		{"exact pages", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"zero page size", 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
			assert.True(t, resp.Success)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, tt.pages, resp.Meta.TotalPages)
			assert.Equal(t, tt.total, resp.Meta.Total)
		})
	}
}
