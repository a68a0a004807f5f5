package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal = "INTERNAL_ERROR"
	ErrCodeUnknown  = "UNKNOWN_ERROR"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeTokenRevoked       = "TOKEN_REVOKED"
	ErrCodeAccountSuspended   = "ACCOUNT_SUSPENDED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeOrderNumberTaken    = "ORDER_NUMBER_TAKEN"
	ErrCodeEmailInUse          = "EMAIL_IN_USE"
	ErrCodeAlreadyClaimed      = "ALREADY_CLAIMED"
)

// Business rule error codes
const (
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	ErrCodeBelowMSPConfirmation = "BELOW_MSP_CONFIRMATION_REQUIRED"
	ErrCodeDesignInactive       = "DESIGN_INACTIVE"
	ErrCodeAgentNotActive       = "AGENT_NOT_ACTIVE"
	ErrCodeClaimTokenExpired    = "CLAIM_TOKEN_EXPIRED"
	ErrCodeRateLimited          = "RATE_LIMIT_EXCEEDED"
	ErrCodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	ErrCodeInvalidClaimToken    = "INVALID_CLAIM_TOKEN"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeUnknown:  http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeAccountSuspended:   http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeOrderNumberTaken:    http.StatusConflict,
	ErrCodeEmailInUse:          http.StatusConflict,
	ErrCodeAlreadyClaimed:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition:    http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance:  http.StatusUnprocessableEntity,
	ErrCodeBelowMSPConfirmation: http.StatusUnprocessableEntity,
	ErrCodeDesignInactive:       http.StatusUnprocessableEntity,
	ErrCodeAgentNotActive:       http.StatusUnprocessableEntity,

	// Claim links
	ErrCodeClaimTokenExpired: http.StatusGone,
	ErrCodeInvalidClaimToken: http.StatusNotFound,

	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are field-level input errors and map to 400;
// any other unlisted code is a business rule violation and maps to 422.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if code == "" {
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}
