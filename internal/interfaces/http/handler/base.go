// Package handler holds the gin handlers of the TapOnce API. Handlers bind
// and validate input, call one application service and wrap the result in
// the dto.Response envelope.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/logger"
	"github.com/taponce/backend/internal/infrastructure/qrcode"
	"github.com/taponce/backend/internal/interfaces/http/dto"
	"github.com/taponce/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getProfileID returns the authenticated profile from the JWT claims
func getProfileID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		return uuid.Nil, errors.New("profile ID not found in context")
	}
	return uuid.Parse(raw)
}

// AgentLookup resolves the agent behind a profile. AgentService implements it.
type AgentLookup interface {
	GetByProfile(ctx context.Context, profileID uuid.UUID) (*agent.Agent, error)
}

// resolveAgentID returns the caller's agent ID, from the token when present
// and otherwise by looking up the profile.
func resolveAgentID(c *gin.Context, agents AgentLookup) (uuid.UUID, error) {
	if raw := middleware.GetJWTAgentID(c); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id, nil
		}
	}
	profileID, err := getProfileID(c)
	if err != nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	a, err := agents.GetByProfile(c.Request.Context(), profileID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.NewDomainError("FORBIDDEN", "No agent account for this profile")
		}
		return uuid.Nil, err
	}
	return a.ID, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// SuccessPage sends a paginated result with its meta
func SuccessPage[T any](h *BaseHandler, c *gin.Context, page shared.Paginated[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps domain errors to their HTTP status and hides anything
// else behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := shared.AsDomainError(err); ok {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.InternalError(c, "An unexpected error occurred")
}

// BindJSON binds the body into req. Validation failures get field details,
// malformed bodies a plain 400. It reports whether binding succeeded.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.handleBindError(c, err, "Invalid request body")
		return false
	}
	return true
}

// BindQuery binds query parameters into req
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.handleBindError(c, err, "Invalid query parameters")
		return false
	}
	return true
}

func (h *BaseHandler) handleBindError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.BadRequest(c, message)
}

// ParamUUID parses a UUID path parameter, answering 400 when malformed
func (h *BaseHandler) ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// ProfileID returns the authenticated profile, answering 401 when missing
func (h *BaseHandler) ProfileID(c *gin.Context) (uuid.UUID, bool) {
	id, err := getProfileID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// QRSize reads the optional ?size= of a QR endpoint. 0 means the default.
func (h *BaseHandler) QRSize(c *gin.Context) (int, bool) {
	raw := c.Query("size")
	if raw == "" {
		return 0, true
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < qrcode.MinSize || size > qrcode.MaxSize {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput,
			"size must be between "+strconv.Itoa(qrcode.MinSize)+" and "+strconv.Itoa(qrcode.MaxSize))
		return 0, false
	}
	return size, true
}
