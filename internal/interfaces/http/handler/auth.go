package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/taponce/backend/internal/application/identity"
	"github.com/taponce/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginInput true "Credentials"
// @Success      200 {object} dto.Response{data=identity.TokenResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginInput
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh handles POST /auth/refresh. The refresh token is rotated.
// @Summary      Rotate the refresh token
// @Description  Returns a new token pair. The refresh token sent is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshInput true "Refresh token"
// @Success      200 {object} dto.Response{data=identity.TokenResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshInput
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout handles POST /auth/logout. The access token of the request is
// revoked, plus the refresh token when the body carries one.
// @Summary      Log out
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshInput false "Refresh token to revoke"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identity.RefreshInput
	// The body is optional
	_ = c.ShouldBindJSON(&req)

	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		AccessJTI:    claims.ID,
		AccessTTL:    claims.RemainingTTL(),
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}

// Me handles GET /auth/me
// @Summary      Current profile
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.ProfileInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profileID, ok := h.ProfileID(c)
	if !ok {
		return
	}

	info, err := h.authService.Me(c.Request.Context(), profileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// ValidateClaim handles GET /auth/claim-account?token=
// @Summary      Check a claim link
// @Tags         auth
// @Produce      json
// @Param        token query string true "Claim token from the link"
// @Success      200 {object} dto.Response{data=identity.ClaimInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/claim-account [get]
func (h *AuthHandler) ValidateClaim(c *gin.Context) {
	info, err := h.authService.ValidateClaim(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// CompleteClaim handles POST /auth/claim-account. It sets the password and
// signs the customer in.
// @Summary      Set the password of a claimed account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.ClaimInput true "Claim token and new password"
// @Success      200 {object} dto.Response{data=identity.TokenResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/claim-account [post]
func (h *AuthHandler) CompleteClaim(c *gin.Context) {
	var req identity.ClaimInput
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.CompleteClaim(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
