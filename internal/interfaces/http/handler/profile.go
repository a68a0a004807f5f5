package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appcustomer "github.com/taponce/backend/internal/application/customer"
)

const (
	vcardContentType = "text/vcard; charset=utf-8"
	pngContentType   = "image/png"
)

// ProfileHandler serves public digital profiles and the owner's editor
type ProfileHandler struct {
	BaseHandler
	profileService *appcustomer.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *appcustomer.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetPublic handles GET /profiles/:slug
// @Summary      Public card profile
// @Tags         profiles
// @Produce      json
// @Param        slug path string true "Profile slug"
// @Success      200 {object} dto.Response{data=appcustomer.PublicProfileResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /profiles/{slug} [get]
func (h *ProfileHandler) GetPublic(c *gin.Context) {
	resp, err := h.profileService.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// VCard handles GET /profiles/:slug/vcard
// @Summary      Download the contact card
// @Tags         profiles
// @Produce      text/vcard
// @Param        slug path string true "Profile slug"
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /profiles/{slug}/vcard [get]
func (h *ProfileHandler) VCard(c *gin.Context) {
	card, err := h.profileService.VCard(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+card.FileName+`"`)
	c.Data(http.StatusOK, vcardContentType, []byte(card.Content))
}

// QR handles GET /profiles/:slug/qr
// @Summary      Profile QR code
// @Tags         profiles
// @Produce      image/png
// @Param        slug path string true "Profile slug"
// @Param        size query int false "Image size in pixels"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /profiles/{slug}/qr [get]
func (h *ProfileHandler) QR(c *gin.Context) {
	size, ok := h.QRSize(c)
	if !ok {
		return
	}

	img, err := h.profileService.QR(c.Request.Context(), c.Param("slug"), size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, pngContentType, img)
}

// Professions handles GET /professions
// @Summary      Professions and their themes
// @Tags         profiles
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /professions [get]
func (h *ProfileHandler) Professions(c *gin.Context) {
	h.Success(c, h.profileService.Professions())
}

// GetMine handles GET /profile/me
// @Summary      Own card profile
// @Tags         profile
// @Produce      json
// @Success      200 {object} dto.Response{data=appcustomer.OwnProfileResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /profile/me [get]
func (h *ProfileHandler) GetMine(c *gin.Context) {
	profileID, ok := h.ProfileID(c)
	if !ok {
		return
	}

	resp, err := h.profileService.GetMine(c.Request.Context(), profileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateMine handles PUT /profile/me
// @Summary      Update own card profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body appcustomer.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=appcustomer.OwnProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /profile/me [put]
func (h *ProfileHandler) UpdateMine(c *gin.Context) {
	profileID, ok := h.ProfileID(c)
	if !ok {
		return
	}
	var req appcustomer.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateMine(c.Request.Context(), profileID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
