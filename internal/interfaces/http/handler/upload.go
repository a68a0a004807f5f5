package handler

import (
	"github.com/gin-gonic/gin"
	appupload "github.com/taponce/backend/internal/application/upload"
)

// UploadHandler hands out presigned upload URLs
type UploadHandler struct {
	BaseHandler
	uploadService *appupload.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *appupload.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Presign handles POST /uploads/presign
// @Summary      Presigned upload URL
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        request body appupload.PresignRequest true "File to upload"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /uploads/presign [post]
func (h *UploadHandler) Presign(c *gin.Context) {
	profileID, ok := h.ProfileID(c)
	if !ok {
		return
	}
	var req appupload.PresignRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.uploadService.Presign(c.Request.Context(), profileID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
