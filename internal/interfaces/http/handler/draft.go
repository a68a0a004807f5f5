package handler

import (
	"github.com/gin-gonic/gin"
	appdraft "github.com/taponce/backend/internal/application/draft"
	"github.com/taponce/backend/internal/domain/draft"
)

// DraftHandler handles the checkout funnel's draft order
type DraftHandler struct {
	BaseHandler
	draftService *appdraft.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *appdraft.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// Create handles POST /drafts
// @Summary      Start a draft order
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        request body appdraft.CreateDraftRequest true "Profession"
// @Success      201 {object} dto.Response{data=appdraft.DraftResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /drafts [post]
func (h *DraftHandler) Create(c *gin.Context) {
	var req appdraft.CreateDraftRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.draftService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /drafts/:id
// @Summary      Get a draft order
// @Tags         drafts
// @Produce      json
// @Param        id path string true "Draft ID" format(uuid)
// @Success      200 {object} dto.Response{data=appdraft.DraftResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /drafts/{id} [get]
func (h *DraftHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.draftService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PATCH /drafts/:id. Absent fields are left as they are.
// @Summary      Update a draft order
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id path string true "Draft ID" format(uuid)
// @Param        request body draft.Patch true "Fields to change"
// @Success      200 {object} dto.Response{data=appdraft.DraftResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /drafts/{id} [patch]
func (h *DraftHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var patch draft.Patch
	if !h.BindJSON(c, &patch) {
		return
	}

	resp, err := h.draftService.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /drafts/:id
// @Summary      Discard a draft order
// @Tags         drafts
// @Produce      json
// @Param        id path string true "Draft ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /drafts/{id} [delete]
func (h *DraftHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.draftService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
