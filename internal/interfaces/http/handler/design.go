package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/taponce/backend/internal/application/catalog"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/interfaces/http/middleware"
)

// DesignHandler handles the card design catalog
type DesignHandler struct {
	BaseHandler
	designService *appcatalog.DesignService
	agents        AgentLookup
}

// NewDesignHandler creates a new design handler
func NewDesignHandler(designService *appcatalog.DesignService, agents AgentLookup) *DesignHandler {
	return &DesignHandler{designService: designService, agents: agents}
}

// List handles GET /admin/designs
// @Summary      List card designs
// @Tags         admin-designs
// @Produce      json
// @Param        search query string false "Search"
// @Param        status query string false "Status" Enums(active, inactive)
// @Param        order_by query string false "Order by" Enums(name, base_msp, total_sales, created_at)
// @Param        order_dir query string false "Order dir" Enums(asc, desc)
// @Param        page query int false "Page" minimum(1) default(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100) default(20)
// @Success      200 {object} dto.Response{data=[]appcatalog.DesignResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/designs [get]
func (h *DesignHandler) List(c *gin.Context) {
	var filter appcatalog.DesignListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	designs, total, err := h.designService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	if designs == nil {
		designs = []appcatalog.DesignResponse{}
	}
	h.SuccessWithMeta(c, designs, total, page, pageSize)
}

// Create handles POST /admin/designs
// @Summary      Create a card design
// @Tags         admin-designs
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.CreateDesignRequest true "Design"
// @Success      201 {object} dto.Response{data=appcatalog.DesignResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/designs [post]
func (h *DesignHandler) Create(c *gin.Context) {
	var req appcatalog.CreateDesignRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.designService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PATCH /admin/designs/:id
// @Summary      Update a card design
// @Tags         admin-designs
// @Accept       json
// @Produce      json
// @Param        id path string true "Design ID" format(uuid)
// @Param        request body appcatalog.UpdateDesignRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=appcatalog.DesignResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/designs/{id} [patch]
func (h *DesignHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateDesignRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.designService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPublic handles GET /designs. Agents also see their own MSP per design.
// @Summary      Active card designs
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appcatalog.PublicDesignResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /designs [get]
func (h *DesignHandler) ListPublic(c *gin.Context) {
	var agentID *uuid.UUID
	if middleware.GetJWTRole(c) == identity.RoleAgent {
		id, err := resolveAgentID(c, h.agents)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		agentID = &id
	}

	designs, err := h.designService.ListPublic(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if designs == nil {
		designs = []appcatalog.PublicDesignResponse{}
	}
	h.Success(c, designs)
}

// pageOrDefault echoes the page the services fell back to
func pageOrDefault(page, pageSize int) (int, int) {
	defaults := shared.DefaultFilter()
	if page <= 0 {
		page = defaults.Page
	}
	if pageSize <= 0 {
		pageSize = defaults.PageSize
	}
	return page, pageSize
}
