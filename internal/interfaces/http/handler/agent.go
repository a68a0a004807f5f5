package handler

import (
	"github.com/gin-gonic/gin"
	appagent "github.com/taponce/backend/internal/application/agent"
)

// AgentHandler handles agent applications and the admin agent screens
type AgentHandler struct {
	BaseHandler
	agentService *appagent.AgentService
	auditService *appagent.BalanceAuditService
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agentService *appagent.AgentService, auditService *appagent.BalanceAuditService) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
		auditService: auditService,
	}
}

// Apply handles POST /agents/apply. The agent starts as pending.
// @Summary      Apply to become an agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        request body appagent.ApplyRequest true "Application"
// @Success      201 {object} dto.Response{data=appagent.AgentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /agents/apply [post]
func (h *AgentHandler) Apply(c *gin.Context) {
	var req appagent.ApplyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.agentService.Apply(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /admin/agents
// @Summary      List agents
// @Tags         admin-agents
// @Produce      json
// @Param        search query string false "Search"
// @Param        status query string false "Status" Enums(pending, active, suspended)
// @Param        city query string false "City"
// @Param        page query int false "Page" minimum(1) default(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100) default(20)
// @Param        order_by query string false "Order by"
// @Param        order_dir query string false "Order dir" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]appagent.AgentResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/agents [get]
func (h *AgentHandler) List(c *gin.Context) {
	var filter appagent.AgentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.agentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(&h.BaseHandler, c, page)
}

// Create handles POST /admin/agents. The agent is active immediately and
// gets a claim link when no password was given.
// @Summary      Create an active agent
// @Tags         admin-agents
// @Accept       json
// @Produce      json
// @Param        request body appagent.CreateAgentRequest true "Agent"
// @Success      201 {object} dto.Response{data=appagent.CreateAgentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/agents [post]
func (h *AgentHandler) Create(c *gin.Context) {
	var req appagent.CreateAgentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.agentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /admin/agents/:id
// @Summary      Get an agent
// @Tags         admin-agents
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Success      200 {object} dto.Response{data=appagent.AgentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/agents/{id} [get]
func (h *AgentHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.agentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PATCH /admin/agents/:id
// @Summary      Update an agent
// @Tags         admin-agents
// @Accept       json
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Param        request body appagent.UpdateAgentRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=appagent.AgentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/agents/{id} [patch]
func (h *AgentHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appagent.UpdateAgentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.agentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetMSP handles GET /admin/agents/:id/msp
// @Summary      Agent MSP per design
// @Tags         admin-agents
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]appagent.MSPResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/agents/{id}/msp [get]
func (h *AgentHandler) GetMSP(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	items, err := h.agentService.GetMSP(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// SetMSP handles PUT /admin/agents/:id/msp. A null msp removes the override.
// @Summary      Set agent MSP overrides
// @Tags         admin-agents
// @Accept       json
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Param        request body appagent.SetMSPRequest true "Overrides"
// @Success      200 {object} dto.Response{data=[]appagent.MSPResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/agents/{id}/msp [put]
func (h *AgentHandler) SetMSP(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appagent.SetMSPRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items, err := h.agentService.SetMSP(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// BalanceAudit handles GET /admin/agents/:id/balance-audit. It reports the
// drift and never corrects it.
// @Summary      Audit an agent balance
// @Description  Compares the stored balance with the order and payout ledger.
// @Tags         admin-agents
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/agents/{id}/balance-audit [get]
func (h *AgentHandler) BalanceAudit(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	audit, err := h.auditService.Audit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, audit)
}
