package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appnotification "github.com/taponce/backend/internal/application/notification"
	"github.com/taponce/backend/internal/interfaces/http/dto"
)

// NotificationHandler serves the caller's notification inbox
type NotificationHandler struct {
	BaseHandler
	notificationService *appnotification.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *appnotification.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /notifications. The unread count rides along so the
// bell badge needs no second call.
// @Summary      Notification inbox
// @Tags         notifications
// @Produce      json
// @Param        unread_only query bool false "Unread only"
// @Param        page query int false "Page" minimum(1) default(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100) default(20)
// @Success      200 {object} dto.Response{data=appnotification.Inbox}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	profileID, ok := h.ProfileID(c)
	if !ok {
		return
	}
	var filter appnotification.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	inbox, err := h.notificationService.List(c.Request.Context(), profileID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	items := inbox.Items
	if items == nil {
		items = []appnotification.NotificationResponse{}
	}
	resp := dto.NewSuccessResponseWithMeta(gin.H{
		"items":  items,
		"unread": inbox.Unread,
	}, inbox.Total, page, pageSize)
	c.JSON(http.StatusOK, resp)
}

// MarkRead handles POST /notifications/:id/read
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} dto.Response{data=appnotification.NotificationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	profileID, ok := h.ProfileID(c)
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.notificationService.MarkRead(c.Request.Context(), profileID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
