package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"placify-backend/notification-service/services"
	"placify-backend/shared/apperrors"
	"placify-backend/shared/clients"
	"placify-backend/shared/middleware"
	"placify-backend/shared/utils/query"
	"placify-backend/shared/utils/response"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(svc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: svc}
}

// SendNotification stores a notification and pushes it live
// @Summary Send notification (internal)
// @Description Called by other services with the X-Internal-Token header
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body clients.SendRequest true "Notification"
// @Success 201 {object} response.Envelope{data=notification.Notification}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notifications/send [post]
func (h *NotificationHandler) SendNotification(c *gin.Context) {
	var req clients.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	n, err := h.notifications.Send(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Notification sent", n)
}

// GetNotifications lists the caller's notifications, newest first
// @Summary List my notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=PaginatedResponse{items=[]notification.Notification}}
// @Failure 401 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))

	items, pagination, err := h.notifications.List(c.Request.Context(), middleware.MustPrincipal(c), unreadOnly, query.ParseListParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, items, pagination)
}

// GetUnreadCount returns the badge counter
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=UnreadCount}
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	n, err := h.notifications.UnreadCount(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, UnreadCount{Unread: n})
}

// MarkAsRead marks one notification read
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=notification.Notification}
// @Failure 404 {object} response.Envelope
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ValidationField("id", "must be a valid UUID"))
		return
	}

	n, err := h.notifications.MarkRead(c.Request.Context(), middleware.MustPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, n)
}

// MarkAllAsRead marks every unread notification of the caller read
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=UpdatedCount}
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Notifications marked as read", UpdatedCount{Updated: n})
}

type UnreadCount struct {
	Unread int64 `json:"unread"`
}

type UpdatedCount struct {
	Updated int64 `json:"updated"`
}

// PaginatedResponse documents the data field of paged lists
type PaginatedResponse struct {
	Items      interface{}      `json:"items"`
	Pagination query.Pagination `json:"pagination"`
}
