package handlers

import (
	"github.com/gin-gonic/gin"

	"placify-backend/shared/middleware"
)

// RegisterRoutes mounts the REST and WebSocket endpoints
func RegisterRoutes(r gin.IRouter, n *NotificationHandler, ws *WebSocketHandler, validator middleware.TokenValidator, internalToken string) {
	r.POST("/api/notifications/send", middleware.InternalOnly(internalToken), n.SendNotification)

	api := r.Group("/api/notifications", middleware.AuthMiddleware(validator))
	{
		api.GET("", n.GetNotifications)
		api.GET("/unread-count", n.GetUnreadCount)
		api.PUT("/read-all", n.MarkAllAsRead)
		api.PUT("/:id/read", n.MarkAsRead)
	}

	r.GET("/ws/notifications", ws.HandleWebSocket)
}
