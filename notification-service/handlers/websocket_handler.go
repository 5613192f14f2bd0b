package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"placify-backend/notification-service/services"
	"placify-backend/shared/apperrors"
	"placify-backend/shared/logger"
	"placify-backend/shared/middleware"
	"placify-backend/shared/utils/response"
)

type WebSocketHandler struct {
	manager   *services.WebSocketManager
	validator middleware.TokenValidator
}

func NewWebSocketHandler(manager *services.WebSocketManager, validator middleware.TokenValidator) *WebSocketHandler {
	return &WebSocketHandler{manager: manager, validator: validator}
}

// HandleWebSocket opens the live notification stream of the caller
// @Summary WebSocket Connection
// @Description Browsers cannot set headers on WebSocket requests, so the access token may be passed as ?token=
// @Tags websocket
// @Param token query string false "Access token"
// @Success 101
// @Failure 401 {object} response.Envelope
// @Router /ws/notifications [get]
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token, _ = middleware.ExtractBearerToken(c.GetHeader("Authorization"))
	}
	if token == "" {
		response.Error(c, apperrors.Unauthorized("access token required"))
		return
	}

	claims, err := h.validator.ValidateAccess(token)
	if err != nil {
		response.Error(c, apperrors.Unauthorized("Invalid or expired token"))
		return
	}
	principal, err := claims.Principal()
	if err != nil {
		response.Error(c, apperrors.Unauthorized("Invalid user ID in token"))
		return
	}

	// Serve blocks until the client goes away; the upgrader writes its own error response
	if err := h.manager.Serve(c.Writer, c.Request, principal.UserID); err != nil {
		logger.FromGin(c).Debug("WebSocket upgrade failed", zap.Error(err))
	}
}
