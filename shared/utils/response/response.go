package response

import (
	"encoding/json"
	"net/http"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope documents the JSON body every endpoint answers with
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func OKWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": data})
}

// Paged writes a list as data.items together with data.pagination
func Paged(c *gin.Context, items interface{}, pagination interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"pagination": pagination,
		},
	})
}

// Error renders any error. Typed errors keep their code, the rest become 500 and get logged.
func Error(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	status := appErr.HTTPStatus()

	if status >= http.StatusInternalServerError {
		logger.FromGin(c).Error("request failed", zap.Error(err))
	}

	body := gin.H{
		"success": false,
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}

	c.AbortWithStatusJSON(status, body)
}

// BadRequest is a shortcut for malformed payloads caught by binding
func BadRequest(c *gin.Context, err error) {
	Error(c, apperrors.Validation("invalid request body: "+err.Error(), nil))
}

// WriteUpstreamError answers 502 outside of a gin handler, as the gateway proxy needs
func WriteUpstreamError(w http.ResponseWriter, service string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success: false,
		Error:   "UPSTREAM_UNAVAILABLE",
		Message: service + " service is unavailable",
	})
}
