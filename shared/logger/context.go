package logger

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDCtx contextKey = "request_id"
	ginLoggerKey            = "logger"

	RequestIDKey = "X-Request-ID"
)

// FromContext retrieves the logger from the context
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromGin retrieves the request scoped logger from the gin context
func FromGin(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ginLoggerKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return GetLogger().With(zap.String("request_id", RequestID(c)))
}

// RequestIDMiddleware makes sure every request carries an X-Request-ID, generating one if needed
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Request.Header.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDCtx, requestID))

		c.Next()
	}
}

// RequestID returns the id assigned by RequestIDMiddleware, or the incoming header
func RequestID(c *gin.Context) string {
	if v, ok := c.Get(RequestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	if h := c.GetHeader(RequestIDKey); h != "" {
		return h
	}
	return "unknown"
}

// RequestIDFromContext returns the request id carried by ctx, or "" outside a request
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDCtx).(string); ok {
		return s
	}
	return ""
}
