package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/config"
	"placify-backend/shared/logger"
	"placify-backend/shared/utils/response"
)

const ResponseTimeHeader = "X-Response-Time"

// InternalPaths are service to service endpoints that must not be reachable from outside
var InternalPaths = []string{
	"/api/notifications/send",
}

// CORS allows the frontend origin with credentials
func CORS(cfg *config.Config) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDKey},
		ExposeHeaders:    []string{logger.RequestIDKey, ResponseTimeHeader},
		AllowCredentials: true,
		AllowWebSockets:  true,
		MaxAge:           12 * time.Hour,
	})
}

// BlockInternal hides the given paths behind a 404
func BlockInternal(paths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimSuffix(c.Request.URL.Path, "/")
		for _, p := range paths {
			if path == p {
				response.Error(c, apperrors.New(apperrors.CodeNotFound, "route not found"))
				return
			}
		}
		c.Next()
	}
}

// ResponseTime stamps the time until the first byte of the response, upstream included
func ResponseTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &timedWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Next()
	}
}

// timedWriter sets the header right before the status line goes out
type timedWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *timedWriter) stamp() {
	if !w.stamped {
		w.stamped = true
		w.Header().Set(ResponseTimeHeader, time.Since(w.start).String())
	}
}

func (w *timedWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timedWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *timedWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *timedWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}
