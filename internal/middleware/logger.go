// File: internal/middleware/logger.go
package middleware

import (
	"strings"
	"time"

	"university_portal_backend/internal/common"
	"university_portal_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the key for storing request ID in Gin context
	RequestIDContextKey = "requestID"

	maxRequestIDLength = 128
)

// quietPath reports requests that only log at debug level when they succeed.
func quietPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/static/")
}

// ZapLogger is a Gin middleware that logs one line per request and stores a
// request-scoped logger under common.LoggerKey. In release mode the raw query string
// is left out, since it carries what users type into search.
func ZapLogger(logger *zap.Logger, cfg *config.Config) gin.HandlerFunc {
	logQuery := cfg.GinMode != gin.ReleaseMode
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(RequestIDContextKey, requestID)
		c.Set(common.LoggerKey, logger.With(zap.String("request_id", requestID)))

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zapcore.Field{
			zap.Int("status_code", statusCode),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
		}
		if logQuery && c.Request.URL.RawQuery != "" {
			fields = append(fields, zap.String("query", c.Request.URL.RawQuery))
		}
		if sessionID := c.Writer.Header().Get(common.SessionIDHeader); sessionID != "" {
			fields = append(fields, zap.String("session_id", sessionID))
		}
		for _, e := range c.Errors.ByType(gin.ErrorTypePrivate) {
			fields = append(fields, zap.NamedError("error", e.Err))
		}

		switch {
		case statusCode >= 500:
			logger.Error("Server error", fields...)
		case statusCode >= 400:
			logger.Warn("Client error", fields...)
		case quietPath(path):
			logger.Debug("Request handled", fields...)
		default:
			logger.Info("Request handled", fields...)
		}
	}
}
