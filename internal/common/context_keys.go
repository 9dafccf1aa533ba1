// File: internal/common/context_keys.go
package common

const (
	// SessionIDHeader lets non-browser clients carry their session without cookies.
	SessionIDHeader = "X-Session-ID"
	// SessionKey is the gin context key holding the resolved *session.Session.
	SessionKey = "portalSession"
	// LoggerKey is the gin context key holding the request-scoped *zap.Logger.
	LoggerKey = "logger"
)
