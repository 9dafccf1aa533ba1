// File: internal/middleware/session.go
package middleware

import (
	"net/http"

	"university_portal_backend/internal/common"
	"university_portal_backend/internal/config"
	"university_portal_backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionMiddleware resolves the caller's session from the session cookie or the
// X-Session-ID header, opening a new one when needed, and binds it to the request.
// The session id is echoed back in both.
func SessionMiddleware(store *session.Store, cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	maxAge := int(cfg.SessionIdleTimeout.Seconds())
	secure := cfg.GinMode == gin.ReleaseMode
	return func(c *gin.Context) {
		id := c.GetHeader(common.SessionIDHeader)
		if id == "" {
			if cookie, err := c.Cookie(cfg.SessionCookieName); err == nil {
				id = cookie
			}
		}

		sess, created, err := store.Resolve(id)
		if err != nil {
			logger.Error("Failed to open session", zap.Error(err))
			common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("Could not open a session."))
			return
		}
		if created {
			logger.Debug("New session", zap.String("session_id", sess.ID), zap.Bool("replaced", id != ""))
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.SessionCookieName, sess.ID, maxAge, "/", "", secure, true)
		c.Header(common.SessionIDHeader, sess.ID)

		sess.Bind(c)
		c.Next()
	}
}
