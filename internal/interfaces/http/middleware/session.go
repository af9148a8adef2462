package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/session"
)

// Session attaches the browser session to the request context. A missing,
// tampered or expired cookie starts a fresh session. The cookie is reissued
// on every request so its expiry slides with the server-side TTL.
func Session(cfg *config.Config, store *session.Store, logger *logrus.Logger) gin.HandlerFunc {
	codec := session.NewCodec(cfg)
	maxAge := int(cfg.Session.TTL.Seconds())

	return func(c *gin.Context) {
		var sessionID string
		if cookie, err := c.Cookie(cfg.Session.CookieName); err == nil && cookie != "" {
			if id, err := codec.Parse(cookie); err == nil {
				sessionID = id
			} else {
				logger.WithField("request_id", c.GetString(RequestIDKey)).Debug("Discarding invalid session cookie")
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		signed, err := codec.Sign(sessionID)
		if err != nil {
			logger.WithError(err).Error("Failed to sign session cookie")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to establish session",
			})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.Session.CookieName, signed, maxAge, "/", "", cfg.Session.Secure, true)

		sess := store.Open(sessionID)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))

		c.Next()
	}
}
