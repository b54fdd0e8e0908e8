package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/borcelle/storefront/internal/config"
)

const sessionIDKey = "session_id"

// CartSession makes sure every request carries a cart session id, issuing
// a new cookie when the browser has none.
func CartSession(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err == nil {
			_, err = uuid.Parse(sessionID)
		}
		if err != nil {
			sessionID = uuid.NewString()
		}

		// refresh on every request so the cookie lives as long as the record
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sessionID, int(cfg.TTL.Seconds()), "/", "", cfg.CookieSecure, true)

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID retrieves the cart session id set by CartSession
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
