package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/auth"
	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/service"
)

const authSessionLifetime = 7 * 24 * time.Hour

// SessionLoginRequest carries the ID token obtained by the sign-in page
type SessionLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// HandleSessionLogin handles POST /api/auth/session: it exchanges an ID
// token for the long-lived session cookie read by the gate
func HandleSessionLogin(authenticator auth.Authenticator, cfg config.AuthConfig, secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SessionLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		cookie, err := authenticator.CreateSessionCookie(c.Request.Context(), req.IDToken, authSessionLifetime)
		if err != nil {
			respondError(c, logger, err, "failed to create session")
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.SessionCookieName, cookie, int(authSessionLifetime.Seconds()), "/", "", secure, true)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandleSessionLogout handles DELETE /api/auth/session
func HandleSessionLogout(cfg config.AuthConfig, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.SessionCookieName, "", -1, "/", "", secure, true)
		c.JSON(http.StatusOK, gin.H{"redirect": service.StorefrontPath})
	}
}
