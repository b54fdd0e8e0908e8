package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/borcelle/storefront/internal/config"
)

// AdminAuthMiddleware checks the admin API key (Authorization: Bearer <key>
// or X-API-Key) against the configured bcrypt hash
func AdminAuthMiddleware(cfg config.AdminConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if header := c.GetHeader("Authorization"); apiKey == "" && header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				apiKey = strings.TrimSpace(parts[1])
			}
		}

		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(cfg.APIKeyHash), []byte(apiKey)); err != nil {
			logger.Warn("Invalid admin API key",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
