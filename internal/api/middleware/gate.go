package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/auth"
	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/domain"
)

const customerKey = "customer"

// Gate resolves the signed-in customer for every gated request and sends
// anonymous visitors of non-public paths to the sign-in page.
func Gate(matcher *auth.RouteMatcher, authenticator auth.Authenticator, cfg config.AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !matcher.ShouldGate(path) {
			c.Next()
			return
		}

		if customer := resolveCustomer(c, authenticator, cfg.SessionCookieName, logger); customer != nil {
			c.Set(customerKey, customer)
			c.Next()
			return
		}

		if matcher.IsPublic(path) {
			c.Next()
			return
		}

		c.Redirect(http.StatusTemporaryRedirect, SignInRedirect(cfg.SignInURL, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// SignInRedirect builds the sign-in URL that returns to returnTo afterwards
func SignInRedirect(signInURL, returnTo string) string {
	u, err := url.Parse(signInURL)
	if err != nil {
		return signInURL
	}
	q := u.Query()
	q.Set("redirect_url", returnTo)
	u.RawQuery = q.Encode()
	return u.String()
}

func resolveCustomer(c *gin.Context, authenticator auth.Authenticator, cookieName string, logger *zap.Logger) *domain.Customer {
	ctx := c.Request.Context()

	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			customer, err := authenticator.VerifyIDToken(ctx, strings.TrimSpace(parts[1]))
			if err == nil {
				return customer
			}
			logger.Debug("Bearer token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
	}

	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		customer, err := authenticator.VerifySessionCookie(ctx, cookie)
		if err == nil {
			return customer
		}
		logger.Debug("Session cookie rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	return nil
}

// GetCustomerFromContext retrieves the signed-in customer, if any
func GetCustomerFromContext(c *gin.Context) (*domain.Customer, bool) {
	value, exists := c.Get(customerKey)
	if !exists {
		return nil, false
	}
	customer, ok := value.(*domain.Customer)
	return customer, ok
}
