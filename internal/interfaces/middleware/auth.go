package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/infrastructure/identity"
	"github.com/summitcrest/realty/pkg/errors"
	"go.uber.org/zap"
)

// SessionVerifier checks identity-provider session tokens
type SessionVerifier interface {
	Verify(token string) (*identity.Claims, error)
}

// ProfileProvider maps an identity account to its investor profile
type ProfileProvider interface {
	EnsureProfile(ctx context.Context, clerkUserID string) (*models.Investor, error)
}

// TokenValidator checks signed cookie sessions
type TokenValidator interface {
	Validate(token string) bool
}

// RequireInvestor authenticates portal requests with the identity provider's
// session token, taken from the Authorization header or the session cookie
func RequireInvestor(verifier SessionVerifier, profiles ProfileProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(CookieClerkSession)
		}
		if token == "" {
			abortJSON(c, http.StatusUnauthorized, "Unauthorized", "No session token provided", "UNAUTHORIZED")
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "Unauthorized", err.Error(), "UNAUTHORIZED")
			return
		}

		investor, err := profiles.EnsureProfile(c.Request.Context(), claims.Subject)
		if err != nil {
			status := errors.GetHTTPStatus(err)
			if status >= http.StatusInternalServerError {
				zap.L().Error("failed to load investor profile", zap.String("clerk_user_id", claims.Subject), zap.Error(err))
			}
			abortJSON(c, status, http.StatusText(status), err.Error(), errors.GetErrorCode(err))
			return
		}

		c.Set(ContextKeyInvestor, investor)
		c.Next()
	}
}

// RequireAdmin gates the back office. Pages redirect to the login form;
// API routes answer 401 JSON.
func RequireAdmin(sessions TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(CookieAdminSession)
		if sessions.Validate(token) {
			c.Set(ContextKeyAdmin, true)
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			abortJSON(c, http.StatusUnauthorized, "Unauthorized", "Admin session required", "UNAUTHORIZED")
			return
		}
		c.Redirect(http.StatusSeeOther, "/admin/login")
		c.Abort()
	}
}

// Preview marks requests that carry a valid preview cookie. It never rejects.
func Preview(sessions TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(CookiePreview); err == nil && sessions.Validate(token) {
			c.Set(ContextKeyPreview, true)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
