package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/summitcrest/realty/internal/application/services"
	"github.com/summitcrest/realty/internal/interfaces/middleware"
)

// PreviewEnabler defines the draft preview operations
type PreviewEnabler interface {
	Enable(secret string) (*services.Session, error)
}

// PreviewHandler toggles draft-content preview for editors
type PreviewHandler struct {
	svc           PreviewEnabler
	secureCookies bool
}

// NewPreviewHandler creates a new PreviewHandler
func NewPreviewHandler(svc PreviewEnabler, secureCookies bool) *PreviewHandler {
	return &PreviewHandler{svc: svc, secureCookies: secureCookies}
}

// Enable handles GET /api/preview/enable?secret=&redirect=
func (h *PreviewHandler) Enable(c *gin.Context) {
	session, err := h.svc.Enable(c.Query("secret"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	setSessionCookie(c, middleware.CookiePreview, session.Token, session.ExpiresAt, h.secureCookies)
	c.Redirect(http.StatusTemporaryRedirect, services.SafeRedirect(c.Query("redirect")))
}

// Disable handles GET /api/preview/disable
func (h *PreviewHandler) Disable(c *gin.Context) {
	clearSessionCookie(c, middleware.CookiePreview, h.secureCookies)
	c.Redirect(http.StatusTemporaryRedirect, services.SafeRedirect(c.Query("redirect")))
}

func setSessionCookie(c *gin.Context, name, value string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context, name string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", secure, true)
}
