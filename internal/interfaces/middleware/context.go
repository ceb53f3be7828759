package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/summitcrest/realty/internal/domain/models"
)

// Context keys set by the middleware in this package
const (
	ContextKeyInvestor = "investor"
	ContextKeyAdmin    = "admin"
	ContextKeyPreview  = "preview"
)

// Cookie names
const (
	// CookieClerkSession is written by the identity provider's frontend SDK
	CookieClerkSession = "__session"
	CookieAdminSession = "realty_admin"
	CookiePreview      = "realty_preview"
)

// InvestorFromContext returns the investor loaded by RequireInvestor
func InvestorFromContext(c *gin.Context) *models.Investor {
	v, exists := c.Get(ContextKeyInvestor)
	if !exists {
		return nil
	}
	inv, _ := v.(*models.Investor)
	return inv
}

// IsPreview reports whether the request carries a valid preview cookie
func IsPreview(c *gin.Context) bool {
	return c.GetBool(ContextKeyPreview)
}

// IsAdmin reports whether RequireAdmin accepted the request
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextKeyAdmin)
}

func abortJSON(c *gin.Context, status int, title, message, code string) {
	c.JSON(status, gin.H{
		"error":   title,
		"message": message,
		"code":    code,
		"data":    nil,
	})
	c.Abort()
}
