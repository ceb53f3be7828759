package rest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SitemapProvider serves the crawler files
type SitemapProvider interface {
	Sitemap(ctx context.Context) ([]byte, error)
	Robots() string
}

// OGImageRenderer renders social share cards
type OGImageRenderer interface {
	Render(ctx context.Context, kind, slug string, w io.Writer) error
}

// SEOHandler serves sitemap.xml, robots.txt and Open Graph images
type SEOHandler struct {
	sitemap SitemapProvider
	og      OGImageRenderer
}

// NewSEOHandler creates a new SEOHandler
func NewSEOHandler(sitemap SitemapProvider, og OGImageRenderer) *SEOHandler {
	return &SEOHandler{sitemap: sitemap, og: og}
}

// Sitemap handles GET /sitemap.xml
func (h *SEOHandler) Sitemap(c *gin.Context) {
	body, err := h.sitemap.Sitemap(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=900")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// Robots handles GET /robots.txt
func (h *SEOHandler) Robots(c *gin.Context) {
	c.String(http.StatusOK, h.sitemap.Robots())
}

// OGImage handles GET /og/:kind/:slug
func (h *SEOHandler) OGImage(c *gin.Context) {
	slug := strings.TrimSuffix(c.Param("slug"), ".png")

	var buf bytes.Buffer
	if err := h.og.Render(c.Request.Context(), c.Param("kind"), slug, &buf); err != nil {
		RespondAppError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
