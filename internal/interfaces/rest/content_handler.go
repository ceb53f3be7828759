package rest

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/interfaces/middleware"
)

// ContentReader defines the public CMS reads served by the site API
type ContentReader interface {
	SiteSettings(ctx context.Context, preview bool) (*models.SiteSettings, error)
	Properties(ctx context.Context, preview bool) ([]models.Property, error)
	Property(ctx context.Context, slug string, preview bool) (*models.Property, error)
	Projects(ctx context.Context, preview bool) ([]models.Project, error)
	Project(ctx context.Context, slug string, preview bool) (*models.Project, error)
	Testimonials(ctx context.Context, preview bool) ([]models.Testimonial, error)
	Services(ctx context.Context, preview bool) ([]models.Service, error)
	Page(ctx context.Context, slug string, preview bool) (*models.Page, error)
}

// ContentHandler serves marketing content to the site
type ContentHandler struct {
	svc ContentReader
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(svc ContentReader) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// Settings handles GET /api/content/settings
func (h *ContentHandler) Settings(c *gin.Context) {
	HandleGetEnvelope(c, "settings", func() (interface{}, error) {
		return h.svc.SiteSettings(c.Request.Context(), middleware.IsPreview(c))
	})
}

// ListProperties handles GET /api/content/properties
func (h *ContentHandler) ListProperties(c *gin.Context) {
	HandleGetEnvelope(c, "properties", func() (interface{}, error) {
		return h.svc.Properties(c.Request.Context(), middleware.IsPreview(c))
	})
}

// GetProperty handles GET /api/content/properties/:slug
func (h *ContentHandler) GetProperty(c *gin.Context) {
	HandleGetEnvelope(c, "property", func() (interface{}, error) {
		return h.svc.Property(c.Request.Context(), c.Param("slug"), middleware.IsPreview(c))
	})
}

// ListProjects handles GET /api/content/projects
func (h *ContentHandler) ListProjects(c *gin.Context) {
	HandleGetEnvelope(c, "projects", func() (interface{}, error) {
		return h.svc.Projects(c.Request.Context(), middleware.IsPreview(c))
	})
}

// GetProject handles GET /api/content/projects/:slug
func (h *ContentHandler) GetProject(c *gin.Context) {
	HandleGetEnvelope(c, "project", func() (interface{}, error) {
		return h.svc.Project(c.Request.Context(), c.Param("slug"), middleware.IsPreview(c))
	})
}

// ListTestimonials handles GET /api/content/testimonials
func (h *ContentHandler) ListTestimonials(c *gin.Context) {
	HandleGetEnvelope(c, "testimonials", func() (interface{}, error) {
		return h.svc.Testimonials(c.Request.Context(), middleware.IsPreview(c))
	})
}

// ListServices handles GET /api/content/services
func (h *ContentHandler) ListServices(c *gin.Context) {
	HandleGetEnvelope(c, "services", func() (interface{}, error) {
		return h.svc.Services(c.Request.Context(), middleware.IsPreview(c))
	})
}

// GetPage handles GET /api/content/pages/:slug
func (h *ContentHandler) GetPage(c *gin.Context) {
	HandleGetEnvelope(c, "page", func() (interface{}, error) {
		return h.svc.Page(c.Request.Context(), c.Param("slug"), middleware.IsPreview(c))
	})
}
