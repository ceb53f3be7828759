package ports

import (
	"context"
	"io"

	"github.com/summitcrest/realty/internal/domain/models"
)

// ContentSource reads CMS documents. preview selects the draft overlay.
// Single-document lookups return a NotFoundError when nothing matches.
type ContentSource interface {
	ListProperties(ctx context.Context, preview bool) ([]models.Property, error)
	GetProperty(ctx context.Context, slug string, preview bool) (*models.Property, error)
	ListProjects(ctx context.Context, preview bool) ([]models.Project, error)
	GetProject(ctx context.Context, slug string, preview bool) (*models.Project, error)
	ListTestimonials(ctx context.Context, preview bool) ([]models.Testimonial, error)
	ListServices(ctx context.Context, preview bool) ([]models.Service, error)
	GetPage(ctx context.Context, slug string, preview bool) (*models.Page, error)
	ListProspectuses(ctx context.Context, preview bool) ([]models.Prospectus, error)
	GetProspectus(ctx context.Context, slugOrID string) (*models.Prospectus, error)
	GetSiteSettings(ctx context.Context, preview bool) (*models.SiteSettings, error)
	ListSlugs(ctx context.Context, docType string) ([]models.Slugged, error)
}

// AssetStore keeps uploaded files
type AssetStore interface {
	UploadFile(ctx context.Context, filename, contentType string, body io.Reader) (assetID, url string, err error)
	DeleteAsset(ctx context.Context, assetID string) error
}

// ContentWriter applies back-office edits to CMS documents
type ContentWriter interface {
	PatchDocument(ctx context.Context, id string, set map[string]interface{}) error
}

// UserDirectory looks up identity-provider accounts
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*models.IdentityUser, error)
}
