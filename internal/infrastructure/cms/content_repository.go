package cms

import (
	"context"
	"errors"
	"fmt"

	"github.com/summitcrest/realty/internal/domain/models"
	appErrors "github.com/summitcrest/realty/pkg/errors"
)

// GROQ projections. References are resolved server side so the Go models
// stay flat.
const (
	imageProjection = `{"url": asset->url, "alt": alt}`

	propertyProjection = `{_id, _updatedAt, title, "slug": slug.current, summary, address, city, price,
		bedrooms, bathrooms, squareFeet, status, featured,
		"mainImage": mainImage` + imageProjection + `,
		"gallery": gallery[]` + imageProjection + `, body}`

	projectProjection = `{_id, _updatedAt, title, "slug": slug.current, summary, location, stage,
		"mainImage": mainImage` + imageProjection + `, body}`

	testimonialProjection = `{_id, author, role, quote, rating, "photo": photo` + imageProjection + `}`

	serviceProjection = `{_id, title, "slug": slug.current, description, icon, order}`

	pageProjection = `{_id, _updatedAt, title, "slug": slug.current, seoDescription, body}`

	prospectusProjection = `{_id, _updatedAt, title, "slug": slug.current, summary, location, assetClass,
		targetRaise, minimumInvestment, projectedIrr, holdPeriodYears, status, eligibility, highlights,
		"mainImage": mainImage` + imageProjection + `, body}`

	settingsProjection = `{title, description, phone, email, address, "ogImage": ogImage` + imageProjection + `}`

	sluggedProjection = `{"slug": slug.current, _updatedAt}`
)

// ContentRepository reads typed marketing and investment content
type ContentRepository struct {
	client *Client
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(client *Client) *ContentRepository {
	return &ContentRepository{client: client}
}

func (r *ContentRepository) list(ctx context.Context, groq string, preview bool, out interface{}) error {
	err := r.client.Query(ctx, groq, nil, QueryOptions{Preview: preview}, out)
	if errors.Is(err, ErrNoResult) {
		return nil
	}
	return err
}

func (r *ContentRepository) one(ctx context.Context, resource, groq string, params map[string]interface{}, preview bool, out interface{}) error {
	err := r.client.Query(ctx, groq, params, QueryOptions{Preview: preview}, out)
	if errors.Is(err, ErrNoResult) {
		key, _ := params["slug"].(string)
		return appErrors.NewNotFoundError(resource, key)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
		key, _ := params["slug"].(string)
		return appErrors.NewNotFoundError(resource, key)
	}
	return err
}

func bySlug(docType, projection string) string {
	return fmt.Sprintf(`*[_type == "%s" && slug.current == $slug][0]%s`, docType, projection)
}

// ListProperties returns listings, featured first
func (r *ContentRepository) ListProperties(ctx context.Context, preview bool) ([]models.Property, error) {
	properties := make([]models.Property, 0)
	err := r.list(ctx, `*[_type == "property"] | order(featured desc, _updatedAt desc)`+propertyProjection, preview, &properties)
	return properties, err
}

// GetProperty returns a listing by slug
func (r *ContentRepository) GetProperty(ctx context.Context, slug string, preview bool) (*models.Property, error) {
	var p models.Property
	if err := r.one(ctx, "property", bySlug("property", propertyProjection), map[string]interface{}{"slug": slug}, preview, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns projects newest first
func (r *ContentRepository) ListProjects(ctx context.Context, preview bool) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	err := r.list(ctx, `*[_type == "project"] | order(_updatedAt desc)`+projectProjection, preview, &projects)
	return projects, err
}

// GetProject returns a project by slug
func (r *ContentRepository) GetProject(ctx context.Context, slug string, preview bool) (*models.Project, error) {
	var p models.Project
	if err := r.one(ctx, "project", bySlug("project", projectProjection), map[string]interface{}{"slug": slug}, preview, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListTestimonials returns all testimonials
func (r *ContentRepository) ListTestimonials(ctx context.Context, preview bool) ([]models.Testimonial, error) {
	items := make([]models.Testimonial, 0)
	err := r.list(ctx, `*[_type == "testimonial"] | order(_createdAt desc)`+testimonialProjection, preview, &items)
	return items, err
}

// ListServices returns services in display order
func (r *ContentRepository) ListServices(ctx context.Context, preview bool) ([]models.Service, error) {
	items := make([]models.Service, 0)
	err := r.list(ctx, `*[_type == "service"] | order(order asc)`+serviceProjection, preview, &items)
	return items, err
}

// GetPage returns a free-form page by slug
func (r *ContentRepository) GetPage(ctx context.Context, slug string, preview bool) (*models.Page, error) {
	var p models.Page
	if err := r.one(ctx, "page", bySlug("page", pageProjection), map[string]interface{}{"slug": slug}, preview, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProspectuses returns investment opportunities, open ones first
func (r *ContentRepository) ListProspectuses(ctx context.Context, preview bool) ([]models.Prospectus, error) {
	items := make([]models.Prospectus, 0)
	err := r.list(ctx, `*[_type == "prospectus"] | order(status asc, _updatedAt desc)`+prospectusProjection, preview, &items)
	return items, err
}

// GetProspectus returns a prospectus by slug or document ID.
// Always reads the published perspective: investors never see drafts.
func (r *ContentRepository) GetProspectus(ctx context.Context, slugOrID string) (*models.Prospectus, error) {
	var p models.Prospectus
	groq := `*[_type == "prospectus" && (slug.current == $slug || _id == $slug)][0]` + prospectusProjection
	if err := r.one(ctx, "prospectus", groq, map[string]interface{}{"slug": slugOrID}, false, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetSiteSettings returns the singleton settings document.
// A dataset without one yields zero settings rather than an error.
func (r *ContentRepository) GetSiteSettings(ctx context.Context, preview bool) (*models.SiteSettings, error) {
	var s models.SiteSettings
	err := r.client.Query(ctx, `*[_type == "siteSettings"][0]`+settingsProjection, nil, QueryOptions{Preview: preview}, &s)
	if err != nil && !errors.Is(err, ErrNoResult) {
		return nil, err
	}
	return &s, nil
}

// ListSlugs returns slug and last-modified pairs for a document type.
// Used by the sitemap, always against published content.
func (r *ContentRepository) ListSlugs(ctx context.Context, docType string) ([]models.Slugged, error) {
	items := make([]models.Slugged, 0)
	groq := `*[_type == $type && defined(slug.current)] | order(_updatedAt desc)` + sluggedProjection
	err := r.client.Query(ctx, groq, map[string]interface{}{"type": docType}, QueryOptions{}, &items)
	if errors.Is(err, ErrNoResult) {
		return items, nil
	}
	return items, err
}
