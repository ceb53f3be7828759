package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/domain/ports"
	"github.com/summitcrest/realty/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

// ContentService reads CMS content. Published reads are cached for ttl and
// concurrent misses for the same key share one CMS request; preview reads
// always go to the CMS.
type ContentService struct {
	source ports.ContentSource
	writer ports.ContentWriter
	ttl    time.Duration
	now    func() time.Time

	cache map[string]cacheEntry
	mu    sync.RWMutex
	group singleflight.Group
}

// NewContentService creates a new ContentService. A zero ttl disables caching.
func NewContentService(source ports.ContentSource, writer ports.ContentWriter, ttl time.Duration) *ContentService {
	return &ContentService{
		source: source,
		writer: writer,
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
}

// cached returns the value under key, loading it when missing or expired
func cached[T any](s *ContentService, key string, preview bool, load func() (T, error)) (T, error) {
	if preview || s.ttl <= 0 {
		return load()
	}

	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && s.now().Before(entry.expires) {
		return entry.value.(T), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		value, err := load()
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = cacheEntry{value: value, expires: s.now().Add(s.ttl)}
		s.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops every cached entry
func (s *ContentService) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
	zap.L().Debug("content cache invalidated")
}

// SiteSettings returns the site settings document
func (s *ContentService) SiteSettings(ctx context.Context, preview bool) (*models.SiteSettings, error) {
	return cached(s, "settings", preview, func() (*models.SiteSettings, error) {
		return s.source.GetSiteSettings(ctx, preview)
	})
}

// Properties lists property listings
func (s *ContentService) Properties(ctx context.Context, preview bool) ([]models.Property, error) {
	return cached(s, "properties", preview, func() ([]models.Property, error) {
		return s.source.ListProperties(ctx, preview)
	})
}

// Property returns one listing
func (s *ContentService) Property(ctx context.Context, slug string, preview bool) (*models.Property, error) {
	return cached(s, "property:"+slug, preview, func() (*models.Property, error) {
		return s.source.GetProperty(ctx, slug, preview)
	})
}

// Projects lists projects
func (s *ContentService) Projects(ctx context.Context, preview bool) ([]models.Project, error) {
	return cached(s, "projects", preview, func() ([]models.Project, error) {
		return s.source.ListProjects(ctx, preview)
	})
}

// Project returns one project
func (s *ContentService) Project(ctx context.Context, slug string, preview bool) (*models.Project, error) {
	return cached(s, "project:"+slug, preview, func() (*models.Project, error) {
		return s.source.GetProject(ctx, slug, preview)
	})
}

// Testimonials lists testimonials
func (s *ContentService) Testimonials(ctx context.Context, preview bool) ([]models.Testimonial, error) {
	return cached(s, "testimonials", preview, func() ([]models.Testimonial, error) {
		return s.source.ListTestimonials(ctx, preview)
	})
}

// Services lists service offerings
func (s *ContentService) Services(ctx context.Context, preview bool) ([]models.Service, error) {
	return cached(s, "services", preview, func() ([]models.Service, error) {
		return s.source.ListServices(ctx, preview)
	})
}

// Page returns a free-form page
func (s *ContentService) Page(ctx context.Context, slug string, preview bool) (*models.Page, error) {
	return cached(s, "page:"+slug, preview, func() (*models.Page, error) {
		return s.source.GetPage(ctx, slug, preview)
	})
}

// Prospectuses lists investment opportunities. Investors never see drafts.
func (s *ContentService) Prospectuses(ctx context.Context) ([]models.Prospectus, error) {
	return cached(s, "prospectuses", false, func() ([]models.Prospectus, error) {
		return s.source.ListProspectuses(ctx, false)
	})
}

// Prospectus returns one prospectus by slug or ID
func (s *ContentService) Prospectus(ctx context.Context, slugOrID string) (*models.Prospectus, error) {
	return cached(s, "prospectus:"+slugOrID, false, func() (*models.Prospectus, error) {
		return s.source.GetProspectus(ctx, slugOrID)
	})
}

// SetProspectusStatus opens, closes or marks a prospectus funded
func (s *ContentService) SetProspectusStatus(ctx context.Context, slugOrID string, status models.ProspectusStatus) (*models.Prospectus, error) {
	switch status {
	case models.ProspectusOpen, models.ProspectusClosed, models.ProspectusFunded:
	default:
		return nil, errors.NewValidationError("status", fmt.Sprintf("unknown prospectus status '%s'", status))
	}
	p, err := s.source.GetProspectus(ctx, slugOrID)
	if err != nil {
		return nil, err
	}
	if err := s.writer.PatchDocument(ctx, p.ID, map[string]interface{}{"status": string(status)}); err != nil {
		return nil, fmt.Errorf("failed to update prospectus: %w", err)
	}
	s.Invalidate()
	zap.L().Info("🏷️ Prospectus status changed", zap.String("prospectus", p.Slug), zap.String("status", string(status)))

	p.Status = status
	return p, nil
}
