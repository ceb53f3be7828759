package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/domain/ports"
	"github.com/summitcrest/realty/pkg/sitemap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// staticRoutes are the marketing pages that exist without CMS documents
var staticRoutes = []sitemap.Entry{
	{Loc: "/", ChangeFreq: sitemap.Daily, Priority: 1.0},
	{Loc: "/properties", ChangeFreq: sitemap.Daily, Priority: 0.9},
	{Loc: "/projects", ChangeFreq: sitemap.Weekly, Priority: 0.8},
	{Loc: "/services", ChangeFreq: sitemap.Monthly, Priority: 0.7},
	{Loc: "/testimonials", ChangeFreq: sitemap.Monthly, Priority: 0.5},
	{Loc: "/invest", ChangeFreq: sitemap.Weekly, Priority: 0.7},
	{Loc: "/contact", ChangeFreq: sitemap.Monthly, Priority: 0.6},
}

// sitemapSections maps CMS document types to their public path prefix
var sitemapSections = []struct {
	docType  string
	prefix   string
	freq     sitemap.ChangeFreq
	priority float64
}{
	{docType: "property", prefix: "/properties/", freq: sitemap.Weekly, priority: 0.8},
	{docType: "project", prefix: "/projects/", freq: sitemap.Monthly, priority: 0.6},
	{docType: "page", prefix: "/", freq: sitemap.Monthly, priority: 0.5},
}

// robotsDisallow keeps crawlers out of authenticated areas
var robotsDisallow = []string{"/admin", "/api/", "/portal"}

// SitemapService builds and caches sitemap.xml
type SitemapService struct {
	source  ports.ContentSource
	siteURL string

	mu      sync.RWMutex
	current []byte
}

// NewSitemapService creates a new SitemapService
func NewSitemapService(source ports.ContentSource, siteURL string) *SitemapService {
	return &SitemapService{source: source, siteURL: siteURL}
}

// Sitemap returns the cached document, building it on first use
func (s *SitemapService) Sitemap(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current != nil {
		return current, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

// Refresh rebuilds the cached sitemap. On failure the previous copy is kept.
func (s *SitemapService) Refresh(ctx context.Context) error {
	doc, err := s.Build(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
	zap.L().Debug("sitemap refreshed", zap.Int("bytes", len(doc)))
	return nil
}

// Build queries every section concurrently and renders the sitemap
func (s *SitemapService) Build(ctx context.Context) ([]byte, error) {
	results := make([][]models.Slugged, len(sitemapSections))
	g, gctx := errgroup.WithContext(ctx)
	for i, section := range sitemapSections {
		g.Go(func() error {
			slugs, err := s.source.ListSlugs(gctx, section.docType)
			if err != nil {
				return fmt.Errorf("failed to list %s slugs: %w", section.docType, err)
			}
			results[i] = slugs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := append([]sitemap.Entry(nil), staticRoutes...)
	for i, section := range sitemapSections {
		for _, doc := range results[i] {
			entries = append(entries, sitemap.Entry{
				Loc:        section.prefix + doc.Slug,
				LastMod:    doc.UpdatedAt,
				ChangeFreq: section.freq,
				Priority:   section.priority,
			})
		}
	}
	return sitemap.Build(s.siteURL, entries)
}

// Robots returns robots.txt
func (s *SitemapService) Robots() string {
	return sitemap.Robots(s.siteURL, robotsDisallow)
}
