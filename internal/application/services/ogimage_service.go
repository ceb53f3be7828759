package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/summitcrest/realty/pkg/errors"
	"github.com/summitcrest/realty/pkg/ogimage"
	"github.com/summitcrest/realty/pkg/pdf"
)

// OG card kinds addressable by /og/:kind/:slug
const (
	OGKindSite       = "site"
	OGKindProperty   = "property"
	OGKindProject    = "project"
	OGKindPage       = "page"
	OGKindProspectus = "prospectus"
)

// OGImageService renders social preview cards from CMS content
type OGImageService struct {
	content  *ContentService
	siteName string
}

// NewOGImageService creates a new OGImageService
func NewOGImageService(content *ContentService, siteName string) *OGImageService {
	return &OGImageService{content: content, siteName: siteName}
}

// Render writes the PNG card for a document. Documents that do not exist
// fall back to the generic site card so shared links never break.
func (s *OGImageService) Render(ctx context.Context, kind, slug string, w io.Writer) error {
	switch kind {
	case OGKindSite, OGKindProperty, OGKindProject, OGKindPage, OGKindProspectus:
	default:
		return errors.NewNotFoundError("og image kind", kind)
	}
	card, err := s.resolve(ctx, kind, slug)
	if errors.IsNotFound(err) && kind != OGKindSite {
		card, err = s.siteCard(ctx)
	}
	if err != nil {
		return err
	}
	card.Brand = s.siteName
	return ogimage.Render(w, card)
}

func (s *OGImageService) resolve(ctx context.Context, kind, slug string) (ogimage.Card, error) {
	switch kind {
	case OGKindProperty:
		p, err := s.content.Property(ctx, slug, false)
		if err != nil {
			return ogimage.Card{}, err
		}
		var details []string
		if p.City != "" {
			details = append(details, p.City)
		}
		if p.Bedrooms > 0 {
			details = append(details, fmt.Sprintf("%d bd", p.Bedrooms))
		}
		if p.Price > 0 {
			details = append(details, pdf.FormatUSD(p.Price))
		}
		return ogimage.Card{Label: "Property", Title: p.Title, Subtitle: strings.Join(details, " · ")}, nil
	case OGKindProject:
		p, err := s.content.Project(ctx, slug, false)
		if err != nil {
			return ogimage.Card{}, err
		}
		return ogimage.Card{Label: "Project", Title: p.Title, Subtitle: p.Location}, nil
	case OGKindPage:
		p, err := s.content.Page(ctx, slug, false)
		if err != nil {
			return ogimage.Card{}, err
		}
		return ogimage.Card{Title: p.Title, Subtitle: p.SEODescription}, nil
	case OGKindProspectus:
		p, err := s.content.Prospectus(ctx, slug)
		if err != nil {
			return ogimage.Card{}, err
		}
		return ogimage.Card{Label: "Investment opportunity", Title: p.Title, Subtitle: p.Location}, nil
	default:
		return s.siteCard(ctx)
	}
}

func (s *OGImageService) siteCard(ctx context.Context) (ogimage.Card, error) {
	settings, err := s.content.SiteSettings(ctx, false)
	if err != nil {
		return ogimage.Card{}, err
	}
	title := settings.Title
	if title == "" {
		title = s.siteName
	}
	return ogimage.Card{Title: title, Subtitle: settings.Description}, nil
}
