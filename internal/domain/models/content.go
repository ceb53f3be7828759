package models

import "time"

// Content types mirror the GROQ projections in the cms package.
// Rich text bodies stay as raw portable-text blocks for the frontend to render.

// Image is a resolved CMS image reference
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Property is a listing shown on the marketing site
type Property struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Summary    string    `json:"summary,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Price      int64     `json:"price,omitempty"`
	Bedrooms   int       `json:"bedrooms,omitempty"`
	Bathrooms  float64   `json:"bathrooms,omitempty"`
	SquareFeet int       `json:"squareFeet,omitempty"`
	Status     string    `json:"status,omitempty"`
	Featured   bool      `json:"featured,omitempty"`
	MainImage  *Image    `json:"mainImage,omitempty"`
	Gallery    []Image   `json:"gallery,omitempty"`
	Body       []any     `json:"body,omitempty"`
	UpdatedAt  time.Time `json:"_updatedAt"`
}

// Project is a development or renovation project
type Project struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary,omitempty"`
	Location  string    `json:"location,omitempty"`
	Stage     string    `json:"stage,omitempty"`
	MainImage *Image    `json:"mainImage,omitempty"`
	Body      []any     `json:"body,omitempty"`
	UpdatedAt time.Time `json:"_updatedAt"`
}

// Testimonial is a client quote
type Testimonial struct {
	ID     string `json:"_id"`
	Author string `json:"author"`
	Role   string `json:"role,omitempty"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating,omitempty"`
	Photo  *Image `json:"photo,omitempty"`
}

// Service is an offering listed on the services page
type Service struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       int    `json:"order,omitempty"`
}

// Page is a free-form CMS page
type Page struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	SEODescription string    `json:"seoDescription,omitempty"`
	Body           []any     `json:"body,omitempty"`
	UpdatedAt      time.Time `json:"_updatedAt"`
}

// ProspectusStatus is whether a prospectus accepts letters of intent
type ProspectusStatus string

const (
	ProspectusOpen   ProspectusStatus = "open"
	ProspectusClosed ProspectusStatus = "closed"
	ProspectusFunded ProspectusStatus = "funded"
)

// Prospectus describes an investment opportunity
type Prospectus struct {
	ID                string           `json:"_id"`
	Title             string           `json:"title"`
	Slug              string           `json:"slug"`
	Summary           string           `json:"summary,omitempty"`
	Location          string           `json:"location,omitempty"`
	AssetClass        string           `json:"assetClass,omitempty"`
	TargetRaise       int64            `json:"targetRaise,omitempty"`
	MinimumInvestment int64            `json:"minimumInvestment,omitempty"`
	ProjectedIRR      float64          `json:"projectedIrr,omitempty"`
	HoldPeriodYears   int              `json:"holdPeriodYears,omitempty"`
	Status            ProspectusStatus `json:"status"`
	Eligibility       string           `json:"eligibility,omitempty"`
	Highlights        []string         `json:"highlights,omitempty"`
	MainImage         *Image           `json:"mainImage,omitempty"`
	Body              []any            `json:"body,omitempty"`
	UpdatedAt         time.Time        `json:"_updatedAt"`
}

// IsOpen reports whether LOIs may be submitted
func (p *Prospectus) IsOpen() bool {
	return p.Status == ProspectusOpen
}

// SiteSettings is the singleton settings document
type SiteSettings struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	OGImage     *Image `json:"ogImage,omitempty"`
}

// Slugged is a minimal document reference used for sitemaps
type Slugged struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"_updatedAt"`
}
