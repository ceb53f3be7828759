package models

import (
	"strings"
	"time"
)

// AccreditationStatus reflects staff review of uploaded accreditation documents
type AccreditationStatus string

const (
	AccreditationUnverified AccreditationStatus = "unverified"
	AccreditationPending    AccreditationStatus = "pending"
	AccreditationVerified   AccreditationStatus = "verified"
	AccreditationRejected   AccreditationStatus = "rejected"
)

func (s AccreditationStatus) Valid() bool {
	switch s {
	case AccreditationUnverified, AccreditationPending, AccreditationVerified, AccreditationRejected:
		return true
	}
	return false
}

// Investor is a portal user profile linked to a Clerk account
type Investor struct {
	ID                  string              `json:"id"`
	ClerkUserID         string              `json:"clerk_user_id"`
	Name                string              `json:"name"`
	Email               string              `json:"email"`
	Phone               string              `json:"phone,omitempty"`
	Entity              string              `json:"entity,omitempty"`
	AccreditationStatus AccreditationStatus `json:"accreditation_status"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// IsAccredited reports whether staff verified the investor
func (i *Investor) IsAccredited() bool {
	return i.AccreditationStatus == AccreditationVerified
}

// DocumentKind classifies investor uploads
type DocumentKind string

const (
	DocumentAccreditation DocumentKind = "accreditation"
	DocumentIdentity      DocumentKind = "identity"
	DocumentOther         DocumentKind = "other"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentAccreditation, DocumentIdentity, DocumentOther:
		return true
	}
	return false
}

// InvestorDocument is a file uploaded by an investor and stored as a CMS asset
type InvestorDocument struct {
	ID         string       `json:"id"`
	InvestorID string       `json:"investor_id"`
	Kind       DocumentKind `json:"kind"`
	FileName   string       `json:"file_name"`
	MimeType   string       `json:"mime_type"`
	SizeBytes  int64        `json:"size_bytes"`
	AssetID    string       `json:"asset_id"`
	URL        string       `json:"url"`
	CreatedAt  time.Time    `json:"created_at"`
}

// IdentityUser is the identity provider's view of a portal account
type IdentityUser struct {
	ID           string
	FirstName    string
	LastName     string
	PrimaryEmail string
	Phone        string
}

// FullName joins first and last name
func (u *IdentityUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
