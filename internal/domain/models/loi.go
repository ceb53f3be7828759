package models

import "time"

// LOIStatus is the review state of a Letter of Intent
type LOIStatus string

const (
	LOIStatusSubmitted LOIStatus = "submitted"
	LOIStatusReview    LOIStatus = "review"
	LOIStatusApproved  LOIStatus = "approved"
	LOIStatusRejected  LOIStatus = "rejected"
)

func (s LOIStatus) Valid() bool {
	switch s {
	case LOIStatusSubmitted, LOIStatusReview, LOIStatusApproved, LOIStatusRejected:
		return true
	}
	return false
}

// IsActive reports whether the LOI still awaits a decision
func (s LOIStatus) IsActive() bool {
	return s == LOIStatusSubmitted || s == LOIStatusReview
}

// LetterOfIntent is an investor's non-binding commitment against a prospectus
type LetterOfIntent struct {
	ID              string     `json:"id"`
	InvestorID      string     `json:"investor_id"`
	ProspectusID    string     `json:"prospectus_id"`
	ProspectusTitle string     `json:"prospectus_title"`
	Amount          int64      `json:"amount"`
	Status          LOIStatus  `json:"status"`
	SignatureName   string     `json:"signature_name"`
	SignedAt        time.Time  `json:"signed_at"`
	SignerIP        string     `json:"-"`
	Notes           string     `json:"notes,omitempty"`
	ReviewedBy      string     `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CountersignedBy string     `json:"countersigned_by,omitempty"`
	CountersignedAt *time.Time `json:"countersigned_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsCountersigned reports whether staff countersigned the letter
func (l *LetterOfIntent) IsCountersigned() bool {
	return l.CountersignedAt != nil
}

// LOIFilter narrows admin LOI listings
type LOIFilter struct {
	Status       LOIStatus
	ProspectusID string
	Limit        int
	Offset       int
}
