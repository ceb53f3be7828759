package models

import "time"

// LeadInterest is what a visitor says they are contacting us about
type LeadInterest string

const (
	InterestBuying    LeadInterest = "buying"
	InterestSelling   LeadInterest = "selling"
	InterestInvesting LeadInterest = "investing"
	InterestRenting   LeadInterest = "renting"
	InterestGeneral   LeadInterest = "general"
)

// Valid reports whether the interest is one we route
func (i LeadInterest) Valid() bool {
	switch i {
	case InterestBuying, InterestSelling, InterestInvesting, InterestRenting, InterestGeneral:
		return true
	}
	return false
}

// LeadStatus tracks staff follow-up on a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusClosed    LeadStatus = "closed"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusClosed:
		return true
	}
	return false
}

// Lead is a contact-form submission
type Lead struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	Email      string       `json:"email" yaml:"email"`
	Phone      string       `json:"phone,omitempty" yaml:"phone,omitempty"`
	Interest   LeadInterest `json:"interest" yaml:"interest"`
	Message    string       `json:"message,omitempty" yaml:"message,omitempty"`
	SourcePage string       `json:"source_page,omitempty" yaml:"source_page,omitempty"`
	PropertyID string       `json:"property_id,omitempty" yaml:"property_id,omitempty"`
	Status     LeadStatus   `json:"status" yaml:"status"`
	CreatedAt  time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" yaml:"updated_at"`
}

// LeadFilter narrows lead listings
type LeadFilter struct {
	Status LeadStatus
	Limit  int
	Offset int
}
