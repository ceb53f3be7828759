package ports

import (
	"context"
	"time"

	"github.com/summitcrest/realty/internal/domain/models"
)

// LeadRepository stores contact-form leads
type LeadRepository interface {
	Insert(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error)
	UpdateStatus(ctx context.Context, id string, status models.LeadStatus, at time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context) (map[models.LeadStatus]int, error)
}

// InvestorRepository stores investor profiles
type InvestorRepository interface {
	Insert(ctx context.Context, inv *models.Investor) error
	GetByID(ctx context.Context, id string) (*models.Investor, error)
	GetByClerkUserID(ctx context.Context, clerkUserID string) (*models.Investor, error)
	List(ctx context.Context, limit, offset int) ([]*models.Investor, error)
	UpdateContact(ctx context.Context, inv *models.Investor) error
	SetAccreditationStatus(ctx context.Context, id string, status models.AccreditationStatus, at time.Time) (bool, error)
	Count(ctx context.Context) (int, error)
}

// LOIRepository stores letters of intent.
// UpdateStatus and Countersign report false when the row was not in the expected state.
type LOIRepository interface {
	Insert(ctx context.Context, loi *models.LetterOfIntent) error
	GetByID(ctx context.Context, id string) (*models.LetterOfIntent, error)
	ListByInvestor(ctx context.Context, investorID string) ([]*models.LetterOfIntent, error)
	List(ctx context.Context, filter models.LOIFilter) ([]*models.LetterOfIntent, error)
	HasActive(ctx context.Context, investorID, prospectusID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, from, to models.LOIStatus, reviewer string, at time.Time) (bool, error)
	Countersign(ctx context.Context, id, name string, at time.Time) (bool, error)
	CountByStatus(ctx context.Context) (map[models.LOIStatus]int, error)
}

// DocumentRepository stores investor upload records
type DocumentRepository interface {
	Insert(ctx context.Context, doc *models.InvestorDocument) error
	GetByID(ctx context.Context, id string) (*models.InvestorDocument, error)
	ListByInvestor(ctx context.Context, investorID string) ([]*models.InvestorDocument, error)
	Delete(ctx context.Context, id, investorID string) (bool, error)
}
