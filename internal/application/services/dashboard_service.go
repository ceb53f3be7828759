package services

import (
	"context"
	"fmt"

	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/domain/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Summary is the back-office overview
type Summary struct {
	Leads         map[models.LeadStatus]int `json:"leads"`
	LOIs          map[models.LOIStatus]int  `json:"lois"`
	Investors     int                       `json:"investors"`
	PendingReview int                       `json:"pending_review"`
}

// DashboardService aggregates counts for the admin dashboard
type DashboardService struct {
	leads     ports.LeadRepository
	lois      ports.LOIRepository
	investors ports.InvestorRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(leads ports.LeadRepository, lois ports.LOIRepository, investors ports.InvestorRepository) *DashboardService {
	return &DashboardService{leads: leads, lois: lois, investors: investors}
}

// Summary counts leads and letters by status and investors in total
func (s *DashboardService) Summary(ctx context.Context) (*Summary, error) {
	var summary Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.leads.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("failed to count leads: %w", err)
		}
		summary.Leads = counts
		return nil
	})
	g.Go(func() error {
		counts, err := s.lois.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("failed to count letters of intent: %w", err)
		}
		summary.LOIs = counts
		return nil
	})
	g.Go(func() error {
		n, err := s.investors.Count(gctx)
		if err != nil {
			return fmt.Errorf("failed to count investors: %w", err)
		}
		summary.Investors = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.PendingReview = summary.LOIs[models.LOIStatusSubmitted] + summary.LOIs[models.LOIStatusReview]
	return &summary, nil
}

// ReviewDigest logs the review backlog for staff. Run by the scheduler.
func (s *DashboardService) ReviewDigest(ctx context.Context) error {
	summary, err := s.Summary(ctx)
	if err != nil {
		return err
	}
	zap.L().Info("📬 Review digest",
		zap.Int("lois_submitted", summary.LOIs[models.LOIStatusSubmitted]),
		zap.Int("lois_in_review", summary.LOIs[models.LOIStatusReview]),
		zap.Int("leads_new", summary.Leads[models.LeadStatusNew]),
	)
	return nil
}
