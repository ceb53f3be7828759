package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/domain/ports"
	"github.com/summitcrest/realty/pkg/errors"
	"github.com/summitcrest/realty/pkg/pdf"
	"github.com/summitcrest/realty/pkg/rules"
	"github.com/summitcrest/realty/pkg/utils"
	"go.uber.org/zap"
)

const (
	maxLOINotes  = 2000
	maxLOIAmount = int64(1_000_000_000)
)

// LOIInput is an investor's letter of intent submission
type LOIInput struct {
	ProspectusID  string `json:"prospectus_id"`
	Amount        int64  `json:"amount"`
	SignatureName string `json:"signature_name"`
	Notes         string `json:"notes"`
}

// LOIService runs the letter of intent lifecycle
type LOIService struct {
	lois      ports.LOIRepository
	investors ports.InvestorRepository
	documents ports.DocumentRepository
	content   ports.ContentSource
	events    ports.EventPublisher
	machine   *domain.LOIStateMachine
	rules     *rules.Engine
	issuer    string
	now       func() time.Time
}

// NewLOIService creates a new LOIService. issuer is printed on PDFs.
func NewLOIService(
	lois ports.LOIRepository,
	investors ports.InvestorRepository,
	documents ports.DocumentRepository,
	content ports.ContentSource,
	events ports.EventPublisher,
	issuer string,
) *LOIService {
	return &LOIService{
		lois:      lois,
		investors: investors,
		documents: documents,
		content:   content,
		events:    events,
		machine:   domain.NewLOIStateMachine(),
		rules:     rules.NewEngine(),
		issuer:    issuer,
		now:       time.Now,
	}
}

// Submit records a signed letter of intent against an open prospectus
func (s *LOIService) Submit(ctx context.Context, investor *models.Investor, in LOIInput, ip string) (*models.LetterOfIntent, error) {
	prospectusID := strings.TrimSpace(in.ProspectusID)
	if prospectusID == "" {
		return nil, errors.NewValidationError("prospectus_id", "prospectus is required")
	}
	if err := checkLength("prospectus_id", "prospectus", prospectusID, maxRefColumn); err != nil {
		return nil, err
	}
	prospectus, err := s.content.GetProspectus(ctx, prospectusID)
	if err != nil {
		return nil, err
	}
	if !prospectus.IsOpen() {
		return nil, errors.NewValidationError("prospectus_id", fmt.Sprintf("%s is not accepting letters of intent", prospectus.Title))
	}

	if in.Amount <= 0 {
		return nil, errors.NewValidationError("amount", "amount must be greater than zero")
	}
	if in.Amount > maxLOIAmount {
		return nil, errors.NewValidationError("amount", "amount is too large")
	}
	if prospectus.MinimumInvestment > 0 && in.Amount < prospectus.MinimumInvestment {
		return nil, errors.NewValidationError("amount", fmt.Sprintf("minimum investment is %s", pdf.FormatUSD(prospectus.MinimumInvestment)))
	}
	signature := strings.TrimSpace(in.SignatureName)
	if signature == "" {
		return nil, errors.NewValidationError("signature_name", "signature is required")
	}
	if err := checkLength("signature_name", "signature", signature, maxLeadField); err != nil {
		return nil, err
	}
	notes := strings.TrimSpace(in.Notes)
	if err := checkLength("notes", "notes", notes, maxLOINotes); err != nil {
		return nil, err
	}

	if err := s.checkEligibility(ctx, investor, prospectus, in.Amount); err != nil {
		return nil, err
	}

	active, err := s.lois.HasActive(ctx, investor.ID, prospectus.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing letters: %w", err)
	}
	if active {
		return nil, errors.NewConflictError("letter of intent", "an open letter of intent already exists for this prospectus")
	}

	now := s.now().UTC()
	loi := &models.LetterOfIntent{
		ID:              utils.GenerateID(),
		InvestorID:      investor.ID,
		ProspectusID:    prospectus.ID,
		ProspectusTitle: utils.Truncate(prospectus.Title, maxNameColumn),
		Amount:          in.Amount,
		Status:          models.LOIStatusSubmitted,
		SignatureName:   signature,
		SignedAt:        now,
		SignerIP:        ip,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.lois.Insert(ctx, loi); err != nil {
		return nil, fmt.Errorf("failed to store letter of intent: %w", err)
	}

	zap.L().Info("✍️ Letter of intent submitted", zap.String("loi_id", loi.ID), zap.String("prospectus", prospectus.Slug))
	publish(ctx, s.events, domain.Event{
		Type:       domain.EventLOISubmitted,
		DistinctID: investor.ID,
		Properties: map[string]interface{}{
			"loi_id":        loi.ID,
			"prospectus_id": prospectus.ID,
			"amount":        loi.Amount,
		},
	})
	return loi, nil
}

func (s *LOIService) checkEligibility(ctx context.Context, investor *models.Investor, prospectus *models.Prospectus, amount int64) error {
	if strings.TrimSpace(prospectus.Eligibility) == "" {
		return nil
	}

	docs, err := s.documents.ListByInvestor(ctx, investor.ID)
	if err != nil {
		return fmt.Errorf("failed to load investor documents: %w", err)
	}
	kinds := make([]string, 0, len(docs))
	for _, d := range docs {
		kinds = append(kinds, string(d.Kind))
	}
	existing, err := s.lois.ListByInvestor(ctx, investor.ID)
	if err != nil {
		return fmt.Errorf("failed to load investor letters: %w", err)
	}
	active := 0
	for _, l := range existing {
		if l.Status.IsActive() {
			active++
		}
	}

	ok, err := s.rules.Eligible(prospectus.Eligibility, rules.Env{
		Investor: rules.InvestorFacts{
			Accredited:          investor.IsAccredited(),
			AccreditationStatus: string(investor.AccreditationStatus),
			Entity:              investor.Entity,
			Email:               investor.Email,
			Documents:           kinds,
			ActiveLOIs:          active,
		},
		Prospectus: rules.ProspectusFacts{
			Slug:              prospectus.Slug,
			AssetClass:        prospectus.AssetClass,
			Location:          prospectus.Location,
			TargetRaise:       prospectus.TargetRaise,
			MinimumInvestment: prospectus.MinimumInvestment,
			ProjectedIRR:      prospectus.ProjectedIRR,
		},
		Amount: amount,
	})
	if err != nil {
		zap.L().Error("invalid eligibility rule on prospectus", zap.String("prospectus", prospectus.Slug), zap.Error(err))
		return errors.NewInternalError("eligibility rule could not be evaluated", err)
	}
	if !ok {
		return errors.NewPermissionError("submit a letter of intent for", prospectus.Title)
	}
	return nil
}

// Get returns a letter owned by the investor
func (s *LOIService) Get(ctx context.Context, investor *models.Investor, id string) (*models.LetterOfIntent, error) {
	loi, err := s.GetForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if loi.InvestorID != investor.ID {
		return nil, errors.NewPermissionError("access", "letter of intent")
	}
	return loi, nil
}

// GetForAdmin returns any letter
func (s *LOIService) GetForAdmin(ctx context.Context, id string) (*models.LetterOfIntent, error) {
	loi, err := s.lois.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load letter of intent: %w", err)
	}
	if loi == nil {
		return nil, errors.NewNotFoundError("letter of intent", id)
	}
	return loi, nil
}

// ListForInvestor returns the investor's letters
func (s *LOIService) ListForInvestor(ctx context.Context, investor *models.Investor) ([]*models.LetterOfIntent, error) {
	return s.lois.ListByInvestor(ctx, investor.ID)
}

// List returns letters for the back office
func (s *LOIService) List(ctx context.Context, filter models.LOIFilter) ([]*models.LetterOfIntent, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errors.NewValidationError("status", fmt.Sprintf("unknown status '%s'", filter.Status))
	}
	return s.lois.List(ctx, filter)
}

// ValidActions lists the review actions available for a letter
func (s *LOIService) ValidActions(loi *models.LetterOfIntent) []domain.LOIAction {
	return s.machine.ValidActions(loi.Status)
}

// Transition applies a review action
func (s *LOIService) Transition(ctx context.Context, id string, action domain.LOIAction, reviewer string) (*models.LetterOfIntent, error) {
	reviewer = strings.TrimSpace(reviewer)
	if err := checkLength("reviewer", "reviewer", reviewer, maxNameColumn); err != nil {
		return nil, err
	}
	loi, err := s.GetForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := s.machine.Transition(loi.Status, action)
	if err != nil {
		return nil, errors.NewConflictError("letter of intent", err.Error())
	}

	ok, err := s.lois.UpdateStatus(ctx, id, loi.Status, next, reviewer, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update letter of intent: %w", err)
	}
	if !ok {
		return nil, errors.NewConflictError("letter of intent", "status changed concurrently, reload and retry")
	}

	zap.L().Info("📋 Letter of intent status changed",
		zap.String("loi_id", id), zap.String("from", string(loi.Status)), zap.String("to", string(next)))
	publish(ctx, s.events, domain.Event{
		Type:       domain.EventLOIStatusChanged,
		DistinctID: loi.InvestorID,
		Properties: map[string]interface{}{
			"loi_id": id,
			"from":   string(loi.Status),
			"to":     string(next),
			"action": string(action),
		},
	})
	return s.GetForAdmin(ctx, id)
}

// Countersign records the staff countersignature on an approved letter
func (s *LOIService) Countersign(ctx context.Context, id, name string) (*models.LetterOfIntent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "countersigner name is required")
	}
	if err := checkLength("name", "countersigner name", name, maxNameColumn); err != nil {
		return nil, err
	}
	loi, err := s.GetForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanCountersign(loi); err != nil {
		return nil, errors.NewConflictError("letter of intent", err.Error())
	}

	ok, err := s.lois.Countersign(ctx, id, name, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to countersign letter of intent: %w", err)
	}
	if !ok {
		return nil, errors.NewConflictError("letter of intent", "letter was already countersigned")
	}

	zap.L().Info("🖋️ Letter of intent countersigned", zap.String("loi_id", id))
	publish(ctx, s.events, domain.Event{
		Type:       domain.EventLOICountersigned,
		DistinctID: loi.InvestorID,
		Properties: map[string]interface{}{"loi_id": id},
	})
	return s.GetForAdmin(ctx, id)
}

// RenderPDF writes the letter as a PDF
func (s *LOIService) RenderPDF(ctx context.Context, loi *models.LetterOfIntent, w io.Writer) error {
	investor, err := s.investors.GetByID(ctx, loi.InvestorID)
	if err != nil {
		return fmt.Errorf("failed to load investor: %w", err)
	}
	party := pdf.Party{Name: loi.SignatureName}
	if investor != nil {
		party = pdf.Party{Name: investor.Name, Email: investor.Email, Entity: investor.Entity}
	}

	return pdf.RenderLOI(w, pdf.LOI{
		ID:              loi.ID,
		Issuer:          s.issuer,
		Investor:        party,
		ProspectusTitle: loi.ProspectusTitle,
		Amount:          loi.Amount,
		Status:          string(loi.Status),
		SignatureName:   loi.SignatureName,
		SignedAt:        loi.SignedAt,
		Notes:           loi.Notes,
		CountersignedBy: loi.CountersignedBy,
		CountersignedAt: loi.CountersignedAt,
		GeneratedAt:     s.now().UTC(),
	})
}

// ProspectusPDF writes the printable summary of a prospectus
func (s *LOIService) ProspectusPDF(ctx context.Context, slug string, w io.Writer) error {
	p, err := s.content.GetProspectus(ctx, slug)
	if err != nil {
		return err
	}
	return pdf.RenderProspectus(w, pdf.Prospectus{
		Issuer:            s.issuer,
		Title:             p.Title,
		Summary:           p.Summary,
		Location:          p.Location,
		AssetClass:        p.AssetClass,
		TargetRaise:       p.TargetRaise,
		MinimumInvestment: p.MinimumInvestment,
		ProjectedIRR:      p.ProjectedIRR,
		HoldPeriodYears:   p.HoldPeriodYears,
		Status:            string(p.Status),
		Highlights:        p.Highlights,
		Paragraphs:        pdf.PlainText(p.Body),
		GeneratedAt:       s.now().UTC(),
	})
}
