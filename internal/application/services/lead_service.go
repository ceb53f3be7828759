package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/domain/ports"
	"github.com/summitcrest/realty/pkg/errors"
	"github.com/summitcrest/realty/pkg/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	maxLeadMessage = 5000
	maxLeadField   = 200
)

// LeadInput is a contact-form submission as received
type LeadInput struct {
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Phone      string `json:"phone" form:"phone"`
	Interest   string `json:"interest" form:"interest"`
	Message    string `json:"message" form:"message"`
	SourcePage string `json:"source_page" form:"source_page"`
	PropertyID string `json:"property_id" form:"property_id"`
	// Website is a honeypot hidden from humans
	Website string `json:"website" form:"website"`
}

// LeadService handles contact-form leads
type LeadService struct {
	leads  ports.LeadRepository
	events ports.EventPublisher
	now    func() time.Time
}

// NewLeadService creates a new LeadService
func NewLeadService(leads ports.LeadRepository, events ports.EventPublisher) *LeadService {
	return &LeadService{leads: leads, events: events, now: time.Now}
}

// Submit validates and stores a lead. Bot submissions that fill the
// honeypot get an ordinary-looking response but are not stored.
func (s *LeadService) Submit(ctx context.Context, in LeadInput) (*models.Lead, error) {
	now := s.now().UTC()
	lead := &models.Lead{
		ID:         utils.GenerateID(),
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:      strings.TrimSpace(in.Phone),
		Interest:   models.LeadInterest(strings.ToLower(strings.TrimSpace(in.Interest))),
		Message:    strings.TrimSpace(in.Message),
		SourcePage: utils.Truncate(strings.TrimSpace(in.SourcePage), maxLeadField),
		PropertyID: strings.TrimSpace(in.PropertyID),
		Status:     models.LeadStatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if strings.TrimSpace(in.Website) != "" {
		zap.L().Info("🪤 Honeypot lead discarded", zap.String("source_page", lead.SourcePage))
		return lead, nil
	}

	if lead.Name == "" {
		return nil, errors.NewValidationError("name", "name is required")
	}
	if err := checkLength("name", "name", lead.Name, maxLeadField); err != nil {
		return nil, err
	}
	if lead.Email == "" {
		return nil, errors.NewValidationError("email", "email is required")
	}
	if !utils.IsValidEmail(lead.Email) {
		return nil, errors.NewValidationError("email", "email is not valid")
	}
	if lead.Interest == "" {
		lead.Interest = models.InterestGeneral
	}
	if !lead.Interest.Valid() {
		return nil, errors.NewValidationError("interest", fmt.Sprintf("unknown interest '%s'", lead.Interest))
	}
	if err := checkLength("phone", "phone", lead.Phone, maxPhoneColumn); err != nil {
		return nil, err
	}
	if err := checkLength("property_id", "property", lead.PropertyID, maxRefColumn); err != nil {
		return nil, err
	}
	if err := checkLength("message", "message", lead.Message, maxLeadMessage); err != nil {
		return nil, err
	}

	if err := s.leads.Insert(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to store lead: %w", err)
	}

	publish(ctx, s.events, domain.Event{
		Type:       domain.EventLeadCreated,
		DistinctID: lead.Email,
		Properties: map[string]interface{}{
			"lead_id":     lead.ID,
			"interest":    string(lead.Interest),
			"source_page": lead.SourcePage,
		},
	})
	return lead, nil
}

// List returns leads for the back office
func (s *LeadService) List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errors.NewValidationError("status", fmt.Sprintf("unknown status '%s'", filter.Status))
	}
	return s.leads.List(ctx, filter)
}

// UpdateStatus records staff follow-up
func (s *LeadService) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) (*models.Lead, error) {
	if !status.Valid() {
		return nil, errors.NewValidationError("status", fmt.Sprintf("unknown status '%s'", status))
	}
	ok, err := s.leads.UpdateStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	if !ok {
		return nil, errors.NewNotFoundError("lead", id)
	}
	return s.leads.GetByID(ctx, id)
}

// Delete removes a lead
func (s *LeadService) Delete(ctx context.Context, id string) error {
	ok, err := s.leads.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if !ok {
		return errors.NewNotFoundError("lead", id)
	}
	return nil
}

// Export formats
const (
	ExportCSV  = "csv"
	ExportYAML = "yaml"
	ExportJSON = "json"
)

var leadCSVHeader = []string{"id", "created_at", "status", "interest", "name", "email", "phone", "source_page", "property_id", "message"}

// Export writes every lead matching filter in the given format
func (s *LeadService) Export(ctx context.Context, filter models.LeadFilter, format string, w io.Writer) (int, error) {
	var all []*models.Lead
	filter.Limit = maxExportPage
	for {
		page, err := s.List(ctx, filter)
		if err != nil {
			return 0, err
		}
		all = append(all, page...)
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += len(page)
	}

	switch strings.ToLower(format) {
	case ExportCSV, "":
		cw := csv.NewWriter(w)
		if err := cw.Write(leadCSVHeader); err != nil {
			return 0, err
		}
		for _, l := range all {
			record := []string{
				l.ID, l.CreatedAt.UTC().Format(time.RFC3339), string(l.Status), string(l.Interest),
				l.Name, l.Email, l.Phone, l.SourcePage, l.PropertyID, l.Message,
			}
			if err := cw.Write(record); err != nil {
				return 0, err
			}
		}
		cw.Flush()
		return len(all), cw.Error()
	case ExportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(all); err != nil {
			return 0, err
		}
		return len(all), enc.Close()
	case ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if all == nil {
			all = []*models.Lead{}
		}
		return len(all), enc.Encode(all)
	default:
		return 0, errors.NewValidationError("format", fmt.Sprintf("unsupported export format '%s'", format))
	}
}
