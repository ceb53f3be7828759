package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/domain/ports"
	"github.com/summitcrest/realty/internal/infrastructure/identity"
	"github.com/summitcrest/realty/pkg/errors"
	"github.com/summitcrest/realty/pkg/utils"
	"go.uber.org/zap"
)

// ProfileInput is the investor-editable part of a profile
type ProfileInput struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Entity string `json:"entity"`
}

// InvestorService manages investor profiles
type InvestorService struct {
	investors ports.InvestorRepository
	users     ports.UserDirectory
	events    ports.EventPublisher
	now       func() time.Time
}

// NewInvestorService creates a new InvestorService
func NewInvestorService(investors ports.InvestorRepository, users ports.UserDirectory, events ports.EventPublisher) *InvestorService {
	return &InvestorService{investors: investors, users: users, events: events, now: time.Now}
}

// EnsureProfile returns the investor linked to the identity account,
// creating it from the provider's user record on first sign-in
func (s *InvestorService) EnsureProfile(ctx context.Context, clerkUserID string) (*models.Investor, error) {
	inv, err := s.investors.GetByClerkUserID(ctx, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load investor: %w", err)
	}
	if inv != nil {
		return inv, nil
	}

	user, err := s.users.GetUser(ctx, clerkUserID)
	switch {
	case stderrors.Is(err, identity.ErrUserNotFound):
		return nil, errors.NewUnauthorizedError("identity account no longer exists")
	case stderrors.Is(err, identity.ErrNotConfigured):
		zap.L().Warn("identity backend API not configured, creating bare investor profile", zap.String("clerk_user_id", clerkUserID))
		user = &models.IdentityUser{ID: clerkUserID}
	case err != nil:
		return nil, fmt.Errorf("failed to fetch identity user: %w", err)
	}

	now := s.now().UTC()
	inv = &models.Investor{
		ID:                  utils.GenerateID(),
		ClerkUserID:         clerkUserID,
		Name:                utils.Truncate(utils.FirstNonEmpty(user.FullName(), user.PrimaryEmail, clerkUserID), maxNameColumn),
		Email:               utils.Truncate(strings.ToLower(user.PrimaryEmail), maxNameColumn),
		Phone:               utils.Truncate(user.Phone, maxPhoneColumn),
		AccreditationStatus: models.AccreditationUnverified,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.investors.Insert(ctx, inv); err != nil {
		// a concurrent first request may have created it
		if existing, getErr := s.investors.GetByClerkUserID(ctx, clerkUserID); getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create investor: %w", err)
	}

	zap.L().Info("👤 Investor profile created", zap.String("investor_id", inv.ID))
	publish(ctx, s.events, domain.Event{
		Type:       domain.EventInvestorCreated,
		DistinctID: inv.ID,
		Properties: map[string]interface{}{"email": inv.Email},
	})
	return inv, nil
}

// Get returns an investor by ID
func (s *InvestorService) Get(ctx context.Context, id string) (*models.Investor, error) {
	inv, err := s.investors.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load investor: %w", err)
	}
	if inv == nil {
		return nil, errors.NewNotFoundError("investor", id)
	}
	return inv, nil
}

// List returns investors for the back office
func (s *InvestorService) List(ctx context.Context, limit, offset int) ([]*models.Investor, error) {
	return s.investors.List(ctx, limit, offset)
}

// UpdateProfile saves investor-editable fields
func (s *InvestorService) UpdateProfile(ctx context.Context, inv *models.Investor, in ProfileInput) (*models.Investor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.NewValidationError("name", "name is required")
	}
	if err := checkLength("name", "name", name, maxLeadField); err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(in.Phone)
	if err := checkLength("phone", "phone", phone, maxPhoneColumn); err != nil {
		return nil, err
	}

	updated := *inv
	updated.Name = name
	updated.Phone = phone
	updated.Entity = utils.Truncate(strings.TrimSpace(in.Entity), maxLeadField)
	updated.UpdatedAt = s.now().UTC()
	if err := s.investors.UpdateContact(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update investor: %w", err)
	}
	return &updated, nil
}

// SetAccreditation records the staff accreditation decision
func (s *InvestorService) SetAccreditation(ctx context.Context, id string, status models.AccreditationStatus) (*models.Investor, error) {
	if !status.Valid() {
		return nil, errors.NewValidationError("status", fmt.Sprintf("unknown accreditation status '%s'", status))
	}
	ok, err := s.investors.SetAccreditationStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update accreditation: %w", err)
	}
	if !ok {
		return nil, errors.NewNotFoundError("investor", id)
	}
	zap.L().Info("🪪 Accreditation updated", zap.String("investor_id", id), zap.String("status", string(status)))
	return s.Get(ctx, id)
}
