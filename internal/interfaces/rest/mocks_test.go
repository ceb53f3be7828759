package rest_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/summitcrest/realty/internal/application/services"
	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/interfaces/rest"
)

var (
	_ rest.ContentReader           = (*MockContent)(nil)
	_ rest.ProspectusReader        = (*MockContent)(nil)
	_ rest.LeadSubmitter           = (*MockLeads)(nil)
	_ rest.AdminLeadService        = (*MockLeads)(nil)
	_ rest.InvestorLOIService      = (*MockLOIs)(nil)
	_ rest.AdminLOIService         = (*MockLOIs)(nil)
	_ rest.InvestorDocumentService = (*MockDocuments)(nil)
	_ rest.AdminAuthenticator      = (*MockAdminAuth)(nil)
	_ rest.SummaryProvider         = (*MockSummary)(nil)
	_ rest.OGImageRenderer         = (*MockOGImage)(nil)
	_ rest.SitemapProvider         = (*MockSitemap)(nil)
)

// MockContent is a mock implementation of the content reads
type MockContent struct {
	mock.Mock
}

func (m *MockContent) SiteSettings(ctx context.Context, preview bool) (*models.SiteSettings, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteSettings), args.Error(1)
}

func (m *MockContent) Properties(ctx context.Context, preview bool) ([]models.Property, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockContent) Property(ctx context.Context, slug string, preview bool) (*models.Property, error) {
	args := m.Called(ctx, slug, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockContent) Projects(ctx context.Context, preview bool) ([]models.Project, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *MockContent) Project(ctx context.Context, slug string, preview bool) (*models.Project, error) {
	args := m.Called(ctx, slug, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockContent) Testimonials(ctx context.Context, preview bool) ([]models.Testimonial, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Testimonial), args.Error(1)
}

func (m *MockContent) Services(ctx context.Context, preview bool) ([]models.Service, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockContent) Page(ctx context.Context, slug string, preview bool) (*models.Page, error) {
	args := m.Called(ctx, slug, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockContent) Prospectuses(ctx context.Context) ([]models.Prospectus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Prospectus), args.Error(1)
}

func (m *MockContent) Prospectus(ctx context.Context, slugOrID string) (*models.Prospectus, error) {
	args := m.Called(ctx, slugOrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prospectus), args.Error(1)
}

// MockLeads is a mock implementation of the lead service
type MockLeads struct {
	mock.Mock
}

func (m *MockLeads) Submit(ctx context.Context, in services.LeadInput) (*models.Lead, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeads) List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lead), args.Error(1)
}

func (m *MockLeads) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) (*models.Lead, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeads) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeads) Export(ctx context.Context, filter models.LeadFilter, format string, w io.Writer) (int, error) {
	args := m.Called(ctx, filter, format, w)
	return args.Int(0), args.Error(1)
}

// MockLOIs is a mock implementation of the letter of intent service
type MockLOIs struct {
	mock.Mock
}

func (m *MockLOIs) Submit(ctx context.Context, investor *models.Investor, in services.LOIInput, ip string) (*models.LetterOfIntent, error) {
	args := m.Called(ctx, investor, in, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LetterOfIntent), args.Error(1)
}

func (m *MockLOIs) ListForInvestor(ctx context.Context, investor *models.Investor) ([]*models.LetterOfIntent, error) {
	args := m.Called(ctx, investor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LetterOfIntent), args.Error(1)
}

func (m *MockLOIs) Get(ctx context.Context, investor *models.Investor, id string) (*models.LetterOfIntent, error) {
	args := m.Called(ctx, investor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LetterOfIntent), args.Error(1)
}

func (m *MockLOIs) GetForAdmin(ctx context.Context, id string) (*models.LetterOfIntent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LetterOfIntent), args.Error(1)
}

func (m *MockLOIs) List(ctx context.Context, filter models.LOIFilter) ([]*models.LetterOfIntent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LetterOfIntent), args.Error(1)
}

func (m *MockLOIs) ValidActions(loi *models.LetterOfIntent) []domain.LOIAction {
	args := m.Called(loi)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.LOIAction)
}

func (m *MockLOIs) Transition(ctx context.Context, id string, action domain.LOIAction, reviewer string) (*models.LetterOfIntent, error) {
	args := m.Called(ctx, id, action, reviewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LetterOfIntent), args.Error(1)
}

func (m *MockLOIs) Countersign(ctx context.Context, id, name string) (*models.LetterOfIntent, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LetterOfIntent), args.Error(1)
}

func (m *MockLOIs) RenderPDF(ctx context.Context, loi *models.LetterOfIntent, w io.Writer) error {
	return m.Called(ctx, loi, w).Error(0)
}

func (m *MockLOIs) ProspectusPDF(ctx context.Context, slug string, w io.Writer) error {
	return m.Called(ctx, slug, w).Error(0)
}

// MockDocuments is a mock implementation of the document service
type MockDocuments struct {
	mock.Mock
}

func (m *MockDocuments) MaxBytes() int64 {
	return int64(m.Called().Int(0))
}

func (m *MockDocuments) Upload(ctx context.Context, investor *models.Investor, in services.UploadInput) (*models.InvestorDocument, error) {
	args := m.Called(ctx, investor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvestorDocument), args.Error(1)
}

func (m *MockDocuments) List(ctx context.Context, investorID string) ([]*models.InvestorDocument, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InvestorDocument), args.Error(1)
}

func (m *MockDocuments) Delete(ctx context.Context, investor *models.Investor, id string) error {
	return m.Called(ctx, investor, id).Error(0)
}

// MockAdminAuth is a mock implementation of the admin login
type MockAdminAuth struct {
	mock.Mock
}

func (m *MockAdminAuth) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockAdminAuth) Login(password string) (*services.Session, error) {
	args := m.Called(password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Session), args.Error(1)
}

// MockSummary is a mock implementation of the dashboard counts
type MockSummary struct {
	mock.Mock
}

func (m *MockSummary) Summary(ctx context.Context) (*services.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Summary), args.Error(1)
}

// MockOGImage is a mock implementation of the share card renderer
type MockOGImage struct {
	mock.Mock
}

func (m *MockOGImage) Render(ctx context.Context, kind, slug string, w io.Writer) error {
	return m.Called(ctx, kind, slug, w).Error(0)
}

// MockSitemap is a mock implementation of the crawler files
type MockSitemap struct {
	mock.Mock
}

func (m *MockSitemap) Sitemap(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSitemap) Robots() string {
	return m.Called().String(0)
}
