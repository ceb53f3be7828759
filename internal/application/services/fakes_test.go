package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/domain/ports"
)

var (
	_ ports.LeadRepository     = (*memLeadRepo)(nil)
	_ ports.InvestorRepository = (*memInvestorRepo)(nil)
	_ ports.LOIRepository      = (*memLOIRepo)(nil)
	_ ports.DocumentRepository = (*memDocumentRepo)(nil)
	_ ports.ContentSource      = (*MockContentSource)(nil)
	_ ports.AssetStore         = (*MockAssetStore)(nil)
	_ ports.ContentWriter      = (*MockContentWriter)(nil)
	_ ports.UserDirectory      = (*MockUserDirectory)(nil)
	_ ports.EventPublisher     = (*recordingPublisher)(nil)
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// ----------------------------------------------------------------------------
// In-memory repositories
// ----------------------------------------------------------------------------

type memLeadRepo struct {
	mu    sync.Mutex
	leads []*models.Lead
}

func (r *memLeadRepo) Insert(ctx context.Context, lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *lead
	r.leads = append(r.leads, &cp)
	return nil
}

func (r *memLeadRepo) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLeadRepo) List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Lead
	for _, l := range r.leads {
		if filter.Status == "" || l.Status == filter.Status {
			cp := *l
			matched = append(matched, &cp)
		}
	}
	return page(matched, filter.Limit, filter.Offset), nil
}

func (r *memLeadRepo) UpdateStatus(ctx context.Context, id string, status models.LeadStatus, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.ID == id {
			l.Status = status
			l.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func (r *memLeadRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.leads {
		if l.ID == id {
			r.leads = append(r.leads[:i], r.leads[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memLeadRepo) CountByStatus(ctx context.Context) (map[models.LeadStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.LeadStatus]int)
	for _, l := range r.leads {
		counts[l.Status]++
	}
	return counts, nil
}

type memInvestorRepo struct {
	mu        sync.Mutex
	investors map[string]*models.Investor
	insertErr error
}

func newMemInvestorRepo(investors ...*models.Investor) *memInvestorRepo {
	r := &memInvestorRepo{investors: make(map[string]*models.Investor)}
	for _, inv := range investors {
		cp := *inv
		r.investors[inv.ID] = &cp
	}
	return r
}

func (r *memInvestorRepo) Insert(ctx context.Context, inv *models.Investor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	cp := *inv
	r.investors[inv.ID] = &cp
	return nil
}

func (r *memInvestorRepo) GetByID(ctx context.Context, id string) (*models.Investor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.investors[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (r *memInvestorRepo) GetByClerkUserID(ctx context.Context, clerkUserID string) (*models.Investor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.investors {
		if inv.ClerkUserID == clerkUserID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memInvestorRepo) List(ctx context.Context, limit, offset int) ([]*models.Investor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.Investor
	for _, inv := range r.investors {
		cp := *inv
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), nil
}

func (r *memInvestorRepo) UpdateContact(ctx context.Context, inv *models.Investor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	r.investors[inv.ID] = &cp
	return nil
}

func (r *memInvestorRepo) SetAccreditationStatus(ctx context.Context, id string, status models.AccreditationStatus, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.investors[id]
	if !ok {
		return false, nil
	}
	inv.AccreditationStatus = status
	inv.UpdatedAt = at
	return true, nil
}

func (r *memInvestorRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.investors), nil
}

type memLOIRepo struct {
	mu   sync.Mutex
	lois map[string]*models.LetterOfIntent
}

func newMemLOIRepo(lois ...*models.LetterOfIntent) *memLOIRepo {
	r := &memLOIRepo{lois: make(map[string]*models.LetterOfIntent)}
	for _, l := range lois {
		cp := *l
		r.lois[l.ID] = &cp
	}
	return r
}

func (r *memLOIRepo) Insert(ctx context.Context, loi *models.LetterOfIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *loi
	r.lois[loi.ID] = &cp
	return nil
}

func (r *memLOIRepo) GetByID(ctx context.Context, id string) (*models.LetterOfIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lois[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *memLOIRepo) ListByInvestor(ctx context.Context, investorID string) ([]*models.LetterOfIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LetterOfIntent
	for _, l := range r.lois {
		if l.InvestorID == investorID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLOIRepo) List(ctx context.Context, filter models.LOIFilter) ([]*models.LetterOfIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LetterOfIntent
	for _, l := range r.lois {
		if (filter.Status == "" || l.Status == filter.Status) && (filter.ProspectusID == "" || l.ProspectusID == filter.ProspectusID) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *memLOIRepo) HasActive(ctx context.Context, investorID, prospectusID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lois {
		if l.InvestorID == investorID && l.ProspectusID == prospectusID && l.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLOIRepo) UpdateStatus(ctx context.Context, id string, from, to models.LOIStatus, reviewer string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lois[id]
	if !ok || l.Status != from {
		return false, nil
	}
	l.Status = to
	l.ReviewedBy = reviewer
	l.ReviewedAt = &at
	l.UpdatedAt = at
	return true, nil
}

func (r *memLOIRepo) Countersign(ctx context.Context, id, name string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lois[id]
	if !ok || l.Status != models.LOIStatusApproved || l.CountersignedAt != nil {
		return false, nil
	}
	l.CountersignedBy = name
	l.CountersignedAt = &at
	return true, nil
}

func (r *memLOIRepo) CountByStatus(ctx context.Context) (map[models.LOIStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.LOIStatus]int)
	for _, l := range r.lois {
		counts[l.Status]++
	}
	return counts, nil
}

type memDocumentRepo struct {
	mu        sync.Mutex
	docs      map[string]*models.InvestorDocument
	insertErr error
}

func newMemDocumentRepo(docs ...*models.InvestorDocument) *memDocumentRepo {
	r := &memDocumentRepo{docs: make(map[string]*models.InvestorDocument)}
	for _, d := range docs {
		cp := *d
		r.docs[d.ID] = &cp
	}
	return r
}

func (r *memDocumentRepo) Insert(ctx context.Context, doc *models.InvestorDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *memDocumentRepo) GetByID(ctx context.Context, id string) (*models.InvestorDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *memDocumentRepo) ListByInvestor(ctx context.Context, investorID string) ([]*models.InvestorDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.InvestorDocument
	for _, d := range r.docs {
		if d.InvestorID == investorID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memDocumentRepo) Delete(ctx context.Context, id, investorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.InvestorID != investorID {
		return false, nil
	}
	delete(r.docs, id)
	return true, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ----------------------------------------------------------------------------
// testify mocks for external systems
// ----------------------------------------------------------------------------

// MockContentSource is a mock CMS reader
type MockContentSource struct {
	mock.Mock
}

func (m *MockContentSource) ListProperties(ctx context.Context, preview bool) ([]models.Property, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockContentSource) GetProperty(ctx context.Context, slug string, preview bool) (*models.Property, error) {
	args := m.Called(ctx, slug, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockContentSource) ListProjects(ctx context.Context, preview bool) ([]models.Project, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *MockContentSource) GetProject(ctx context.Context, slug string, preview bool) (*models.Project, error) {
	args := m.Called(ctx, slug, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockContentSource) ListTestimonials(ctx context.Context, preview bool) ([]models.Testimonial, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Testimonial), args.Error(1)
}

func (m *MockContentSource) ListServices(ctx context.Context, preview bool) ([]models.Service, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockContentSource) GetPage(ctx context.Context, slug string, preview bool) (*models.Page, error) {
	args := m.Called(ctx, slug, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockContentSource) ListProspectuses(ctx context.Context, preview bool) ([]models.Prospectus, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Prospectus), args.Error(1)
}

func (m *MockContentSource) GetProspectus(ctx context.Context, slugOrID string) (*models.Prospectus, error) {
	args := m.Called(ctx, slugOrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prospectus), args.Error(1)
}

func (m *MockContentSource) GetSiteSettings(ctx context.Context, preview bool) (*models.SiteSettings, error) {
	args := m.Called(ctx, preview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteSettings), args.Error(1)
}

func (m *MockContentSource) ListSlugs(ctx context.Context, docType string) ([]models.Slugged, error) {
	args := m.Called(ctx, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Slugged), args.Error(1)
}

// MockAssetStore is a mock file store
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) UploadFile(ctx context.Context, filename, contentType string, body io.Reader) (string, string, error) {
	args := m.Called(ctx, filename, contentType, body)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAssetStore) DeleteAsset(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}

// MockContentWriter is a mock CMS patcher
type MockContentWriter struct {
	mock.Mock
}

func (m *MockContentWriter) PatchDocument(ctx context.Context, id string, set map[string]interface{}) error {
	args := m.Called(ctx, id, set)
	return args.Error(0)
}

// MockUserDirectory is a mock identity backend
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetUser(ctx context.Context, id string) (*models.IdentityUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IdentityUser), args.Error(1)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Subscribe(eventType domain.EventType, handler ports.EventHandler) func() {
	return func() {}
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
