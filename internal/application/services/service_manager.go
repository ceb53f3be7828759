package services

import (
	"context"
	"fmt"

	"github.com/summitcrest/realty/internal/config"
	"github.com/summitcrest/realty/internal/infrastructure/analytics"
	"github.com/summitcrest/realty/internal/infrastructure/cms"
	"github.com/summitcrest/realty/internal/infrastructure/database"
	"github.com/summitcrest/realty/internal/infrastructure/identity"
	"github.com/summitcrest/realty/internal/infrastructure/persistence"
	"github.com/summitcrest/realty/pkg/auth"
	"go.uber.org/zap"
)

// sessionIssuer is the iss claim on admin and preview cookies
const sessionIssuer = "summitcrest-realty"

// ServiceManager orchestrates all services with dependency injection
type ServiceManager struct {
	cfg       *config.Config
	db        *database.Connection
	analytics *analytics.Client

	EventBus  *EventBus
	Scheduler *SchedulerService
	Identity  *identity.Verifier
	Content   *ContentService
	Leads     *LeadService
	Investors *InvestorService
	LOIs      *LOIService
	Documents *DocumentService
	AdminAuth *AdminAuthService
	Preview   *PreviewService
	Sitemap   *SitemapService
	OGImage   *OGImageService
	Dashboard *DashboardService
}

// NewServiceManager creates a new service manager with all dependencies wired
func NewServiceManager(cfg *config.Config, db *database.Connection, logger *zap.Logger) (*ServiceManager, error) {
	signer, err := auth.NewSigner(cfg.Admin.SessionSecret, sessionIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create session signer: %w", err)
	}
	verifier, err := identity.NewVerifier(cfg.Clerk)
	if err != nil {
		return nil, err
	}

	sm := &ServiceManager{
		cfg:       cfg,
		db:        db,
		analytics: analytics.NewClient(cfg.Analytics, logger),
		EventBus:  NewEventBus(),
		Scheduler: NewSchedulerService(logger),
		Identity:  verifier,
	}

	// Infrastructure adapters
	cmsClient := cms.NewClient(cfg.CMS)
	contentRepo := cms.NewContentRepository(cmsClient)
	users := identity.NewClient(cfg.Clerk)
	leadRepo := persistence.NewLeadRepository(db.DB())
	investorRepo := persistence.NewInvestorRepository(db.DB())
	loiRepo := persistence.NewLOIRepository(db.DB())
	documentRepo := persistence.NewDocumentRepository(db.DB())

	// Services in dependency order
	sm.Content = NewContentService(contentRepo, cmsClient, cfg.CMS.CacheTTL.Duration)
	sm.Leads = NewLeadService(leadRepo, sm.EventBus)
	sm.Investors = NewInvestorService(investorRepo, users, sm.EventBus)
	sm.LOIs = NewLOIService(loiRepo, investorRepo, documentRepo, contentRepo, sm.EventBus, cfg.SiteName)
	sm.Documents = NewDocumentService(documentRepo, investorRepo, cmsClient, sm.EventBus, cfg.UploadMaxBytes)
	sm.AdminAuth = NewAdminAuthService(signer, cfg.Admin)
	sm.Preview = NewPreviewService(signer, cfg.CMS.PreviewSecret)
	sm.Sitemap = NewSitemapService(contentRepo, cfg.SiteURL)
	sm.OGImage = NewOGImageService(sm.Content, cfg.SiteName)
	sm.Dashboard = NewDashboardService(leadRepo, loiRepo, investorRepo)

	SubscribeAnalytics(sm.EventBus, sm.analytics)
	if !sm.analytics.Enabled() {
		logger.Info("📊 Analytics disabled (no endpoint configured)")
	}
	if !verifier.Configured() {
		logger.Warn("⚠️ CLERK_JWT_KEY not set, investor portal will reject all sessions")
	}
	if !cmsClient.CanPreview() {
		logger.Info("👁️ Preview mode will serve published content (no CMS read token)")
	}

	return sm, nil
}

// StartBackgroundJobs registers and starts scheduled jobs
func (sm *ServiceManager) StartBackgroundJobs() error {
	if err := sm.Scheduler.AddJob("sitemap-refresh", sm.cfg.Schedule.SitemapRefresh, sm.Sitemap.Refresh); err != nil {
		return err
	}
	if err := sm.Scheduler.AddJob("review-digest", sm.cfg.Schedule.ReviewDigest, sm.Dashboard.ReviewDigest); err != nil {
		return err
	}
	sm.Scheduler.Start()
	return nil
}

// Shutdown stops background work and flushes queued analytics
func (sm *ServiceManager) Shutdown(ctx context.Context) {
	sm.Scheduler.Stop(ctx)
	sm.analytics.Close()
}
