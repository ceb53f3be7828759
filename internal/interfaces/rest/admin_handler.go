package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/summitcrest/realty/internal/application/services"
	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/interfaces/middleware"
	"github.com/summitcrest/realty/internal/interfaces/web"
	"github.com/summitcrest/realty/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultReviewer   = "admin"
	dashboardListSize = 10
)

// AdminAuthenticator defines the shared-password back-office login
type AdminAuthenticator interface {
	Configured() bool
	Login(password string) (*services.Session, error)
}

// SummaryProvider defines the dashboard counts
type SummaryProvider interface {
	Summary(ctx context.Context) (*services.Summary, error)
}

// AdminLeadService defines staff lead management
type AdminLeadService interface {
	List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error)
	UpdateStatus(ctx context.Context, id string, status models.LeadStatus) (*models.Lead, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, filter models.LeadFilter, format string, w io.Writer) (int, error)
}

// AdminInvestorService defines staff investor management
type AdminInvestorService interface {
	List(ctx context.Context, limit, offset int) ([]*models.Investor, error)
	Get(ctx context.Context, id string) (*models.Investor, error)
	SetAccreditation(ctx context.Context, id string, status models.AccreditationStatus) (*models.Investor, error)
}

// DocumentLister lists an investor's uploads
type DocumentLister interface {
	List(ctx context.Context, investorID string) ([]*models.InvestorDocument, error)
}

// AdminLOIService defines the staff side of the LOI lifecycle
type AdminLOIService interface {
	List(ctx context.Context, filter models.LOIFilter) ([]*models.LetterOfIntent, error)
	GetForAdmin(ctx context.Context, id string) (*models.LetterOfIntent, error)
	ValidActions(loi *models.LetterOfIntent) []domain.LOIAction
	Transition(ctx context.Context, id string, action domain.LOIAction, reviewer string) (*models.LetterOfIntent, error)
	Countersign(ctx context.Context, id, name string) (*models.LetterOfIntent, error)
	RenderPDF(ctx context.Context, loi *models.LetterOfIntent, w io.Writer) error
}

// ProspectusStatusSetter changes a prospectus status in the CMS
type ProspectusStatusSetter interface {
	SetProspectusStatus(ctx context.Context, slugOrID string, status models.ProspectusStatus) (*models.Prospectus, error)
}

// AdminDeps groups the services behind the back office
type AdminDeps struct {
	Auth         AdminAuthenticator
	Dashboard    SummaryProvider
	Leads        AdminLeadService
	Investors    AdminInvestorService
	Documents    DocumentLister
	LOIs         AdminLOIService
	Prospectuses ProspectusStatusSetter
}

// AdminHandler serves the back-office pages and API
type AdminHandler struct {
	deps          AdminDeps
	siteName      string
	secureCookies bool
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(deps AdminDeps, siteName string, secureCookies bool) *AdminHandler {
	return &AdminHandler{deps: deps, siteName: siteName, secureCookies: secureCookies}
}

// ============================================================================
// Request Types
// ============================================================================

// StatusRequest carries a new status value
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TransitionRequest carries a review action
type TransitionRequest struct {
	Action   string `json:"action" binding:"required"`
	Reviewer string `json:"reviewer"`
}

// CountersignRequest carries the countersigner's name
type CountersignRequest struct {
	Name string `json:"name" binding:"required"`
}

// ============================================================================
// Pages
// ============================================================================

// LoginPage handles GET /admin/login
func (h *AdminHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", web.LoginPage{SiteName: h.siteName, Configured: h.deps.Auth.Configured()})
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	session, err := h.deps.Auth.Login(c.PostForm("password"))
	if err != nil {
		status := errors.GetHTTPStatus(err)
		message := "Incorrect password."
		if status >= 500 {
			zap.L().Error("admin login failed", zap.Error(err))
			message = "Sign-in is unavailable, try again shortly."
		}
		c.HTML(status, "login.html", web.LoginPage{
			SiteName:   h.siteName,
			Error:      message,
			Configured: h.deps.Auth.Configured(),
		})
		return
	}
	setSessionCookie(c, middleware.CookieAdminSession, session.Token, session.ExpiresAt, h.secureCookies)
	c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout handles POST /admin/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	clearSessionCookie(c, middleware.CookieAdminSession, h.secureCookies)
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	page := web.DashboardPage{SiteName: h.siteName}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := h.deps.Dashboard.Summary(gctx)
		if err != nil {
			return err
		}
		page.NewLeadCount = summary.Leads[models.LeadStatusNew]
		page.ApprovedCount = summary.LOIs[models.LOIStatusApproved]
		page.PendingReview = summary.PendingReview
		page.Investors = summary.Investors
		return nil
	})
	g.Go(func() error {
		submitted, err := h.deps.LOIs.List(gctx, models.LOIFilter{Status: models.LOIStatusSubmitted, Limit: dashboardListSize})
		if err != nil {
			return err
		}
		inReview, err := h.deps.LOIs.List(gctx, models.LOIFilter{Status: models.LOIStatusReview, Limit: dashboardListSize})
		if err != nil {
			return err
		}
		page.PendingLOIs = append(submitted, inReview...)
		return nil
	})
	g.Go(func() error {
		leads, err := h.deps.Leads.List(gctx, models.LeadFilter{Status: models.LeadStatusNew, Limit: dashboardListSize})
		page.NewLeads = leads
		return err
	})
	if err := g.Wait(); err != nil {
		RespondAppError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", page)
}

// ============================================================================
// Summary & Leads
// ============================================================================

// Summary handles GET /api/admin/summary
func (h *AdminHandler) Summary(c *gin.Context) {
	HandleGetEnvelope(c, "summary", func() (interface{}, error) {
		return h.deps.Dashboard.Summary(c.Request.Context())
	})
}

// ListLeads handles GET /api/admin/leads?status=&limit=&offset=
func (h *AdminHandler) ListLeads(c *gin.Context) {
	limit, offset := pagination(c)
	HandleGetEnvelope(c, "leads", func() (interface{}, error) {
		return h.deps.Leads.List(c.Request.Context(), models.LeadFilter{
			Status: models.LeadStatus(c.Query("status")),
			Limit:  limit,
			Offset: offset,
		})
	})
}

// UpdateLead handles PATCH /api/admin/leads/:id
func (h *AdminHandler) UpdateLead(c *gin.Context) {
	var req StatusRequest
	HandleUpdateEnvelope(c, "lead", "Lead updated", &req, func() (interface{}, error) {
		return h.deps.Leads.UpdateStatus(c.Request.Context(), c.Param("id"), models.LeadStatus(req.Status))
	})
}

// DeleteLead handles DELETE /api/admin/leads/:id
func (h *AdminHandler) DeleteLead(c *gin.Context) {
	HandleDeleteEnvelope(c, "Lead deleted", func() error {
		return h.deps.Leads.Delete(c.Request.Context(), c.Param("id"))
	})
}

var exportContentTypes = map[string]string{
	services.ExportCSV:  "text/csv; charset=utf-8",
	services.ExportYAML: "application/yaml",
	services.ExportJSON: "application/json",
}

// ExportLeads handles GET /api/admin/leads/export?format=csv|yaml|json&status=
func (h *AdminHandler) ExportLeads(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", services.ExportCSV))
	contentType, ok := exportContentTypes[format]
	if !ok {
		RespondAppError(c, errors.NewValidationError("format", fmt.Sprintf("unknown export format '%s'", format)))
		return
	}

	var buf bytes.Buffer
	count, err := h.deps.Leads.Export(c.Request.Context(), models.LeadFilter{Status: models.LeadStatus(c.Query("status"))}, format, &buf)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	zap.L().Info("📤 Leads exported", zap.String("format", format), zap.Int("count", count))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="leads.%s"`, format))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ============================================================================
// Investors
// ============================================================================

// ListInvestors handles GET /api/admin/investors
func (h *AdminHandler) ListInvestors(c *gin.Context) {
	limit, offset := pagination(c)
	HandleGetEnvelope(c, "investors", func() (interface{}, error) {
		return h.deps.Investors.List(c.Request.Context(), limit, offset)
	})
}

// GetInvestor handles GET /api/admin/investors/:id
func (h *AdminHandler) GetInvestor(c *gin.Context) {
	HandleGetEnvelope(c, "investor", func() (interface{}, error) {
		return h.deps.Investors.Get(c.Request.Context(), c.Param("id"))
	})
}

// SetAccreditation handles PATCH /api/admin/investors/:id/accreditation
func (h *AdminHandler) SetAccreditation(c *gin.Context) {
	var req StatusRequest
	HandleUpdateEnvelope(c, "investor", "Accreditation updated", &req, func() (interface{}, error) {
		return h.deps.Investors.SetAccreditation(c.Request.Context(), c.Param("id"), models.AccreditationStatus(req.Status))
	})
}

// InvestorDocuments handles GET /api/admin/investors/:id/documents
func (h *AdminHandler) InvestorDocuments(c *gin.Context) {
	ctx := c.Request.Context()
	investor, err := h.deps.Investors.Get(ctx, c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	HandleGetEnvelope(c, "documents", func() (interface{}, error) {
		return h.deps.Documents.List(ctx, investor.ID)
	})
}

// ============================================================================
// Letters of intent & prospectuses
// ============================================================================

// ListLOIs handles GET /api/admin/lois?status=&prospectus_id=
func (h *AdminHandler) ListLOIs(c *gin.Context) {
	limit, offset := pagination(c)
	HandleGetEnvelope(c, "lois", func() (interface{}, error) {
		return h.deps.LOIs.List(c.Request.Context(), models.LOIFilter{
			Status:       models.LOIStatus(c.Query("status")),
			ProspectusID: c.Query("prospectus_id"),
			Limit:        limit,
			Offset:       offset,
		})
	})
}

// GetLOI handles GET /api/admin/lois/:id
func (h *AdminHandler) GetLOI(c *gin.Context) {
	loi, err := h.deps.LOIs.GetForAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loi": loi, "actions": h.deps.LOIs.ValidActions(loi)})
}

// TransitionLOI handles POST /api/admin/lois/:id/transition
func (h *AdminHandler) TransitionLOI(c *gin.Context) {
	var req TransitionRequest
	if !BindJSON(c, &req) {
		return
	}
	action, ok := domain.ParseLOIAction(req.Action)
	if !ok {
		RespondAppError(c, errors.NewValidationError("action", fmt.Sprintf("unknown action '%s'", req.Action)))
		return
	}
	reviewer := strings.TrimSpace(req.Reviewer)
	if reviewer == "" {
		reviewer = defaultReviewer
	}

	loi, err := h.deps.LOIs.Transition(c.Request.Context(), c.Param("id"), action, reviewer)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{fieldMessage: "Letter of intent updated", "loi": loi, "actions": h.deps.LOIs.ValidActions(loi)})
}

// CountersignLOI handles POST /api/admin/lois/:id/countersign
func (h *AdminHandler) CountersignLOI(c *gin.Context) {
	var req CountersignRequest
	HandleUpdateEnvelope(c, "loi", "Letter of intent countersigned", &req, func() (interface{}, error) {
		return h.deps.LOIs.Countersign(c.Request.Context(), c.Param("id"), req.Name)
	})
}

// LOIPDF handles GET /api/admin/lois/:id/pdf
func (h *AdminHandler) LOIPDF(c *gin.Context) {
	ctx := c.Request.Context()
	loi, err := h.deps.LOIs.GetForAdmin(ctx, c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	writePDF(c, fmt.Sprintf("loi-%s.pdf", loi.ID), func(w io.Writer) error {
		return h.deps.LOIs.RenderPDF(ctx, loi, w)
	})
}

// SetProspectusStatus handles PATCH /api/admin/prospectuses/:id/status
func (h *AdminHandler) SetProspectusStatus(c *gin.Context) {
	var req StatusRequest
	HandleUpdateEnvelope(c, "prospectus", "Prospectus updated", &req, func() (interface{}, error) {
		return h.deps.Prospectuses.SetProspectusStatus(c.Request.Context(), c.Param("id"), models.ProspectusStatus(req.Status))
	})
}
