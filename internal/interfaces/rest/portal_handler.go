package rest

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/summitcrest/realty/internal/application/services"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/interfaces/middleware"
	"github.com/summitcrest/realty/pkg/errors"
)

// multipart framing allowance on top of the file size cap
const multipartOverhead = 1 << 20

// ProfileUpdater defines investor self-service profile edits
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, inv *models.Investor, in services.ProfileInput) (*models.Investor, error)
}

// ProspectusReader defines the investor-visible offering reads
type ProspectusReader interface {
	Prospectuses(ctx context.Context) ([]models.Prospectus, error)
	Prospectus(ctx context.Context, slugOrID string) (*models.Prospectus, error)
}

// InvestorLOIService defines the investor side of the LOI lifecycle
type InvestorLOIService interface {
	Submit(ctx context.Context, investor *models.Investor, in services.LOIInput, ip string) (*models.LetterOfIntent, error)
	ListForInvestor(ctx context.Context, investor *models.Investor) ([]*models.LetterOfIntent, error)
	Get(ctx context.Context, investor *models.Investor, id string) (*models.LetterOfIntent, error)
	RenderPDF(ctx context.Context, loi *models.LetterOfIntent, w io.Writer) error
	ProspectusPDF(ctx context.Context, slug string, w io.Writer) error
}

// InvestorDocumentService defines investor document management
type InvestorDocumentService interface {
	MaxBytes() int64
	Upload(ctx context.Context, investor *models.Investor, in services.UploadInput) (*models.InvestorDocument, error)
	List(ctx context.Context, investorID string) ([]*models.InvestorDocument, error)
	Delete(ctx context.Context, investor *models.Investor, id string) error
}

// PortalHandler serves the authenticated investor portal API.
// Every route runs behind middleware.RequireInvestor.
type PortalHandler struct {
	profiles     ProfileUpdater
	prospectuses ProspectusReader
	lois         InvestorLOIService
	documents    InvestorDocumentService
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(profiles ProfileUpdater, prospectuses ProspectusReader, lois InvestorLOIService, documents InvestorDocumentService) *PortalHandler {
	return &PortalHandler{profiles: profiles, prospectuses: prospectuses, lois: lois, documents: documents}
}

// ============================================================================
// Profile
// ============================================================================

// Me handles GET /api/portal/me
func (h *PortalHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"investor": middleware.InvestorFromContext(c)})
}

// UpdateMe handles PUT /api/portal/me
func (h *PortalHandler) UpdateMe(c *gin.Context) {
	var in services.ProfileInput
	HandleUpdateEnvelope(c, "investor", "Profile updated", &in, func() (interface{}, error) {
		return h.profiles.UpdateProfile(c.Request.Context(), middleware.InvestorFromContext(c), in)
	})
}

// ============================================================================
// Prospectuses
// ============================================================================

// ListProspectuses handles GET /api/portal/prospectuses
func (h *PortalHandler) ListProspectuses(c *gin.Context) {
	HandleGetEnvelope(c, "prospectuses", func() (interface{}, error) {
		return h.prospectuses.Prospectuses(c.Request.Context())
	})
}

// GetProspectus handles GET /api/portal/prospectuses/:slug
func (h *PortalHandler) GetProspectus(c *gin.Context) {
	HandleGetEnvelope(c, "prospectus", func() (interface{}, error) {
		return h.prospectuses.Prospectus(c.Request.Context(), c.Param("slug"))
	})
}

// ProspectusPDF handles GET /api/portal/prospectuses/:slug/pdf
func (h *PortalHandler) ProspectusPDF(c *gin.Context) {
	slug := c.Param("slug")
	writePDF(c, fmt.Sprintf("prospectus-%s.pdf", slug), func(w io.Writer) error {
		return h.lois.ProspectusPDF(c.Request.Context(), slug, w)
	})
}

// ============================================================================
// Letters of intent
// ============================================================================

// ListLOIs handles GET /api/portal/lois
func (h *PortalHandler) ListLOIs(c *gin.Context) {
	HandleGetEnvelope(c, "lois", func() (interface{}, error) {
		return h.lois.ListForInvestor(c.Request.Context(), middleware.InvestorFromContext(c))
	})
}

// CreateLOI handles POST /api/portal/lois
func (h *PortalHandler) CreateLOI(c *gin.Context) {
	var in services.LOIInput
	if !BindJSON(c, &in) {
		return
	}

	loi, err := h.lois.Submit(c.Request.Context(), middleware.InvestorFromContext(c), in, c.ClientIP())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{fieldMessage: "Letter of intent submitted", "loi": loi})
}

// GetLOI handles GET /api/portal/lois/:id
func (h *PortalHandler) GetLOI(c *gin.Context) {
	HandleGetEnvelope(c, "loi", func() (interface{}, error) {
		return h.lois.Get(c.Request.Context(), middleware.InvestorFromContext(c), c.Param("id"))
	})
}

// LOIPDF handles GET /api/portal/lois/:id/pdf
func (h *PortalHandler) LOIPDF(c *gin.Context) {
	ctx := c.Request.Context()
	loi, err := h.lois.Get(ctx, middleware.InvestorFromContext(c), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	writePDF(c, fmt.Sprintf("loi-%s.pdf", loi.ID), func(w io.Writer) error {
		return h.lois.RenderPDF(ctx, loi, w)
	})
}

// ============================================================================
// Documents
// ============================================================================

// ListDocuments handles GET /api/portal/documents
func (h *PortalHandler) ListDocuments(c *gin.Context) {
	HandleGetEnvelope(c, "documents", func() (interface{}, error) {
		return h.documents.List(c.Request.Context(), middleware.InvestorFromContext(c).ID)
	})
}

// UploadDocument handles POST /api/portal/documents (multipart: file, kind)
func (h *PortalHandler) UploadDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.documents.MaxBytes()+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			RespondAppError(c, errors.NewValidationError("file", fmt.Sprintf("file must be at most %d bytes", h.documents.MaxBytes())))
			return
		}
		RespondAppError(c, errors.NewValidationError("file", "a file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		RespondAppError(c, errors.NewValidationError("file", "could not read upload"))
		return
	}
	defer file.Close()

	doc, err := h.documents.Upload(c.Request.Context(), middleware.InvestorFromContext(c), services.UploadInput{
		Kind:     models.DocumentKind(c.PostForm("kind")),
		FileName: header.Filename,
		Body:     file,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{fieldMessage: "Document uploaded", "document": doc})
}

// DeleteDocument handles DELETE /api/portal/documents/:id
func (h *PortalHandler) DeleteDocument(c *gin.Context) {
	HandleDeleteEnvelope(c, "Document deleted", func() error {
		return h.documents.Delete(c.Request.Context(), middleware.InvestorFromContext(c), c.Param("id"))
	})
}
