package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/domain/ports"
	"github.com/summitcrest/realty/pkg/errors"
	"github.com/summitcrest/realty/pkg/utils"
	"go.uber.org/zap"
)

// DefaultUploadMaxBytes caps investor uploads when configuration does not
const DefaultUploadMaxBytes = 10 << 20

var allowedUploadTypes = []string{"application/pdf", "image/png", "image/jpeg"}

// UploadInput is one investor file upload
type UploadInput struct {
	Kind     models.DocumentKind
	FileName string
	Body     io.Reader
}

// DocumentService handles investor document uploads
type DocumentService struct {
	documents ports.DocumentRepository
	investors ports.InvestorRepository
	assets    ports.AssetStore
	events    ports.EventPublisher
	maxBytes  int64
	now       func() time.Time
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(documents ports.DocumentRepository, investors ports.InvestorRepository, assets ports.AssetStore, events ports.EventPublisher, maxBytes int64) *DocumentService {
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}
	return &DocumentService{
		documents: documents,
		investors: investors,
		assets:    assets,
		events:    events,
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

// MaxBytes is the upload size limit
func (s *DocumentService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload validates, stores and records an investor document. The content
// type is sniffed from the bytes; the client-declared type is ignored.
func (s *DocumentService) Upload(ctx context.Context, investor *models.Investor, in UploadInput) (*models.InvestorDocument, error) {
	if in.Kind == "" {
		in.Kind = models.DocumentOther
	}
	if !in.Kind.Valid() {
		return nil, errors.NewValidationError("kind", fmt.Sprintf("unknown document kind '%s'", in.Kind))
	}
	if in.Body == nil {
		return nil, errors.NewValidationError("file", "file is required")
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.NewValidationError("file", "file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, errors.NewValidationError("file", fmt.Sprintf("file exceeds the %d MiB limit", s.maxBytes>>20))
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), allowedUploadTypes...) {
		return nil, errors.NewValidationError("file", fmt.Sprintf("unsupported file type %s; upload a PDF, PNG or JPEG", mime.String()))
	}

	fileName := sanitizeFileName(in.FileName, mime.Extension())
	assetID, url, err := s.assets.UploadFile(ctx, fileName, mime.String(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	doc := &models.InvestorDocument{
		ID:         utils.GenerateID(),
		InvestorID: investor.ID,
		Kind:       in.Kind,
		FileName:   fileName,
		MimeType:   mime.String(),
		SizeBytes:  int64(len(data)),
		AssetID:    assetID,
		URL:        url,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.documents.Insert(ctx, doc); err != nil {
		s.removeAsset(ctx, assetID)
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	if investor.AccreditationStatus == models.AccreditationUnverified {
		if _, err := s.investors.SetAccreditationStatus(ctx, investor.ID, models.AccreditationPending, doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to update accreditation status: %w", err)
		}
		investor.AccreditationStatus = models.AccreditationPending
	}

	zap.L().Info("📎 Investor document uploaded",
		zap.String("investor_id", investor.ID), zap.String("kind", string(doc.Kind)), zap.Int64("bytes", doc.SizeBytes))
	publish(ctx, s.events, domain.Event{
		Type:       domain.EventDocumentUploaded,
		DistinctID: investor.ID,
		Properties: map[string]interface{}{"kind": string(doc.Kind), "mime_type": doc.MimeType},
	})
	return doc, nil
}

// List returns the investor's documents
func (s *DocumentService) List(ctx context.Context, investorID string) ([]*models.InvestorDocument, error) {
	return s.documents.ListByInvestor(ctx, investorID)
}

// Delete removes a document the investor owns
func (s *DocumentService) Delete(ctx context.Context, investor *models.Investor, id string) error {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return errors.NewNotFoundError("document", id)
	}
	if doc.InvestorID != investor.ID {
		return errors.NewPermissionError("delete", "document")
	}

	ok, err := s.documents.Delete(ctx, id, investor.ID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if !ok {
		return errors.NewNotFoundError("document", id)
	}
	s.removeAsset(ctx, doc.AssetID)
	return nil
}

// removeAsset is best effort; an orphaned asset is harmless
func (s *DocumentService) removeAsset(ctx context.Context, assetID string) {
	if assetID == "" {
		return
	}
	if err := s.assets.DeleteAsset(ctx, assetID); err != nil {
		zap.L().Warn("failed to delete asset", zap.String("asset_id", assetID), zap.Error(err))
	}
}

func sanitizeFileName(name, ext string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		name = "document" + ext
	}
	return utils.Truncate(name, maxLeadField)
}
