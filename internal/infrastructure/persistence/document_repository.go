package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/summitcrest/realty/internal/domain/models"
)

const documentColumns = "id, investor_id, kind, file_name, mime_type, size_bytes, asset_id, url, created_at"

// DocumentRepository handles database operations for investor uploads
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Insert stores a document record
func (r *DocumentRepository) Insert(ctx context.Context, doc *models.InvestorDocument) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", TableDocuments, documentColumns)
	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.InvestorID,
		string(doc.Kind),
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.AssetID,
		doc.URL,
		doc.CreatedAt,
	)
	return err
}

// GetByID returns the document or nil
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.InvestorDocument, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? LIMIT 1", documentColumns, TableDocuments)
	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return doc, err
}

// ListByInvestor returns an investor's documents newest first
func (r *DocumentRepository) ListByInvestor(ctx context.Context, investorID string) ([]*models.InvestorDocument, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE investor_id = ? ORDER BY created_at DESC", documentColumns, TableDocuments)
	rows, err := r.db.QueryContext(ctx, query, investorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]*models.InvestorDocument, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document owned by the investor. Returns false when nothing matched.
func (r *DocumentRepository) Delete(ctx context.Context, id, investorID string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ? AND investor_id = ?", TableDocuments)
	res, err := r.db.ExecContext(ctx, query, id, investorID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanDocument(row rowScanner) (*models.InvestorDocument, error) {
	var d models.InvestorDocument
	var kind string
	err := row.Scan(
		&d.ID,
		&d.InvestorID,
		&kind,
		&d.FileName,
		&d.MimeType,
		&d.SizeBytes,
		&d.AssetID,
		&d.URL,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Kind = models.DocumentKind(kind)
	return &d, nil
}
