package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/summitcrest/realty/internal/domain/models"
)

const loiColumns = "id, investor_id, prospectus_id, prospectus_title, amount, status, signature_name, signed_at, signer_ip, notes, " +
	"reviewed_by, reviewed_at, countersigned_by, countersigned_at, created_at, updated_at"

// LOIRepository handles database operations for letters of intent
type LOIRepository struct {
	db *sql.DB
}

// NewLOIRepository creates a new LOIRepository
func NewLOIRepository(db *sql.DB) *LOIRepository {
	return &LOIRepository{db: db}
}

// Insert stores a newly submitted letter
func (r *LOIRepository) Insert(ctx context.Context, loi *models.LetterOfIntent) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", TableLOIs, loiColumns)
	_, err := r.db.ExecContext(ctx, query,
		loi.ID,
		loi.InvestorID,
		loi.ProspectusID,
		loi.ProspectusTitle,
		loi.Amount,
		string(loi.Status),
		loi.SignatureName,
		loi.SignedAt,
		loi.SignerIP,
		loi.Notes,
		loi.ReviewedBy,
		loi.ReviewedAt,
		loi.CountersignedBy,
		loi.CountersignedAt,
		loi.CreatedAt,
		loi.UpdatedAt,
	)
	return err
}

// GetByID returns the letter or nil
func (r *LOIRepository) GetByID(ctx context.Context, id string) (*models.LetterOfIntent, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? LIMIT 1", loiColumns, TableLOIs)
	loi, err := scanLOI(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return loi, err
}

// ListByInvestor returns an investor's letters newest first
func (r *LOIRepository) ListByInvestor(ctx context.Context, investorID string) ([]*models.LetterOfIntent, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE investor_id = ? ORDER BY created_at DESC", loiColumns, TableLOIs)
	return r.list(ctx, query, investorID)
}

// List returns letters for the admin back office
func (r *LOIRepository) List(ctx context.Context, filter models.LOIFilter) ([]*models.LetterOfIntent, error) {
	var where []string
	var args []interface{}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.ProspectusID != "" {
		where = append(where, "prospectus_id = ?")
		args = append(args, filter.ProspectusID)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", loiColumns, TableLOIs)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, clampLimit(filter.Limit), filter.Offset)
	return r.list(ctx, query, args...)
}

func (r *LOIRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.LetterOfIntent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lois := make([]*models.LetterOfIntent, 0)
	for rows.Next() {
		loi, err := scanLOI(rows)
		if err != nil {
			return nil, err
		}
		lois = append(lois, loi)
	}
	return lois, rows.Err()
}

// HasActive reports whether the investor already has a submitted or in-review
// letter for the prospectus
func (r *LOIRepository) HasActive(ctx context.Context, investorID, prospectusID string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE investor_id = ? AND prospectus_id = ? AND status IN (?, ?))", TableLOIs)
	err := r.db.QueryRowContext(ctx, query, investorID, prospectusID,
		string(models.LOIStatusSubmitted), string(models.LOIStatusReview)).Scan(&exists)
	return exists, err
}

// UpdateStatus moves a letter from one status to another. The WHERE clause
// includes the expected current status so concurrent reviewers cannot both win.
// Returns false when the letter was not in the expected status.
func (r *LOIRepository) UpdateStatus(ctx context.Context, id string, from, to models.LOIStatus, reviewer string, at time.Time) (bool, error) {
	query := fmt.Sprintf("UPDATE %s SET status = ?, reviewed_by = ?, reviewed_at = ?, updated_at = ? WHERE id = ? AND status = ?", TableLOIs)
	res, err := r.db.ExecContext(ctx, query, string(to), reviewer, at, at, id, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Countersign records the staff countersignature on an approved letter.
// Returns false when the letter is not approved or was already countersigned.
func (r *LOIRepository) Countersign(ctx context.Context, id, name string, at time.Time) (bool, error) {
	query := fmt.Sprintf("UPDATE %s SET countersigned_by = ?, countersigned_at = ?, updated_at = ? WHERE id = ? AND status = ? AND countersigned_at IS NULL", TableLOIs)
	res, err := r.db.ExecContext(ctx, query, name, at, at, id, string(models.LOIStatusApproved))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountByStatus returns the number of letters per status
func (r *LOIRepository) CountByStatus(ctx context.Context) (map[models.LOIStatus]int, error) {
	query := fmt.Sprintf("SELECT status, COUNT(*) FROM %s GROUP BY status", TableLOIs)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.LOIStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.LOIStatus(status)] = n
	}
	return counts, rows.Err()
}

func scanLOI(row rowScanner) (*models.LetterOfIntent, error) {
	var l models.LetterOfIntent
	var status string
	var notes sql.NullString
	var reviewedAt, countersignedAt sql.NullTime
	err := row.Scan(
		&l.ID,
		&l.InvestorID,
		&l.ProspectusID,
		&l.ProspectusTitle,
		&l.Amount,
		&status,
		&l.SignatureName,
		&l.SignedAt,
		&l.SignerIP,
		&notes,
		&l.ReviewedBy,
		&reviewedAt,
		&l.CountersignedBy,
		&countersignedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = models.LOIStatus(status)
	l.Notes = notes.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		l.ReviewedAt = &t
	}
	if countersignedAt.Valid {
		t := countersignedAt.Time
		l.CountersignedAt = &t
	}
	return &l, nil
}
