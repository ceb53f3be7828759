package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/summitcrest/realty/internal/domain/models"
)

const investorColumns = "id, clerk_user_id, name, email, phone, entity, accreditation_status, created_at, updated_at"

// InvestorRepository handles database operations for investor profiles
type InvestorRepository struct {
	db *sql.DB
}

// NewInvestorRepository creates a new InvestorRepository
func NewInvestorRepository(db *sql.DB) *InvestorRepository {
	return &InvestorRepository{db: db}
}

// Insert stores a new investor profile
func (r *InvestorRepository) Insert(ctx context.Context, inv *models.Investor) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", TableInvestors, investorColumns)
	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.ClerkUserID,
		inv.Name,
		inv.Email,
		inv.Phone,
		inv.Entity,
		string(inv.AccreditationStatus),
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	return err
}

// GetByID returns the investor or nil
func (r *InvestorRepository) GetByID(ctx context.Context, id string) (*models.Investor, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? LIMIT 1", investorColumns, TableInvestors)
	inv, err := scanInvestor(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

// GetByClerkUserID returns the investor linked to an identity-provider account, or nil
func (r *InvestorRepository) GetByClerkUserID(ctx context.Context, clerkUserID string) (*models.Investor, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE clerk_user_id = ? LIMIT 1", investorColumns, TableInvestors)
	inv, err := scanInvestor(r.db.QueryRowContext(ctx, query, clerkUserID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

// List returns investors newest first
func (r *InvestorRepository) List(ctx context.Context, limit, offset int) ([]*models.Investor, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC LIMIT ? OFFSET ?", investorColumns, TableInvestors)
	rows, err := r.db.QueryContext(ctx, query, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	investors := make([]*models.Investor, 0)
	for rows.Next() {
		inv, err := scanInvestor(rows)
		if err != nil {
			return nil, err
		}
		investors = append(investors, inv)
	}
	return investors, rows.Err()
}

// UpdateContact updates the investor-editable profile fields
func (r *InvestorRepository) UpdateContact(ctx context.Context, inv *models.Investor) error {
	query := fmt.Sprintf("UPDATE %s SET name = ?, phone = ?, entity = ?, updated_at = ? WHERE id = ?", TableInvestors)
	_, err := r.db.ExecContext(ctx, query, inv.Name, inv.Phone, inv.Entity, inv.UpdatedAt, inv.ID)
	return err
}

// SetAccreditationStatus records the accreditation review outcome.
// Returns false when no row matched.
func (r *InvestorRepository) SetAccreditationStatus(ctx context.Context, id string, status models.AccreditationStatus, at time.Time) (bool, error) {
	query := fmt.Sprintf("UPDATE %s SET accreditation_status = ?, updated_at = ? WHERE id = ?", TableInvestors)
	res, err := r.db.ExecContext(ctx, query, string(status), at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Count returns the number of investor profiles
func (r *InvestorRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", TableInvestors)).Scan(&n)
	return n, err
}

func scanInvestor(row rowScanner) (*models.Investor, error) {
	var inv models.Investor
	var status string
	err := row.Scan(
		&inv.ID,
		&inv.ClerkUserID,
		&inv.Name,
		&inv.Email,
		&inv.Phone,
		&inv.Entity,
		&status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.AccreditationStatus = models.AccreditationStatus(status)
	return &inv, nil
}
