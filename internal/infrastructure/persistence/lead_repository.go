package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/summitcrest/realty/internal/domain/models"
)

const leadColumns = "id, name, email, phone, interest, message, source_page, property_id, status, created_at, updated_at"

// LeadRepository handles database operations for contact-form leads
type LeadRepository struct {
	db *sql.DB
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Insert stores a new lead
func (r *LeadRepository) Insert(ctx context.Context, lead *models.Lead) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", TableLeads, leadColumns)
	_, err := r.db.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		string(lead.Interest),
		lead.Message,
		lead.SourcePage,
		lead.PropertyID,
		string(lead.Status),
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	return err
}

// GetByID returns the lead or nil when it does not exist
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? LIMIT 1", leadColumns, TableLeads)
	lead, err := scanLead(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lead, err
}

// List returns leads newest first, optionally filtered by status
func (r *LeadRepository) List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", leadColumns, TableLeads)
	var args []interface{}
	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, clampLimit(filter.Limit), filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]*models.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateStatus changes the follow-up status. Returns false when no row matched.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status models.LeadStatus, at time.Time) (bool, error) {
	query := fmt.Sprintf("UPDATE %s SET status = ?, updated_at = ? WHERE id = ?", TableLeads)
	res, err := r.db.ExecContext(ctx, query, string(status), at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes a lead. Returns false when no row matched.
func (r *LeadRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", TableLeads)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountByStatus returns the number of leads per status
func (r *LeadRepository) CountByStatus(ctx context.Context) (map[models.LeadStatus]int, error) {
	query := fmt.Sprintf("SELECT status, COUNT(*) FROM %s GROUP BY status", TableLeads)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.LeadStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.LeadStatus(status)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*models.Lead, error) {
	var l models.Lead
	var interest, status string
	var message sql.NullString
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&interest,
		&message,
		&l.SourcePage,
		&l.PropertyID,
		&status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Interest = models.LeadInterest(interest)
	l.Status = models.LeadStatus(status)
	l.Message = message.String
	return &l, nil
}
