package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/oppboard/pkg/models"
)

const opportunityColumns = `id, title, organization, type, location, deadline, stipend, eligibility, description, apply_link, is_active, created_at, provider_id`

func (r *SQLiteRepo) CreateOpportunity(ctx context.Context, o *models.Opportunity) error {
	if o == nil {
		return fmt.Errorf("opportunity is nil")
	}

	o.ID = uuid.NewString()
	o.CreatedAt = fromMillis(now())

	_, err := r.conn.Exec(ctx, `INSERT INTO opportunities (`+opportunityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Title, o.Organization, string(o.Type), o.Location, deadlineArg(o.Deadline), o.Stipend, o.Eligibility,
		o.Description, o.ApplyLink, o.IsActive, o.CreatedAt.UnixMilli(), o.ProviderID)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) GetOpportunity(ctx context.Context, id string) (*models.Opportunity, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE id = ?`, id)
	o, err := scanOpportunity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return o, nil
}

func (r *SQLiteRepo) UpdateOpportunity(ctx context.Context, id string, providerID int64, in models.OpportunityInput) (*models.Opportunity, error) {
	res, err := r.conn.Exec(ctx, `UPDATE opportunities SET title = ?, organization = ?, type = ?, location = ?, deadline = ?, stipend = ?, eligibility = ?, description = ?, apply_link = ? WHERE id = ? AND provider_id = ?`,
		in.Title, in.Organization, string(in.Type), in.Location, deadlineArg(in.Deadline), in.Stipend, in.Eligibility, in.Description, in.ApplyLink, id, providerID)
	if err != nil {
		return nil, fmt.Errorf("update opportunity: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	return r.GetOpportunity(ctx, id)
}

func (r *SQLiteRepo) SetOpportunityActive(ctx context.Context, id string, providerID int64, active bool) (bool, error) {
	// RowsAffected counts matched rows in sqlite, so repeating the same value still reports a match.
	res, err := r.conn.Exec(ctx, `UPDATE opportunities SET is_active = ? WHERE id = ? AND provider_id = ?`, active, id, providerID)
	if err != nil {
		return false, fmt.Errorf("set opportunity active: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) DeleteOpportunity(ctx context.Context, id string, providerID int64) (bool, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM opportunities WHERE id = ? AND provider_id = ?`, id, providerID)
	if err != nil {
		return false, fmt.Errorf("delete opportunity: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) ListActiveOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	return r.listOpportunities(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE is_active = 1 ORDER BY created_at DESC, rowid DESC`)
}

func (r *SQLiteRepo) ListOpportunitiesByProvider(ctx context.Context, providerID int64) ([]models.Opportunity, error) {
	return r.listOpportunities(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE provider_id = ? ORDER BY created_at DESC, rowid DESC`, providerID)
}

func (r *SQLiteRepo) listOpportunities(ctx context.Context, query string, args ...any) ([]models.Opportunity, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Opportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *o)
	}

	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOpportunity(s scanner) (*models.Opportunity, error) {
	var (
		o                                       models.Opportunity
		typ                                     string
		location, stipend, eligibility, applyTo sql.NullString
		deadline                                sql.NullInt64
		created                                 int64
	)
	if err := s.Scan(&o.ID, &o.Title, &o.Organization, &typ, &location, &deadline, &stipend, &eligibility,
		&o.Description, &applyTo, &o.IsActive, &created, &o.ProviderID); err != nil {
		return nil, err
	}

	o.Type = models.OpportunityType(typ)
	o.Location = nullString(location)
	o.Stipend = nullString(stipend)
	o.Eligibility = nullString(eligibility)
	o.ApplyLink = nullString(applyTo)
	o.CreatedAt = fromMillis(created)
	if deadline.Valid {
		t := fromMillis(deadline.Int64)
		o.Deadline = &t
	}

	return &o, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func deadlineArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().UnixMilli()
}
