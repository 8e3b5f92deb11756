package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/garnizeh/oppboard/pkg/models"
)

const opportunitySelect = `SELECT id::text, title, organization, type, location, deadline, stipend, eligibility, description, apply_link, is_active, created_at, provider_id FROM opportunities`

func (r *PostgresRepo) CreateOpportunity(ctx context.Context, o *models.Opportunity) error {
	if o == nil {
		return fmt.Errorf("opportunity is nil")
	}

	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err := r.pool.Exec(ctx, `INSERT INTO opportunities (id, title, organization, type, location, deadline, stipend, eligibility, description, apply_link, is_active, created_at, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.Title, o.Organization, string(o.Type), o.Location, o.Deadline, o.Stipend, o.Eligibility,
		o.Description, o.ApplyLink, o.IsActive, o.CreatedAt, o.ProviderID)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}

	return nil
}

func (r *PostgresRepo) GetOpportunity(ctx context.Context, id string) (*models.Opportunity, error) {
	if !validID(id) {
		return nil, nil
	}

	o, err := scanOpportunity(r.pool.QueryRow(ctx, opportunitySelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

func (r *PostgresRepo) UpdateOpportunity(ctx context.Context, id string, providerID int64, in models.OpportunityInput) (*models.Opportunity, error) {
	if !validID(id) {
		return nil, nil
	}

	tag, err := r.pool.Exec(ctx, `UPDATE opportunities SET title = $1, organization = $2, type = $3, location = $4, deadline = $5, stipend = $6, eligibility = $7, description = $8, apply_link = $9 WHERE id = $10 AND provider_id = $11`,
		in.Title, in.Organization, string(in.Type), in.Location, in.Deadline, in.Stipend, in.Eligibility, in.Description, in.ApplyLink, id, providerID)
	if err != nil {
		return nil, fmt.Errorf("update opportunity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	return r.GetOpportunity(ctx, id)
}

func (r *PostgresRepo) SetOpportunityActive(ctx context.Context, id string, providerID int64, active bool) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	tag, err := r.pool.Exec(ctx, `UPDATE opportunities SET is_active = $1 WHERE id = $2 AND provider_id = $3`, active, id, providerID)
	if err != nil {
		return false, fmt.Errorf("set opportunity active: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepo) DeleteOpportunity(ctx context.Context, id string, providerID int64) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM opportunities WHERE id = $1 AND provider_id = $2`, id, providerID)
	if err != nil {
		return false, fmt.Errorf("delete opportunity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepo) ListActiveOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	return r.listOpportunities(ctx, opportunitySelect+` WHERE is_active ORDER BY created_at DESC, seq DESC`)
}

func (r *PostgresRepo) ListOpportunitiesByProvider(ctx context.Context, providerID int64) ([]models.Opportunity, error) {
	return r.listOpportunities(ctx, opportunitySelect+` WHERE provider_id = $1 ORDER BY created_at DESC, seq DESC`, providerID)
}

func (r *PostgresRepo) listOpportunities(ctx context.Context, query string, args ...any) ([]models.Opportunity, error) {
	rows, err := r.pool.Query(ctx, query, args...)
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

func scanOpportunity(row pgx.Row) (*models.Opportunity, error) {
	var (
		o   models.Opportunity
		typ string
	)
	if err := row.Scan(&o.ID, &o.Title, &o.Organization, &typ, &o.Location, &o.Deadline, &o.Stipend, &o.Eligibility,
		&o.Description, &o.ApplyLink, &o.IsActive, &o.CreatedAt, &o.ProviderID); err != nil {
		return nil, err
	}
	o.Type = models.OpportunityType(typ)
	o.CreatedAt = o.CreatedAt.UTC()
	if o.Deadline != nil {
		t := o.Deadline.UTC()
		o.Deadline = &t
	}

	return &o, nil
}
