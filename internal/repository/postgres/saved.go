package postgres

import (
	"context"
	"fmt"
)

func (r *PostgresRepo) SaveOpportunity(ctx context.Context, userID int64, opportunityID string) error {
	if !validID(opportunityID) {
		return fmt.Errorf("save opportunity: invalid id %q", opportunityID)
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO saved_opportunities (user_id, opportunity_id, created) VALUES ($1, $2, $3) ON CONFLICT (user_id, opportunity_id) DO NOTHING`, userID, opportunityID, now())
	if err != nil {
		return fmt.Errorf("save opportunity: %w", err)
	}
	return nil
}

func (r *PostgresRepo) UnsaveOpportunity(ctx context.Context, userID int64, opportunityID string) error {
	if !validID(opportunityID) {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM saved_opportunities WHERE user_id = $1 AND opportunity_id = $2`, userID, opportunityID)
	if err != nil {
		return fmt.Errorf("unsave opportunity: %w", err)
	}
	return nil
}

func (r *PostgresRepo) ListSavedIDs(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT opportunity_id::text FROM saved_opportunities WHERE user_id = $1 ORDER BY created DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}

	return out, rows.Err()
}

func (r *PostgresRepo) PurgeSavedForOpportunity(ctx context.Context, opportunityID string) (int64, error) {
	if !validID(opportunityID) {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_opportunities WHERE opportunity_id = $1`, opportunityID)
	if err != nil {
		return 0, fmt.Errorf("purge saved for opportunity: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) PurgeOrphanSaved(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_opportunities s WHERE NOT EXISTS (SELECT 1 FROM opportunities o WHERE o.id = s.opportunity_id)`)
	if err != nil {
		return 0, fmt.Errorf("purge orphan saved: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		r.logger.Info("purged orphan saved relations", "count", n)
	}
	return tag.RowsAffected(), nil
}
