package sqlite

import (
	"context"
	"fmt"
)

func (r *SQLiteRepo) SaveOpportunity(ctx context.Context, userID int64, opportunityID string) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO saved_opportunities (user_id, opportunity_id, created) VALUES (?, ?, ?) ON CONFLICT(user_id, opportunity_id) DO NOTHING`, userID, opportunityID, now())
	if err != nil {
		return fmt.Errorf("save opportunity: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) UnsaveOpportunity(ctx context.Context, userID int64, opportunityID string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM saved_opportunities WHERE user_id = ? AND opportunity_id = ?`, userID, opportunityID)
	if err != nil {
		return fmt.Errorf("unsave opportunity: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) ListSavedIDs(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT opportunity_id FROM saved_opportunities WHERE user_id = ? ORDER BY created DESC`, userID)
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

// PurgeSavedForOpportunity drops every bookmark of a deleted opportunity.
func (r *SQLiteRepo) PurgeSavedForOpportunity(ctx context.Context, opportunityID string) (int64, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM saved_opportunities WHERE opportunity_id = ?`, opportunityID)
	if err != nil {
		return 0, fmt.Errorf("purge saved for opportunity: %w", err)
	}
	return res.RowsAffected()
}

// PurgeOrphanSaved drops bookmarks whose opportunity no longer exists.
func (r *SQLiteRepo) PurgeOrphanSaved(ctx context.Context) (int64, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM saved_opportunities WHERE opportunity_id NOT IN (SELECT id FROM opportunities)`)
	if err != nil {
		return 0, fmt.Errorf("purge orphan saved: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.logger.Info("purged orphan saved relations", "count", n)
	}
	return n, nil
}
