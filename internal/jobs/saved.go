package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

const (
	TypePurgeOpportunity = "saved.purge_opportunity"
	TypePurgeOrphans     = "saved.purge_orphans"
)

// PurgeOpportunityPayload names the deleted opportunity whose bookmarks go away.
type PurgeOpportunityPayload struct {
	OpportunityID string `json:"opportunity_id"`
}

// SavedPurger is the slice of the saved-relation store the purge jobs need.
type SavedPurger interface {
	PurgeSavedForOpportunity(ctx context.Context, opportunityID string) (int64, error)
	PurgeOrphanSaved(ctx context.Context) (int64, error)
}

// SavedHandlers returns the handlers that keep saved relations consistent
// with the opportunities table.
func SavedHandlers(store SavedPurger, logger *slog.Logger) map[string]Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return map[string]Handler{
		TypePurgeOpportunity: func(ctx context.Context, j *Job) error {
			var p PurgeOpportunityPayload
			if err := json.Unmarshal(j.Payload, &p); err != nil {
				return fmt.Errorf("decode payload: %w", err)
			}
			if p.OpportunityID == "" {
				return fmt.Errorf("payload missing opportunity_id")
			}
			n, err := store.PurgeSavedForOpportunity(ctx, p.OpportunityID)
			if err != nil {
				return err
			}
			logger.Info("purged saved relations", "opportunity_id", p.OpportunityID, "count", n)
			return nil
		},
		TypePurgeOrphans: func(ctx context.Context, j *Job) error {
			_, err := store.PurgeOrphanSaved(ctx)
			return err
		},
	}
}
