package market

import (
	"context"

	"github.com/garnizeh/oppboard/pkg/models"
)

// OpportunityStore is the remote opportunity table as seen by one session.
type OpportunityStore interface {
	// ListOpportunities returns active listings, newest first.
	ListOpportunities(ctx context.Context) ([]models.Opportunity, error)
	// ListMyOpportunities returns every listing of the calling provider, newest first.
	ListMyOpportunities(ctx context.Context) ([]models.Opportunity, error)
	// CreateOpportunity stores a new active listing.
	CreateOpportunity(ctx context.Context, in models.OpportunityInput) (models.Opportunity, error)
	UpdateOpportunity(ctx context.Context, id string, in models.OpportunityInput) (models.Opportunity, error)
	SetOpportunityActive(ctx context.Context, id string, active bool) error
	// DeleteOpportunity succeeds for ids that no longer exist.
	DeleteOpportunity(ctx context.Context, id string) error
}

// Editor maps listing drafts to store writes for one provider.
type Editor struct {
	store        OpportunityStore
	organization string
}

// NewEditor returns an editor that falls back to organization when a draft
// leaves the organization blank.
func NewEditor(store OpportunityStore, organization string) *Editor {
	return &Editor{store: store, organization: organization}
}

// Submit validates d and creates a listing, or updates editingID when it is
// not empty. Invalid drafts fail with ErrValidation before any store call.
func (e *Editor) Submit(ctx context.Context, d Draft, editingID string) (models.Opportunity, error) {
	in, err := NormalizeDraft(d, e.organization)
	if err != nil {
		return models.Opportunity{}, err
	}

	if editingID != "" {
		o, err := e.store.UpdateOpportunity(ctx, editingID, in)
		if err != nil {
			return models.Opportunity{}, opErr(OpUpdate, editingID, err)
		}
		return o, nil
	}

	o, err := e.store.CreateOpportunity(ctx, in)
	if err != nil {
		return models.Opportunity{}, opErr(OpCreate, "", err)
	}
	return o, nil
}

// ToggleActive flips the active flag of id from current and returns the new
// value.
func (e *Editor) ToggleActive(ctx context.Context, id string, current bool) (bool, error) {
	next := !current
	if err := e.store.SetOpportunityActive(ctx, id, next); err != nil {
		return current, opErr(OpToggle, id, err)
	}
	return next, nil
}

func (e *Editor) Delete(ctx context.Context, id string) error {
	if err := e.store.DeleteOpportunity(ctx, id); err != nil {
		return opErr(OpDelete, id, err)
	}
	return nil
}
