package market

import (
	"context"
	"sort"

	"github.com/garnizeh/oppboard/pkg/models"
)

// SavedStore persists the current user's saved relations.
type SavedStore interface {
	SaveOpportunity(ctx context.Context, id string) error
	UnsaveOpportunity(ctx context.Context, id string) error
	ListSavedIDs(ctx context.Context) ([]string, error)
}

// SavedSet is the local copy of the current user's saved ids. It changes
// only after the store confirms a call.
//
// A SavedSet is not safe for concurrent use. Callers must not issue Save and
// Unsave for the same id while either is in flight.
type SavedSet struct {
	store SavedStore
	ids   map[string]struct{}
}

func NewSavedSet(store SavedStore) *SavedSet {
	return &SavedSet{store: store, ids: map[string]struct{}{}}
}

// Load replaces the local set with the store's contents.
func (s *SavedSet) Load(ctx context.Context) error {
	ids, err := s.store.ListSavedIDs(ctx)
	if err != nil {
		return opErr(OpLoad, "", err)
	}

	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.ids = next
	return nil
}

// Save bookmarks id. Saving an id already in the set makes no remote call.
func (s *SavedSet) Save(ctx context.Context, id string) error {
	if s.IsSaved(id) {
		return nil
	}
	if err := s.store.SaveOpportunity(ctx, id); err != nil {
		return opErr(OpSave, id, err)
	}
	s.ids[id] = struct{}{}
	return nil
}

func (s *SavedSet) Unsave(ctx context.Context, id string) error {
	if err := s.store.UnsaveOpportunity(ctx, id); err != nil {
		return opErr(OpUnsave, id, err)
	}
	delete(s.ids, id)
	return nil
}

func (s *SavedSet) IsSaved(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *SavedSet) Len() int { return len(s.ids) }

// IDs returns the saved ids in sorted order.
func (s *SavedSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Select returns the items that are saved, keeping their order.
func (s *SavedSet) Select(items []models.Opportunity) []models.Opportunity {
	out := make([]models.Opportunity, 0, len(s.ids))
	for _, o := range items {
		if s.IsSaved(o.ID) {
			out = append(out, o)
		}
	}
	return out
}

// Reset empties the set without touching the store.
func (s *SavedSet) Reset() {
	s.ids = map[string]struct{}{}
}
