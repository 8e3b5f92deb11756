package market

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/garnizeh/oppboard/pkg/models"
)

// Store is everything a session needs from the backend.
type Store interface {
	OpportunityStore
	SavedStore
}

// FormState is the listing form surface of a provider session.
type FormState int

const (
	FormClosed FormState = iota
	FormCreate
	FormEdit
)

func (s FormState) String() string {
	switch s {
	case FormCreate:
		return "create"
	case FormEdit:
		return "edit"
	}
	return "closed"
}

// Session is the per-login state of one user: the opportunity list, the saved
// set, the browse filters and, for providers, the listing form. It is built on
// login and discarded with Close on logout. A Session is not safe for
// concurrent use.
type Session struct {
	Filters Filters

	profile   models.Profile
	store     Store
	saved     *SavedSet
	editor    *Editor
	listings  Listings
	form      FormState
	editingID string
}

func NewSession(profile models.Profile, store Store) *Session {
	return &Session{
		profile: profile,
		store:   store,
		saved:   NewSavedSet(store),
		editor:  NewEditor(store, profile.OrganizationName),
	}
}

func (s *Session) Profile() models.Profile { return s.profile }

// Open loads the session's data. Providers get their own listings; everyone
// else gets the active listings and their saved ids, fetched in parallel.
func (s *Session) Open(ctx context.Context) error {
	if s.profile.IsProvider() {
		items, err := s.store.ListMyOpportunities(ctx)
		if err != nil {
			return opErr(OpLoad, "", err)
		}
		s.listings = NewListings(items)
		return nil
	}

	var items []models.Opportunity
	saved := NewSavedSet(s.store)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.store.ListOpportunities(gctx)
		return err
	})
	g.Go(func() error {
		return saved.Load(gctx)
	})
	if err := g.Wait(); err != nil {
		return opErr(OpLoad, "", err)
	}

	s.listings = NewListings(items)
	s.saved = saved
	return nil
}

// Close drops all local state.
func (s *Session) Close() {
	s.listings = Listings{}
	s.saved.Reset()
	s.Filters.Clear()
	s.form = FormClosed
	s.editingID = ""
}

func (s *Session) Listings() []models.Opportunity { return s.listings.Items() }

// Visible is the list after the current filters.
func (s *Session) Visible() []models.Opportunity {
	return s.Filters.Apply(s.listings.Items())
}

// Saved is the list restricted to saved opportunities.
func (s *Session) Saved() []models.Opportunity {
	return s.saved.Select(s.listings.Items())
}

func (s *Session) IsSaved(id string) bool { return s.saved.IsSaved(id) }

func (s *Session) Save(ctx context.Context, id string) error { return s.saved.Save(ctx, id) }

func (s *Session) Unsave(ctx context.Context, id string) error { return s.saved.Unsave(ctx, id) }

func (s *Session) Form() FormState { return s.form }

func (s *Session) EditingID() string { return s.editingID }

// OpenCreate opens an empty form with the provider's organization filled in.
func (s *Session) OpenCreate() Draft {
	s.form = FormCreate
	s.editingID = ""
	return Draft{Organization: s.profile.OrganizationName}
}

// OpenEdit opens the form on an existing listing.
func (s *Session) OpenEdit(id string) (Draft, error) {
	o, ok := s.listings.Find(id)
	if !ok {
		return Draft{}, ErrNotFound
	}
	s.form = FormEdit
	s.editingID = id
	return DraftFrom(o), nil
}

func (s *Session) CloseForm() {
	s.form = FormClosed
	s.editingID = ""
}

// Submit sends the open form. On success the record is merged into the list
// and the form closes; on failure the form stays open.
func (s *Session) Submit(ctx context.Context, d Draft) (models.Opportunity, error) {
	if s.form == FormClosed {
		return models.Opportunity{}, ErrFormClosed
	}

	o, err := s.editor.Submit(ctx, d, s.editingID)
	if err != nil {
		return models.Opportunity{}, err
	}

	if s.form == FormEdit {
		if !s.listings.Replace(o) {
			s.listings.Prepend(o)
		}
	} else {
		s.listings.Prepend(o)
	}
	s.CloseForm()
	return o, nil
}

// ToggleActive flips the active flag of a listing in the session.
func (s *Session) ToggleActive(ctx context.Context, id string) (bool, error) {
	o, ok := s.listings.Find(id)
	if !ok {
		return false, ErrNotFound
	}
	next, err := s.editor.ToggleActive(ctx, id, o.IsActive)
	if err != nil {
		return o.IsActive, err
	}
	s.listings.SetActive(id, next)
	return next, nil
}

// Delete removes a listing remotely and then locally.
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.editor.Delete(ctx, id); err != nil {
		return err
	}
	s.listings.Remove(id)
	if s.editingID == id {
		s.CloseForm()
	}
	return nil
}
