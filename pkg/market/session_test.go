package market_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/garnizeh/oppboard/pkg/market"
	"github.com/garnizeh/oppboard/pkg/models"
)

func student() models.Profile {
	return models.Profile{ID: 1, UserID: 1, FullName: "Sam", Role: models.RoleUser}
}

func provider() models.Profile {
	return models.Profile{ID: 2, UserID: 7, FullName: "Pat", Role: models.RoleProvider, OrganizationName: "Acme"}
}

func TestSession_StudentOpen(t *testing.T) {
	ctx := context.Background()
	opps := scenario()
	for i := range opps {
		opps[i].IsActive = true
	}
	hidden := models.Opportunity{ID: "3", Title: "Hidden", Type: models.TypeProgram, IsActive: false}
	store := newFakeStore(append(opps, hidden)...)
	store.saved["2"] = true

	s := market.NewSession(student(), store)
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if got := ids(s.Listings()); got != "1,2" {
		t.Fatalf("student must only see active listings, got %q", got)
	}
	if got := ids(s.Saved()); got != "2" {
		t.Fatalf("Saved = %q, want 2", got)
	}

	s.Filters.Query = "google"
	if got := ids(s.Visible()); got != "1" {
		t.Fatalf("Visible = %q, want 1", got)
	}

	if err := s.Save(ctx, "1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.IsSaved("1") {
		t.Fatalf("1 should be saved")
	}

	s.Close()
	if len(s.Listings()) != 0 || s.IsSaved("1") || s.Filters.Active() {
		t.Fatalf("Close must drop session state")
	}
}

func TestSession_OpenFailure(t *testing.T) {
	store := newFakeStore(scenario()...)
	store.fail["list_saved"] = errRemote

	s := market.NewSession(student(), store)
	err := s.Open(context.Background())
	var oe *market.OpError
	if !errors.As(err, &oe) || oe.Notice() != "Failed to load opportunities" {
		t.Fatalf("expected load error, got %v", err)
	}
	if len(s.Listings()) != 0 {
		t.Fatalf("failed open must not populate the list")
	}

	store = newFakeStore()
	store.fail["list_mine"] = errRemote
	s = market.NewSession(provider(), store)
	if err := s.Open(context.Background()); !errors.As(err, &oe) || oe.Op != market.OpLoad {
		t.Fatalf("expected provider load error, got %v", err)
	}
}

func TestSession_ProviderFormFlow(t *testing.T) {
	ctx := context.Background()
	mine := models.Opportunity{ID: "old", Title: "Old", Organization: "Acme", Type: models.TypeCompetition, Description: "D", IsActive: false, ProviderID: 7}
	theirs := models.Opportunity{ID: "other", Title: "Other", Type: models.TypeProgram, IsActive: true, ProviderID: 99}
	store := newFakeStore(mine, theirs)

	s := market.NewSession(provider(), store)
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := ids(s.Listings()); got != "old" {
		t.Fatalf("provider must see own listings regardless of flag, got %q", got)
	}

	if _, err := s.Submit(ctx, market.Draft{Title: "X", Description: "D", Type: "program"}); !errors.Is(err, market.ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}

	d := s.OpenCreate()
	if s.Form() != market.FormCreate || d.Organization != "Acme" {
		t.Fatalf("create form not prefilled: %v %+v", s.Form(), d)
	}

	d.Title = "Hackathon"
	d.Description = "48h"
	_, err := s.Submit(ctx, d)
	if !errors.Is(err, market.ErrValidation) {
		t.Fatalf("expected validation error without type, got %v", err)
	}
	if s.Form() != market.FormCreate {
		t.Fatalf("form must stay open after a rejected submit")
	}

	d.Type = string(models.TypeCompetition)
	created, err := s.Submit(ctx, d)
	if err != nil {
		t.Fatalf("Submit create: %v", err)
	}
	if s.Form() != market.FormClosed {
		t.Fatalf("form should close after success")
	}
	if got := s.Listings(); got[0].ID != created.ID || len(got) != 2 {
		t.Fatalf("created record should be prepended, got %q", ids(got))
	}

	if _, err := s.OpenEdit("missing"); !errors.Is(err, market.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	ed, err := s.OpenEdit("old")
	if err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	if s.Form() != market.FormEdit || s.EditingID() != "old" || ed.Title != "Old" {
		t.Fatalf("edit form not loaded: %v %q %+v", s.Form(), s.EditingID(), ed)
	}

	ed.Title = "Renamed"
	store.fail["update"] = errRemote
	if _, err := s.Submit(ctx, ed); err == nil {
		t.Fatalf("expected update failure")
	}
	if s.Form() != market.FormEdit {
		t.Fatalf("form must stay open after a failed update")
	}
	if o := s.Listings()[1]; o.Title != "Old" {
		t.Fatalf("failed update must not touch the list, got %q", o.Title)
	}

	delete(store.fail, "update")
	updated, err := s.Submit(ctx, ed)
	if err != nil {
		t.Fatalf("Submit edit: %v", err)
	}
	if got := s.Listings(); got[1].ID != "old" || got[1].Title != "Renamed" || updated.ID != "old" {
		t.Fatalf("update should replace in place, got %+v", got)
	}

	s.OpenCreate()
	s.CloseForm()
	if s.Form() != market.FormClosed || s.EditingID() != "" {
		t.Fatalf("CloseForm should reset form state")
	}
}

func TestSession_ToggleKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	deadline := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	link := "https://example.com"
	orig := models.Opportunity{
		ID:        "t", Title: "Title", Organization: "Acme", Type: models.TypeScholarship, Deadline: &deadline,
		ApplyLink: &link, Description: "D", IsActive: true, CreatedAt: deadline, ProviderID: 7,
	}
	store := newFakeStore(orig)
	s := market.NewSession(provider(), store)
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}

	active, err := s.ToggleActive(ctx, "t")
	if err != nil || active {
		t.Fatalf("first toggle: %v, %v", active, err)
	}
	active, err = s.ToggleActive(ctx, "t")
	if err != nil || !active {
		t.Fatalf("second toggle: %v, %v", active, err)
	}

	if got := s.Listings()[0]; !reflect.DeepEqual(got, orig) {
		t.Fatalf("toggle changed other fields:\n got %+v\nwant %+v", got, orig)
	}

	store.fail["toggle"] = errRemote
	if _, err := s.ToggleActive(ctx, "t"); err == nil {
		t.Fatalf("expected toggle failure")
	}
	if !s.Listings()[0].IsActive {
		t.Fatalf("failed toggle must leave the local flag alone")
	}

	if _, err := s.ToggleActive(ctx, "nope"); !errors.Is(err, market.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSession_Delete(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(
		models.Opportunity{ID: "a", ProviderID: 7},
		models.Opportunity{ID: "b", ProviderID: 7},
	)
	s := market.NewSession(provider(), store)
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}

	store.fail["delete"] = errRemote
	if err := s.Delete(ctx, "a"); err == nil {
		t.Fatalf("expected delete failure")
	}
	if ids(s.Listings()) != "a,b" {
		t.Fatalf("failed delete must keep the record")
	}

	delete(store.fail, "delete")
	if _, err := s.OpenEdit("a"); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ids(s.Listings()) != "b" {
		t.Fatalf("record should be removed, got %q", ids(s.Listings()))
	}
	if s.Form() != market.FormClosed {
		t.Fatalf("deleting the edited record should close the form")
	}
}
