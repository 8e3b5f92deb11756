package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	dbfs "github.com/garnizeh/oppboard/db"
	dbpkg "github.com/garnizeh/oppboard/internal/db"
	"github.com/garnizeh/oppboard/internal/jobs"
	sqlite "github.com/garnizeh/oppboard/internal/repository/sqlite"
	"github.com/garnizeh/oppboard/pkg/models"
	"github.com/garnizeh/oppboard/pkg/repository"
)

func setupRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	d, err := dbpkg.New(ctx, filepath.Join(t.TempDir(), "repo.db"), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return sqlite.New(d, nil)
}

func strPtr(s string) *string { return &s }

func createProvider(t *testing.T, repo *sqlite.SQLiteRepo, email string) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), &models.User{Email: email, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return id
}

func TestUserCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil user")
	}

	got, err := repo.GetUserByID(ctx, 9999)
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing id, got %#v, %v", got, err)
	}
	got, err = repo.GetUserByEmail(ctx, "a@a.com")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing email, got %#v, %v", got, err)
	}

	u := &models.User{Email: "alice@example.com", PasswordHash: "hash"}
	id, err := repo.CreateUser(ctx, u)
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if id == 0 || u.ID != id || u.Created == 0 {
		t.Fatalf("expected id and created to be set, got %+v", u)
	}

	got, err = repo.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || got == nil || got.ID != id || got.PasswordHash != "hash" {
		t.Fatalf("GetUserByEmail mismatch: %#v, %v", got, err)
	}

	_, err = repo.CreateUser(ctx, &models.User{Email: "alice@example.com", PasswordHash: "x"})
	if !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestProfileCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	uid := createProvider(t, repo, "p@example.com")

	if _, err := repo.CreateProfile(ctx, nil); err == nil {
		t.Fatalf("expected error for nil profile")
	}

	p := &models.Profile{UserID: uid, FullName: "Pat"}
	if _, err := repo.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if p.Role != models.RoleUser {
		t.Fatalf("expected default role user, got %q", p.Role)
	}

	got, err := repo.GetProfileByUserID(ctx, uid)
	if err != nil || got == nil {
		t.Fatalf("GetProfileByUserID: %#v, %v", got, err)
	}
	if got.Email != "p@example.com" || got.FullName != "Pat" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	got.OrganizationName = "Acme"
	if err := repo.UpdateProfile(ctx, got); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	got, _ = repo.GetProfileByUserID(ctx, uid)
	if got.OrganizationName != "Acme" {
		t.Fatalf("update not persisted: %+v", got)
	}

	missing, err := repo.GetProfileByUserID(ctx, 4242)
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing profile")
	}
}

func TestOpportunityLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	owner := createProvider(t, repo, "owner@example.com")
	other := createProvider(t, repo, "other@example.com")

	deadline := time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)
	o := &models.Opportunity{
		Title:        "SWE Intern",
		Organization: "Google",
		Type:         models.TypeInternship,
		Location:     strPtr("Remote"),
		Deadline:     &deadline,
		Description:  "Build things",
		IsActive:     true,
		ProviderID:   owner,
	}
	if err := repo.CreateOpportunity(ctx, o); err != nil {
		t.Fatalf("CreateOpportunity: %v", err)
	}
	if o.ID == "" || o.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be assigned: %+v", o)
	}

	got, err := repo.GetOpportunity(ctx, o.ID)
	if err != nil || got == nil {
		t.Fatalf("GetOpportunity: %#v, %v", got, err)
	}
	if got.Location == nil || *got.Location != "Remote" || got.Stipend != nil || got.ApplyLink != nil {
		t.Fatalf("optional fields not round-tripped: %+v", got)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Fatalf("deadline mismatch: %v", got.Deadline)
	}

	in := models.OpportunityInput{Title: "SWE Intern 2026", Organization: "Google", Type: models.TypeProgram, Description: "Updated"}
	if updated, err := repo.UpdateOpportunity(ctx, o.ID, other, in); err != nil || updated != nil {
		t.Fatalf("update by non-owner must not match: %#v, %v", updated, err)
	}
	updated, err := repo.UpdateOpportunity(ctx, o.ID, owner, in)
	if err != nil || updated == nil {
		t.Fatalf("UpdateOpportunity: %#v, %v", updated, err)
	}
	if updated.Title != "SWE Intern 2026" || updated.Type != models.TypeProgram || updated.Location != nil || !updated.IsActive || updated.ProviderID != owner {
		t.Fatalf("unexpected updated row: %+v", updated)
	}

	ok, err := repo.SetOpportunityActive(ctx, o.ID, owner, false)
	if err != nil || !ok {
		t.Fatalf("SetOpportunityActive: %v, %v", ok, err)
	}
	active, err := repo.ListActiveOpportunities(ctx)
	if err != nil {
		t.Fatalf("ListActiveOpportunities: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("inactive listing must not be listed: %+v", active)
	}
	mine, err := repo.ListOpportunitiesByProvider(ctx, owner)
	if err != nil || len(mine) != 1 || mine[0].IsActive {
		t.Fatalf("ListOpportunitiesByProvider: %+v, %v", mine, err)
	}

	if ok, _ := repo.SetOpportunityActive(ctx, "missing", owner, true); ok {
		t.Fatalf("expected no match for missing id")
	}
	if ok, _ := repo.DeleteOpportunity(ctx, o.ID, other); ok {
		t.Fatalf("delete by non-owner must not match")
	}
	ok, err = repo.DeleteOpportunity(ctx, o.ID, owner)
	if err != nil || !ok {
		t.Fatalf("DeleteOpportunity: %v, %v", ok, err)
	}
	if ok, _ := repo.DeleteOpportunity(ctx, o.ID, owner); ok {
		t.Fatalf("second delete should report nothing deleted")
	}
	gone, err := repo.GetOpportunity(ctx, o.ID)
	if err != nil || gone != nil {
		t.Fatalf("expected nil after delete, got %#v, %v", gone, err)
	}
}

func TestListActiveOpportunities_NewestFirst(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	owner := createProvider(t, repo, "owner@example.com")

	for _, title := range []string{"first", "second", "third"} {
		o := &models.Opportunity{Title: title, Organization: "Org", Type: models.TypeCompetition, Description: "d", IsActive: true, ProviderID: owner}
		if err := repo.CreateOpportunity(ctx, o); err != nil {
			t.Fatalf("CreateOpportunity: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	list, err := repo.ListActiveOpportunities(ctx)
	if err != nil {
		t.Fatalf("ListActiveOpportunities: %v", err)
	}
	if len(list) != 3 || list[0].Title != "third" || list[2].Title != "first" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestSavedRelations(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	owner := createProvider(t, repo, "owner@example.com")
	student := createProvider(t, repo, "student@example.com")

	a := &models.Opportunity{Title: "A", Organization: "Org", Type: models.TypeScholarship, Description: "d", IsActive: true, ProviderID: owner}
	b := &models.Opportunity{Title: "B", Organization: "Org", Type: models.TypeScholarship, Description: "d", IsActive: true, ProviderID: owner}
	for _, o := range []*models.Opportunity{a, b} {
		if err := repo.CreateOpportunity(ctx, o); err != nil {
			t.Fatalf("CreateOpportunity: %v", err)
		}
	}

	if err := repo.SaveOpportunity(ctx, student, a.ID); err != nil {
		t.Fatalf("SaveOpportunity: %v", err)
	}
	if err := repo.SaveOpportunity(ctx, student, a.ID); err != nil {
		t.Fatalf("second SaveOpportunity should be a no-op: %v", err)
	}
	if err := repo.SaveOpportunity(ctx, student, b.ID); err != nil {
		t.Fatalf("SaveOpportunity: %v", err)
	}

	ids, err := repo.ListSavedIDs(ctx, student)
	if err != nil || len(ids) != 2 {
		t.Fatalf("ListSavedIDs: %v, %v", ids, err)
	}

	if err := repo.UnsaveOpportunity(ctx, student, b.ID); err != nil {
		t.Fatalf("UnsaveOpportunity: %v", err)
	}
	if err := repo.UnsaveOpportunity(ctx, student, b.ID); err != nil {
		t.Fatalf("unsave of absent pair should succeed: %v", err)
	}

	if _, err := repo.DeleteOpportunity(ctx, a.ID, owner); err != nil {
		t.Fatalf("DeleteOpportunity: %v", err)
	}
	n, err := repo.PurgeOrphanSaved(ctx)
	if err != nil || n != 1 {
		t.Fatalf("PurgeOrphanSaved: %d, %v", n, err)
	}

	if err := repo.SaveOpportunity(ctx, student, b.ID); err != nil {
		t.Fatalf("SaveOpportunity: %v", err)
	}
	n, err = repo.PurgeSavedForOpportunity(ctx, b.ID)
	if err != nil || n != 1 {
		t.Fatalf("PurgeSavedForOpportunity: %d, %v", n, err)
	}
	ids, _ = repo.ListSavedIDs(ctx, student)
	if len(ids) != 0 {
		t.Fatalf("expected no saved ids, got %v", ids)
	}
}

func TestJobQueue(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	next, err := repo.FetchNext(ctx)
	if err != nil || next != nil {
		t.Fatalf("expected empty queue, got %#v, %v", next, err)
	}

	j := &jobs.Job{Type: jobs.TypePurgeOrphans, Payload: []byte(`{}`), Priority: 10}
	id, err := repo.Enqueue(ctx, j)
	if err != nil || id == 0 {
		t.Fatalf("Enqueue: %d, %v", id, err)
	}
	if j.MaxAttempts != 5 {
		t.Fatalf("expected default max attempts, got %d", j.MaxAttempts)
	}

	next, err = repo.FetchNext(ctx)
	if err != nil || next == nil || next.ID != id || string(next.Payload) != `{}` {
		t.Fatalf("FetchNext: %#v, %v", next, err)
	}
	if claimed, err := repo.FetchNext(ctx); err != nil || claimed != nil {
		t.Fatalf("claimed job fetched twice: %#v, %v", claimed, err)
	}

	later := time.Now().Add(time.Hour)
	next.Status = jobs.StatusRetry
	next.Attempts = 1
	next.NextTryAt = &later
	if err := repo.UpdateJob(ctx, next); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if due, _ := repo.FetchNext(ctx); due != nil {
		t.Fatalf("job scheduled in the future must not be fetched")
	}

	if err := repo.MoveToDeadLetter(ctx, next); err != nil {
		t.Fatalf("MoveToDeadLetter: %v", err)
	}
	n, err := repo.CountDeadLetters(ctx)
	if err != nil || n != 1 {
		t.Fatalf("CountDeadLetters: %d, %v", n, err)
	}
}
