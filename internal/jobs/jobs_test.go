package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	dbfs "github.com/garnizeh/oppboard/db"
	"github.com/garnizeh/oppboard/internal/db"
	"github.com/garnizeh/oppboard/internal/jobs"
	"github.com/garnizeh/oppboard/internal/repository/sqlite"
	"github.com/garnizeh/oppboard/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

func newRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	d, err := db.New(ctx, filepath.Join(t.TempDir(), "jobs.db"), slog.Default())
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.New(d, slog.Default())
}

func TestEnqueueAndProcess(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	handled := make(chan struct{}, 1)
	handlers := map[string]jobs.Handler{
		"test": func(ctx context.Context, j *jobs.Job) error {
			handled <- struct{}{}
			return nil
		},
	}
	pool := jobs.NewWorkerPool(repo, handlers, slog.Default(), 1)
	pool.Start(ctx)
	defer pool.Stop()

	if _, err := pool.Enqueue(ctx, "test", map[string]string{"foo": "bar"}, 10, 3); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-handled:
	case <-time.After(3 * time.Second):
		t.Fatalf("handler was not called")
	}
}

func TestConcurrentWorkersRunJobOnce(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	var calls atomic.Int32
	done := make(chan struct{}, 2)
	handlers := map[string]jobs.Handler{
		"slow": func(ctx context.Context, j *jobs.Job) error {
			calls.Add(1)
			time.Sleep(1500 * time.Millisecond)
			done <- struct{}{}
			return nil
		},
	}
	if _, err := repo.Enqueue(ctx, &jobs.Job{Type: "slow", Payload: []byte(`{}`), MaxAttempts: 1}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pool := jobs.NewWorkerPool(repo, handlers, slog.Default(), 2)
	pool.Start(ctx)
	defer pool.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("handler was not called")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected the job to run once, ran %d times", n)
	}
}

func TestUnknownTypeGoesToDeadLetter(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	pool := jobs.NewWorkerPool(repo, map[string]jobs.Handler{}, nil, 1)
	if _, err := pool.Enqueue(ctx, "nobody.handles.this", nil, 1, 1); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	pool.Start(ctx)
	defer pool.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		n, err := repo.CountDeadLetters(ctx)
		if err != nil {
			t.Fatalf("CountDeadLetters: %v", err)
		}
		if n == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("job was not moved to dead letter")
}

func TestFailingHandlerExhaustsAttempts(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	handlers := map[string]jobs.Handler{
		"boom": func(ctx context.Context, j *jobs.Job) error { return errors.New("boom") },
	}
	pool := jobs.NewWorkerPool(repo, handlers, nil, 1)
	if _, err := pool.Enqueue(ctx, "boom", nil, 1, 1); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	pool.Start(ctx)
	defer pool.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := repo.CountDeadLetters(ctx); n == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("failing job did not reach the dead letter table")
}

func TestSavedHandlers_PurgeOpportunity(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	uid, err := repo.CreateUser(ctx, &models.User{Email: "s@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	o := &models.Opportunity{Title: "T", Organization: "O", Type: models.TypeProgram, Description: "d", IsActive: true, ProviderID: uid}
	if err := repo.CreateOpportunity(ctx, o); err != nil {
		t.Fatalf("CreateOpportunity: %v", err)
	}
	if err := repo.SaveOpportunity(ctx, uid, o.ID); err != nil {
		t.Fatalf("SaveOpportunity: %v", err)
	}

	handlers := jobs.SavedHandlers(repo, nil)
	h := handlers[jobs.TypePurgeOpportunity]
	if h == nil {
		t.Fatalf("missing purge handler")
	}

	if err := h(ctx, &jobs.Job{Payload: []byte(`{}`)}); err == nil {
		t.Fatalf("expected error for payload without opportunity id")
	}
	if err := h(ctx, &jobs.Job{Payload: []byte(`{"opportunity_id":"` + o.ID + `"}`)}); err != nil {
		t.Fatalf("purge: %v", err)
	}
	ids, _ := repo.ListSavedIDs(ctx, uid)
	if len(ids) != 0 {
		t.Fatalf("expected saved relations purged, got %v", ids)
	}

	if err := handlers[jobs.TypePurgeOrphans](ctx, &jobs.Job{}); err != nil {
		t.Fatalf("orphan sweep: %v", err)
	}
}

func TestBackoffDuration(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{10, 5 * time.Minute},
		{64, 5 * time.Minute},
	}
	for _, tt := range tests {
		if got := jobs.BackoffDuration(tt.attempt); got != tt.want {
			t.Errorf("BackoffDuration(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
