package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/garnizeh/oppboard/internal/jobs"
)

func (r *PostgresRepo) Enqueue(ctx context.Context, j *jobs.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}
	if j.MaxAttempts == 0 {
		j.MaxAttempts = 5
	}
	if j.ScheduledAt.IsZero() {
		j.ScheduledAt = time.Now()
	}

	ts := time.Now().UTC().Unix()
	err := r.pool.QueryRow(ctx, `INSERT INTO jobs (type, payload, status, attempts, max_attempts, priority, scheduled_at, created, updated) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		j.Type, string(j.Payload), jobs.StatusQueued, j.Attempts, j.MaxAttempts, j.Priority, j.ScheduledAt.UTC().Unix(), ts, ts).Scan(&j.ID)
	if err != nil {
		return 0, fmt.Errorf("enqueue failed: %w", err)
	}
	j.Status = jobs.StatusQueued

	return j.ID, nil
}

// FetchNext claims the next due job. Concurrent workers skip rows locked by
// each other, and the claimed row is pushed forward by jobs.ClaimLease.
func (r *PostgresRepo) FetchNext(ctx context.Context) (*jobs.Job, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ts := time.Now().UTC().Unix()
	var (
		j           jobs.Job
		payload     *string
		scheduledAt int64
		nextTry     *int64
		lastError   *string
		created     int64
		updated     int64
	)
	err = tx.QueryRow(ctx, `SELECT id, type, payload, status, attempts, max_attempts, priority, scheduled_at, next_try_at, last_error, created, updated
		FROM jobs WHERE status IN ('queued', 'retry') AND (next_try_at IS NULL OR next_try_at <= $1) AND scheduled_at <= $1
		ORDER BY priority ASC, scheduled_at ASC, id ASC LIMIT 1 FOR UPDATE SKIP LOCKED`, ts).
		Scan(&j.ID, &j.Type, &payload, &j.Status, &j.Attempts, &j.MaxAttempts, &j.Priority, &scheduledAt, &nextTry, &lastError, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch next job: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE jobs SET next_try_at = $1 WHERE id = $2`, ts+int64(jobs.ClaimLease/time.Second), j.ID); err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	j.ScheduledAt = time.Unix(scheduledAt, 0)
	j.Created = time.Unix(created, 0)
	j.Updated = time.Unix(updated, 0)
	if payload != nil {
		j.Payload = json.RawMessage(*payload)
	}
	if nextTry != nil {
		t := time.Unix(*nextTry, 0)
		j.NextTryAt = &t
	}
	if lastError != nil {
		j.LastError = *lastError
	}

	return &j, nil
}

func (r *PostgresRepo) UpdateJob(ctx context.Context, j *jobs.Job) error {
	var nextTry *int64
	if j.NextTryAt != nil {
		n := j.NextTryAt.Unix()
		nextTry = &n
	}
	_, err := r.pool.Exec(ctx, `UPDATE jobs SET status = $1, attempts = $2, next_try_at = $3, last_error = $4, updated = $5 WHERE id = $6`,
		j.Status, j.Attempts, nextTry, j.LastError, time.Now().UTC().Unix(), j.ID)
	return err
}

func (r *PostgresRepo) MoveToDeadLetter(ctx context.Context, j *jobs.Job) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO dead_letter_jobs (job_id, type, payload, attempts, last_error, failed_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			j.ID, j.Type, string(j.Payload), j.Attempts, j.LastError, time.Now().UTC().Unix()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, j.ID)
		return err
	})
}

func (r *PostgresRepo) CountDeadLetters(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(1) FROM dead_letter_jobs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
