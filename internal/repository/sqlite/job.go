package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garnizeh/oppboard/internal/jobs"
)

// Enqueue inserts a job into the jobs table and returns the new ID
func (r *SQLiteRepo) Enqueue(ctx context.Context, j *jobs.Job) (int64, error) {
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
	q := `INSERT INTO jobs(type, payload, status, attempts, max_attempts, priority, scheduled_at, created, updated) VALUES(?,?,?,?,?,?,?,?,?)`
	res, err := r.conn.Exec(ctx, q, j.Type, string(j.Payload), jobs.StatusQueued, j.Attempts, j.MaxAttempts, j.Priority, j.ScheduledAt.UTC().Unix(), ts, ts)
	if err != nil {
		return 0, fmt.Errorf("enqueue failed: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	j.ID = id
	j.Status = jobs.StatusQueued

	return id, nil
}

// FetchNext claims the next available job respecting priority and schedule.
// The claim pushes next_try_at forward by jobs.ClaimLease in the same
// statement, so concurrent workers never receive the same job.
func (r *SQLiteRepo) FetchNext(ctx context.Context) (*jobs.Job, error) {
	q := `UPDATE jobs SET next_try_at = ?, updated = ? WHERE id = (
		SELECT id FROM jobs WHERE (status = 'queued' OR status = 'retry') AND (next_try_at IS NULL OR next_try_at <= ?) AND scheduled_at <= ?
		ORDER BY priority ASC, scheduled_at ASC, id ASC LIMIT 1)
		RETURNING id, type, payload, status, attempts, max_attempts, priority, scheduled_at, next_try_at, last_error, created, updated`
	ts := time.Now().UTC().Unix()
	row := r.conn.QueryRow(ctx, q, ts+int64(jobs.ClaimLease/time.Second), ts, ts, ts)
	var (
		j           jobs.Job
		payload     sql.NullString
		scheduledAt int64
		nextTry     sql.NullInt64
		lastError   sql.NullString
		created     int64
		updated     int64
	)
	if err := row.Scan(&j.ID, &j.Type, &payload, &j.Status, &j.Attempts, &j.MaxAttempts, &j.Priority, &scheduledAt, &nextTry, &lastError, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch next job: %w", err)
	}

	j.ScheduledAt = time.Unix(scheduledAt, 0)
	j.Created = time.Unix(created, 0)
	j.Updated = time.Unix(updated, 0)
	if payload.Valid {
		j.Payload = json.RawMessage(payload.String)
	}
	if nextTry.Valid {
		t := time.Unix(nextTry.Int64, 0)
		j.NextTryAt = &t
	}
	if lastError.Valid {
		j.LastError = lastError.String
	}

	return &j, nil
}

// UpdateJob updates attempts, status, next_try_at, last_error
func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *jobs.Job) error {
	var nextTry any
	if j.NextTryAt != nil {
		nextTry = j.NextTryAt.Unix()
	}
	q := `UPDATE jobs SET status = ?, attempts = ?, next_try_at = ?, last_error = ?, updated = ? WHERE id = ?`
	_, err := r.conn.Exec(ctx, q, j.Status, j.Attempts, nextTry, j.LastError, time.Now().UTC().Unix(), j.ID)
	return err
}

// MoveToDeadLetter moves a job to dead_letter_jobs and deletes the original
func (r *SQLiteRepo) MoveToDeadLetter(ctx context.Context, j *jobs.Job) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	insert := `INSERT INTO dead_letter_jobs(job_id, type, payload, attempts, last_error, failed_at) VALUES(?,?,?,?,?,?)`
	if _, err := tx.ExecContext(ctx, insert, j.ID, j.Type, string(j.Payload), j.Attempts, j.LastError, time.Now().UTC().Unix()); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, j.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// CountDeadLetters reports how many jobs ended in the dead-letter table.
func (r *SQLiteRepo) CountDeadLetters(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM dead_letter_jobs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
