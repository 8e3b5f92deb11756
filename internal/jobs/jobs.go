package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const (
	StatusQueued = "queued"
	StatusRetry  = "retry"
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Job represents a background job
type Job struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	Priority    int             `json:"priority"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	NextTryAt   *time.Time      `json:"next_try_at,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
}

// Handler is the function that processes a job
type Handler func(ctx context.Context, j *Job) error

// ClaimLease is how long a fetched job stays hidden from other workers
// before it is handed out again.
const ClaimLease = time.Minute

// Queue is the persistent job store the worker pool drains.
// FetchNext claims the next due job for ClaimLease and returns (nil, nil)
// when nothing is due.
type Queue interface {
	Enqueue(ctx context.Context, j *Job) (int64, error)
	FetchNext(ctx context.Context) (*Job, error)
	UpdateJob(ctx context.Context, j *Job) error
	MoveToDeadLetter(ctx context.Context, j *Job) error
}

// Enqueuer schedules work without exposing the queue itself.
type Enqueuer interface {
	Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error)
}

// ErrMaxAttempts indicates the job reached max attempts
var ErrMaxAttempts = errors.New("max attempts reached")

// BackoffDuration returns exponential backoff duration for attempt n
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	// simple exponential: base 2^attempt seconds, capped
	max := 5 * time.Minute
	if attempt > 16 {
		return max
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > max {
		return max
	}
	return d
}
