package sqlite

import (
	"log/slog"
	"time"

	"github.com/garnizeh/oppboard/internal/db"
	"github.com/garnizeh/oppboard/internal/jobs"
	"github.com/garnizeh/oppboard/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.ProfileRepo = (*SQLiteRepo)(nil)
var _ repository.OpportunityRepo = (*SQLiteRepo)(nil)
var _ repository.SavedRepo = (*SQLiteRepo)(nil)
var _ repository.Store = (*SQLiteRepo)(nil)
var _ jobs.Queue = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
