package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garnizeh/oppboard/internal/jobs"
	"github.com/garnizeh/oppboard/pkg/repository"
)

// PostgresRepo implements the repository interfaces and the job queue on a
// pgx connection pool.
type PostgresRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ repository.Store = (*PostgresRepo)(nil)
var _ jobs.Queue = (*PostgresRepo)(nil)

func New(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepo{pool: pool, logger: logger}
}

// NewPool opens and pings a pool for dsn.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema applies every .sql file under "postgres/" in schemaFS, in
// lexical order. The files must be idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, schemaFS fs.FS) error {
	const dir = "postgres"
	entries, err := fs.ReadDir(schemaFS, dir)
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".sql" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := fs.ReadFile(schemaFS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read schema %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply schema %s: %w", name, err)
		}
	}
	return nil
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// validID reports whether id can be stored in a uuid column. Anything else
// cannot match a row and is treated as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
