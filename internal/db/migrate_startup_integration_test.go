package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	dbfs "github.com/garnizeh/oppboard/db"
	"github.com/garnizeh/oppboard/internal/config"
	"github.com/garnizeh/oppboard/internal/db"
)

// TestMigrateOnStart_TempWorkdir loads a config file pointing at a temp
// database and runs the startup migration path against it.
func TestMigrateOnStart_TempWorkdir(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfgY := "addr: \":0\"\n" +
		"migrate_on_start: true\n" +
		"database:\n  driver: sqlite\n  path: '" + dbPath + "'\n"

	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfgY), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// allow insecure default JWTSecret for this test
	t.Setenv("OPPBOARD_ENV", "development")
	t.Setenv("OPPBOARD_JWT_SECRET", "")

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("expected migrate_on_start to be set")
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, cfg.APITimeout)
	defer dbCancel()

	d, err := db.New(dbCtx, cfg.Database.Path, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(dbCtx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations count: %v", err)
	}
	if count == 0 {
		t.Fatalf("expected migrations recorded, got 0")
	}

	backup := filepath.Join(tmpDir, "test.db.bak")
	if err := db.Backup(ctx, d, backup); err != nil {
		t.Fatalf("backup: %v", err)
	}
	restored := filepath.Join(tmpDir, "restored.db")
	if err := db.Restore(backup, restored); err != nil {
		t.Fatalf("restore: %v", err)
	}

	r, err := db.New(ctx, restored, nil)
	if err != nil {
		t.Fatalf("open restored db: %v", err)
	}
	defer r.Close()
	var restoredCount int
	if err := r.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&restoredCount); err != nil {
		t.Fatalf("scan restored count: %v", err)
	}
	if restoredCount != count {
		t.Fatalf("restored db has %d migrations, want %d", restoredCount, count)
	}
}
