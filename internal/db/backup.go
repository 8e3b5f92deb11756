package db

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Backup writes a consistent copy of the open database to dst, which must not
// exist yet.
func Backup(ctx context.Context, d *DB, dst string) error {
	if _, err := d.Exec(ctx, `VACUUM INTO ?`, dst); err != nil {
		return fmt.Errorf("backup to %s: %w", dst, err)
	}
	d.logger.Info("db: backup written", "path", dst)
	return nil
}

// Restore copies the backup file src over dst. The server must not hold dst
// open while this runs.
func Restore(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("restore %s: %w", dst, err)
	}
	return dstFile.Close()
}
