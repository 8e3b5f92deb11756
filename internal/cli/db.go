package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/oppboard/db"
	"github.com/garnizeh/oppboard/internal/config"
	"github.com/garnizeh/oppboard/internal/db"
	"github.com/garnizeh/oppboard/internal/repository/postgres"
)

// DBCmd groups the local database maintenance commands. They read the same
// configuration as the server.
func DBCmd() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Initialize, back up and restore the server database",
	}
	dbCmd.PersistentFlags().String("config", "", "server config YAML file")

	dbCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Apply the schema to the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if cfg.Database.Driver == config.DriverPostgres {
				pool, err := postgres.NewPool(ctx, cfg.Database.DSN)
				if err != nil {
					return err
				}
				defer pool.Close()
				if err := postgres.EnsureSchema(ctx, pool, dbfs.PostgresSchema); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Postgres schema applied.")
				return nil
			}

			d, err := db.New(ctx, cfg.Database.Path, nil)
			if err != nil {
				return err
			}
			defer d.Close()
			if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
				return fmt.Errorf("migration runner: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Database initialized.")
			return nil
		},
	})

	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a copy of the sqlite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSQLiteConfig(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = cfg.Database.Path + ".bak"
			}

			d, err := db.New(cmd.Context(), cfg.Database.Path, nil)
			if err != nil {
				return err
			}
			defer d.Close()
			if err := db.Backup(cmd.Context(), d, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Backup written to %s\n", out)
			return nil
		},
	}
	backupCmd.Flags().String("out", "", "backup file (default <path>.bak)")
	dbCmd.AddCommand(backupCmd)

	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the sqlite database with a backup (stop the server first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSQLiteConfig(cmd)
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetString("from")
			if from == "" {
				from = cfg.Database.Path + ".bak"
			}
			if err := db.Restore(from, cfg.Database.Path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored %s from %s\n", cfg.Database.Path, from)
			return nil
		},
	}
	restoreCmd.Flags().String("from", "", "backup file (default <path>.bak)")
	dbCmd.AddCommand(restoreCmd)

	return dbCmd
}

func loadServerConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = config.DriverSQLite
	}
	return cfg, nil
}

func loadSQLiteConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadServerConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver != config.DriverSQLite {
		return nil, fmt.Errorf("backup and restore only handle sqlite; use pg_dump for %s", cfg.Database.Driver)
	}
	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("database.path is not set")
	}
	return cfg, nil
}
