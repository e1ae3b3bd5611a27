// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"os"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/store"
)

// migrateRunner wraps the methods used from store.Migrator.
type migrateRunner interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	Close() error
}

// migratorFactory creates the schema migrator. Overridden in tests.
var migratorFactory = func(url string) (migrateRunner, error) {
	return store.NewMigrator(url)
}

// NewMigrateCmd creates the migrate subcommand with its actions.
func NewMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long: `Apply, roll back, or inspect schema migrations against the
PostgreSQL database. The database URL comes from --database-url or the
DATABASE_URL environment variable.`,
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (default: $DATABASE_URL)")

	resolveURL := func() (string, error) {
		if databaseURL != "" {
			return databaseURL, nil
		}
		if url := os.Getenv("DATABASE_URL"); url != "" {
			return url, nil
		}
		return "", oops.Code("CONFIG_INVALID").Errorf("--database-url or DATABASE_URL is required")
	}

	withMigrator := func(run func(cmd *cobra.Command, m migrateRunner) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			url, err := resolveURL()
			if err != nil {
				return err
			}
			m, err := migratorFactory(url)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := m.Close(); closeErr != nil {
					cmd.PrintErrln("warning: failed to close migrator:", closeErr)
				}
			}()
			return run(cmd, m)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m migrateRunner) error {
			if err := m.Up(); err != nil {
				return err
			}
			cmd.Println("Migrations applied")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (destructive)",
		Long:  `Roll back every migration, dropping all tables and data.`,
		RunE: withMigrator(func(cmd *cobra.Command, m migrateRunner) error {
			if err := m.Down(); err != nil {
				return err
			}
			cmd.Println("Migrations rolled back")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: withMigrator(func(cmd *cobra.Command, m migrateRunner) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if dirty {
				cmd.Printf("Version: %d (dirty, manual intervention required)\n", version)
				return nil
			}
			cmd.Printf("Version: %d\n", version)
			return nil
		}),
	})

	forceCmd := &cobra.Command{
		Use:   "force <version>",
		Short: "Set the migration version without running migrations",
		Long:  `Recover from a dirty migration state after fixing the database by hand.`,
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(func(cmd *cobra.Command, m migrateRunner) error {
			version, err := strconv.Atoi(cmd.Flags().Arg(0))
			if err != nil {
				return oops.Code("INVALID_VERSION").
					Errorf("version must be an integer, got %q", cmd.Flags().Arg(0))
			}
			if err := m.Force(version); err != nil {
				return err
			}
			cmd.Printf("Forced version to %d\n", version)
			return nil
		}),
	}
	cmd.AddCommand(forceCmd)

	return cmd
}
