// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/auth"
	authpg "github.com/gatehouse/gatehouse/internal/auth/postgres"
	"github.com/gatehouse/gatehouse/internal/store"
)

// AccountsDeps contains injectable dependencies for the accounts subcommands.
type AccountsDeps struct {
	// PoolFactory opens the database connection pool.
	// Default: store.Connect
	PoolFactory func(ctx context.Context, url string) (DBPool, error)
}

// NewAccountsCmd creates the accounts subcommand with its admin actions.
func NewAccountsCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Administer accounts directly",
		Long: `Operator actions against the accounts table, bypassing the HTTP API.
The database URL comes from --database-url or the DATABASE_URL environment
variable.`,
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (default: $DATABASE_URL)")

	var password string
	setPasswordCmd := &cobra.Command{
		Use:   "set-password <email>",
		Short: "Set an account's password without an OTP",
		Long: `Replace an account's password hash directly. Use this to recover
accounts whose reset mail cannot be delivered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := databaseURL
			if url == "" {
				url = os.Getenv("DATABASE_URL")
			}
			if url == "" {
				return oops.Code("CONFIG_INVALID").Errorf("--database-url or DATABASE_URL is required")
			}
			return runSetPasswordWithDeps(cmd.Context(), cmd, url, args[0], password, nil)
		},
	}
	setPasswordCmd.Flags().StringVar(&password, "password", "", "new password (required)")
	_ = setPasswordCmd.MarkFlagRequired("password") //nolint:errcheck // flag exists

	cmd.AddCommand(setPasswordCmd)
	return cmd
}

// runSetPasswordWithDeps replaces the password hash for the account with the
// given email. If deps is nil, default implementations are used.
func runSetPasswordWithDeps(ctx context.Context, cmd *cobra.Command, databaseURL, email, password string, deps *AccountsDeps) error {
	if deps == nil {
		deps = &AccountsDeps{}
	}
	if deps.PoolFactory == nil {
		deps.PoolFactory = func(ctx context.Context, url string) (DBPool, error) {
			return store.Connect(ctx, url)
		}
	}

	if password == "" {
		return oops.Code(auth.CodeValidationFailed).Errorf("password must not be empty")
	}

	pool, err := deps.PoolFactory(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	repo := authpg.NewAccountRepository(pool)
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := auth.NewBcryptHasher().Hash(password)
	if err != nil {
		return err
	}

	if err := repo.UpdatePassword(ctx, account.ID, hash); err != nil {
		return err
	}

	cmd.Printf("Password updated for %s\n", email)
	return nil
}
