package main

import (
	"context"
	"errors"

	"tarantula-log/internal/adapters/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New("DB_DSN is required for this command")

func dbCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.Database.Enabled() {
				return errNoDatabase
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()
			return a.migrate(ctx, pool)
		},
	})
	return cmd
}

func (a *app) migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := postgres.OpenDB(pool)
	defer db.Close()

	res, err := postgres.Migrate(ctx, db)
	if err != nil {
		return err
	}
	a.log.Info("schema migrations applied", map[string]any{"applied": len(res.Applied), "versions": res.Applied})
	return nil
}
