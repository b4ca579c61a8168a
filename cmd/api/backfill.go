package main

import (
	"fmt"

	"tarantula-log/internal/adapters/storage/postgres"
	"tarantula-log/internal/domain/migration"

	"github.com/spf13/cobra"
)

func backfillCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Run the specimen migration once and print the report",
		Long: "Creates the specimens implied by named records that have no specimen reference " +
			"and links those records. Safe to run repeatedly.",
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

			engine := migration.NewEngine(postgres.NewStores(pool), migration.NewState(), a.log, nil)
			rep, err := engine.Run(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rep.NoWork {
				fmt.Fprintln(out, "nothing to migrate")
				return nil
			}
			fmt.Fprintf(out, "specimens created: %d\n", rep.SpecimensCreated)
			fmt.Fprintf(out, "molt linked:       %d\n", rep.MoltLinked)
			fmt.Fprintf(out, "health linked:     %d\n", rep.HealthLinked)
			fmt.Fprintf(out, "breeding linked:   %d\n", rep.BreedingLinked)
			fmt.Fprintf(out, "unresolved:        %d\n", rep.Unresolved)
			return nil
		},
	}
}
