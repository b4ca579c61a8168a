package main

import (
	"context"
	"fmt"

	"tarantula-log/internal/adapters/storage/memory"
	"tarantula-log/internal/adapters/storage/postgres"
	"tarantula-log/internal/config"
	"tarantula-log/internal/domain/specimens"
	"tarantula-log/internal/platform/logger"

	"github.com/spf13/cobra"
)

// app es el estado compartido por los subcomandos; lo arma el PersistentPreRunE.
type app struct {
	cfg *config.Config
	log *logger.ZapLogger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "tarantula-log",
		Short:         "Tarantula husbandry backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(logger.Options{
				Level:  logger.ParseLevel(cfg.Log.Level),
				Format: logger.ParseFormat(cfg.Log.Format),
				App:    cfg.App.Name,
			})
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	rootCmd.AddCommand(
		serveCommand(a),
		dbCommand(a),
		backfillCommand(a),
		tokenCommand(a),
	)
	return rootCmd
}

// openStores devuelve los repos según config: Postgres si hay DSN, si no in-memory.
// closeFn libera el pool (no-op en memoria).
func (a *app) openStores(ctx context.Context) (st specimens.Stores, closeFn func(), err error) {
	if !a.cfg.Database.Enabled() {
		a.log.Warn("DB_DSN not set, using in-memory storage", nil)
		return memory.NewStores(), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, a.cfg.Database)
	if err != nil {
		return specimens.Stores{}, nil, err
	}

	if a.cfg.Database.MigrateOnStart {
		if err := a.migrate(ctx, pool); err != nil {
			pool.Close()
			return specimens.Stores{}, nil, err
		}
	}
	return postgres.NewStores(pool), pool.Close, nil
}
