package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"tarantula-log/internal/adapters/auth/jwtauth"
	"tarantula-log/internal/adapters/taxonomy/wsc"
	"tarantula-log/internal/domain/migration"
	"tarantula-log/internal/platform/metrics"
	"tarantula-log/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	m, err := metrics.New()
	if err != nil {
		return err
	}

	st, closeStores, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	defer closeStores()

	opts := router.Options{
		Stores:     st,
		Logger:     a.log,
		Metrics:    m,
		WSCSiteURL: a.cfg.WSC.SiteURL,
	}

	// Sin secret => modo dev (validado en config)
	if a.cfg.Auth.JWTSecret != "" {
		v, err := jwtauth.NewVerifier(a.cfg.Auth.JWTSecret, a.cfg.Auth.JWTIssuer)
		if err != nil {
			return err
		}
		opts.AuthVerifier = v
	} else {
		a.log.Warn("auth dev mode: X-Debug-User-ID is trusted", nil)
	}

	client, err := wsc.NewClient(wsc.Config{
		BaseURL: a.cfg.WSC.BaseURL,
		APIKey:  a.cfg.WSC.APIKey,
		Timeout: a.cfg.WSC.Timeout,
	})
	if err != nil {
		return err
	}
	opts.Taxonomy = wsc.NewCatalog(client, a.cfg.WSC.CacheTTL, a.cfg.WSC.NegativeCacheTTL)

	engine := migration.NewEngine(st, migration.NewState(), a.log, m)
	opts.Migration = engine
	if a.cfg.Migration.RunOnStart {
		engine.RunInBackground(ctx)
	}
	defer engine.Wait()

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.log.Info("shutting down server", nil)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
