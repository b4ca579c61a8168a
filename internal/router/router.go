package router

import (
	"encoding/json"
	"net/http"

	_ "tarantula-log/docs"
	mem "tarantula-log/internal/adapters/storage/memory"
	"tarantula-log/internal/domain/analytics"
	"tarantula-log/internal/domain/covers"
	"tarantula-log/internal/domain/migration"
	"tarantula-log/internal/domain/records"
	"tarantula-log/internal/domain/species"
	"tarantula-log/internal/domain/specimens"
	"tarantula-log/internal/middleware"
	"tarantula-log/internal/platform/logger"
	"tarantula-log/internal/platform/metrics"
	"tarantula-log/internal/ports/auth"
	"tarantula-log/internal/ports/taxonomy"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si Stores.Specimens es nil, in-memory.
	Stores specimens.Stores

	Logger  logger.Logger    // nil => nop
	Metrics *metrics.Metrics // nil => sin /metrics

	// Migration es el engine que corre en background; solo se expone su estado.
	Migration *migration.Engine

	Taxonomy   taxonomy.Catalog // nil => solo links
	WSCSiteURL string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	st := opts.Stores
	if st.Specimens == nil {
		st = mem.NewStores()
	}

	engine := opts.Migration
	if engine == nil {
		engine = migration.NewEngine(st, nil, log, opts.Metrics)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log, opts.Metrics))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/migration/status", migrationStatusHandler(engine))

	// Services por módulo
	specimensSvc := specimens.NewService(st, log, opts.Metrics)
	recordsSvc := records.NewService(st.Molts, st.Health, st.Breeding, specimensSvc)
	coversSvc := covers.NewService(st.Covers)
	analyticsSvc := analytics.NewService(st.Molts)
	speciesSvc := species.NewService(opts.Taxonomy, opts.WSCSiteURL, log)

	// Rutas por módulo
	specimens.RegisterRoutes(r, specimensSvc)
	records.RegisterRoutes(r, recordsSvc)
	covers.RegisterRoutes(r, coversSvc)
	analytics.RegisterRoutes(r, analyticsSvc)
	species.RegisterRoutes(r, speciesSvc)

	return r
}

type migrationStatusResponse struct {
	Phase string `json:"phase"`
}

// migrationStatusHandler godoc
// @Summary Estado de la migración de ejemplares
// @Tags migration
// @Produce json
// @Success 200 {object} migrationStatusResponse
// @Router /migration/status [get]
func migrationStatusHandler(engine *migration.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(migrationStatusResponse{Phase: engine.State().Phase().String()})
	}
}
