package migration

import (
	"context"
	"errors"
	"sync"
	"time"

	"tarantula-log/internal/domain/identity"
	"tarantula-log/internal/domain/records"
	"tarantula-log/internal/domain/specimens"
	"tarantula-log/internal/platform/logger"
	"tarantula-log/internal/platform/metrics"

	"github.com/google/uuid"
)

// Report resume una corrida.
type Report struct {
	// Skipped: otro caller ya había tomado la corrida en este proceso.
	Skipped bool
	// NoWork: el probe no encontró registros con nombre y sin referencia.
	NoWork bool

	SpecimensCreated int
	MoltLinked       int
	HealthLinked     int
	BreedingLinked   int
	Unresolved       int
}

// Engine crea los ejemplares que faltan a partir de los nombres libres de los registros
// históricos y les escribe la referencia. Es idempotente: los registros ya resueltos
// o sin nombre quedan fuera del probe.
type Engine struct {
	st      specimens.Stores
	state   *State
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string

	wg sync.WaitGroup
}

func NewEngine(st specimens.Stores, state *State, log logger.Logger, m *metrics.Metrics) *Engine {
	if state == nil {
		state = NewState()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		st:      st,
		state:   state,
		log:     log.With(map[string]any{"component": "specimen_migration"}),
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (e *Engine) State() *State {
	return e.state
}

// Run ejecuta la migración si este caller gana el guard; si no, devuelve Skipped sin bloquear.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	if !e.state.begin() {
		e.metrics.MigrationRun("skipped")
		return Report{Skipped: true}, nil
	}

	started := e.now()
	rep, err := e.run(ctx)
	e.state.finish(err)

	if err != nil {
		e.metrics.MigrationRun("failed")
		e.log.Error("specimen migration failed", map[string]any{
			"error":       err.Error(),
			"duration_ms": e.now().Sub(started).Milliseconds(),
		})
		return Report{}, err
	}

	if rep.NoWork {
		e.metrics.MigrationRun("noop")
		e.log.Debug("specimen migration not needed", nil)
		return rep, nil
	}

	e.metrics.MigrationRun("migrated")
	e.metrics.SpecimensCreated(rep.SpecimensCreated)
	e.metrics.RecordsLinked(string(records.StoreMolt), rep.MoltLinked)
	e.metrics.RecordsLinked(string(records.StoreHealth), rep.HealthLinked)
	e.metrics.RecordsLinked(string(records.StoreBreeding), rep.BreedingLinked)
	e.metrics.UnresolvedRecords(rep.Unresolved)

	e.log.Info("specimen migration finished", map[string]any{
		"specimens_created": rep.SpecimensCreated,
		"molt_linked":       rep.MoltLinked,
		"health_linked":     rep.HealthLinked,
		"breeding_linked":   rep.BreedingLinked,
		"unresolved":        rep.Unresolved,
		"duration_ms":       e.now().Sub(started).Milliseconds(),
	})
	return rep, nil
}

// RunInBackground lanza Run en una goroutine. Los errores solo se loguean.
func (e *Engine) RunInBackground(ctx context.Context) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		_, _ = e.Run(ctx)
	}()
}

// Wait espera las corridas lanzadas con RunInBackground.
func (e *Engine) Wait() {
	e.wg.Wait()
}

type scanned struct {
	molts    []records.MoltEntry
	health   []records.HealthEntry
	breeding []records.BreedingEntry
}

func (e *Engine) run(ctx context.Context) (Report, error) {
	var rep Report

	needs, err := e.probe(ctx)
	if err != nil {
		return rep, stepErr("probe", err)
	}
	if !needs {
		rep.NoWork = true
		return rep, nil
	}

	existing, err := e.snapshotSpecimens(ctx)
	if err != nil {
		return rep, stepErr("snapshot specimens", err)
	}
	coverURLs, err := e.snapshotCovers(ctx)
	if err != nil {
		return rep, stepErr("snapshot covers", err)
	}
	sc, err := e.scan(ctx)
	if err != nil {
		return rep, stepErr("scan records", err)
	}
	wanted := collect(sc)

	// Crear antes de escribir referencias, en la misma transacción si el store la soporta.
	err = e.st.Tx.RunInTx(ctx, func(ctx context.Context) error {
		rep = Report{}
		if err := e.createMissing(ctx, wanted, existing, coverURLs, &rep); err != nil {
			return err
		}
		return e.backfill(ctx, sc, existing, &rep)
	})
	if err != nil {
		var se *StepError
		if errors.As(err, &se) {
			return Report{}, err
		}
		return Report{}, stepErr("transaction", err)
	}
	return rep, nil
}

func (e *Engine) probe(ctx context.Context) (bool, error) {
	probes := []func(context.Context) (bool, error){
		e.st.Molts.HasUnlinked,
		e.st.Health.HasUnlinked,
		e.st.Breeding.HasUnlinked,
	}
	for _, p := range probes {
		ok, err := p(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// snapshotSpecimens indexa key -> id.
func (e *Engine) snapshotSpecimens(ctx context.Context) (map[string]string, error) {
	items, err := e.st.Specimens.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, sp := range items {
		key, ok := identity.New(sp.OwnerUserID, sp.Name, sp.Species)
		if !ok {
			continue
		}
		if _, dup := out[key.String()]; !dup {
			out[key.String()] = sp.ID
		}
	}
	return out, nil
}

// snapshotCovers indexa (owner, nombre) -> imagen.
func (e *Engine) snapshotCovers(ctx context.Context) (map[string]string, error) {
	items, err := e.st.Covers.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, c := range items {
		ck := identity.CoverKey{Owner: c.OwnerUserID, Name: c.Key}
		out[ck.String()] = c.ImageURL
	}
	return out, nil
}

func (e *Engine) scan(ctx context.Context) (scanned, error) {
	var sc scanned
	var err error
	if sc.molts, err = e.st.Molts.ListUnlinked(ctx); err != nil {
		return sc, err
	}
	if sc.health, err = e.st.Health.ListUnlinked(ctx); err != nil {
		return sc, err
	}
	if sc.breeding, err = e.st.Breeding.ListUnlinked(ctx); err != nil {
		return sc, err
	}
	return sc, nil
}

// collect devuelve las identidades únicas en orden de aparición.
// La primera aparición de una key gana y no se sobrescribe.
func collect(sc scanned) []identity.Key {
	seen := map[string]struct{}{}
	var out []identity.Key

	add := func(owner, name, species string) {
		key, ok := identity.New(owner, name, species)
		if !ok {
			return
		}
		if _, dup := seen[key.String()]; dup {
			return
		}
		seen[key.String()] = struct{}{}
		out = append(out, key)
	}

	for _, m := range sc.molts {
		if m.NeedsLink() {
			add(m.OwnerUserID, m.Specimen, m.Species)
		}
	}
	for _, h := range sc.health {
		if h.NeedsLink() {
			add(h.OwnerUserID, h.Specimen, h.Species)
		}
	}
	for _, b := range sc.breeding {
		if b.FemaleNeedsLink() {
			add(b.OwnerUserID, b.FemaleSpecimen, b.Species)
		}
		if b.MaleNeedsLink() {
			add(b.OwnerUserID, b.MaleSpecimen, b.Species)
		}
	}
	return out
}

func (e *Engine) createMissing(ctx context.Context, wanted []identity.Key, existing, coverURLs map[string]string, rep *Report) error {
	now := e.now()
	for _, key := range wanted {
		if _, ok := existing[key.String()]; ok {
			continue
		}

		sp := specimens.Specimen{
			ID:          e.newID(),
			OwnerUserID: key.Owner,
			Name:        key.Name,
			Species:     key.Species,
			ImageURL:    coverURLs[key.CoverKey().String()],
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		got, created, err := e.st.Specimens.EnsureByIdentity(ctx, sp)
		if err != nil {
			return stepErr("create specimen", err)
		}
		// Se indexa por la identidad que devolvió el store; si no coincide con la buscada,
		// los registros de esa key quedan sin resolver en el backfill.
		existing[got.Key().String()] = got.ID
		if created {
			rep.SpecimensCreated++
		}
	}
	return nil
}

func (e *Engine) backfill(ctx context.Context, sc scanned, existing map[string]string, rep *Report) error {
	for _, m := range sc.molts {
		if !m.NeedsLink() {
			continue
		}
		id, ok := e.lookup(existing, records.StoreMolt, m.ID, m.OwnerUserID, m.Specimen, m.Species)
		if !ok {
			rep.Unresolved++
			continue
		}
		if err := e.st.Molts.SetSpecimenRef(ctx, m.ID, id); err != nil {
			return stepErr("backfill molt entries", err)
		}
		rep.MoltLinked++
	}

	for _, h := range sc.health {
		if !h.NeedsLink() {
			continue
		}
		id, ok := e.lookup(existing, records.StoreHealth, h.ID, h.OwnerUserID, h.Specimen, h.Species)
		if !ok {
			rep.Unresolved++
			continue
		}
		if err := e.st.Health.SetSpecimenRef(ctx, h.ID, id); err != nil {
			return stepErr("backfill health entries", err)
		}
		rep.HealthLinked++
	}

	for _, b := range sc.breeding {
		var femaleID, maleID *string
		if b.FemaleNeedsLink() {
			if id, ok := e.lookup(existing, records.StoreBreeding, b.ID, b.OwnerUserID, b.FemaleSpecimen, b.Species); ok {
				femaleID = &id
			} else {
				rep.Unresolved++
			}
		}
		if b.MaleNeedsLink() {
			if id, ok := e.lookup(existing, records.StoreBreeding, b.ID, b.OwnerUserID, b.MaleSpecimen, b.Species); ok {
				maleID = &id
			} else {
				rep.Unresolved++
			}
		}
		if femaleID == nil && maleID == nil {
			continue
		}
		if err := e.st.Breeding.SetSpecimenRefs(ctx, b.ID, femaleID, maleID); err != nil {
			return stepErr("backfill breeding entries", err)
		}
		rep.BreedingLinked++
	}
	return nil
}

// lookup resuelve la key de un registro. Sin ejemplar: se loguea y queda sin resolver (no se reintenta).
func (e *Engine) lookup(existing map[string]string, store records.Store, recordID, owner, name, species string) (string, bool) {
	key, ok := identity.New(owner, name, species)
	if !ok {
		return "", false
	}
	id, ok := existing[key.String()]
	if !ok {
		e.log.Warn("record left unresolved: no specimen for key", map[string]any{
			"store":     string(store),
			"record_id": recordID,
			"key":       key.String(),
		})
		return "", false
	}
	return id, true
}
