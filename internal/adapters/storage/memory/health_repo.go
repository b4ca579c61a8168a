package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"tarantula-log/internal/domain/identity"
	"tarantula-log/internal/domain/records"
)

type healthRepo struct {
	mu   sync.RWMutex
	byID map[string]records.HealthEntry
}

func NewHealthRepo() records.HealthRepository {
	return &healthRepo{
		byID: make(map[string]records.HealthEntry),
	}
}

func (r *healthRepo) Create(ctx context.Context, e records.HealthEntry) error {
	return r.InsertMany(ctx, []records.HealthEntry{e})
}

// InsertMany es todo o nada.
func (r *healthRepo) InsertMany(ctx context.Context, es []records.HealthEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range es {
		if strings.TrimSpace(e.ID) == "" {
			return errors.New("health entry id required")
		}
		if _, exists := r.byID[e.ID]; exists {
			return errors.New("health entry already exists")
		}
	}
	for _, e := range es {
		r.byID[e.ID] = e
	}
	return nil
}

func (r *healthRepo) GetByID(ctx context.Context, ownerUserID, id string) (records.HealthEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok || e.OwnerUserID != ownerUserID {
		return records.HealthEntry{}, records.ErrNotFound
	}
	return e, nil
}

func (r *healthRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]records.HealthEntry, error) {
	return r.filter(func(e records.HealthEntry) bool { return e.OwnerUserID == ownerUserID }), nil
}

func (r *healthRepo) FindByName(ctx context.Context, ownerUserID, name string) ([]records.HealthEntry, error) {
	return r.filter(func(e records.HealthEntry) bool {
		return e.OwnerUserID == ownerUserID && identity.MatchName(e.Specimen, name)
	}), nil
}

func (r *healthRepo) HasUnlinked(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.byID {
		if e.NeedsLink() {
			return true, nil
		}
	}
	return false, nil
}

func (r *healthRepo) ListUnlinked(ctx context.Context) ([]records.HealthEntry, error) {
	return r.filter(records.HealthEntry.NeedsLink), nil
}

func (r *healthRepo) SetSpecimenRef(ctx context.Context, id, specimenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return records.ErrNotFound
	}
	if !e.SpecimenRef.IsLinked() {
		e.SpecimenRef = records.Linked(specimenID)
		r.byID[id] = e
	}
	return nil
}

func (r *healthRepo) DetachSpecimen(ctx context.Context, ownerUserID, specimenID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.byID {
		if e.OwnerUserID == ownerUserID && e.SpecimenRef.PointsTo(specimenID) {
			e.SpecimenRef = records.Unlinked()
			r.byID[id] = e
			n++
		}
	}
	return n, nil
}

func (r *healthRepo) filter(keep func(records.HealthEntry) bool) []records.HealthEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.HealthEntry, 0)
	for _, e := range r.byID {
		if keep(e) {
			out = append(out, e)
		}
	}

	// Orden por fecha desc (desempate estable por id)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
