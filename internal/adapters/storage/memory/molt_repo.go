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

type moltRepo struct {
	mu   sync.RWMutex
	byID map[string]records.MoltEntry
}

func NewMoltRepo() records.MoltRepository {
	return &moltRepo{
		byID: make(map[string]records.MoltEntry),
	}
}

func (r *moltRepo) Create(ctx context.Context, e records.MoltEntry) error {
	return r.InsertMany(ctx, []records.MoltEntry{e})
}

// InsertMany es todo o nada.
func (r *moltRepo) InsertMany(ctx context.Context, es []records.MoltEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range es {
		if strings.TrimSpace(e.ID) == "" {
			return errors.New("molt entry id required")
		}
		if _, exists := r.byID[e.ID]; exists {
			return errors.New("molt entry already exists")
		}
	}
	for _, e := range es {
		r.byID[e.ID] = e
	}
	return nil
}

func (r *moltRepo) GetByID(ctx context.Context, ownerUserID, id string) (records.MoltEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok || e.OwnerUserID != ownerUserID {
		return records.MoltEntry{}, records.ErrNotFound
	}
	return e, nil
}

func (r *moltRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]records.MoltEntry, error) {
	return r.filter(func(e records.MoltEntry) bool { return e.OwnerUserID == ownerUserID }), nil
}

func (r *moltRepo) FindByName(ctx context.Context, ownerUserID, name string) ([]records.MoltEntry, error) {
	return r.filter(func(e records.MoltEntry) bool {
		return e.OwnerUserID == ownerUserID && identity.MatchName(e.Specimen, name)
	}), nil
}

func (r *moltRepo) HasUnlinked(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.byID {
		if e.NeedsLink() {
			return true, nil
		}
	}
	return false, nil
}

func (r *moltRepo) ListUnlinked(ctx context.Context) ([]records.MoltEntry, error) {
	return r.filter(records.MoltEntry.NeedsLink), nil
}

func (r *moltRepo) SetSpecimenRef(ctx context.Context, id, specimenID string) error {
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

func (r *moltRepo) DetachSpecimen(ctx context.Context, ownerUserID, specimenID string) (int64, error) {
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

func (r *moltRepo) filter(keep func(records.MoltEntry) bool) []records.MoltEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.MoltEntry, 0)
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
