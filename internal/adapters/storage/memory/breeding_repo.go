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

type breedingRepo struct {
	mu   sync.RWMutex
	byID map[string]records.BreedingEntry
}

func NewBreedingRepo() records.BreedingRepository {
	return &breedingRepo{
		byID: make(map[string]records.BreedingEntry),
	}
}

func (r *breedingRepo) Create(ctx context.Context, e records.BreedingEntry) error {
	return r.InsertMany(ctx, []records.BreedingEntry{e})
}

func (r *breedingRepo) InsertMany(ctx context.Context, es []records.BreedingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range es {
		if strings.TrimSpace(e.ID) == "" {
			return errors.New("breeding entry id required")
		}
		if _, exists := r.byID[e.ID]; exists {
			return errors.New("breeding entry already exists")
		}
	}
	for _, e := range es {
		r.byID[e.ID] = e
	}
	return nil
}

func (r *breedingRepo) GetByID(ctx context.Context, ownerUserID, id string) (records.BreedingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok || e.OwnerUserID != ownerUserID {
		return records.BreedingEntry{}, records.ErrNotFound
	}
	return e, nil
}

func (r *breedingRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]records.BreedingEntry, error) {
	return r.filter(func(e records.BreedingEntry) bool { return e.OwnerUserID == ownerUserID }), nil
}

func (r *breedingRepo) FindByName(ctx context.Context, ownerUserID, name string) ([]records.BreedingEntry, error) {
	return r.filter(func(e records.BreedingEntry) bool {
		if e.OwnerUserID != ownerUserID {
			return false
		}
		return identity.MatchName(e.FemaleSpecimen, name) || identity.MatchName(e.MaleSpecimen, name)
	}), nil
}

func (r *breedingRepo) HasUnlinked(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.byID {
		if e.NeedsLink() {
			return true, nil
		}
	}
	return false, nil
}

func (r *breedingRepo) ListUnlinked(ctx context.Context) ([]records.BreedingEntry, error) {
	return r.filter(records.BreedingEntry.NeedsLink), nil
}

func (r *breedingRepo) SetSpecimenRefs(ctx context.Context, id string, femaleID, maleID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return records.ErrNotFound
	}
	if femaleID != nil && !e.FemaleRef.IsLinked() {
		e.FemaleRef = records.Linked(*femaleID)
	}
	if maleID != nil && !e.MaleRef.IsLinked() {
		e.MaleRef = records.Linked(*maleID)
	}
	r.byID[id] = e
	return nil
}

func (r *breedingRepo) DetachSpecimen(ctx context.Context, ownerUserID, specimenID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.byID {
		if e.OwnerUserID != ownerUserID {
			continue
		}
		touched := false
		if e.FemaleRef.PointsTo(specimenID) {
			e.FemaleRef = records.Unlinked()
			touched = true
		}
		if e.MaleRef.PointsTo(specimenID) {
			e.MaleRef = records.Unlinked()
			touched = true
		}
		if touched {
			r.byID[id] = e
			n++
		}
	}
	return n, nil
}

func (r *breedingRepo) filter(keep func(records.BreedingEntry) bool) []records.BreedingEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.BreedingEntry, 0)
	for _, e := range r.byID {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PairingDate.Equal(out[j].PairingDate) {
			return out[i].PairingDate.After(out[j].PairingDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
