package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"tarantula-log/internal/domain/specimens"
)

type specimenRepo struct {
	mu    sync.RWMutex
	byID  map[string]specimens.Specimen
	byKey map[string]string // identity key -> id
}

func NewSpecimenRepo() specimens.Repository {
	return &specimenRepo{
		byID:  make(map[string]specimens.Specimen),
		byKey: make(map[string]string),
	}
}

func (r *specimenRepo) Create(ctx context.Context, s specimens.Specimen) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(s)
}

func (r *specimenRepo) insertLocked(s specimens.Specimen) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("specimen id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return specimens.ErrAlreadyExists
	}
	key := s.Key().String()
	if _, exists := r.byKey[key]; exists {
		return specimens.ErrAlreadyExists
	}
	r.byID[s.ID] = s
	r.byKey[key] = s.ID
	return nil
}

func (r *specimenRepo) EnsureByIdentity(ctx context.Context, s specimens.Specimen) (specimens.Specimen, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byKey[s.Key().String()]; ok {
		return r.byID[id], false, nil
	}
	if err := r.insertLocked(s); err != nil {
		return specimens.Specimen{}, false, err
	}
	return s, true, nil
}

func (r *specimenRepo) GetByID(ctx context.Context, ownerUserID, id string) (specimens.Specimen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok || s.OwnerUserID != ownerUserID {
		return specimens.Specimen{}, specimens.ErrNotFound
	}
	return s, nil
}

func (r *specimenRepo) ListByOwner(ctx context.Context, ownerUserID string, includeArchived bool) ([]specimens.Specimen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]specimens.Specimen, 0)
	for _, s := range r.byID {
		if s.OwnerUserID != ownerUserID {
			continue
		}
		if s.Archived && !includeArchived {
			continue
		}
		out = append(out, s)
	}

	// Orden por nombre y luego created_at
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *specimenRepo) ListAll(ctx context.Context) ([]specimens.Specimen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]specimens.Specimen, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *specimenRepo) Update(ctx context.Context, s specimens.Specimen) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[s.ID]
	if !ok || current.OwnerUserID != s.OwnerUserID {
		return specimens.ErrNotFound
	}

	oldKey, newKey := current.Key().String(), s.Key().String()
	if oldKey != newKey {
		if other, taken := r.byKey[newKey]; taken && other != s.ID {
			return specimens.ErrAlreadyExists
		}
		delete(r.byKey, oldKey)
		r.byKey[newKey] = s.ID
	}
	r.byID[s.ID] = s
	return nil
}

func (r *specimenRepo) Delete(ctx context.Context, ownerUserID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok || s.OwnerUserID != ownerUserID {
		return specimens.ErrNotFound
	}
	delete(r.byKey, s.Key().String())
	delete(r.byID, id)
	return nil
}
