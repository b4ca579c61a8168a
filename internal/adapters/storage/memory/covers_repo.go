package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tarantula-log/internal/domain/covers"
	"tarantula-log/internal/domain/identity"
)

type coverRepo struct {
	mu    sync.RWMutex
	byKey map[identity.CoverKey]covers.Cover
}

func NewCoverRepo() covers.Repository {
	return &coverRepo{
		byKey: make(map[identity.CoverKey]covers.Cover),
	}
}

func (r *coverRepo) Get(ctx context.Context, ownerUserID, key string) (covers.Cover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byKey[identity.CoverKey{Owner: ownerUserID, Name: key}]
	if !ok {
		return covers.Cover{}, covers.ErrNotFound
	}
	return c, nil
}

func (r *coverRepo) FindByKeyFold(ctx context.Context, ownerUserID, key string) (covers.Cover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Exacta primero; si no, la primera por orden de key que matchee sin mayúsculas.
	if c, ok := r.byKey[identity.CoverKey{Owner: ownerUserID, Name: strings.TrimSpace(key)}]; ok {
		return c, nil
	}
	var matches []covers.Cover
	for k, c := range r.byKey {
		if k.Owner == ownerUserID && identity.MatchName(k.Name, key) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return covers.Cover{}, covers.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Key < matches[j].Key })
	return matches[0], nil
}

func (r *coverRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]covers.Cover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]covers.Cover, 0)
	for k, c := range r.byKey {
		if k.Owner == ownerUserID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *coverRepo) ListAll(ctx context.Context) ([]covers.Cover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]covers.Cover, 0, len(r.byKey))
	for _, c := range r.byKey {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OwnerUserID != out[j].OwnerUserID {
			return out[i].OwnerUserID < out[j].OwnerUserID
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (r *coverRepo) Upsert(ctx context.Context, c covers.Cover) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := identity.CoverKey{Owner: c.OwnerUserID, Name: c.Key}
	if prev, ok := r.byKey[k]; ok {
		c.CreatedAt = prev.CreatedAt
	}
	r.byKey[k] = c
	return nil
}

func (r *coverRepo) Delete(ctx context.Context, ownerUserID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := identity.CoverKey{Owner: ownerUserID, Name: key}
	if _, ok := r.byKey[k]; !ok {
		return covers.ErrNotFound
	}
	delete(r.byKey, k)
	return nil
}
