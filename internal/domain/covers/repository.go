package covers

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("cover not found")
)

type Repository interface {
	Get(ctx context.Context, ownerUserID, key string) (Cover, error)
	// FindByKeyFold busca por key sin distinguir mayúsculas (igualdad exacta).
	FindByKeyFold(ctx context.Context, ownerUserID, key string) (Cover, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Cover, error)
	ListAll(ctx context.Context) ([]Cover, error)
	// Upsert conserva CreatedAt si la portada ya existía.
	Upsert(ctx context.Context, c Cover) error
	Delete(ctx context.Context, ownerUserID, key string) error
}
