package specimens

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("specimen not found")
	ErrAlreadyExists = errors.New("specimen already exists")
)

type Repository interface {
	// Create falla con ErrAlreadyExists si la identidad ya existe para el owner.
	Create(ctx context.Context, s Specimen) error
	// EnsureByIdentity devuelve el ejemplar con la identidad de s o lo crea.
	// created=false si ya existía.
	EnsureByIdentity(ctx context.Context, s Specimen) (got Specimen, created bool, err error)
	GetByID(ctx context.Context, ownerUserID, id string) (Specimen, error)
	ListByOwner(ctx context.Context, ownerUserID string, includeArchived bool) ([]Specimen, error)
	ListAll(ctx context.Context) ([]Specimen, error)
	Update(ctx context.Context, s Specimen) error
	Delete(ctx context.Context, ownerUserID, id string) error
}
