package records

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Los listados devuelven orden por fecha desc.
// FindByName compara el nombre libre sin distinguir mayúsculas (igualdad exacta).
// HasUnlinked/ListUnlinked cruzan todos los owners: los usa la migración.

type MoltRepository interface {
	Create(ctx context.Context, e MoltEntry) error
	InsertMany(ctx context.Context, es []MoltEntry) error
	GetByID(ctx context.Context, ownerUserID, id string) (MoltEntry, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]MoltEntry, error)
	FindByName(ctx context.Context, ownerUserID, name string) ([]MoltEntry, error)

	HasUnlinked(ctx context.Context) (bool, error)
	ListUnlinked(ctx context.Context) ([]MoltEntry, error)
	// SetSpecimenRef no pisa una referencia existente.
	SetSpecimenRef(ctx context.Context, id, specimenID string) error
	// DetachSpecimen quita la referencia; el nombre libre queda intacto.
	DetachSpecimen(ctx context.Context, ownerUserID, specimenID string) (int64, error)
}

type HealthRepository interface {
	Create(ctx context.Context, e HealthEntry) error
	InsertMany(ctx context.Context, es []HealthEntry) error
	GetByID(ctx context.Context, ownerUserID, id string) (HealthEntry, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]HealthEntry, error)
	FindByName(ctx context.Context, ownerUserID, name string) ([]HealthEntry, error)

	HasUnlinked(ctx context.Context) (bool, error)
	ListUnlinked(ctx context.Context) ([]HealthEntry, error)
	SetSpecimenRef(ctx context.Context, id, specimenID string) error
	DetachSpecimen(ctx context.Context, ownerUserID, specimenID string) (int64, error)
}

// BreedingRepository: FindByName matchea cualquiera de los dos slots.
type BreedingRepository interface {
	Create(ctx context.Context, e BreedingEntry) error
	InsertMany(ctx context.Context, es []BreedingEntry) error
	GetByID(ctx context.Context, ownerUserID, id string) (BreedingEntry, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]BreedingEntry, error)
	FindByName(ctx context.Context, ownerUserID, name string) ([]BreedingEntry, error)

	HasUnlinked(ctx context.Context) (bool, error)
	ListUnlinked(ctx context.Context) ([]BreedingEntry, error)
	// SetSpecimenRefs solo toca los slots no-nil y todavía sin referencia.
	SetSpecimenRefs(ctx context.Context, id string, femaleID, maleID *string) error
	// DetachSpecimen revisa hembra y macho de forma independiente.
	DetachSpecimen(ctx context.Context, ownerUserID, specimenID string) (int64, error)
}
