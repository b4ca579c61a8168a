package specimens

import (
	"time"

	"tarantula-log/internal/domain/identity"
)

// Sex define el sexo del ejemplar.
// @Enum Male, Female, Unknown, Unsexed
type Sex string

const (
	SexMale    Sex = "Male"
	SexFemale  Sex = "Female"
	SexUnknown Sex = "Unknown"
	SexUnsexed Sex = "Unsexed"
)

func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexUnknown, SexUnsexed:
		return true
	}
	return false
}

// Specimen es la entidad canónica de un ejemplar.
// Su identidad es (owner, nombre, especie); ver identity.Key.
type Specimen struct {
	ID          string
	OwnerUserID string

	Name    string
	Species string // opcional
	Sex     Sex    // vacío = sin dato

	ImageURL string
	Notes    string

	Archived       bool
	ArchivedAt     *time.Time
	ArchivedReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Specimen) Key() identity.Key {
	k, _ := identity.New(s.OwnerUserID, s.Name, s.Species)
	return k
}
