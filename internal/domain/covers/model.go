package covers

import "time"

// Cover es la portada heredada: (owner, key) -> imagen.
// Key históricamente es el nombre libre del ejemplar.
type Cover struct {
	OwnerUserID string
	Key         string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
