package specimens

import (
	"context"
	"errors"
	"strings"

	"tarantula-log/internal/domain/identity"

	"github.com/google/uuid"
)

// Owns y EnsureID implementan records.SpecimenResolver.

func (s *Service) Owns(ctx context.Context, ownerUserID, specimenID string) (bool, error) {
	_, err := s.st.Specimens.GetByID(ctx, ownerUserID, specimenID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureID resuelve un ejemplar por identidad y lo crea en el primer uso,
// con la portada heredada del nombre si existe.
func (s *Service) EnsureID(ctx context.Context, ownerUserID, name, species string) (string, error) {
	key, ok := identity.New(ownerUserID, name, species)
	if !ok {
		return "", &ValidationError{Field: "name", Reason: "required"}
	}

	now := s.now()
	sp := Specimen{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        key.Name,
		Species:     key.Species,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c, err := s.st.Covers.Get(ctx, ownerUserID, key.Name); err == nil {
		sp.ImageURL = strings.TrimSpace(c.ImageURL)
	}

	got, created, err := s.st.Specimens.EnsureByIdentity(ctx, sp)
	if err != nil {
		return "", err
	}
	if created {
		s.log.Info("specimen created on first use", map[string]any{
			"owner_user_id": ownerUserID,
			"specimen_id":   got.ID,
			"name":          got.Name,
		})
	}
	return got.ID, nil
}
