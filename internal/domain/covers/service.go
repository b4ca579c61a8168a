package covers

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	maxKeyLen = 160
	maxURLLen = 2048
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Set guarda la portada de key; imageURL vacío la elimina.
// Devuelve (cover, true) si quedó guardada y (Cover{}, false) si se eliminó.
func (s *Service) Set(ctx context.Context, ownerUserID, key, imageURL string) (Cover, bool, error) {
	key = strings.TrimSpace(key)
	imageURL = strings.TrimSpace(imageURL)
	if strings.TrimSpace(ownerUserID) == "" || key == "" || utf8.RuneCountInString(key) > maxKeyLen {
		return Cover{}, false, ErrInvalidInput
	}

	if imageURL == "" {
		if err := s.repo.Delete(ctx, ownerUserID, key); err != nil && !errors.Is(err, ErrNotFound) {
			return Cover{}, false, err
		}
		return Cover{}, false, nil
	}

	if len(imageURL) > maxURLLen {
		return Cover{}, false, ErrInvalidInput
	}
	if _, err := url.ParseRequestURI(imageURL); err != nil {
		return Cover{}, false, ErrInvalidInput
	}

	now := s.now()
	c := Cover{
		OwnerUserID: ownerUserID,
		Key:         key,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Upsert(ctx, c); err != nil {
		return Cover{}, false, err
	}
	return c, true, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Cover, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// ByKey indexa las portadas de un owner por key exacta.
func ByKey(items []Cover) map[string]string {
	out := make(map[string]string, len(items))
	for _, c := range items {
		out[c.Key] = c.ImageURL
	}
	return out
}
