package covers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tarantula-log/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/covers", func(cr chi.Router) {
		cr.Post("/", setCoverHandler(svc))
		cr.Get("/", listCoversHandler(svc))
	})
}

type setCoverRequest struct {
	Key      string `json:"key"`
	ImageURL string `json:"image_url"` // vacío => elimina
}

type coverResponse struct {
	Key       string    `json:"key"`
	ImageURL  string    `json:"image_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// setCoverHandler godoc
// @Summary Guardar o eliminar portada heredada
// @Description Portadas por nombre libre; se usan como imagen por defecto de los ejemplares. image_url vacío elimina la portada.
// @Tags covers
// @Accept json
// @Produce json
// @Param payload body setCoverRequest true "Portada"
// @Success 200 {object} coverResponse
// @Success 204 "eliminada"
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /covers [post]
func setCoverHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := middleware.OwnerID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req setCoverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, saved, err := svc.Set(r.Context(), owner, req.Key, req.ImageURL)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !saved {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, coverResponse{Key: c.Key, ImageURL: c.ImageURL, UpdatedAt: c.UpdatedAt})
	}
}

func listCoversHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := middleware.OwnerID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), owner)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]coverResponse, 0, len(items))
		for _, c := range items {
			out = append(out, coverResponse{Key: c.Key, ImageURL: c.ImageURL, UpdatedAt: c.UpdatedAt})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
