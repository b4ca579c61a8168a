package specimens

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tarantula-log/internal/domain/records"
	"tarantula-log/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/specimens", func(sr chi.Router) {
		sr.Post("/", createSpecimenHandler(svc))
		sr.Get("/", listSpecimensHandler(svc))

		// Copia entre owners (explícita, la pide quien recibe)
		sr.Post("/copy", copySpecimenHandler(svc))

		sr.Get("/{specimenID}", getSpecimenHandler(svc))
		sr.Patch("/{specimenID}", updateSpecimenHandler(svc))
		sr.Delete("/{specimenID}", deleteSpecimenHandler(svc))
	})

	// Vista pública de solo lectura
	r.Get("/shared/specimens", sharedSpecimenHandler(svc))
}

type createSpecimenRequest struct {
	Name     string `json:"name"`
	Species  string `json:"species"`
	Sex      string `json:"sex" enums:"Male,Female,Unknown,Unsexed"`
	ImageURL string `json:"image_url"`
	Notes    string `json:"notes"`
}

// updateSpecimenRequest documenta el PATCH. Los campos ausentes no se tocan;
// null limpia species, sex, image_url, notes y archived_reason.
type updateSpecimenRequest struct {
	Name           *string `json:"name"`
	Species        *string `json:"species"`
	Sex            *string `json:"sex"`
	ImageURL       *string `json:"image_url"`
	Notes          *string `json:"notes"`
	Archived       *bool   `json:"archived"`
	ArchivedReason *string `json:"archived_reason"`
}

type specimenResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Species        string     `json:"species,omitempty"`
	Sex            Sex        `json:"sex,omitempty"`
	ImageURL       string     `json:"image_url,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Archived       bool       `json:"archived"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	ArchivedReason string     `json:"archived_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type deleteSpecimenResponse struct {
	Deleted  bool             `json:"deleted"`
	Detached detachedResponse `json:"detached"`
}

type detachedResponse struct {
	Molt     int64 `json:"molt"`
	Health   int64 `json:"health"`
	Breeding int64 `json:"breeding"`
}

type copySpecimenRequest struct {
	Specimen string `json:"specimen"`
	OwnerID  string `json:"owner_id"` // owner de origen
}

type copySpecimenResponse struct {
	Copied copiedResponse `json:"copied"`
}

type copiedResponse struct {
	Molt     int  `json:"molt"`
	Health   int  `json:"health"`
	Breeding int  `json:"breeding"`
	Cover    bool `json:"cover"`
}

type sharedSpecimenResponse struct {
	Entries  []records.MoltResponse     `json:"entries"`
	Health   []records.HealthResponse   `json:"health"`
	Breeding []records.BreedingResponse `json:"breeding"`
	Cover    *string                    `json:"cover"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// createSpecimenHandler godoc
// @Summary Crear ejemplar
// @Description Crea un ejemplar. La identidad (nombre, especie) es única por owner.
// @Tags specimens
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createSpecimenRequest true "Datos del ejemplar"
// @Success 201 {object} specimenResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /specimens [post]
func createSpecimenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req createSpecimenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		sp, err := svc.Create(r.Context(), owner, CreateInput{
			Name:     req.Name,
			Species:  req.Species,
			Sex:      req.Sex,
			ImageURL: req.ImageURL,
			Notes:    req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSpecimenResponse(sp))
	}
}

// listSpecimensHandler godoc
// @Summary Listar ejemplares
// @Description Sin imagen propia se devuelve la portada heredada del nombre.
// @Tags specimens
// @Produce json
// @Param include_archived query bool false "Incluir archivados"
// @Success 200 {array} specimenResponse
// @Failure 401 {object} errorResponse
// @Router /specimens [get]
func listSpecimensHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		includeArchived := false
		if v := strings.TrimSpace(r.URL.Query().Get("include_archived")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be a boolean", Field: "include_archived"})
				return
			}
			includeArchived = b
		}

		items, err := svc.List(r.Context(), owner, includeArchived)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]specimenResponse, 0, len(items))
		for _, sp := range items {
			out = append(out, toSpecimenResponse(sp))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getSpecimenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := specimenIDParam(w, r)
		if !ok {
			return
		}

		sp, err := svc.Get(r.Context(), owner, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSpecimenResponse(sp))
	}
}

// updateSpecimenHandler godoc
// @Summary Actualizar ejemplar (PATCH)
// @Description Solo se tocan los campos presentes. archived=true archiva (fecha + motivo opcional); archived=false limpia los tres campos.
// @Tags specimens
// @Accept json
// @Produce json
// @Param specimenID path string true "ID del ejemplar"
// @Param payload body updateSpecimenRequest true "Campos a modificar"
// @Success 200 {object} specimenResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /specimens/{specimenID} [patch]
func updateSpecimenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := specimenIDParam(w, r)
		if !ok {
			return
		}

		// Decodificamos a map para distinguir "ausente" de "null".
		dec := json.NewDecoder(r.Body)
		var raw map[string]json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		var in UpdateInput
		for field, v := range raw {
			switch field {
			case "name":
				s, isNull, err := decodeString(v)
				if err != nil || isNull {
					writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be a string", Field: field})
					return
				}
				in.Name = &s
			case "archived":
				var b bool
				if err := json.Unmarshal(v, &b); err != nil || string(v) == "null" {
					writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be a boolean", Field: field})
					return
				}
				in.Archived = &b
			case "species", "sex", "image_url", "notes", "archived_reason":
				s, isNull, err := decodeString(v)
				if err != nil {
					writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be a string or null", Field: field})
					return
				}
				opt := OptionalString{Present: true}
				if !isNull {
					opt.Value = &s
				}
				switch field {
				case "species":
					in.Species = opt
				case "sex":
					in.Sex = opt
				case "image_url":
					in.ImageURL = opt
				case "notes":
					in.Notes = opt
				case "archived_reason":
					in.ArchivedReason = opt
				}
			default:
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown field", Field: field})
				return
			}
		}

		updated, err := svc.Update(r.Context(), owner, id, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSpecimenResponse(updated))
	}
}

// deleteSpecimenHandler godoc
// @Summary Eliminar ejemplar
// @Description Desvincula los registros de muda, salud y cría (conservan el nombre) y luego elimina el ejemplar.
// @Tags specimens
// @Produce json
// @Param specimenID path string true "ID del ejemplar"
// @Success 200 {object} deleteSpecimenResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /specimens/{specimenID} [delete]
func deleteSpecimenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := specimenIDParam(w, r)
		if !ok {
			return
		}

		res, err := svc.Delete(r.Context(), owner, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, deleteSpecimenResponse{
			Deleted: true,
			Detached: detachedResponse{
				Molt:     res.Molt,
				Health:   res.Health,
				Breeding: res.Breeding,
			},
		})
	}
}

// copySpecimenHandler godoc
// @Summary Copiar historial de un ejemplar de otro owner
// @Description Clona los registros cuyo nombre coincide (sin distinguir mayúsculas) y la portada, bajo el usuario autenticado.
// @Tags specimens
// @Accept json
// @Produce json
// @Param payload body copySpecimenRequest true "Ejemplar y owner de origen"
// @Success 200 {object} copySpecimenResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /specimens/copy [post]
func copySpecimenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req copySpecimenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		res, err := svc.Copy(r.Context(), CopyInput{
			SourceOwnerID:     req.OwnerID,
			Specimen:          req.Specimen,
			RequestingOwnerID: owner,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, copySpecimenResponse{Copied: copiedResponse{
			Molt:     res.Molt,
			Health:   res.Health,
			Breeding: res.Breeding,
			Cover:    res.Cover,
		}})
	}
}

// sharedSpecimenHandler godoc
// @Summary Vista compartida de un ejemplar
// @Description Pública y de solo lectura. Registros del owner cuyo nombre coincide, más recientes primero.
// @Tags shared
// @Produce json
// @Param owner query string true "Owner"
// @Param specimen query string true "Nombre del ejemplar"
// @Success 200 {object} sharedSpecimenResponse
// @Failure 400 {object} errorResponse
// @Router /shared/specimens [get]
func sharedSpecimenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		owner := strings.TrimSpace(q.Get("owner"))
		name := strings.TrimSpace(q.Get("specimen"))
		if owner == "" || name == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing specimen or owner"})
			return
		}

		v, err := svc.Shared(r.Context(), owner, name)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := sharedSpecimenResponse{
			Entries:  make([]records.MoltResponse, 0, len(v.Molts)),
			Health:   make([]records.HealthResponse, 0, len(v.Health)),
			Breeding: make([]records.BreedingResponse, 0, len(v.Breeding)),
		}
		for _, e := range v.Molts {
			out.Entries = append(out.Entries, records.ToMoltResponse(e))
		}
		for _, e := range v.Health {
			out.Health = append(out.Health, records.ToHealthResponse(e))
		}
		for _, e := range v.Breeding {
			out.Breeding = append(out.Breeding, records.ToBreedingResponse(e))
		}
		if v.Cover != nil {
			url := v.Cover.ImageURL
			out.Cover = &url
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toSpecimenResponse(sp Specimen) specimenResponse {
	return specimenResponse{
		ID:             sp.ID,
		Name:           sp.Name,
		Species:        sp.Species,
		Sex:            sp.Sex,
		ImageURL:       sp.ImageURL,
		Notes:          sp.Notes,
		Archived:       sp.Archived,
		ArchivedAt:     sp.ArchivedAt,
		ArchivedReason: sp.ArchivedReason,
		CreatedAt:      sp.CreatedAt,
		UpdatedAt:      sp.UpdatedAt,
	}
}

func ownerFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return "", false
	}
	return owner, true
}

func specimenIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "specimenID")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid specimen id"})
		return "", false
	}
	return id, true
}

// decodeString devuelve (valor, esNull, error).
func decodeString(v json.RawMessage) (string, bool, error) {
	if string(v) == "null" {
		return "", true, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false, err
	}
	return s, false, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Reason, Field: ve.Field})
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "specimen not found"})
	case errors.Is(err, ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "specimen with this name and species already exists"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
