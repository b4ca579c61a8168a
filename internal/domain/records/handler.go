package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"tarantula-log/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Mudas y alimentaciones
	r.Route("/logs", func(lr chi.Router) {
		lr.Post("/", createMoltHandler(svc))
		lr.Get("/", listMoltsHandler(svc))
		lr.Get("/{entryID}", getMoltHandler(svc))
	})

	// Controles de salud
	r.Route("/health-logs", func(hr chi.Router) {
		hr.Post("/", createHealthHandler(svc))
		hr.Get("/", listHealthHandler(svc))
		hr.Get("/{entryID}", getHealthHandler(svc))
	})

	r.Route("/breeding", func(br chi.Router) {
		br.Post("/", createBreedingHandler(svc))
		br.Get("/", listBreedingHandler(svc))
		br.Get("/{entryID}", getBreedingHandler(svc))
	})
}

type createMoltRequest struct {
	SpecimenID     string         `json:"specimen_id"` // opcional; si falta se resuelve por nombre
	Specimen       string         `json:"specimen"`
	Species        string         `json:"species"`
	Date           string         `json:"date"` // RFC3339 o YYYY-MM-DD
	EntryType      EntryType      `json:"entry_type" enums:"molt,feeding"`
	Stage          Stage          `json:"stage" enums:"Pre-molt,Molt,Post-molt"`
	OldSize        *float64       `json:"old_size"`
	NewSize        *float64       `json:"new_size"`
	Humidity       *float64       `json:"humidity"`
	Temperature    *float64       `json:"temperature"`
	FeedingPrey    string         `json:"feeding_prey"`
	FeedingOutcome FeedingOutcome `json:"feeding_outcome" enums:"Offered,Ate,Refused,Not Observed"`
	FeedingAmount  string         `json:"feeding_amount"`
	ReminderDate   string         `json:"reminder_date"`
	Notes          string         `json:"notes"`
}

// MoltResponse es un registro de muda/alimentación devuelto por la API.
type MoltResponse struct {
	ID             string         `json:"id"`
	Specimen       string         `json:"specimen"`
	Species        string         `json:"species,omitempty"`
	SpecimenID     *string        `json:"specimen_id"`
	Date           time.Time      `json:"date"`
	EntryType      EntryType      `json:"entry_type"`
	Stage          Stage          `json:"stage,omitempty"`
	OldSize        *float64       `json:"old_size,omitempty"`
	NewSize        *float64       `json:"new_size,omitempty"`
	Humidity       *float64       `json:"humidity,omitempty"`
	Temperature    *float64       `json:"temperature,omitempty"`
	FeedingPrey    string         `json:"feeding_prey,omitempty"`
	FeedingOutcome FeedingOutcome `json:"feeding_outcome,omitempty"`
	FeedingAmount  string         `json:"feeding_amount,omitempty"`
	ReminderDate   *time.Time     `json:"reminder_date,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type createHealthRequest struct {
	SpecimenID   string    `json:"specimen_id"`
	Specimen     string    `json:"specimen"`
	Species      string    `json:"species"`
	Date         string    `json:"date"`
	Weight       *float64  `json:"weight"`
	WeightUnit   string    `json:"weight_unit" enums:"g,oz"`
	Condition    Condition `json:"condition" enums:"Stable,Observation,Critical"`
	Behavior     string    `json:"behavior"`
	HealthIssues string    `json:"health_issues"`
	Treatment    string    `json:"treatment"`
	FollowUpDate string    `json:"follow_up_date"`
	Notes        string    `json:"notes"`
}

type HealthResponse struct {
	ID           string     `json:"id"`
	Specimen     string     `json:"specimen"`
	Species      string     `json:"species,omitempty"`
	SpecimenID   *string    `json:"specimen_id"`
	Date         time.Time  `json:"date"`
	Weight       *float64   `json:"weight,omitempty"`
	WeightUnit   string     `json:"weight_unit"`
	Condition    Condition  `json:"condition"`
	Behavior     string     `json:"behavior,omitempty"`
	HealthIssues string     `json:"health_issues,omitempty"`
	Treatment    string     `json:"treatment,omitempty"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type createBreedingRequest struct {
	FemaleSpecimenID string         `json:"female_specimen_id"`
	FemaleSpecimen   string         `json:"female_specimen"`
	MaleSpecimenID   string         `json:"male_specimen_id"`
	MaleSpecimen     string         `json:"male_specimen"`
	Species          string         `json:"species"`
	PairingDate      string         `json:"pairing_date"`
	Status           BreedingStatus `json:"status" enums:"Planned,Attempted,Successful,Failed,Observation"`
	EggSacStatus     EggSacStatus   `json:"egg_sac_status" enums:"Not Laid,Laid,Pulled,Failed,Hatched"`
	EggSacDate       string         `json:"egg_sac_date"`
	EggSacCount      *int           `json:"egg_sac_count"`
	HatchDate        string         `json:"hatch_date"`
	SlingCount       *int           `json:"sling_count"`
	FollowUpDate     string         `json:"follow_up_date"`
	Notes            string         `json:"notes"`
}

type BreedingResponse struct {
	ID               string         `json:"id"`
	FemaleSpecimen   string         `json:"female_specimen,omitempty"`
	MaleSpecimen     string         `json:"male_specimen,omitempty"`
	Species          string         `json:"species,omitempty"`
	FemaleSpecimenID *string        `json:"female_specimen_id"`
	MaleSpecimenID   *string        `json:"male_specimen_id"`
	PairingDate      time.Time      `json:"pairing_date"`
	Status           BreedingStatus `json:"status"`
	EggSacStatus     EggSacStatus   `json:"egg_sac_status"`
	EggSacDate       *time.Time     `json:"egg_sac_date,omitempty"`
	EggSacCount      *int           `json:"egg_sac_count,omitempty"`
	HatchDate        *time.Time     `json:"hatch_date,omitempty"`
	SlingCount       *int           `json:"sling_count,omitempty"`
	FollowUpDate     *time.Time     `json:"follow_up_date,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// createMoltHandler godoc
// @Summary Registrar muda o alimentación
// @Description Si no viene specimen_id, el ejemplar se resuelve por (nombre, especie) y se crea en el primer uso.
// @Tags logs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param Authorization header string false "Bearer token"
// @Param payload body createMoltRequest true "Registro"
// @Success 201 {object} MoltResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /logs [post]
func createMoltHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req createMoltRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		date, err := parseDate(req.Date)
		if err != nil || date == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be RFC3339 or YYYY-MM-DD", Field: "date"})
			return
		}
		reminder, err := parseDate(req.ReminderDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be RFC3339 or YYYY-MM-DD", Field: "reminder_date"})
			return
		}

		e, err := svc.CreateMolt(r.Context(), owner, CreateMoltInput{
			SpecimenID:     req.SpecimenID,
			Specimen:       req.Specimen,
			Species:        req.Species,
			Date:           *date,
			EntryType:      req.EntryType,
			Stage:          req.Stage,
			OldSize:        req.OldSize,
			NewSize:        req.NewSize,
			Humidity:       req.Humidity,
			Temperature:    req.Temperature,
			FeedingPrey:    req.FeedingPrey,
			FeedingOutcome: req.FeedingOutcome,
			FeedingAmount:  req.FeedingAmount,
			ReminderDate:   reminder,
			Notes:          req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToMoltResponse(e))
	}
}

// listMoltsHandler godoc
// @Summary Listar mudas y alimentaciones del owner
// @Tags logs
// @Produce json
// @Success 200 {array} MoltResponse
// @Failure 401 {object} errorResponse
// @Router /logs [get]
func listMoltsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		items, err := svc.ListMolts(r.Context(), owner)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]MoltResponse, 0, len(items))
		for _, e := range items {
			out = append(out, ToMoltResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getMoltHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := entryIDParam(w, r)
		if !ok {
			return
		}

		e, err := svc.GetMolt(r.Context(), owner, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToMoltResponse(e))
	}
}

// createHealthHandler godoc
// @Summary Registrar control de salud
// @Tags health-logs
// @Accept json
// @Produce json
// @Param payload body createHealthRequest true "Control"
// @Success 201 {object} HealthResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /health-logs [post]
func createHealthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req createHealthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		date, err := parseDate(req.Date)
		if err != nil || date == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be RFC3339 or YYYY-MM-DD", Field: "date"})
			return
		}
		followUp, err := parseDate(req.FollowUpDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be RFC3339 or YYYY-MM-DD", Field: "follow_up_date"})
			return
		}

		e, err := svc.CreateHealth(r.Context(), owner, CreateHealthInput{
			SpecimenID:   req.SpecimenID,
			Specimen:     req.Specimen,
			Species:      req.Species,
			Date:         *date,
			Weight:       req.Weight,
			WeightUnit:   req.WeightUnit,
			Condition:    req.Condition,
			Behavior:     req.Behavior,
			HealthIssues: req.HealthIssues,
			Treatment:    req.Treatment,
			FollowUpDate: followUp,
			Notes:        req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToHealthResponse(e))
	}
}

func listHealthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		items, err := svc.ListHealth(r.Context(), owner)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]HealthResponse, 0, len(items))
		for _, e := range items {
			out = append(out, ToHealthResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHealthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := entryIDParam(w, r)
		if !ok {
			return
		}

		e, err := svc.GetHealth(r.Context(), owner, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToHealthResponse(e))
	}
}

// createBreedingHandler godoc
// @Summary Registrar apareamiento
// @Description Hembra y macho se resuelven por separado; la especie aplica a ambos.
// @Tags breeding
// @Accept json
// @Produce json
// @Param payload body createBreedingRequest true "Apareamiento"
// @Success 201 {object} BreedingResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /breeding [post]
func createBreedingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req createBreedingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		pairing, err := parseDate(req.PairingDate)
		if err != nil || pairing == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be RFC3339 or YYYY-MM-DD", Field: "pairing_date"})
			return
		}

		optional := map[string]*time.Time{}
		for field, raw := range map[string]string{
			"egg_sac_date":   req.EggSacDate,
			"hatch_date":     req.HatchDate,
			"follow_up_date": req.FollowUpDate,
		} {
			t, err := parseDate(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be RFC3339 or YYYY-MM-DD", Field: field})
				return
			}
			optional[field] = t
		}

		e, err := svc.CreateBreeding(r.Context(), owner, CreateBreedingInput{
			FemaleSpecimenID: req.FemaleSpecimenID,
			FemaleSpecimen:   req.FemaleSpecimen,
			MaleSpecimenID:   req.MaleSpecimenID,
			MaleSpecimen:     req.MaleSpecimen,
			Species:          req.Species,
			PairingDate:      *pairing,
			Status:           req.Status,
			EggSacStatus:     req.EggSacStatus,
			EggSacDate:       optional["egg_sac_date"],
			EggSacCount:      req.EggSacCount,
			HatchDate:        optional["hatch_date"],
			SlingCount:       req.SlingCount,
			FollowUpDate:     optional["follow_up_date"],
			Notes:            req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToBreedingResponse(e))
	}
}

func listBreedingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		items, err := svc.ListBreeding(r.Context(), owner)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]BreedingResponse, 0, len(items))
		for _, e := range items {
			out = append(out, ToBreedingResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getBreedingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := entryIDParam(w, r)
		if !ok {
			return
		}

		e, err := svc.GetBreeding(r.Context(), owner, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToBreedingResponse(e))
	}
}

// ToMoltResponse también lo usa la vista compartida de specimens.
func ToMoltResponse(e MoltEntry) MoltResponse {
	return MoltResponse{
		ID:             e.ID,
		Specimen:       e.Specimen,
		Species:        e.Species,
		SpecimenID:     e.SpecimenRef.Ptr(),
		Date:           e.Date,
		EntryType:      e.EntryType,
		Stage:          e.Stage,
		OldSize:        e.OldSize,
		NewSize:        e.NewSize,
		Humidity:       e.Humidity,
		Temperature:    e.Temperature,
		FeedingPrey:    e.FeedingPrey,
		FeedingOutcome: e.FeedingOutcome,
		FeedingAmount:  e.FeedingAmount,
		ReminderDate:   e.ReminderDate,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToHealthResponse(e HealthEntry) HealthResponse {
	return HealthResponse{
		ID:           e.ID,
		Specimen:     e.Specimen,
		Species:      e.Species,
		SpecimenID:   e.SpecimenRef.Ptr(),
		Date:         e.Date,
		Weight:       e.Weight,
		WeightUnit:   e.WeightUnit,
		Condition:    e.Condition,
		Behavior:     e.Behavior,
		HealthIssues: e.HealthIssues,
		Treatment:    e.Treatment,
		FollowUpDate: e.FollowUpDate,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToBreedingResponse(e BreedingEntry) BreedingResponse {
	return BreedingResponse{
		ID:               e.ID,
		FemaleSpecimen:   e.FemaleSpecimen,
		MaleSpecimen:     e.MaleSpecimen,
		Species:          e.Species,
		FemaleSpecimenID: e.FemaleRef.Ptr(),
		MaleSpecimenID:   e.MaleRef.Ptr(),
		PairingDate:      e.PairingDate,
		Status:           e.Status,
		EggSacStatus:     e.EggSacStatus,
		EggSacDate:       e.EggSacDate,
		EggSacCount:      e.EggSacCount,
		HatchDate:        e.HatchDate,
		SlingCount:       e.SlingCount,
		FollowUpDate:     e.FollowUpDate,
		Notes:            e.Notes,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
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

func entryIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "entryID")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid entry id"})
		return "", false
	}
	return id, true
}

// parseDate acepta RFC3339 o YYYY-MM-DD. Vacío => nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Reason, Field: ve.Field})
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "record not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// writeJSON: cada módulo tiene su copia.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
