package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tarantula-log/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/analytics/molts", moltAnalyticsHandler(svc))
}

type intervalsResponse struct {
	AverageDays *int  `json:"average_days"`
	LastDays    *int  `json:"last_days"`
	Intervals   []int `json:"intervals"`
}

type specimenAnalyticsResponse struct {
	Specimen    string            `json:"specimen"`
	Species     string            `json:"species,omitempty"`
	SpecimenID  *string           `json:"specimen_id"`
	LastMoltAt  time.Time         `json:"last_molt_at"`
	Intervals   intervalsResponse `json:"molt_intervals"`
	YearlyMolts map[string]int    `json:"yearly_molts"`
}

// @Summary Molt interval analytics
// @Tags analytics
// @Produce json
// @Success 200 {array} specimenAnalyticsResponse
// @Router /analytics/molts [get]
func moltAnalyticsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := middleware.OwnerID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.Molts(r.Context(), owner)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]specimenAnalyticsResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toResponse(a))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func toResponse(a SpecimenAnalytics) specimenAnalyticsResponse {
	var id *string
	if a.SpecimenID != "" {
		v := a.SpecimenID
		id = &v
	}
	yearly := make(map[string]int, len(a.YearlyMolts))
	for y, n := range a.YearlyMolts {
		yearly[strconv.Itoa(y)] = n
	}
	return specimenAnalyticsResponse{
		Specimen:   a.Specimen,
		Species:    a.Species,
		SpecimenID: id,
		LastMoltAt: a.LastMoltAt,
		Intervals: intervalsResponse{
			AverageDays: a.Intervals.AverageDays,
			LastDays:    a.Intervals.LastDays,
			Intervals:   a.Intervals.Intervals,
		},
		YearlyMolts: yearly,
	}
}
