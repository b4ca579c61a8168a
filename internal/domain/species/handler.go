package species

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/species/taxon", taxonHandler(svc))
}

type linksResponse struct {
	SpeciesURL string `json:"wsc_url,omitempty"`
	SearchURL  string `json:"wsc_search_url,omitempty"`
	LSIDURL    string `json:"lsid_url,omitempty"`
}

type taxonResponse struct {
	Name     string         `json:"name,omitempty"`
	LSID     string         `json:"lsid,omitempty"`
	Links    linksResponse  `json:"links"`
	WSCTaxon map[string]any `json:"wsc_taxon"`
}

// @Summary Species taxonomy lookup (World Spider Catalog)
// @Tags species
// @Produce json
// @Param lsid query string false "WSC LSID"
// @Param name query string false "Species full name"
// @Param species_id query int false "WSC species id"
// @Success 200 {object} taxonResponse
// @Failure 400 {string} string
// @Router /species/taxon [get]
func taxonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		info, err := svc.Lookup(r.Context(), Query{
			Name:      q.Get("name"),
			LSID:      q.Get("lsid"),
			SpeciesID: q.Get("species_id"),
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(taxonResponse{
			Name: info.Name,
			LSID: info.LSID,
			Links: linksResponse{
				SpeciesURL: info.Links.SpeciesURL,
				SearchURL:  info.Links.SearchURL,
				LSIDURL:    info.Links.LSIDURL,
			},
			WSCTaxon: info.Taxon,
		})
	}
}
