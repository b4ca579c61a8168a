package species

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tarantula-log/internal/ports/taxonomy"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	configured bool
	taxon      taxonomy.Taxon
	err        error
	calls      int
}

func (f *fakeCatalog) Configured() bool { return f.configured }

func (f *fakeCatalog) TaxonByLSID(ctx context.Context, lsid string) (taxonomy.Taxon, bool, error) {
	f.calls++
	if f.err != nil {
		return nil, false, f.err
	}
	return f.taxon, f.taxon != nil, nil
}

const lsid = "urn:lsid:nmbe.ch:spidersp:021383"

func TestBuildLinks(t *testing.T) {
	svc := NewService(nil, "", nil)

	l := svc.BuildLinks("Grammostola rosea", lsid, "")
	assert.Equal(t, "https://wsc.nmbe.ch/species/21383", l.SpeciesURL)
	assert.Equal(t, "https://wsc.nmbe.ch/search?q=Grammostola+rosea", l.SearchURL)
	assert.Equal(t, "https://lsid.tdwg.org/lsid/urn:lsid:nmbe.ch:spidersp:021383", l.LSIDURL)

	// species id tiene prioridad sobre el LSID
	l = svc.BuildLinks("", lsid, "777")
	assert.Equal(t, "https://wsc.nmbe.ch/species/777", l.SpeciesURL)
	assert.Empty(t, l.SearchURL)

	l = svc.BuildLinks("Avicularia", "", "abc")
	assert.Empty(t, l.SpeciesURL)
	assert.Empty(t, l.LSIDURL)
}

func TestLookup_WithTaxon(t *testing.T) {
	cat := &fakeCatalog{configured: true, taxon: taxonomy.Taxon{"genus": "Grammostola"}}
	svc := NewService(cat, "", nil)

	info, err := svc.Lookup(context.Background(), Query{LSID: lsid, Name: "Grammostola rosea"})
	require.NoError(t, err)
	assert.Equal(t, "Grammostola", info.Taxon["genus"])
	assert.Equal(t, 1, cat.calls)
}

func TestLookup_LinksOnlyWithoutAPIKey(t *testing.T) {
	cat := &fakeCatalog{configured: false}
	svc := NewService(cat, "", nil)

	info, err := svc.Lookup(context.Background(), Query{LSID: lsid})
	require.NoError(t, err)
	assert.Nil(t, info.Taxon)
	assert.NotEmpty(t, info.Links.SpeciesURL)
	assert.Zero(t, cat.calls)
}

func TestLookup_CatalogErrorDegradesToLinks(t *testing.T) {
	cat := &fakeCatalog{configured: true, err: errors.New("boom")}
	svc := NewService(cat, "", nil)

	info, err := svc.Lookup(context.Background(), Query{LSID: lsid})
	require.NoError(t, err)
	assert.Nil(t, info.Taxon)
	assert.NotEmpty(t, info.Links.LSIDURL)
}

func TestLookup_RequiresNameOrLSID(t *testing.T) {
	_, err := NewService(nil, "", nil).Lookup(context.Background(), Query{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaxonHandler(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, NewService(&fakeCatalog{configured: true, taxon: taxonomy.Taxon{"species": "rosea"}}, "", nil))

	req := httptest.NewRequest(http.MethodGet, "/species/taxon?lsid="+lsid+"&name=Grammostola+rosea", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Links struct {
			SpeciesURL string `json:"wsc_url"`
		} `json:"links"`
		WSCTaxon map[string]any `json:"wsc_taxon"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "https://wsc.nmbe.ch/species/21383", body.Links.SpeciesURL)
	assert.Equal(t, "rosea", body.WSCTaxon["species"])

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/species/taxon", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
