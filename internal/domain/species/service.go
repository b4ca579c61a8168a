package species

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"tarantula-log/internal/platform/logger"
	"tarantula-log/internal/ports/taxonomy"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	DefaultSiteURL = "https://wsc.nmbe.ch"
	lsidResolver   = "https://lsid.tdwg.org/lsid/"
)

var lsidSpeciesID = regexp.MustCompile(`spidersp:(\d+)`)

type Query struct {
	Name      string
	LSID      string
	SpeciesID string
}

type Links struct {
	SpeciesURL string
	SearchURL  string
	LSIDURL    string
}

type Info struct {
	Name  string
	LSID  string
	Links Links
	// Taxon es nil si el catálogo no está configurado o no lo conoce.
	Taxon taxonomy.Taxon
}

type Service struct {
	catalog taxonomy.Catalog
	siteURL string
	log     logger.Logger
}

func NewService(catalog taxonomy.Catalog, siteURL string, log logger.Logger) *Service {
	siteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		catalog: catalog,
		siteURL: siteURL,
		log:     log.With(map[string]any{"component": "species"}),
	}
}

// Lookup arma los links del catálogo y, si hay LSID y catálogo configurado, el taxón.
// Un error del catálogo no falla la consulta: se loguea y se devuelven solo los links.
func (s *Service) Lookup(ctx context.Context, q Query) (Info, error) {
	q.Name = strings.TrimSpace(q.Name)
	q.LSID = strings.TrimSpace(q.LSID)
	if q.Name == "" && q.LSID == "" {
		return Info{}, fmt.Errorf("%w: name or lsid required", ErrInvalidInput)
	}

	info := Info{
		Name:  q.Name,
		LSID:  q.LSID,
		Links: s.BuildLinks(q.Name, q.LSID, q.SpeciesID),
	}
	if q.LSID == "" || s.catalog == nil || !s.catalog.Configured() {
		return info, nil
	}

	taxon, found, err := s.catalog.TaxonByLSID(ctx, q.LSID)
	if err != nil {
		if ctx.Err() != nil {
			return Info{}, ctx.Err()
		}
		s.log.Warn("taxon lookup failed", map[string]any{"lsid": q.LSID, "error": err})
		return info, nil
	}
	if found {
		info.Taxon = taxon
	}
	return info, nil
}

// BuildLinks: página de la especie (por species id, si no por el número del LSID),
// búsqueda por nombre y resolver del LSID.
func (s *Service) BuildLinks(name, lsid, speciesID string) Links {
	var l Links

	if n, err := strconv.Atoi(strings.TrimSpace(speciesID)); err == nil && n > 0 {
		l.SpeciesURL = fmt.Sprintf("%s/species/%d", s.siteURL, n)
	}
	if l.SpeciesURL == "" && lsid != "" {
		if m := lsidSpeciesID.FindStringSubmatch(lsid); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				l.SpeciesURL = fmt.Sprintf("%s/species/%d", s.siteURL, n)
			}
		}
	}
	if name = strings.TrimSpace(name); name != "" {
		l.SearchURL = s.siteURL + "/search?q=" + url.QueryEscape(name)
	}
	if lsid != "" {
		l.LSIDURL = lsidResolver + url.PathEscape(lsid)
	}
	return l
}
