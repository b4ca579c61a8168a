package wsc

import (
	"context"
	"errors"
	"strings"
	"time"

	"tarantula-log/internal/ports/taxonomy"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultCacheTTL         = 6 * time.Hour
	DefaultNegativeCacheTTL = 30 * time.Minute
)

// miss marca una entrada negativa en el cache.
type miss struct{}

// Catalog implementa taxonomy.Catalog sobre Client con cache positivo y negativo.
type Catalog struct {
	client      *Client
	cache       *cache.Cache
	negativeTTL time.Duration
}

var _ taxonomy.Catalog = (*Catalog)(nil)

func NewCatalog(client *Client, ttl, negativeTTL time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if negativeTTL <= 0 {
		negativeTTL = DefaultNegativeCacheTTL
	}
	return &Catalog{
		client:      client,
		cache:       cache.New(ttl, ttl*2),
		negativeTTL: negativeTTL,
	}
}

func (c *Catalog) Configured() bool {
	return c != nil && c.client.IsConfigured()
}

// TaxonByLSID: sin API key devuelve (nil, false, nil) sin llamar al catálogo.
// Las respuestas vacías y los errores de upstream se cachean como negativos;
// un 401/403 no se cachea.
func (c *Catalog) TaxonByLSID(ctx context.Context, lsid string) (taxonomy.Taxon, bool, error) {
	lsid = strings.TrimSpace(lsid)
	if lsid == "" || !c.Configured() {
		return nil, false, nil
	}

	if v, ok := c.cache.Get(lsid); ok {
		if t, ok := v.(taxonomy.Taxon); ok {
			return t, true, nil
		}
		return nil, false, nil
	}

	t, err := c.client.FetchTaxon(ctx, lsid)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) || ctx.Err() != nil {
			return nil, false, err
		}
		c.cache.Set(lsid, miss{}, c.negativeTTL)
		return nil, false, err
	}
	if t == nil {
		c.cache.Set(lsid, miss{}, c.negativeTTL)
		return nil, false, nil
	}

	c.cache.Set(lsid, t, cache.DefaultExpiration)
	return t, true, nil
}
