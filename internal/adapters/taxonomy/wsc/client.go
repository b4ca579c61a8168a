package wsc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tarantula-log/internal/platform/httpclient"
	"tarantula-log/internal/ports/taxonomy"
)

var (
	ErrNotConfigured = errors.New("wsc client not configured")
	ErrUnauthorized  = errors.New("wsc unauthorized")
	ErrUpstream      = errors.New("wsc upstream error")
)

const DefaultBaseURL = "https://wsc.nmbe.ch"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client habla con la API del World Spider Catalog.
type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}, nil
}

// HTTP expone el cliente subyacente (tests con httpmock).
func (c *Client) HTTP() *http.Client {
	return c.http.HTTP
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

type lsidResponse struct {
	Taxon      taxonomy.Taxon `json:"taxon"`
	ValidTaxon taxonomy.Taxon `json:"validTaxon"`
}

// FetchTaxon trae el taxón de un LSID. Devuelve taxon o validTaxon; nil si la respuesta no trae ninguno.
// 404 no es error.
func (c *Client) FetchTaxon(ctx context.Context, lsid string) (taxonomy.Taxon, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	lsid = strings.TrimSpace(lsid)
	if lsid == "" {
		return nil, errors.New("lsid required")
	}

	var out lsidResponse
	err := c.http.GetJSON(ctx, "/api/lsid/"+url.PathEscape(lsid), url.Values{"apiKey": {c.apiKey}}, &out)
	switch status := httpclient.StatusCode(err); {
	case err == nil:
	case status == http.StatusNotFound:
		return nil, nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(out.Taxon) > 0 {
		return out.Taxon, nil
	}
	if len(out.ValidTaxon) > 0 {
		return out.ValidTaxon, nil
	}
	return nil, nil
}
