package taxonomy

import "context"

// Taxon es el documento crudo del catálogo; se devuelve tal cual al cliente.
type Taxon map[string]any

// Catalog resuelve un taxón por LSID.
// found=false sin error: el catálogo no lo conoce o no está configurado.
type Catalog interface {
	Configured() bool
	TaxonByLSID(ctx context.Context, lsid string) (taxon Taxon, found bool, err error)
}
