package memory

import (
	"context"
	"errors"

	"github.com/randomchill-vibes/findthestate/internal/domain"
)

// ChainLoader asks each loader in turn until one knows the catalog.
type ChainLoader struct {
	loaders []CatalogLoader
}

func NewChainLoader(loaders ...CatalogLoader) *ChainLoader {
	return &ChainLoader{loaders: loaders}
}

func (c *ChainLoader) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	for _, loader := range c.loaders {
		catalog, err := loader.LoadCatalog(ctx, catalogID)
		if errors.Is(err, domain.ErrCatalogNotFound) {
			continue
		}
		return catalog, err
	}
	return domain.Catalog{}, domain.ErrCatalogNotFound
}
