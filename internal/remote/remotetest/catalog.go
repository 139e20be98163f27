package remotetest

import (
	"context"

	"storefront/internal/domain"
)

// CatalogWriter adapts the service to the seed and importer catalog contracts,
// bypassing HTTP and auth.
type CatalogWriter struct {
	svc *Service
}

func Catalog(svc *Service) CatalogWriter {
	return CatalogWriter{svc: svc}
}

func (c CatalogWriter) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return c.svc.Products(filter), nil
}

func (c CatalogWriter) Create(_ context.Context, in domain.ProductInput) (domain.Product, error) {
	return c.svc.AddProduct(in), nil
}

func (c CatalogWriter) Update(_ context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	p, err := c.svc.updateProduct(id, patch)
	if err != nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}
