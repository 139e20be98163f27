// Package catalog exposes the remote product catalog, with admin-only writes checked
// against the current session before anything is sent.
package catalog

import (
	"context"
	"strings"

	"storefront/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Remote interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Authorizer reports the current user's standing.
type Authorizer interface {
	RequireAdmin() (domain.User, error)
}

type Service struct {
	remote Remote
	auth   Authorizer
	logger zerolog.Logger
}

func New(remote Remote, auth Authorizer, logger zerolog.Logger) *Service {
	return &Service{remote: remote, auth: auth, logger: logger}
}

// List passes the filter through; matching is the remote service's business.
func (s *Service) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, domain.NewValidationError("min_price", "greater than max_price")
	}
	return s.remote.ListProducts(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, domain.ErrNotFound
	}
	return s.remote.GetProduct(ctx, id)
}

// GetProduct lets the catalog price carts.
func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	admin, err := s.auth.RequireAdmin()
	if err != nil {
		return domain.Product{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return domain.Product{}, err
	}
	p, err := s.remote.CreateProduct(ctx, in)
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.Info().Str("product_id", p.ID).Str("admin_id", admin.ID).Msg("product created")
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	if _, err := s.auth.RequireAdmin(); err != nil {
		return domain.Product{}, err
	}
	if patch.Empty() {
		return domain.Product{}, domain.NewValidationError("product", "no update data provided")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Product{}, domain.NewValidationError("name", "required")
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return domain.Product{}, domain.NewValidationError("price", "must not be negative")
	}
	if patch.StockQuantity != nil && *patch.StockQuantity < 0 {
		return domain.Product{}, domain.NewValidationError("stock_quantity", "must not be negative")
	}
	return s.remote.UpdateProduct(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	admin, err := s.auth.RequireAdmin()
	if err != nil {
		return err
	}
	if err := s.remote.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Str("admin_id", admin.ID).Msg("product deleted")
	return nil
}

func validateInput(in domain.ProductInput) error {
	switch {
	case in.Name == "":
		return domain.NewValidationError("name", "required")
	case in.Price.LessThan(decimal.Zero):
		return domain.NewValidationError("price", "must not be negative")
	case in.StockQuantity < 0:
		return domain.NewValidationError("stock_quantity", "must not be negative")
	}
	return nil
}
