package seed

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// Catalog is the admin catalog the seed writes through.
type Catalog interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (domain.Product, error)
}

type productSeed struct {
	Name        string
	Description string
	Price       string
	Stock       int
	ImageURL    string
}

var products = []productSeed{
	{
		Name:        "Wireless Headphones",
		Description: "High-quality wireless headphones with noise cancellation",
		Price:       "99.99",
		Stock:       50,
		ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500&h=500&fit=crop",
	},
	{
		Name:        "Smart Watch",
		Description: "Advanced smartwatch with fitness tracking and notifications",
		Price:       "199.99",
		Stock:       30,
		ImageURL:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500&h=500&fit=crop",
	},
	{
		Name:        "Laptop Stand",
		Description: "Ergonomic laptop stand for better posture and productivity",
		Price:       "29.99",
		Stock:       100,
		ImageURL:    "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=500&h=500&fit=crop",
	},
	{
		Name:        "Coffee Maker",
		Description: "Automatic coffee maker with programmable timer",
		Price:       "79.99",
		Stock:       25,
		ImageURL:    "https://images.unsplash.com/photo-1510707577719-ae7c14805e3a?w=500&h=500&fit=crop",
	},
	{
		Name:        "Desk Lamp",
		Description: "LED desk lamp with adjustable brightness and color temperature",
		Price:       "39.99",
		Stock:       75,
		ImageURL:    "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=500&h=500&fit=crop",
	},
}

// Apply creates the sample catalog for manual testing. Products that already exist
// by name are left alone, so running it twice is harmless. It returns how many were created.
func Apply(ctx context.Context, catalog Catalog) (int, error) {
	existing, err := catalog.List(ctx, domain.ProductFilter{})
	if err != nil {
		return 0, fmt.Errorf("list catalog: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[strings.ToLower(p.Name)] = true
	}

	created := 0
	for _, p := range products {
		if have[strings.ToLower(p.Name)] {
			continue
		}
		_, err := catalog.Create(ctx, domain.ProductInput{
			Name:          p.Name,
			Description:   p.Description,
			Price:         decimal.RequireFromString(p.Price),
			StockQuantity: p.Stock,
			ImageURL:      p.ImageURL,
		})
		if err != nil {
			return created, fmt.Errorf("create product %s: %w", p.Name, err)
		}
		created++
	}
	return created, nil
}
