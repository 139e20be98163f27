package remote

import (
	"context"
	"net/http"

	"storefront/internal/domain"

	"github.com/go-resty/resty/v2"
)

func (c *Client) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, "list_products", http.MethodGet, "/products", func(r *resty.Request) {
		if filter.Search != "" {
			r.SetQueryParam("search", filter.Search)
		}
		if filter.MinPrice != nil {
			r.SetQueryParam("min_price", filter.MinPrice.String())
		}
		if filter.MaxPrice != nil {
			r.SetQueryParam("max_price", filter.MaxPrice.String())
		}
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, "get_product", http.MethodGet, "/products/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id)
	}, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, "create_product", http.MethodPost, "/products", func(r *resty.Request) {
		r.SetBody(in)
	}, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, "update_product", http.MethodPut, "/products/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id).SetBody(patch)
	}, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, "delete_product", http.MethodDelete, "/products/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id)
	}, nil)
}
