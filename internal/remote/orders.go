package remote

import (
	"context"
	"net/http"

	"storefront/internal/domain"

	"github.com/go-resty/resty/v2"
)

// CreateOrder submits an order. It is never retried.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, "create_order", http.MethodPost, "/orders", func(r *resty.Request) {
		r.SetBody(req)
	}, &out)
	return out, err
}

// ListOrders returns the caller's orders; admins receive every order.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, "list_orders", http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, "get_order", http.MethodGet, "/orders/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id)
	}, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, "update_order_status", http.MethodPut, "/orders/{id}/status", func(r *resty.Request) {
		r.SetPathParam("id", id).SetBody(map[string]string{"status": string(status)})
	}, &out)
	return out, err
}
