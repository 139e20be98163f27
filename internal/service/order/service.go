// Package order covers order history and the admin status workflow.
package order

import (
	"context"
	"strings"

	"storefront/internal/domain"

	"github.com/rs/zerolog"
)

type Remote interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
}

type Authorizer interface {
	RequireUser() (domain.User, error)
	RequireAdmin() (domain.User, error)
}

// Renderer turns an order into a printable document.
type Renderer interface {
	Render(order domain.Order) ([]byte, error)
}

type Service struct {
	remote   Remote
	auth     Authorizer
	receipts Renderer
	logger   zerolog.Logger
}

func New(remote Remote, auth Authorizer, receipts Renderer, logger zerolog.Logger) *Service {
	return &Service{remote: remote, auth: auth, receipts: receipts, logger: logger}
}

// List returns the caller's orders. Admins see every order.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	if _, err := s.auth.RequireUser(); err != nil {
		return nil, err
	}
	return s.remote.ListOrders(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	if _, err := s.auth.RequireUser(); err != nil {
		return domain.Order{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Order{}, domain.ErrNotFound
	}
	return s.remote.GetOrder(ctx, id)
}

// UpdateStatus moves an order to pending, shipped or delivered. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (domain.Order, error) {
	admin, err := s.auth.RequireAdmin()
	if err != nil {
		return domain.Order{}, err
	}
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := s.remote.UpdateOrderStatus(ctx, id, st)
	if err != nil {
		return domain.Order{}, err
	}
	s.logger.Info().Str("order_id", o.ID).Str("status", string(o.Status)).Str("admin_id", admin.ID).Msg("order status updated")
	return o, nil
}

// Receipt renders the order as a PDF.
func (s *Service) Receipt(ctx context.Context, id string) ([]byte, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.receipts.Render(o)
}
