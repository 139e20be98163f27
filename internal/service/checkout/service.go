// Package checkout turns the cart into a remote order.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/remote"

	"github.com/rs/zerolog"
)

const defaultTimeout = 15 * time.Second

// OrderSubmitter records an order remotely.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
}

// Cart is the slice of the Cart Machine checkout needs.
type Cart interface {
	BeginCheckout() (domain.CartState, error)
	EndCheckout(submitted domain.CartState, recorded bool) domain.CartState
}

type Service struct {
	cart    Cart
	orders  OrderSubmitter
	timeout time.Duration
	logger  zerolog.Logger
}

func New(cart Cart, orders OrderSubmitter, timeout time.Duration, logger zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{cart: cart, orders: orders, timeout: timeout, logger: logger}
}

// Checkout submits the current cart for delivery to address.
//
// The order is submitted first and the cart is cleared only after the remote service
// confirms it, so a failed submission never loses cart contents. Precondition failures
// return a *domain.ValidationError without contacting the remote service; submission
// failures return a *domain.CheckoutError. Submissions are never retried.
func (s *Service) Checkout(ctx context.Context, address string) (domain.Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		metrics.CheckoutsTotal.WithLabelValues("invalid").Inc()
		return domain.Order{}, domain.NewValidationError("deliveryAddress", "required")
	}

	snapshot, err := s.cart.BeginCheckout()
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("invalid").Inc()
		return domain.Order{}, err
	}
	if snapshot.IsEmpty() {
		s.cart.EndCheckout(snapshot, false)
		metrics.CheckoutsTotal.WithLabelValues("invalid").Inc()
		return domain.Order{}, domain.NewValidationError("cart", "cart is empty")
	}

	// Caller cancellation is ignored; only the checkout timeout bounds the submission.
	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	order, err := s.orders.CreateOrder(submitCtx, snapshot.OrderRequest(address))
	if err != nil {
		s.cart.EndCheckout(snapshot, false)
		cerr := checkoutError(submitCtx, err)
		metrics.CheckoutsTotal.WithLabelValues(outcome(cerr)).Inc()
		s.logger.Warn().Err(err).Str("reason", cerr.Reason).Dur("elapsed", time.Since(start)).Msg("checkout failed")
		return domain.Order{}, cerr
	}

	remaining := s.cart.EndCheckout(snapshot, true)
	metrics.CheckoutsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("order_id", order.ID).
		Int("lines", snapshot.Len()).
		Int("remaining_lines", remaining.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("order placed")
	return order, nil
}

func checkoutError(ctx context.Context, err error) *domain.CheckoutError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &domain.CheckoutError{Reason: "timeout", Err: err}
	}
	reason := err.Error()
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		reason = apiErr.Detail
	}
	return &domain.CheckoutError{Reason: reason, Err: err}
}

func outcome(err *domain.CheckoutError) string {
	switch {
	case err.Reason == "timeout":
		return "timeout"
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return "unavailable"
	default:
		return "rejected"
	}
}
