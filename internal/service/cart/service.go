// Package cart is the in-memory Cart Machine. Nothing here is persisted; a cart lives
// exactly as long as the process.
package cart

import (
	"sync"

	"storefront/internal/domain"

	"github.com/rs/zerolog"
)

// Service owns the live CartState. Each operation swaps in a fresh immutable value
// under the lock, so readers never observe a half-applied change.
type Service struct {
	logger zerolog.Logger

	mu          sync.Mutex
	state       domain.CartState
	checkingOut bool
}

func New(logger zerolog.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AddToCart merges quantity into the line for productID. Quantities below 1 are ignored.
// Stock ceilings are the caller's concern.
func (s *Service) AddToCart(productID string, quantity int) domain.CartState {
	return s.apply(func(st domain.CartState) domain.CartState {
		return st.WithAdded(productID, quantity)
	})
}

// UpdateQuantity sets the quantity of an existing line. Unknown products and quantities
// below 1 leave the cart unchanged; call RemoveFromCart to drop a line.
func (s *Service) UpdateQuantity(productID string, quantity int) domain.CartState {
	return s.apply(func(st domain.CartState) domain.CartState {
		return st.WithQuantity(productID, quantity)
	})
}

func (s *Service) RemoveFromCart(productID string) domain.CartState {
	return s.apply(func(st domain.CartState) domain.CartState {
		return st.WithRemoved(productID)
	})
}

func (s *Service) ClearCart() domain.CartState {
	return s.apply(func(domain.CartState) domain.CartState {
		return domain.CartState{}
	})
}

// BeginCheckout snapshots the cart for submission and marks a checkout as running.
// Only one checkout may run at a time. The cart stays editable meanwhile.
func (s *Service) BeginCheckout() (domain.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkingOut {
		return domain.CartState{}, domain.NewValidationError("cart", "checkout already in progress")
	}
	s.checkingOut = true
	return s.state, nil
}

// EndCheckout releases the checkout mark. When the order was recorded, exactly the
// submitted quantities are taken out of the cart; lines added or increased while the
// order was in flight survive.
func (s *Service) EndCheckout(submitted domain.CartState, recorded bool) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkingOut = false
	if recorded {
		s.state = s.state.Without(submitted)
		if !s.state.IsEmpty() {
			s.logger.Debug().Int("lines", s.state.Len()).Msg("cart changed during checkout; kept unsubmitted lines")
		}
	}
	return s.state
}

func (s *Service) apply(fn func(domain.CartState) domain.CartState) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}
