package order

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	orders     []domain.Order
	lastStatus domain.OrderStatus
	calls      int
}

func (s *stubRemote) ListOrders(context.Context) ([]domain.Order, error) {
	s.calls++
	return s.orders, nil
}

func (s *stubRemote) GetOrder(_ context.Context, id string) (domain.Order, error) {
	s.calls++
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, domain.ErrNotFound
}

func (s *stubRemote) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	s.calls++
	s.lastStatus = status
	return domain.Order{ID: id, Status: status}, nil
}

type stubAuth struct {
	user domain.User
}

func (a stubAuth) RequireUser() (domain.User, error) {
	if !a.user.Valid() {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return a.user, nil
}

func (a stubAuth) RequireAdmin() (domain.User, error) {
	u, err := a.RequireUser()
	if err != nil {
		return u, err
	}
	if !u.Role.IsAdmin() {
		return domain.User{}, domain.ErrForbidden
	}
	return u, nil
}

type stubRenderer struct {
	rendered string
	err      error
}

func (r *stubRenderer) Render(o domain.Order) ([]byte, error) {
	r.rendered = o.ID
	return []byte("%PDF-stub"), r.err
}

var (
	customer = domain.User{ID: "u1", Email: "c@example.com", Role: domain.RoleCustomer}
	admin    = domain.User{ID: "a1", Email: "admin@shop.com", Role: domain.RoleAdmin}
)

func TestList_RequiresSession(t *testing.T) {
	remote := &stubRemote{orders: []domain.Order{{ID: "o1"}}}

	_, err := New(remote, stubAuth{}, &stubRenderer{}, zerolog.Nop()).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, remote.calls)

	got, err := New(remote, stubAuth{user: customer}, &stubRenderer{}, zerolog.Nop()).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpdateStatus(t *testing.T) {
	remote := &stubRemote{}

	_, err := New(remote, stubAuth{user: customer}, nil, zerolog.Nop()).UpdateStatus(context.Background(), "o1", "shipped")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	svc := New(remote, stubAuth{user: admin}, nil, zerolog.Nop())
	_, err = svc.UpdateStatus(context.Background(), "o1", "cancelled")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, remote.calls)

	o, err := svc.UpdateStatus(context.Background(), "o1", "Delivered")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDelivered, o.Status)
	assert.Equal(t, domain.OrderDelivered, remote.lastStatus)
}

func TestReceipt(t *testing.T) {
	remote := &stubRemote{orders: []domain.Order{{ID: "o1"}}}
	renderer := &stubRenderer{}
	svc := New(remote, stubAuth{user: customer}, renderer, zerolog.Nop())

	pdf, err := svc.Receipt(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", renderer.rendered)
	assert.NotEmpty(t, pdf)

	_, err = svc.Receipt(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	renderer.err = errors.New("font missing")
	_, err = svc.Receipt(context.Background(), "o1")
	assert.Error(t, err)
}
