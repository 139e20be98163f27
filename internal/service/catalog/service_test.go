package catalog

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	products   []domain.Product
	lastFilter domain.ProductFilter
	created    domain.ProductInput
	patched    domain.ProductPatch
	deleted    string
	writes     int
}

func (s *stubRemote) ListProducts(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	s.lastFilter = f
	return s.products, nil
}

func (s *stubRemote) GetProduct(_ context.Context, id string) (domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

func (s *stubRemote) CreateProduct(_ context.Context, in domain.ProductInput) (domain.Product, error) {
	s.writes++
	s.created = in
	return domain.Product{ID: "new", Name: in.Name, Price: in.Price}, nil
}

func (s *stubRemote) UpdateProduct(_ context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	s.writes++
	s.patched = patch
	return domain.Product{ID: id}, nil
}

func (s *stubRemote) DeleteProduct(_ context.Context, id string) error {
	s.writes++
	s.deleted = id
	return nil
}

type stubAuth struct {
	err error
}

func (a stubAuth) RequireAdmin() (domain.User, error) {
	if a.err != nil {
		return domain.User{}, a.err
	}
	return domain.User{ID: "admin", Email: "admin@shop.com", Role: domain.RoleAdmin}, nil
}

func TestList_TrimsSearchAndChecksRange(t *testing.T) {
	remote := &stubRemote{products: []domain.Product{{ID: "p1"}}}
	svc := New(remote, stubAuth{}, zerolog.Nop())

	got, err := svc.List(context.Background(), domain.ProductFilter{Search: "  lamp "})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "lamp", remote.lastFilter.Search)

	lo, hi := decimal.NewFromInt(50), decimal.NewFromInt(10)
	_, err = svc.List(context.Background(), domain.ProductFilter{MinPrice: &lo, MaxPrice: &hi})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGet(t *testing.T) {
	svc := New(&stubRemote{products: []domain.Product{{ID: "p1", Name: "Lamp"}}}, stubAuth{}, zerolog.Nop())

	p, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)

	_, err = svc.Get(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWrites_RequireAdmin(t *testing.T) {
	for _, authErr := range []error{domain.ErrUnauthenticated, domain.ErrForbidden} {
		remote := &stubRemote{}
		svc := New(remote, stubAuth{err: authErr}, zerolog.Nop())
		name := "x"

		_, err := svc.Create(context.Background(), domain.ProductInput{Name: "Lamp"})
		assert.ErrorIs(t, err, authErr)
		_, err = svc.Update(context.Background(), "p1", domain.ProductPatch{Name: &name})
		assert.ErrorIs(t, err, authErr)
		assert.ErrorIs(t, svc.Delete(context.Background(), "p1"), authErr)
		assert.Zero(t, remote.writes)
	}
}

func TestCreate_Validation(t *testing.T) {
	remote := &stubRemote{}
	svc := New(remote, stubAuth{}, zerolog.Nop())

	bad := []domain.ProductInput{
		{Name: "  ", Price: decimal.NewFromInt(1)},
		{Name: "Lamp", Price: decimal.NewFromInt(-1)},
		{Name: "Lamp", Price: decimal.NewFromInt(1), StockQuantity: -2},
	}
	for _, in := range bad {
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Zero(t, remote.writes)

	p, err := svc.Create(context.Background(), domain.ProductInput{Name: " Lamp ", Price: decimal.RequireFromString("39.99"), StockQuantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "new", p.ID)
	assert.Equal(t, "Lamp", remote.created.Name)
}

func TestUpdate_Validation(t *testing.T) {
	remote := &stubRemote{}
	svc := New(remote, stubAuth{}, zerolog.Nop())

	_, err := svc.Update(context.Background(), "p1", domain.ProductPatch{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	neg := -1
	_, err = svc.Update(context.Background(), "p1", domain.ProductPatch{StockQuantity: &neg})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, remote.writes)

	stock := 7
	_, err = svc.Update(context.Background(), "p1", domain.ProductPatch{StockQuantity: &stock})
	require.NoError(t, err)
	assert.Equal(t, 7, *remote.patched.StockQuantity)
}

func TestDelete(t *testing.T) {
	remote := &stubRemote{}
	svc := New(remote, stubAuth{}, zerolog.Nop())

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.Equal(t, "p1", remote.deleted)
}
