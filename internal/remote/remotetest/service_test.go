package remotetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New(Options{JWTSecret: "secret", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return s
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newTestService(t)

	admin, err := s.Authenticate("ADMIN@shop.com", DefaultAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	u, err := s.Register("Ann", " Ann@Example.com ", "pw", "superuser")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, domain.RoleCustomer, u.Role)

	_, err = s.Register("Ann again", "ann@example.com", "pw", "")
	assert.ErrorIs(t, err, errEmailTaken)

	_, err = s.Authenticate("ann@example.com", "nope")
	assert.ErrorIs(t, err, errBadCredentials)
	_, err = s.Authenticate("ghost@example.com", "pw")
	assert.ErrorIs(t, err, errBadCredentials)
}

func TestPlaceOrder_AllOrNothing(t *testing.T) {
	s := newTestService(t)
	u, err := s.Register("Ann", "ann@example.com", "pw", domain.RoleCustomer)
	require.NoError(t, err)
	a := s.AddProduct(domain.ProductInput{Name: "A", Price: decimal.RequireFromString("10.00"), StockQuantity: 2})
	b := s.AddProduct(domain.ProductInput{Name: "B", Price: decimal.RequireFromString("0.10"), StockQuantity: 1})

	_, err = s.PlaceOrder(u, domain.OrderRequest{Items: []domain.OrderRequestItem{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: b.ID, Quantity: 2},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errInsufficientStock)
	got, _ := s.Product(a.ID)
	assert.Equal(t, 2, got.StockQuantity, "failed order leaves stock untouched")

	_, err = s.PlaceOrder(u, domain.OrderRequest{Items: []domain.OrderRequestItem{{ProductID: "missing", Quantity: 1}}})
	assert.ErrorIs(t, err, errProductNotFound)

	o, err := s.PlaceOrder(u, domain.OrderRequest{
		Items:           []domain.OrderRequestItem{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 1}},
		DeliveryAddress: "1 Road",
	})
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("20.10")))
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, u.Email, o.UserEmail)

	got, _ = s.Product(a.ID)
	assert.Equal(t, 0, got.StockQuantity)
}

func TestOrders_Visibility(t *testing.T) {
	s := newTestService(t)
	ann, _ := s.Register("Ann", "ann@example.com", "pw", "")
	bob, _ := s.Register("Bob", "bob@example.com", "pw", "")
	admin, _ := s.userByEmail(DefaultAdminEmail)
	p := s.AddProduct(domain.ProductInput{Name: "P", Price: decimal.NewFromInt(1), StockQuantity: 10})

	for _, u := range []domain.User{ann, bob, ann} {
		_, err := s.PlaceOrder(u, domain.OrderRequest{Items: []domain.OrderRequestItem{{ProductID: p.ID, Quantity: 1}}})
		require.NoError(t, err)
	}
	assert.Len(t, s.Orders(ann), 2)
	assert.Len(t, s.Orders(bob), 1)
	assert.Len(t, s.Orders(admin), 3)
}

func TestProducts_OrderedByCreation(t *testing.T) {
	s := newTestService(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	first := s.AddProduct(domain.ProductInput{Name: "first"})
	second := s.AddProduct(domain.ProductInput{Name: "second"})

	list := s.Products(domain.ProductFilter{})
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, defaultImageURL, list[0].ImageURL)
}

func TestToken_RoundTripAndExpiry(t *testing.T) {
	s := newTestService(t)
	now := time.Now().UTC()
	s.now = func() time.Time { return now }

	tok, err := s.issueToken("ann@example.com")
	require.NoError(t, err)
	sub, err := s.subject(tok)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", sub)

	now = now.Add(time.Hour)
	_, err = s.subject(tok)
	assert.True(t, errors.Is(err, errInvalidToken))
}

func TestCatalogWriter(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	w := Catalog(s)

	created, err := w.Create(ctx, domain.ProductInput{Name: "Mug", Price: decimal.NewFromInt(8), StockQuantity: 3})
	require.NoError(t, err)

	stock := 9
	updated, err := w.Update(ctx, created.ID, domain.ProductPatch{StockQuantity: &stock})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.StockQuantity)

	list, err := w.List(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = w.Update(ctx, "missing", domain.ProductPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
