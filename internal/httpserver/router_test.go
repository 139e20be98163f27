package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	sessionsvc "storefront/internal/service/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type stubCredentials struct {
	sessions *sessionsvc.Service
	user     domain.User
	err      error
}

func (s *stubCredentials) SignIn(ctx context.Context, _, _ string) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	s.sessions.Login(ctx, s.user, "tok")
	return s.user, nil
}

func (s *stubCredentials) SignUp(ctx context.Context, in sessionsvc.SignUpInput) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	u := domain.User{ID: "new", Name: in.Name, Email: in.Email, Role: domain.RoleCustomer}
	s.sessions.Login(ctx, u, "tok")
	return u, nil
}

func (s *stubCredentials) Refresh(context.Context) (domain.User, error) {
	return s.user, s.err
}

type stubCatalog struct {
	products map[string]domain.Product
	err      error
	filter   domain.ProductFilter
}

func (s *stubCatalog) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	s.filter = f
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Product
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubCatalog) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.GetProduct(ctx, id)
}

func (s *stubCatalog) GetProduct(_ context.Context, id string) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubCatalog) Create(context.Context, domain.ProductInput) (domain.Product, error) {
	return domain.Product{}, domain.ErrForbidden
}

func (s *stubCatalog) Update(context.Context, string, domain.ProductPatch) (domain.Product, error) {
	return domain.Product{}, domain.NewValidationError("product", "no update data provided")
}

func (s *stubCatalog) Delete(context.Context, string) error {
	return domain.ErrUnauthenticated
}

type stubOrders struct {
	submitted []domain.OrderRequest
	err       error
}

func (s *stubOrders) CreateOrder(_ context.Context, req domain.OrderRequest) (domain.Order, error) {
	s.submitted = append(s.submitted, req)
	if s.err != nil {
		return domain.Order{}, s.err
	}
	return domain.Order{ID: "o1", Status: domain.OrderPending, DeliveryAddress: req.DeliveryAddress}, nil
}

func (s *stubOrders) List(context.Context) ([]domain.Order, error) { return nil, nil }

func (s *stubOrders) Get(_ context.Context, id string) (domain.Order, error) {
	if id != "o1" {
		return domain.Order{}, domain.ErrNotFound
	}
	return domain.Order{ID: id}, nil
}

func (s *stubOrders) UpdateStatus(context.Context, string, string) (domain.Order, error) {
	return domain.Order{}, domain.ErrForbidden
}

func (s *stubOrders) Receipt(_ context.Context, id string) ([]byte, error) {
	if id != "o1" {
		return nil, domain.ErrNotFound
	}
	return []byte("%PDF-1.3"), nil
}

type fixture struct {
	router   *gin.Engine
	sessions *sessionsvc.Service
	cart     *cartsvc.Service
	creds    *stubCredentials
	catalog  *stubCatalog
	orders   *stubOrders
}

const uiOrigin = "http://localhost:3000"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithOrigins(t, []string{uiOrigin})
}

func newFixtureWithOrigins(t *testing.T, origins []string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()
	repo := sessionrepo.New(sessionrepo.NewMemoryBackend(), logger)
	sessions := sessionsvc.New(context.Background(), repo, logger)
	cart := cartsvc.New(logger)
	orders := &stubOrders{}
	f := &fixture{
		sessions: sessions,
		cart:     cart,
		creds:    &stubCredentials{sessions: sessions, user: domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleCustomer}},
		catalog: &stubCatalog{products: map[string]domain.Product{
			"p1": {ID: "p1", Name: "Headphones", Price: decimal.RequireFromString("99.99"), StockQuantity: 5},
		}},
		orders: orders,
	}
	router, err := buildRouter(logger, Deps{
		Sessions:    sessions,
		Credentials: f.creds,
		Cart:        cart,
		Checkout:    checkoutsvc.New(cart, orders, time.Second, logger),
		Catalog:     f.catalog,
		Orders:      orders,
	}, origins)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	f.router = router
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	return f.doFrom("", method, path, body)
}

func (f *fixture) doFrom(origin, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestBuildRouter_RequiresDeps(t *testing.T) {
	if _, err := buildRouter(zerolog.Nop(), Deps{}, nil); err == nil {
		t.Fatalf("expected error for missing deps")
	}
}

func TestHealthAndReady(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/readyz", readyHandler(map[string]func(context.Context) error{
		"session store": func(context.Context) error { return errors.New("down") },
	}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "session store not reachable") {
		t.Fatalf("expected 503, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestSessionFlow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/session", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"isAuthenticated":false`) {
		t.Fatalf("unexpected body: %d %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/session/login", `{"email":"alice@example.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"alice@example.com"`) || strings.Contains(rec.Body.String(), "tok") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/session/logout", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if f.sessions.IsAuthenticated() {
		t.Fatalf("expected logged out")
	}
}

func TestCORS_OnlyConfiguredOrigins(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(http.MethodPost, "/session/login", `{"email":"alice@example.com","password":"pw"}`); rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}

	rec := f.doFrom("https://evil.example", http.MethodGet, "/session", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign origin: expected 403, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin got Access-Control-Allow-Origin %q", got)
	}
	if strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Fatalf("session leaked to foreign origin: %s", rec.Body.String())
	}

	f.cart.AddToCart("p1", 1)
	rec = f.doFrom("https://evil.example", http.MethodPost, "/checkout", `{"deliveryAddress":"123 Main St"}`)
	if rec.Code != http.StatusForbidden || len(f.orders.submitted) != 0 {
		t.Fatalf("foreign checkout: expected 403 and no order, got %d and %d orders", rec.Code, len(f.orders.submitted))
	}

	rec = f.doFrom(uiOrigin, http.MethodGet, "/session", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ui origin: expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != uiOrigin {
		t.Fatalf("ui origin: expected Access-Control-Allow-Origin %q, got %q", uiOrigin, got)
	}
}

func TestCORS_EmptyListRefusesCrossOrigin(t *testing.T) {
	f := newFixtureWithOrigins(t, nil)

	if rec := f.doFrom(uiOrigin, http.MethodGet, "/session", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/session", ""); rec.Code != http.StatusOK {
		t.Fatalf("same-origin request: expected 200, got %d", rec.Code)
	}
}

func TestCORS_WildcardIsOptIn(t *testing.T) {
	f := newFixtureWithOrigins(t, []string{"*"})
	rec := f.doFrom("https://anywhere.example", http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected 200 with wildcard origin, got %d %q", rec.Code, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestLogin_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/session/login", `{"email":"alice@example.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	f.creds.err = &domain.AuthError{Reason: "Incorrect email or password"}
	rec = f.do(http.MethodPost, "/session/login", `{"email":"alice@example.com","password":"bad"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "auth_failed" || body.Message != "Incorrect email or password" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestRegister_Created(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/session/register", `{"name":"Bo","email":"bo@example.com","password":"pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"isAuthenticated":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCartEndpoints(t *testing.T) {
	f := newFixture(t)

	f.do(http.MethodPost, "/cart/items", `{"productId":"p1","quantity":2}`)
	rec := f.do(http.MethodPost, "/cart/items", `{"productId":"p1","quantity":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"quantity":5`) {
		t.Fatalf("expected merged quantity, got %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/cart/items", `{"productId":"p1","quantity":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = f.do(http.MethodGet, "/cart/summary", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total":499.95`) {
		t.Fatalf("unexpected summary: %d %s", rec.Code, rec.Body.String())
	}

	f.do(http.MethodPut, "/cart/items/p1", `{"quantity":1}`)
	if line, _ := f.cart.State().Line("p1"); line.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", line.Quantity)
	}

	rec = f.do(http.MethodPut, "/cart/items/p1", `{"quantity":0}`)
	if rec.Code != http.StatusOK || !f.cart.State().IsEmpty() {
		t.Fatalf("zero quantity should remove the line: %d %s", rec.Code, rec.Body.String())
	}

	f.do(http.MethodPost, "/cart/items", `{"productId":"p1"}`)
	rec = f.do(http.MethodDelete, "/cart", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("unexpected clear response: %s", rec.Body.String())
	}
}

func TestCheckoutEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/checkout", `{"deliveryAddress":"123 Main St"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty cart: expected 400, got %d", rec.Code)
	}
	if len(f.orders.submitted) != 0 {
		t.Fatalf("no order should be submitted")
	}

	f.cart.AddToCart("p1", 2)
	f.orders.err = domain.ErrRemoteUnavailable
	rec = f.do(http.MethodPost, "/checkout", `{"deliveryAddress":"123 Main St"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", rec.Code, rec.Body.String())
	}
	if f.cart.State().IsEmpty() {
		t.Fatalf("cart must survive a failed checkout")
	}

	f.orders.err = nil
	rec = f.do(http.MethodPost, "/checkout", `{"deliveryAddress":"123 Main St"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !f.cart.State().IsEmpty() {
		t.Fatalf("cart should be empty after checkout")
	}
}

func TestProductEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/products?search=head&min_price=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if f.catalog.filter.Search != "head" || f.catalog.filter.MinPrice == nil || f.catalog.filter.MaxPrice != nil {
		t.Fatalf("unexpected filter: %+v", f.catalog.filter)
	}

	if rec := f.do(http.MethodGet, "/products?max_price=abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/products/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/products", `{"name":"Lamp","price":1}`); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPut, "/products/p1", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/products/p1", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	f.catalog.err = domain.ErrRemoteUnavailable
	if rec := f.do(http.MethodGet, "/products", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestOrderEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/orders", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("unexpected list: %d %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(http.MethodPut, "/orders/o1/status", `{"status":"shipped"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPut, "/orders/o1/status", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = f.do(http.MethodGet, "/orders/o1/receipt", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected receipt response: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if rec := f.do(http.MethodGet, "/orders/o2/receipt", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("x", "y"), http.StatusBadRequest},
		{&domain.AuthError{}, http.StatusUnauthorized},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{&domain.CheckoutError{Reason: "timeout"}, http.StatusGatewayTimeout},
		{&domain.CheckoutError{Reason: "x", Err: domain.NewValidationError("a", "b")}, http.StatusBadGateway},
		{domain.ErrRemoteUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
