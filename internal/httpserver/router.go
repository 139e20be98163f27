package httpserver

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	sessionsvc "storefront/internal/service/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionService is the Auth Session Machine as seen by the UI.
type SessionService interface {
	State() sessionsvc.State
	ExpiresAt() (time.Time, bool)
	Logout(ctx context.Context)
}

type CredentialService interface {
	SignIn(ctx context.Context, email, password string) (domain.User, error)
	SignUp(ctx context.Context, in sessionsvc.SignUpInput) (domain.User, error)
	Refresh(ctx context.Context) (domain.User, error)
}

type CartService interface {
	State() domain.CartState
	AddToCart(productID string, quantity int) domain.CartState
	UpdateQuantity(productID string, quantity int) domain.CartState
	RemoveFromCart(productID string) domain.CartState
	ClearCart() domain.CartState
}

type CheckoutService interface {
	Checkout(ctx context.Context, address string) (domain.Order, error)
}

type CatalogService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type OrderService interface {
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (domain.Order, error)
	Receipt(ctx context.Context, id string) ([]byte, error)
}

// Deps groups what the handlers dispatch into.
type Deps struct {
	Sessions    SessionService
	Credentials CredentialService
	Cart        CartService
	Checkout    CheckoutService
	Catalog     CatalogService
	Orders      OrderService
	// ReadyProbes are checked by /readyz, keyed by a short name for the failure reason.
	ReadyProbes map[string]func(ctx context.Context) error
}

func (d Deps) validate() error {
	switch {
	case d.Sessions == nil, d.Credentials == nil:
		return errors.New("httpserver: session services required")
	case d.Cart == nil, d.Checkout == nil:
		return errors.New("httpserver: cart services required")
	case d.Catalog == nil, d.Orders == nil:
		return errors.New("httpserver: catalog and order services required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	router := gin.New()
	router.Use(requestLogger(logger), instrument(), gin.Recovery(), cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.ReadyProbes))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := &handlers{deps: deps, logger: logger}

	router.GET("/session", h.getSession)
	router.POST("/session/login", h.login)
	router.POST("/session/register", h.register)
	router.POST("/session/refresh", h.refresh)
	router.POST("/session/logout", h.logout)

	router.GET("/cart", h.getCart)
	router.GET("/cart/summary", h.cartSummary)
	router.POST("/cart/items", h.addCartItem)
	router.PUT("/cart/items/:productId", h.updateCartItem)
	router.DELETE("/cart/items/:productId", h.removeCartItem)
	router.DELETE("/cart", h.clearCart)
	router.POST("/checkout", h.checkout)

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.POST("/products", h.createProduct)
	router.PUT("/products/:id", h.updateProduct)
	router.DELETE("/products/:id", h.deleteProduct)

	router.GET("/orders", h.listOrders)
	router.GET("/orders/:id", h.getOrder)
	router.PUT("/orders/:id/status", h.updateOrderStatus)
	router.GET("/orders/:id/receipt", h.orderReceipt)

	return router, nil
}

// corsConfig allows only the listed origins; requests from any other origin are refused
// with 403 before reaching a handler. "*" must be listed explicitly to allow every origin,
// and an empty list refuses every cross-origin request.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

type handlers struct {
	deps   Deps
	logger zerolog.Logger
}
