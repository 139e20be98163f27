package remotetest

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const userCtxKey = "remotetest.user"

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler returns the HTTP API mounted under /api.
func (s *Service) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.GET("/auth/me", s.requireUser, s.handleMe)

	api.GET("/products", s.handleListProducts)
	api.GET("/products/:id", s.handleGetProduct)
	api.POST("/products", s.requireUser, requireAdmin, s.handleCreateProduct)
	api.PUT("/products/:id", s.requireUser, requireAdmin, s.handleUpdateProduct)
	api.DELETE("/products/:id", s.requireUser, requireAdmin, s.handleDeleteProduct)

	api.POST("/orders", s.requireUser, s.handleCreateOrder)
	api.GET("/orders", s.requireUser, s.handleListOrders)
	api.GET("/orders/:id", s.requireUser, s.handleGetOrder)
	api.PUT("/orders/:id/status", s.requireUser, requireAdmin, s.handleUpdateOrderStatus)

	return router
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func (s *Service) requireUser(c *gin.Context) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		c.Header("WWW-Authenticate", "Bearer")
		detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	email, err := s.subject(strings.TrimSpace(raw[len("bearer "):]))
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		detail(c, http.StatusUnauthorized, errInvalidToken.Error())
		return
	}
	user, ok := s.userByEmail(email)
	if !ok {
		detail(c, http.StatusUnauthorized, errInvalidToken.Error())
		return
	}
	c.Set(userCtxKey, user)
	c.Next()
}

func requireAdmin(c *gin.Context) {
	if !currentUser(c).Role.IsAdmin() {
		detail(c, http.StatusForbidden, "Not enough permissions")
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) domain.User {
	u, _ := c.Get(userCtxKey)
	user, _ := u.(domain.User)
	return user
}

func (s *Service) respondWithToken(c *gin.Context, user domain.User) {
	tok, err := s.issueToken(user.Email)
	if err != nil {
		detail(c, http.StatusInternalServerError, "token issue failed")
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: tok, TokenType: "bearer", User: user})
}

func (s *Service) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	user, err := s.Register(req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			detail(c, http.StatusBadRequest, err.Error())
			return
		}
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondWithToken(c, user)
}

func (s *Service) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	user, err := s.Authenticate(req.Email, req.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		detail(c, http.StatusUnauthorized, err.Error())
		return
	}
	s.respondWithToken(c, user)
}

func (s *Service) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Service) handleListProducts(c *gin.Context) {
	filter := domain.ProductFilter{Search: c.Query("search")}
	for param, dst := range map[string]**decimal.Decimal{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			detail(c, http.StatusUnprocessableEntity, "invalid "+param)
			return
		}
		*dst = &v
	}
	c.JSON(http.StatusOK, s.Products(filter))
}

func (s *Service) handleGetProduct(c *gin.Context) {
	p, ok := s.Product(c.Param("id"))
	if !ok {
		detail(c, http.StatusNotFound, errProductNotFound.Error())
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Service) handleCreateProduct(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		detail(c, http.StatusUnprocessableEntity, "name required")
		return
	}
	c.JSON(http.StatusOK, s.AddProduct(in))
}

func (s *Service) handleUpdateProduct(c *gin.Context) {
	var patch domain.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if patch.Empty() {
		detail(c, http.StatusBadRequest, "No update data provided")
		return
	}
	p, err := s.updateProduct(c.Param("id"), patch)
	if err != nil {
		detail(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Service) handleDeleteProduct(c *gin.Context) {
	if err := s.deleteProduct(c.Param("id")); err != nil {
		detail(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (s *Service) handleCreateOrder(c *gin.Context) {
	var req domain.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	order, err := s.PlaceOrder(currentUser(c), req)
	switch {
	case errors.Is(err, errInsufficientStock):
		detail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, errProductNotFound):
		detail(c, http.StatusNotFound, err.Error())
	case err != nil:
		detail(c, http.StatusInternalServerError, err.Error())
	default:
		c.JSON(http.StatusOK, order)
	}
}

func (s *Service) handleListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.Orders(currentUser(c)))
}

func (s *Service) handleGetOrder(c *gin.Context) {
	user := currentUser(c)
	o, ok := s.order(c.Param("id"))
	if !ok {
		detail(c, http.StatusNotFound, errOrderNotFound.Error())
		return
	}
	if !user.Role.IsAdmin() && o.UserID != user.ID {
		detail(c, http.StatusForbidden, "Not authorized to view this order")
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Service) handleUpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		detail(c, http.StatusBadRequest, "Invalid status")
		return
	}
	o, err := s.setOrderStatus(c.Param("id"), status)
	if err != nil {
		detail(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, o)
}
