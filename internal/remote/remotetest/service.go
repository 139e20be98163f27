// Package remotetest is an in-memory implementation of the catalog/order service
// contract. It backs the remote client tests and cmd/devserver.
package remotetest

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultAdminEmail    = "admin@shop.com"
	DefaultAdminPassword = "admin123"
	defaultImageURL      = "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=500&h=500&fit=crop"
)

var (
	errEmailTaken        = errors.New("Email already registered")
	errBadCredentials    = errors.New("Incorrect email or password")
	errProductNotFound   = errors.New("Product not found")
	errOrderNotFound     = errors.New("Order not found")
	errInsufficientStock = errors.New("insufficient stock")
)

// Options configures a Service.
type Options struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	// SkipDefaultAdmin leaves the user table empty.
	SkipDefaultAdmin bool
}

type account struct {
	user         domain.User
	passwordHash []byte
}

// Service holds users, products and orders in memory.
type Service struct {
	mu       sync.Mutex
	opts     Options
	accounts map[string]*account // by lower-cased email
	products map[string]domain.Product
	orders   []domain.Order
	now      func() time.Time
}

func New(opts Options) (*Service, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("jwt secret required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * time.Minute
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	s := &Service{
		opts:     opts,
		accounts: make(map[string]*account),
		products: make(map[string]domain.Product),
		now:      func() time.Time { return time.Now().UTC() },
	}
	if !opts.SkipDefaultAdmin {
		if _, err := s.Register("Default Admin", DefaultAdminEmail, DefaultAdminPassword, domain.RoleAdmin); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register creates a user. Unknown roles default to customer.
func (s *Service) Register(name, email, password string, role domain.Role) (domain.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return domain.User{}, err
	}
	if !role.IsAdmin() {
		role = domain.RoleCustomer
	} else {
		role = domain.RoleAdmin
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[key]; exists {
		return domain.User{}, errEmailTaken
	}
	u := domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     key,
		Role:      role,
		CreatedAt: s.now(),
	}
	s.accounts[key] = &account{user: u, passwordHash: hash}
	return u, nil
}

// Authenticate checks a password and returns the matching user.
func (s *Service) Authenticate(email, password string) (domain.User, error) {
	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	s.mu.Unlock()
	if !ok {
		return domain.User{}, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return domain.User{}, errBadCredentials
	}
	return acc.user, nil
}

func (s *Service) userByEmail(email string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return domain.User{}, false
	}
	return acc.user, true
}

// AddProduct inserts a product and returns it with its assigned id.
func (s *Service) AddProduct(in domain.ProductInput) domain.Product {
	if in.ImageURL == "" {
		in.ImageURL = defaultImageURL
	}
	p := domain.Product{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		ImageURL:      in.ImageURL,
		CreatedAt:     s.now(),
	}
	s.mu.Lock()
	s.products[p.ID] = p
	s.mu.Unlock()
	return p
}

// Product returns a product by id.
func (s *Service) Product(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// Products lists products matching filter ordered by creation time.
func (s *Service) Products(filter domain.ProductFilter) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Service) updateProduct(id string, patch domain.ProductPatch) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, errProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.StockQuantity != nil {
		p.StockQuantity = *patch.StockQuantity
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	s.products[id] = p
	return p, nil
}

func (s *Service) deleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return errProductNotFound
	}
	delete(s.products, id)
	return nil
}

// stockError names the product that could not be fulfilled.
type stockError struct {
	name string
}

func (e *stockError) Error() string { return "Insufficient stock for " + e.name }

func (e *stockError) Unwrap() error { return errInsufficientStock }

// PlaceOrder prices the request server-side, checks and decrements stock, and records the order.
// Either every line is applied or none is.
func (s *Service) PlaceOrder(user domain.User, req domain.OrderRequest) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	reserved := make(map[string]int, len(req.Items))
	for _, it := range req.Items {
		p, ok := s.products[it.ProductID]
		if !ok {
			return domain.Order{}, productMissing(it.ProductID)
		}
		if p.StockQuantity-reserved[p.ID] < it.Quantity {
			return domain.Order{}, &stockError{name: p.Name}
		}
		reserved[p.ID] += it.Quantity
		item := domain.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Price:       p.Price,
			Quantity:    it.Quantity,
		}
		items = append(items, item)
		total = total.Add(item.Subtotal())
	}
	for id, qty := range reserved {
		p := s.products[id]
		p.StockQuantity -= qty
		s.products[id] = p
	}

	o := domain.Order{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		UserName:        user.Name,
		UserEmail:       user.Email,
		Items:           items,
		TotalAmount:     total,
		DeliveryAddress: req.DeliveryAddress,
		Status:          domain.OrderPending,
		CreatedAt:       s.now(),
	}
	s.orders = append(s.orders, o)
	return o, nil
}

// Orders returns the orders visible to user: all of them for admins, otherwise their own.
func (s *Service) Orders(user domain.User) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if user.Role.IsAdmin() || o.UserID == user.ID {
			out = append(out, o)
		}
	}
	return out
}

func (s *Service) order(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (s *Service) setOrderStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return s.orders[i], nil
		}
	}
	return domain.Order{}, errOrderNotFound
}

type missingProductError struct {
	id string
}

func (e *missingProductError) Error() string { return "Product " + e.id + " not found" }

func (e *missingProductError) Unwrap() error { return errProductNotFound }

func productMissing(id string) error {
	return &missingProductError{id: id}
}
