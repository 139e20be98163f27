package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

// ParseOrderStatus accepts pending, shipped or delivered (case-insensitive).
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case OrderPending, OrderShipped, OrderDelivered:
		return st, nil
	default:
		return "", NewValidationError("status", fmt.Sprintf("invalid status %q", s))
	}
}

// OrderRequestItem is one submitted line. It never carries price information.
type OrderRequestItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderRequest is the body of an order submission.
type OrderRequest struct {
	Items           []OrderRequestItem `json:"items"`
	DeliveryAddress string             `json:"delivery_address"`
}

type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is owned by the remote service; the client only displays it.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	UserName        string          `json:"user_name"`
	UserEmail       string          `json:"user_email"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}
