package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the product's category as embedded in the product record
type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Product represents a product as returned by GET /api/products/{id}
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       Amount    `json:"price"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	Category    Category  `json:"category"`
	Variants    []Variant `json:"variants"`
}

// Variant is one purchasable color/size combination of a product
type Variant struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	Color           string `json:"color"`
	Size            string `json:"size"`
	PriceAdjustment Amount `json:"price_adjustment"`
	ImageURL        string `json:"image_url"`
}

// Order represents an order as returned by GET /api/admin/orders/{id}
type Order struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	TotalPrice    Amount      `json:"total_price"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	Items         []OrderItem `json:"items"`
}

// OrderItem represents a line item of an order
type OrderItem struct {
	ID       int64        `json:"id"`
	Quantity int          `json:"quantity"`
	Price    Amount       `json:"price"`
	Product  OrderProduct `json:"product"`
}

// OrderProduct is the product reference nested in an order item
type OrderProduct struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// CartItem is an entry of the session-side cart
type CartItem struct {
	ID        int64           `json:"id"`
	VariantID int64           `json:"variant_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// Cart modes
const (
	CartModeAuthenticated = "authenticated"
	CartModeGuest         = "guest"
)

// Roles carried in auth tokens
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// OrderViewAudit records an admin opening an order page
type OrderViewAudit struct {
	ID          int64     `db:"id" json:"id"`
	OrderID     int64     `db:"order_id" json:"order_id"`
	AdminUserID string    `db:"admin_user_id" json:"admin_user_id"`
	RequestID   string    `db:"request_id" json:"request_id"`
	ClientIP    string    `db:"client_ip" json:"client_ip"`
	ViewedAt    time.Time `db:"viewed_at" json:"viewed_at"`
}
