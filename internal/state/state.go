// Package state is the per-session application state: one typed slice per
// domain (products, cart, orders, auth), changed only through actions.
package state

import "storefront/internal/models"

// AppState is the full state of one shopper session
type AppState struct {
	Products ProductsState
	Cart     CartState
	Orders   OrdersState
	Auth     AuthState
}

// ProductsState holds the product currently on display
type ProductsState struct {
	// RequestID is the id of the latest product fetch; only its result is kept.
	RequestID          string
	RequestedProductID int64
	Current            *models.Product
}

// CartState holds the authenticated cart mirror and the guest cart
type CartState struct {
	Items      []models.CartItem
	GuestItems []models.CartItem
}

// OrdersState holds orders fetched by the admin views
type OrdersState struct {
	RequestID        string
	RequestedOrderID int64
	Items            []models.Order
}

// AuthState holds the verified auth token of the session
type AuthState struct {
	Token  string
	UserID string
	Role   string
}

// LoggedIn reports whether the session carries an auth token.
func (a AuthState) LoggedIn() bool {
	return a.Token != ""
}

// IsAdmin reports whether the session belongs to an admin.
func (a AuthState) IsAdmin() bool {
	return a.LoggedIn() && a.Role == models.RoleAdmin
}

// CurrentProduct returns the loaded product when it is the one with the given id.
func (s AppState) CurrentProduct(id int64) (*models.Product, bool) {
	p := s.Products.Current
	if p == nil || p.ID != id {
		return nil, false
	}
	return p, true
}

// OrderByID returns the stored order with the given id.
func (s AppState) OrderByID(id int64) (*models.Order, bool) {
	for i := range s.Orders.Items {
		if s.Orders.Items[i].ID == id {
			return &s.Orders.Items[i], true
		}
	}
	return nil, false
}

// ActiveCart returns the cart that matches the session's auth state.
func (s AppState) ActiveCart() []models.CartItem {
	if s.Auth.LoggedIn() {
		return s.Cart.Items
	}
	return s.Cart.GuestItems
}
