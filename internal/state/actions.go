package state

import "storefront/internal/models"

// Action is a state change request. The set of actions is closed to this package.
type Action interface {
	action()
}

// ProductRequested starts a product fetch and makes it the latest one
type ProductRequested struct {
	RequestID string
	ProductID int64
}

// ProductLoaded carries the result of a product fetch
type ProductLoaded struct {
	RequestID string
	Product   *models.Product
}

// CartItemAdded mirrors an item the backend accepted into the authenticated cart
type CartItemAdded struct {
	Item models.CartItem
}

// GuestCartItemAdded adds an item to the guest cart
type GuestCartItemAdded struct {
	Item models.CartItem
}

// GuestCartRestored replaces the guest cart with what the client sent back
type GuestCartRestored struct {
	Items []models.CartItem
}

// CartCleared empties the authenticated cart mirror
type CartCleared struct{}

// OrderRequested starts an order fetch and makes it the latest one
type OrderRequested struct {
	RequestID string
	OrderID   int64
}

// OrdersLoaded replaces the stored orders with the result of a fetch
type OrdersLoaded struct {
	RequestID string
	Orders    []models.Order
}

// AuthTokenSet records a verified auth token
type AuthTokenSet struct {
	Token  string
	UserID string
	Role   string
}

// AuthCleared drops the auth token
type AuthCleared struct{}

func (ProductRequested) action()   {}
func (ProductLoaded) action()      {}
func (CartItemAdded) action()      {}
func (GuestCartItemAdded) action() {}
func (GuestCartRestored) action()  {}
func (CartCleared) action()        {}
func (OrderRequested) action()     {}
func (OrdersLoaded) action()       {}
func (AuthTokenSet) action()       {}
func (AuthCleared) action()        {}
