package state

import "storefront/internal/models"

// Reduce returns the state after applying a. It never modifies s.
func Reduce(s AppState, a Action) AppState {
	s.Products = reduceProducts(s.Products, a)
	s.Cart = reduceCart(s.Cart, a)
	s.Orders = reduceOrders(s.Orders, a)
	s.Auth = reduceAuth(s.Auth, a)
	return s
}

func reduceProducts(s ProductsState, a Action) ProductsState {
	switch a := a.(type) {
	case ProductRequested:
		s.RequestID = a.RequestID
		s.RequestedProductID = a.ProductID
	case ProductLoaded:
		if a.RequestID != s.RequestID || a.Product == nil {
			return s
		}
		if a.Product.ID != s.RequestedProductID {
			return s
		}
		s.Current = a.Product
	}
	return s
}

func reduceCart(s CartState, a Action) CartState {
	switch a := a.(type) {
	case CartItemAdded:
		s.Items = addItem(s.Items, a.Item)
	case GuestCartItemAdded:
		s.GuestItems = addItem(s.GuestItems, a.Item)
	case GuestCartRestored:
		s.GuestItems = append([]models.CartItem(nil), a.Items...)
	case CartCleared:
		s.Items = nil
	}
	return s
}

func reduceOrders(s OrdersState, a Action) OrdersState {
	switch a := a.(type) {
	case OrderRequested:
		s.RequestID = a.RequestID
		s.RequestedOrderID = a.OrderID
	case OrdersLoaded:
		if a.RequestID != s.RequestID {
			return s
		}
		s.Items = append([]models.Order(nil), a.Orders...)
	}
	return s
}

func reduceAuth(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case AuthTokenSet:
		return AuthState{Token: a.Token, UserID: a.UserID, Role: a.Role}
	case AuthCleared:
		return AuthState{}
	}
	return s
}

// addItem merges quantities for an item already in the cart; the input is left untouched.
func addItem(items []models.CartItem, item models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items)+1)
	merged := false
	for _, it := range items {
		if !merged && it.ID == item.ID && it.VariantID == item.VariantID {
			it.Quantity += item.Quantity
			merged = true
		}
		out = append(out, it)
	}
	if !merged {
		out = append(out, item)
	}
	return out
}
