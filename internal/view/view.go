// Package view builds the page models rendered by the storefront templates
// or returned as JSON.
package view

import (
	"strconv"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

const (
	OutOfStock = "Out of Stock"
	NoReviews  = "No reviews yet."
)

// Option is one color or size choice on the product page
type Option struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// ProductPage is the product detail view
type ProductPage struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Price        string   `json:"price"`
	Stock        string   `json:"stock"`
	InStock      bool     `json:"in_stock"`
	ImageURL     string   `json:"image_url"`
	Colors       []Option `json:"colors"`
	Sizes        []Option `json:"sizes"`
	VariantID    int64    `json:"variant_id,omitempty"`
	Unavailable  string   `json:"unavailable,omitempty"`
	CanAddToCart bool     `json:"can_add_to_cart"`
	Quantity     int      `json:"quantity"`
	Error        string   `json:"error,omitempty"`
	Reviews      []string `json:"reviews"`
}

// NewProductPage evaluates the selection against the product and lays out the page.
func NewProductPage(p *models.Product, sel catalog.Selection, quantity int, assetBase string) ProductPage {
	ev := catalog.Evaluate(p, sel)

	page := ProductPage{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category.Name,
		Price:        catalog.FormatPrice(ev.Price),
		Stock:        StockLabel(p.Stock),
		InStock:      p.Stock > 0,
		ImageURL:     catalog.ImageURL(assetBase, ev.Image),
		Colors:       options(ev.Colors, sel.Color),
		Sizes:        options(ev.Sizes, sel.Size),
		CanAddToCart: ev.Variant != nil,
		Quantity:     quantity,
		Reviews:      []string{},
	}
	if page.Quantity < 1 {
		page.Quantity = 1
	}
	if ev.Variant != nil {
		page.VariantID = ev.Variant.ID
	}
	if ev.Unavailable {
		page.Unavailable = catalog.UnavailableMessage
	}
	return page
}

// StockLabel is the stock count, or "Out of Stock" when nothing is left.
func StockLabel(stock int) string {
	if stock <= 0 {
		return OutOfStock
	}
	return strconv.Itoa(stock)
}

func options(values []string, chosen *string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Selected: chosen != nil && *chosen == v})
	}
	return out
}

// CartLine is one row of the cart page
type CartLine struct {
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url"`
}

// CartPage shows the cart that belongs to the session's auth state
type CartPage struct {
	Mode  string     `json:"mode"`
	Lines []CartLine `json:"lines"`
	Count int        `json:"count"`
}

// NewCartPage lays out a cart.
func NewCartPage(mode string, items []models.CartItem, assetBase string) CartPage {
	page := CartPage{Mode: mode, Lines: make([]CartLine, 0, len(items))}
	for _, it := range items {
		page.Lines = append(page.Lines, CartLine{
			ProductID: it.ID,
			VariantID: it.VariantID,
			Name:      it.Name,
			Price:     catalog.FormatPrice(it.Price),
			Quantity:  it.Quantity,
			ImageURL:  catalog.ImageURL(assetBase, it.Image),
		})
		page.Count += it.Quantity
	}
	return page
}

// OrderLine is one line item of the admin order page
type OrderLine struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
}

// OrderPage is the admin order detail view. Every field is shown as the
// backend returned it.
type OrderPage struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	TotalPrice    string      `json:"total_price"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	Items         []OrderLine `json:"items"`
	Views         []OrderView `json:"recent_views"`
}

// OrderView is an earlier admin visit of the order page
type OrderView struct {
	AdminUserID string `json:"admin_user_id"`
	ViewedAt    string `json:"viewed_at"`
}

// NewOrderPage lays out an order.
func NewOrderPage(o *models.Order) OrderPage {
	page := OrderPage{
		ID:            o.ID,
		Name:          o.Name,
		Email:         o.Email,
		TotalPrice:    o.TotalPrice.String(),
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		Items:         make([]OrderLine, 0, len(o.Items)),
		Views:         []OrderView{},
	}
	for _, it := range o.Items {
		page.Items = append(page.Items, OrderLine{
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			Price:       it.Price.String(),
		})
	}
	return page
}

// WithViews attaches the order's audit trail to the page.
func (p OrderPage) WithViews(views []models.OrderViewAudit) OrderPage {
	p.Views = make([]OrderView, 0, len(views))
	for _, v := range views {
		p.Views = append(p.Views, OrderView{
			AdminUserID: v.AdminUserID,
			ViewedAt:    v.ViewedAt.UTC().Format(time.RFC3339),
		})
	}
	return p
}

// LoadingPage is rendered while the data a page needs is not available
type LoadingPage struct {
	Title string `json:"title"`
}

// ErrorPage is rendered for not-found and other terminal errors
type ErrorPage struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
