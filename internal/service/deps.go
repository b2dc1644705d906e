package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/backend"
	"storefront/internal/models"
)

// BackendAPI is the part of the backend the storefront calls
type BackendAPI interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	AddToCart(ctx context.Context, token string, productID int64, quantity int) error
	GetAdminOrder(ctx context.Context, token string, id int64) (*models.Order, error)
}

// ProductCache is a read-through cache of backend product records
type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, bool, error)
	SetProduct(ctx context.Context, product *models.Product) error
}

// EventPublisher publishes storefront events
type EventPublisher interface {
	PublishProductViewed(ctx context.Context, event *models.ProductViewedEvent) error
	PublishCartItemAdded(ctx context.Context, event *models.CartItemAddedEvent) error
	PublishCartAdmissionFailed(ctx context.Context, event *models.CartAdmissionFailedEvent) error
}

// GuestCartStore keeps guest carts beyond the life of an in-memory session
type GuestCartStore interface {
	GetGuestCart(ctx context.Context, sessionID string) ([]models.CartItem, error)
	SetGuestCart(ctx context.Context, sessionID string, items []models.CartItem) error
}

// AuditLog records admin order views
type AuditLog interface {
	RecordOrderView(ctx context.Context, entry *models.OrderViewAudit) error
	ListOrderViews(ctx context.Context, orderID int64, limit int) ([]models.OrderViewAudit, error)
}

const eventPublishTimeout = 2 * time.Second

// fetchError turns a backend failure into what the page should show:
// a not-found page for 404, the loading state for everything else.
func fetchError(err error, notFoundMsg string) error {
	if errors.Is(err, backend.ErrNotFound) {
		return apperr.New(apperr.NotFound, notFoundMsg, err)
	}
	return apperr.New(apperr.Unavailable, "", err)
}
