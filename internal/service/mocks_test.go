package service

import (
	"context"

	"storefront/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockBackend) AddToCart(ctx context.Context, token string, productID int64, quantity int) error {
	return m.Called(ctx, token, productID, quantity).Error(0)
}

func (m *mockBackend) GetAdminOrder(ctx context.Context, token string, id int64) (*models.Order, error) {
	args := m.Called(ctx, token, id)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetProduct(ctx context.Context, id int64) (*models.Product, bool, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Bool(1), args.Error(2)
}

func (m *mockCache) SetProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishProductViewed(ctx context.Context, event *models.ProductViewedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEvents) PublishCartItemAdded(ctx context.Context, event *models.CartItemAddedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEvents) PublishCartAdmissionFailed(ctx context.Context, event *models.CartAdmissionFailedEvent) error {
	return m.Called(ctx, event).Error(0)
}

type mockGuestCarts struct {
	mock.Mock
}

func (m *mockGuestCarts) GetGuestCart(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	args := m.Called(ctx, sessionID)
	items, _ := args.Get(0).([]models.CartItem)
	return items, args.Error(1)
}

func (m *mockGuestCarts) SetGuestCart(ctx context.Context, sessionID string, items []models.CartItem) error {
	return m.Called(ctx, sessionID, items).Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) RecordOrderView(ctx context.Context, entry *models.OrderViewAudit) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAudit) ListOrderViews(ctx context.Context, orderID int64, limit int) ([]models.OrderViewAudit, error) {
	args := m.Called(ctx, orderID, limit)
	views, _ := args.Get(0).([]models.OrderViewAudit)
	return views, args.Error(1)
}

// tshirt is product 1 with a single red/M variant costing 2 more than the base.
func tshirt() *models.Product {
	return &models.Product{
		ID:    1,
		Name:  "T-Shirt",
		Price: models.ParseAmount("19.99"),
		Image: "products/tshirt.png",
		Stock: 5,
		Variants: []models.Variant{
			{ID: 10, ProductID: 1, Color: "red", Size: "M", PriceAdjustment: models.ParseAmount("2")},
		},
	}
}
