package service

import (
	"context"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/state"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const productNotFound = "Product not found."

// ProductService loads products for the product page
type ProductService struct {
	backend BackendAPI
	cache   ProductCache
	events  EventPublisher
	logger  *zap.Logger
}

// NewProductService creates a new product service. cache may be nil.
func NewProductService(backend BackendAPI, cache ProductCache, events EventPublisher) *ProductService {
	return &ProductService{
		backend: backend,
		cache:   cache,
		events:  events,
		logger:  util.GetLogger(),
	}
}

// Fetch returns a product from the cache, falling back to the backend
func (s *ProductService) Fetch(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Fetch")
	defer span.End()

	if s.cache != nil {
		product, ok, err := s.cache.GetProduct(ctx, id)
		switch {
		case err != nil:
			util.ProductCacheTotal.WithLabelValues("error").Inc()
			s.logger.Warn("Product cache read failed, falling back to backend",
				zap.Int64("product_id", id),
				zap.Error(err))
		case ok:
			util.ProductCacheTotal.WithLabelValues("hit").Inc()
			return product, nil
		default:
			util.ProductCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	product, err := s.backend.GetProduct(ctx, id)
	if err != nil {
		return nil, fetchError(err, productNotFound)
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.logger.Warn("Failed to cache product", zap.Int64("product_id", id), zap.Error(err))
		}
	}
	return product, nil
}

// Load fetches a product on behalf of a session and commits it to the
// session's state unless a newer product request has started meanwhile.
// The fetched product is returned either way.
func (s *ProductService) Load(ctx context.Context, st *state.Store, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Load")
	defer span.End()

	requestID := uuid.New().String()
	st.Dispatch(state.ProductRequested{RequestID: requestID, ProductID: id})

	product, err := s.Fetch(ctx, id)
	if err != nil {
		s.logger.Error("Error fetching product",
			zap.Int64("product_id", id),
			zap.String("session_id", st.ID()),
			zap.Error(err))
		return nil, err
	}

	after := st.Dispatch(state.ProductLoaded{RequestID: requestID, Product: product})
	if after.Products.RequestID != requestID {
		util.FetchesSupersededTotal.WithLabelValues("products").Inc()
		s.logger.Debug("Product fetch superseded",
			zap.Int64("product_id", id),
			zap.Int64("latest_product_id", after.Products.RequestedProductID))
	}

	util.ProductViewsTotal.Inc()
	s.publishViewed(ctx, st.ID(), id)
	return product, nil
}

func (s *ProductService) publishViewed(ctx context.Context, sessionID string, productID int64) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, eventPublishTimeout)
	defer cancel()

	event := &models.ProductViewedEvent{
		BaseEvent: broker.NewBaseEvent(models.EventTypeProductViewed),
		ProductID: productID,
		SessionID: sessionID,
	}
	if err := s.events.PublishProductViewed(ctx, event); err != nil {
		s.logger.Warn("Failed to publish ProductViewed event", zap.Int64("product_id", productID), zap.Error(err))
	}
}
