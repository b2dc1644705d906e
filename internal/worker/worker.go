package worker

import (
	"context"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// ProductEvicter drops cached product records
type ProductEvicter interface {
	EvictProduct(ctx context.Context, id int64) error
}

// CatalogWorker keeps the product cache in step with catalog changes
type CatalogWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	cache        ProductEvicter
	logger       *zap.Logger
}

// NewCatalogWorker creates a new catalog worker
func NewCatalogWorker(consumer *broker.Consumer, cache ProductEvicter) *CatalogWorker {
	w := &CatalogWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		cache:        cache,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnProductChanged(w.HandleProductChanged)
	return w
}

// HandleProductChanged evicts the changed product from the cache
func (w *CatalogWorker) HandleProductChanged(ctx context.Context, event *models.ProductChangedEvent) error {
	if err := w.cache.EvictProduct(ctx, event.ProductID); err != nil {
		return err
	}
	w.logger.Info("Evicted cached product",
		zap.Int64("product_id", event.ProductID),
		zap.String("event_type", event.EventType))
	return nil
}

// Start starts the worker
func (w *CatalogWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting catalog worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CatalogWorker) Stop() error {
	w.logger.Info("Stopping catalog worker")
	return w.consumer.Close()
}
