package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes storefront events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// NewBaseEvent stamps an event with a fresh id and the current time
func NewBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// PublishProductViewed publishes ProductViewed event
func (ep *EventPublisher) PublishProductViewed(ctx context.Context, event *models.ProductViewedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishCartItemAdded publishes CartItemAdded event
func (ep *EventPublisher) PublishCartItemAdded(ctx context.Context, event *models.CartItemAddedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishCartAdmissionFailed publishes CartAdmissionFailed event
func (ep *EventPublisher) PublishCartAdmissionFailed(ctx context.Context, event *models.CartAdmissionFailedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// Events of one session land on one partition.
func sessionKey(sessionID string) string {
	return "session-" + sessionID
}

// EventHandler routes catalog events to registered callbacks
type EventHandler struct {
	onProductChanged func(context.Context, *models.ProductChangedEvent) error
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnProductChanged registers a handler for PRODUCT_UPDATED and PRODUCT_DELETED events
func (eh *EventHandler) OnProductChanged(handler func(context.Context, *models.ProductChangedEvent) error) {
	eh.onProductChanged = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeProductUpdated, models.EventTypeProductDeleted:
		if eh.onProductChanged == nil {
			return nil
		}
		var event models.ProductChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal %s event: %w", baseEvent.EventType, err)
		}
		return eh.onProductChanged(ctx, &event)

	default:
		eh.logger.Debug("Unhandled event type",
			zap.String("type", baseEvent.EventType),
			zap.String("event_id", baseEvent.EventID))
	}

	return nil
}
