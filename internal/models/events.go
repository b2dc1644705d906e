package models

import "time"

// Event types
const (
	EventTypeProductViewed       = "PRODUCT_VIEWED"
	EventTypeCartItemAdded       = "CART_ITEM_ADDED"
	EventTypeCartAdmissionFailed = "CART_ADMISSION_FAILED"
	EventTypeProductUpdated      = "PRODUCT_UPDATED"
	EventTypeProductDeleted      = "PRODUCT_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductViewedEvent published when a product page is rendered
type ProductViewedEvent struct {
	BaseEvent
	ProductID int64  `json:"product_id"`
	SessionID string `json:"session_id"`
}

// CartItemAddedEvent published when cart admission succeeds
type CartItemAddedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// CartAdmissionFailedEvent published when the backend rejects an authenticated add
type CartAdmissionFailedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Reason    string `json:"reason"`
}

// ProductChangedEvent is consumed from the catalog topic
type ProductChangedEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
}
