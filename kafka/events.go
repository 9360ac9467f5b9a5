package kafka

import "time"

// PurchaseEventItem mirrors one purchase line item inside an event.
type PurchaseEventItem struct {
	ProductID      uint  `json:"product_id"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
}

// PurchaseEvent is emitted after a purchase is created or cancelled.
// Stock-sensitive consumers (notifications, replenishment) key off the
// items list.
type PurchaseEvent struct {
	EventID    string              `json:"event_id"`
	EventType  string              `json:"event_type"`
	PurchaseID uint                `json:"purchase_id"`
	Reference  string              `json:"reference"`
	CustomerID uint                `json:"customer_id"`
	Status     string              `json:"status"`
	Items      []PurchaseEventItem `json:"items"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Event types
const (
	EventTypePurchaseCreated   = "purchase.created"
	EventTypePurchaseCancelled = "purchase.cancelled"
)

// Kafka topics
const (
	TopicPurchaseEvents = "purchase-events"
)
