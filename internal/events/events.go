// Package events publishes order lifecycle events to Kafka for downstream
// kitchen tooling. Publishing is best-effort: a dead broker never fails an
// API request.
package events

import (
	"time"
)

const (
	OrderCreatedTopic   = "order.created"
	OrderCompletedTopic = "order.completed"
)

type OrderEvent struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id,omitempty"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	EventTime   time.Time `json:"event_time"`
}

type Publisher interface {
	PublishOrderCreated(event OrderEvent) error
	PublishOrderCompleted(event OrderEvent) error
	Close() error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(OrderEvent) error   { return nil }
func (NopPublisher) PublishOrderCompleted(OrderEvent) error { return nil }
func (NopPublisher) Close() error                           { return nil }
