// Package events publishes order lifecycle events for downstream consumers
// (kitchen displays, notification workers).
package events

import "time"

const (
	TypeOrderCreated    = "order.created"
	TypeStatusChanged   = "order.status_changed"
	TypeOrderAssigned   = "order.assigned"
	TypeOrderDelivered  = "order.delivered"
	TypeDeliveryUpdated = "order.delivery_status_changed"
)

// OrderEvent is the wire payload. Status fields carry whichever side of the
// lifecycle changed.
type OrderEvent struct {
	Type           string    `json:"type"`
	OrderID        int64     `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	Status         string    `json:"status,omitempty"`
	DeliveryStatus string    `json:"delivery_status,omitempty"`
	PartnerID      int64     `json:"partner_id,omitempty"`
	TotalPrice     int64     `json:"total_price,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher is implemented by the RabbitMQ client and by Noop. Publishing is
// best-effort: callers log failures but never fail the request over them.
type Publisher interface {
	Publish(event OrderEvent) error
	Close() error
}

// Noop backs demo mode and tests, where no broker is configured.
type Noop struct{}

func (Noop) Publish(OrderEvent) error { return nil }
func (Noop) Close() error             { return nil }
