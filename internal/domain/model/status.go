package model

import "fmt"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusAssigned  DeliveryStatus = "assigned"
	DeliveryStatusPickedUp  DeliveryStatus = "picked_up"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

// Actor identifies who triggered a status change in the history log.
type Actor string

const (
	ActorSystem          Actor = "system"
	ActorAdmin           Actor = "admin"
	ActorDeliveryPartner Actor = "delivery_partner"
)

// InvalidTransitionError is returned when a status change is not an allowed
// edge of the lifecycle. Handlers map it to 409.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// Allowed edges: pending -> confirmed -> processing -> out_for_delivery -> delivered,
// plus any non-terminal state -> cancelled.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:     {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// Allowed edges: pending -> assigned -> picked_up -> in_transit -> delivered,
// plus any non-delivered state -> cancelled.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusPending:   {DeliveryStatusAssigned, DeliveryStatusCancelled},
	DeliveryStatusAssigned:  {DeliveryStatusPickedUp, DeliveryStatusCancelled},
	DeliveryStatusPickedUp:  {DeliveryStatusInTransit, DeliveryStatusCancelled},
	DeliveryStatusInTransit: {DeliveryStatusDelivered, DeliveryStatusCancelled},
	DeliveryStatusDelivered: {},
	DeliveryStatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s DeliveryStatus) Valid() bool {
	_, ok := deliveryTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is an allowed edge from s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, t := range deliveryTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// TransitionOrderStatus validates the edge and returns the typed error on a
// disallowed one. A no-op transition (same status) is rejected too; callers
// treat it separately when idempotency is wanted.
func TransitionOrderStatus(from, to OrderStatus) error {
	if !to.Valid() {
		return &InvalidTransitionError{From: string(from), To: string(to)}
	}
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: string(from), To: string(to)}
	}
	return nil
}

func TransitionDeliveryStatus(from, to DeliveryStatus) error {
	if !to.Valid() {
		return &InvalidTransitionError{From: string(from), To: string(to)}
	}
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: string(from), To: string(to)}
	}
	return nil
}
