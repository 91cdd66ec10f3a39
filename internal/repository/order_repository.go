package repository

import (
	"context"
	"time"

	"bakery/internal/domain/model"
)

// OrderListFilter narrows the admin order listing. Search matches the order
// number or the customer snapshot (name/email).
type OrderListFilter struct {
	Page           int
	Limit          int
	Status         string
	DeliveryStatus string
	Search         string
	UserID         *int64
	PartnerID      *int64
	From           *time.Time
	To             *time.Time
}

type OrderRepository interface {
	// Create persists the order with its items and initial history entries.
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (model.Order, bool, error)
	ListByUserID(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error)
	ListByPartner(ctx context.Context, partnerID int64, deliveryStatus string) ([]model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateDeliveryStatus(ctx context.Context, orderID int64, status model.DeliveryStatus) error
	AssignPartner(ctx context.Context, orderID, partnerID int64) error
	MarkDelivered(ctx context.Context, orderID int64, at time.Time) error
	UpdatePayment(ctx context.Context, orderID int64, status model.PaymentStatus, ref string) error
	Delete(ctx context.Context, orderID int64) error

	// CountActiveByPartner derives the partner's active load: orders whose
	// delivery status is assigned, picked_up or in_transit.
	CountActiveByPartner(ctx context.Context, partnerID int64) (int64, error)
}
