package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
	"bakery/pkg/events"

	"go.uber.org/zap"
)

// maxOrderNumberDraws bounds retries when a generated order number hits
// the unique index. The suffix is short enough to collide at volume.
const maxOrderNumberDraws = 3

type OrderUsecase struct {
	tx        repo.TransactionManager
	publisher events.Publisher
	idGen     IDGenerator
	clock     Clock
	log       *zap.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, publisher events.Publisher, idGen IDGenerator, clock Clock, log *zap.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, publisher: publisher, idGen: idGen, clock: clock, log: log}
}

type PlaceOrderItem struct {
	ProductID *int64
	Name      string
	UnitPrice int64
	Quantity  int64
}

type PlaceOrderInput struct {
	UserID         *int64
	Customer       model.Customer
	Items          []PlaceOrderItem
	ShippingPrice  int64
	TaxPrice       int64
	CouponCode     string
	PaymentMethod  string
	IdempotencyKey string
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (model.Order, error) {
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency key")
	}
	if len(in.Items) == 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "order has no items")
	}
	if in.ShippingPrice < 0 || in.TaxPrice < 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid shipping or tax")
	}

	method := model.PaymentMethod(in.PaymentMethod)
	switch method {
	case model.PaymentMethodCOD, model.PaymentMethodOnline:
	default:
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// same key, same result
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			out = existing
			return nil
		}

		// resolve items; catalogue products are snapshotted by name and
		// current price, free-form lines must carry both
		items := make([]model.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			if it.Quantity < 1 {
				return NewHTTPError(http.StatusBadRequest, "item quantity must be at least 1")
			}

			line := model.OrderItem{
				ProductID: it.ProductID,
				Name:      strings.TrimSpace(it.Name),
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
			}

			if it.ProductID != nil {
				p, err := r.Products().FindByID(ctx, *it.ProductID)
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusBadRequest, "unknown product")
				}
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if !p.InStock {
					return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is out of stock", p.Name))
				}
				line.Name = p.Name
				line.UnitPrice = p.Price
			} else if line.Name == "" || line.UnitPrice < 0 {
				return NewHTTPError(http.StatusBadRequest, "item needs a name and a non-negative price")
			}

			items = append(items, line)
		}

		subtotal := model.ComputeItemsPrice(items)

		var discount int64
		couponCode := strings.ToUpper(strings.TrimSpace(in.CouponCode))
		if couponCode != "" {
			c, err := r.Coupons().FindByCode(ctx, couponCode)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "unknown coupon")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			d, reason := c.Discount(subtotal, u.clock.Now())
			if reason != "" {
				return NewHTTPError(http.StatusBadRequest, reason)
			}
			discount = d
		}

		now := u.clock.Now()
		order := model.Order{
			OrderNumber:    u.newOrderNumber(),
			UserID:         in.UserID,
			Customer:       in.Customer,
			Items:          items,
			ItemsPrice:     subtotal,
			ShippingPrice:  in.ShippingPrice,
			TaxPrice:       in.TaxPrice,
			Discount:       discount,
			TotalPrice:     subtotal + in.ShippingPrice + in.TaxPrice - discount,
			CouponCode:     couponCode,
			Status:         model.OrderStatusPending,
			DeliveryStatus: model.DeliveryStatusPending,
			PaymentMethod:  method,
			PaymentStatus:  model.PaymentStatusPending,
			IdempotencyKey: key,
			StatusHistory: []model.StatusHistory{{
				Status:    string(model.OrderStatusPending),
				Actor:     model.ActorSystem,
				Note:      "order placed",
				Timestamp: now,
			}},
		}
		if err := order.ValidateAmounts(); err != nil {
			return NewHTTPError(http.StatusBadRequest, err.Error())
		}

		// two unique indexes can fire on insert: the idempotency key and
		// the order number. Only the former means a concurrent submit with
		// the same key; a number collision just needs a fresh draw.
		var orderID int64
		for draw := 1; ; draw++ {
			id, err := r.Orders().Create(ctx, order)
			if err == nil {
				orderID = id
				break
			}
			if !errors.Is(err, repo.ErrDuplicate) {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			ex, found, err2 := r.Orders().FindByIdempotencyKey(ctx, key)
			if err2 != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if found {
				// concurrent submit with the same key: return the winner
				out = ex
				return nil
			}
			if draw == maxOrderNumberDraws {
				return NewHTTPError(http.StatusInternalServerError, "could not allocate order number")
			}
			order.OrderNumber = u.newOrderNumber()
		}

		created, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = created
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	u.publish(events.OrderEvent{
		Type:        events.TypeOrderCreated,
		OrderID:     out.ID,
		OrderNumber: out.OrderNumber,
		Status:      string(out.Status),
		TotalPrice:  out.TotalPrice,
	})

	return out, nil
}

func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID, orderID int64) (model.Order, error) {
	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		// other users' orders do not exist as far as the caller knows
		if o.UserID == nil || *o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		out = o
		return nil
	})
	return out, err
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error) {
	var (
		out   []model.Order
		total int64
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = orders
		total = n
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// VerifyPayment records the gateway callback outcome. The gateway itself is
// out of scope; callers supply the verified status and correlation id.
func (u *OrderUsecase) VerifyPayment(ctx context.Context, orderID int64, status string, ref string) (model.Order, error) {
	st := model.PaymentStatus(status)
	switch st {
	case model.PaymentStatusPaid, model.PaymentStatusFailed, model.PaymentStatusRefunded:
	default:
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid payment status")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		// replayed callback with the same outcome is a no-op
		if o.PaymentStatus == st && (ref == "" || o.PaymentRef == ref) {
			out = o
			return nil
		}
		if err := r.Orders().UpdatePayment(ctx, orderID, st, ref); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		o.PaymentStatus = st
		if ref != "" {
			o.PaymentRef = ref
		}
		out = o
		return nil
	})
	return out, err
}

func (u *OrderUsecase) newOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(u.idGen.NewID(), "-", ""))
	if len(id) > 6 {
		id = id[:6]
	}
	return fmt.Sprintf("BKY-%s-%s", u.clock.Now().Format("20060102"), id)
}

func (u *OrderUsecase) publish(ev events.OrderEvent) {
	ev.OccurredAt = u.clock.Now()
	if err := u.publisher.Publish(ev); err != nil {
		u.log.Warn("publish order event failed",
			zap.String("type", ev.Type),
			zap.Int64("order_id", ev.OrderID),
			zap.Error(err),
		)
	}
}
