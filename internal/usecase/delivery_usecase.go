package usecase

import (
	"context"
	"errors"
	"net/http"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
	"bakery/pkg/events"

	"go.uber.org/zap"
)

type DeliveryUsecase struct {
	tx         repo.TransactionManager
	publisher  events.Publisher
	clock      Clock
	feeDefault int64
	log        *zap.Logger
}

func NewDeliveryUsecase(tx repo.TransactionManager, publisher events.Publisher, clock Clock, feeDefault int64, log *zap.Logger) *DeliveryUsecase {
	return &DeliveryUsecase{tx: tx, publisher: publisher, clock: clock, feeDefault: feeDefault, log: log}
}

func (u *DeliveryUsecase) ListOrders(ctx context.Context, partnerID int64, deliveryStatus string) ([]model.Order, error) {
	if deliveryStatus != "" && !model.DeliveryStatus(deliveryStatus).Valid() {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid delivery status")
	}
	var out []model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByPartner(ctx, partnerID, deliveryStatus)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = orders
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *DeliveryUsecase) GetOrder(ctx context.Context, partnerID, orderID int64) (model.Order, error) {
	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.ownedOrder(ctx, r, partnerID, orderID)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}

// UpdateStatus moves an assigned order along the delivery lifecycle. Moving
// to delivered completes the order: delivered_at is stamped, the order status
// flips to delivered and the partner's totals are bumped by the delivery fee.
// A completion request for an already delivered order returns the order
// unchanged.
func (u *DeliveryUsecase) UpdateStatus(ctx context.Context, partnerID, orderID int64, status string) (model.Order, error) {
	next := model.DeliveryStatus(status)
	if !next.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid delivery status")
	}

	var (
		out       model.Order
		delivered bool
		changed   bool
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.ownedOrder(ctx, r, partnerID, orderID)
		if err != nil {
			return err
		}

		if next == model.DeliveryStatusDelivered && o.DeliveryStatus == model.DeliveryStatusDelivered {
			out = o
			return nil
		}
		if err := model.TransitionDeliveryStatus(o.DeliveryStatus, next); err != nil {
			return transitionError(err)
		}

		now := u.clock.Now()
		if next == model.DeliveryStatusDelivered {
			if err := r.Orders().MarkDelivered(ctx, orderID, now); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			fee := o.EffectiveDeliveryFee(u.feeDefault)
			if err := r.Partners().AddDeliveryStats(ctx, partnerID, fee); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			o.Status = model.OrderStatusDelivered
			o.DeliveredAt = &now
			delivered = true
		} else {
			if err := r.Orders().UpdateDeliveryStatus(ctx, orderID, next); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		entry := model.StatusHistory{
			OrderID:   orderID,
			Status:    string(next),
			Actor:     model.ActorDeliveryPartner,
			Timestamp: now,
		}
		if err := r.History().Append(ctx, entry); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.DeliveryStatus = next
		o.StatusHistory = append(o.StatusHistory, entry)
		out = o
		changed = true
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	if changed {
		evType := events.TypeDeliveryUpdated
		if delivered {
			evType = events.TypeOrderDelivered
		}
		u.publish(events.OrderEvent{
			Type:           evType,
			OrderID:        out.ID,
			OrderNumber:    out.OrderNumber,
			Status:         string(out.Status),
			DeliveryStatus: string(out.DeliveryStatus),
			PartnerID:      partnerID,
		})
	}
	return out, nil
}

type PartnerProfile struct {
	Partner      model.DeliveryPartner `json:"partner"`
	ActiveOrders int64                 `json:"active_orders"`
}

// Profile returns the partner record with the live count of orders still in
// flight, counted from the orders table rather than a stored counter.
func (u *DeliveryUsecase) Profile(ctx context.Context, partnerID int64) (PartnerProfile, error) {
	var out PartnerProfile
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Partners().FindByID(ctx, partnerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		n, err := r.Orders().CountActiveByPartner(ctx, partnerID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = PartnerProfile{Partner: p, ActiveOrders: n}
		return nil
	})
	return out, err
}

type PartnerProfileUpdate struct {
	Phone       *string
	VehicleType *string
	VehicleNo   *string
	Available   *bool
	Status      *string
}

func (u *DeliveryUsecase) UpdateProfile(ctx context.Context, partnerID int64, in PartnerProfileUpdate) (model.DeliveryPartner, error) {
	var out model.DeliveryPartner
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Partners().FindByID(ctx, partnerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if in.Phone != nil {
			p.Phone = *in.Phone
		}
		if in.VehicleType != nil {
			p.VehicleType = *in.VehicleType
		}
		if in.VehicleNo != nil {
			p.VehicleNo = *in.VehicleNo
		}
		if in.Available != nil {
			p.Available = *in.Available
		}
		if in.Status != nil {
			st := model.PartnerStatus(*in.Status)
			if !st.Valid() {
				return NewHTTPError(http.StatusBadRequest, "invalid partner status")
			}
			p.Status = st
		}

		if err := r.Partners().Update(ctx, p); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = p
		return nil
	})
	return out, err
}

func (u *DeliveryUsecase) ownedOrder(ctx context.Context, r repo.TxRepos, partnerID, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.DeliveryPartnerID == nil || *o.DeliveryPartnerID != partnerID {
		return model.Order{}, NewHTTPError(http.StatusForbidden, "order is not assigned to you")
	}
	return o, nil
}

func (u *DeliveryUsecase) publish(ev events.OrderEvent) {
	ev.OccurredAt = u.clock.Now()
	if err := u.publisher.Publish(ev); err != nil {
		u.log.Warn("publish order event failed",
			zap.String("type", ev.Type),
			zap.Int64("order_id", ev.OrderID),
			zap.Error(err),
		)
	}
}
