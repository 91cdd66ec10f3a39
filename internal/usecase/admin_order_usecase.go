package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
	"bakery/pkg/events"

	"go.uber.org/zap"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	publisher events.Publisher
	clock     Clock
	log       *zap.Logger
}

func NewAdminOrderUsecase(tx repo.TransactionManager, publisher events.Publisher, clock Clock, log *zap.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, publisher: publisher, clock: clock, log: log}
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	var (
		out   []model.Order
		total int64
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().List(ctx, f)
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

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (model.Order, error) {
	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = o
		return nil
	})
	return out, err
}

func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminID, orderID int64, status, note string) (model.Order, error) {
	next := model.OrderStatus(status)
	if !next.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var (
		out     model.Order
		changed bool
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// repeated submit of the current status is a no-op, not a conflict
		if o.Status == next {
			out = o
			return nil
		}
		if err := model.TransitionOrderStatus(o.Status, next); err != nil {
			return transitionError(err)
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		entry := model.StatusHistory{
			OrderID:   orderID,
			Status:    string(next),
			Actor:     model.ActorAdmin,
			Note:      note,
			Timestamp: u.clock.Now(),
		}
		if err := r.History().Append(ctx, entry); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := u.audit(ctx, r, adminID, model.AuditActionUpdateOrderStatus, orderID,
			map[string]any{"status": o.Status},
			map[string]any{"status": next, "note": note},
		); err != nil {
			return err
		}

		o.Status = next
		o.StatusHistory = append(o.StatusHistory, entry)
		out = o
		changed = true
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	if changed {
		u.publish(events.OrderEvent{
			Type:        events.TypeStatusChanged,
			OrderID:     out.ID,
			OrderNumber: out.OrderNumber,
			Status:      string(out.Status),
		})
	}
	return out, nil
}

func (u *AdminOrderUsecase) Assign(ctx context.Context, adminID, orderID, partnerID int64) (model.Order, error) {
	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p, err := r.Partners().FindByID(ctx, partnerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "delivery partner not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if p.Status != model.PartnerStatusActive || !p.Available {
			return NewHTTPError(http.StatusBadRequest, "delivery partner is not available")
		}

		if err := model.TransitionDeliveryStatus(o.DeliveryStatus, model.DeliveryStatusAssigned); err != nil {
			return transitionError(err)
		}

		if err := r.Orders().AssignPartner(ctx, orderID, partnerID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		entry := model.StatusHistory{
			OrderID:   orderID,
			Status:    string(model.DeliveryStatusAssigned),
			Actor:     model.ActorAdmin,
			Note:      fmt.Sprintf("assigned to %s", p.Name),
			Timestamp: u.clock.Now(),
		}
		if err := r.History().Append(ctx, entry); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := u.audit(ctx, r, adminID, model.AuditActionAssignOrder, orderID,
			map[string]any{"delivery_status": o.DeliveryStatus, "delivery_partner_id": o.DeliveryPartnerID},
			map[string]any{"delivery_status": model.DeliveryStatusAssigned, "delivery_partner_id": partnerID},
		); err != nil {
			return err
		}

		o.DeliveryStatus = model.DeliveryStatusAssigned
		o.DeliveryPartnerID = &partnerID
		o.StatusHistory = append(o.StatusHistory, entry)
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	ev := events.OrderEvent{
		Type:           events.TypeOrderAssigned,
		OrderID:        out.ID,
		OrderNumber:    out.OrderNumber,
		DeliveryStatus: string(out.DeliveryStatus),
	}
	if out.DeliveryPartnerID != nil {
		ev.PartnerID = *out.DeliveryPartnerID
	}
	u.publish(ev)
	return out, nil
}

func (u *AdminOrderUsecase) Delete(ctx context.Context, adminID, orderID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.audit(ctx, r, adminID, model.AuditActionDeleteOrder, orderID,
			map[string]any{"order_number": o.OrderNumber, "status": o.Status},
			nil,
		)
	})
}

func (u *AdminOrderUsecase) History(ctx context.Context, orderID int64) ([]model.StatusHistory, error) {
	var out []model.StatusHistory
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		entries, err := r.History().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = entries
		return nil
	})
	return out, err
}

func (u *AdminOrderUsecase) audit(ctx context.Context, r repo.TxRepos, adminID int64, action model.AuditAction, resourceID int64, before, after map[string]any) error {
	log := model.AuditLog{
		ActorAdminID: adminID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   resourceID,
		CreatedAt:    u.clock.Now(),
	}
	if before != nil {
		b, err := json.Marshal(before)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		log.BeforeJSON = string(b)
	}
	if after != nil {
		b, err := json.Marshal(after)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		log.AfterJSON = string(b)
	}
	if err := r.AuditLogs().Create(ctx, log); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AdminOrderUsecase) publish(ev events.OrderEvent) {
	ev.OccurredAt = u.clock.Now()
	if err := u.publisher.Publish(ev); err != nil {
		u.log.Warn("publish order event failed",
			zap.String("type", ev.Type),
			zap.Int64("order_id", ev.OrderID),
			zap.Error(err),
		)
	}
}
