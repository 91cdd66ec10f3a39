package fixture

import (
	"context"
	"sort"
	"strings"
	"time"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
)

type orderFixtureRepo struct{ s *Store }

func (r *orderFixtureRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, o := range r.s.orders {
		if o.IdempotencyKey == order.IdempotencyKey || o.OrderNumber == order.OrderNumber {
			return 0, repo.ErrDuplicate
		}
	}

	order.ID = r.s.id()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].ID = r.s.id()
		order.Items[i].OrderID = order.ID
	}
	for _, h := range order.StatusHistory {
		h.ID = r.s.id()
		h.OrderID = order.ID
		r.s.history[order.ID] = append(r.s.history[order.ID], h)
	}
	order.StatusHistory = nil
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r *orderFixtureRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return r.withChildren(o), nil
}

func (r *orderFixtureRepo) FindByIdempotencyKey(ctx context.Context, key string) (model.Order, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, o := range r.s.orders {
		if o.IdempotencyKey == key {
			return r.withChildren(o), true, nil
		}
	}
	return model.Order{}, false, nil
}

func (r *orderFixtureRepo) ListByUserID(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []model.Order
	for _, o := range r.s.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, r.withChildren(o))
		}
	}
	sortOrdersDesc(out)
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r *orderFixtureRepo) ListByPartner(ctx context.Context, partnerID int64, deliveryStatus string) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []model.Order
	for _, o := range r.s.orders {
		if o.DeliveryPartnerID == nil || *o.DeliveryPartnerID != partnerID {
			continue
		}
		if deliveryStatus != "" && string(o.DeliveryStatus) != deliveryStatus {
			continue
		}
		out = append(out, r.withChildren(o))
	}
	sortOrdersDesc(out)
	return out, nil
}

func (r *orderFixtureRepo) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []model.Order
	for _, o := range r.s.orders {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.DeliveryStatus != "" && string(o.DeliveryStatus) != f.DeliveryStatus {
			continue
		}
		if f.UserID != nil && (o.UserID == nil || *o.UserID != *f.UserID) {
			continue
		}
		if f.PartnerID != nil && (o.DeliveryPartnerID == nil || *o.DeliveryPartnerID != *f.PartnerID) {
			continue
		}
		if s := strings.TrimSpace(f.Search); s != "" {
			s = strings.ToLower(s)
			if !strings.Contains(strings.ToLower(o.OrderNumber), s) &&
				!strings.Contains(strings.ToLower(o.Customer.Name), s) &&
				!strings.Contains(strings.ToLower(o.Customer.Email), s) {
				continue
			}
		}
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && o.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, r.withChildren(o))
	}
	sortOrdersDesc(out)
	total := int64(len(out))
	return paginate(out, f.Page, f.Limit), total, nil
}

func (r *orderFixtureRepo) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return r.mutate(orderID, func(o *model.Order) {
		o.Status = status
	})
}

func (r *orderFixtureRepo) UpdateDeliveryStatus(ctx context.Context, orderID int64, status model.DeliveryStatus) error {
	return r.mutate(orderID, func(o *model.Order) {
		o.DeliveryStatus = status
	})
}

func (r *orderFixtureRepo) AssignPartner(ctx context.Context, orderID, partnerID int64) error {
	return r.mutate(orderID, func(o *model.Order) {
		pid := partnerID
		o.DeliveryPartnerID = &pid
		o.DeliveryStatus = model.DeliveryStatusAssigned
	})
}

func (r *orderFixtureRepo) MarkDelivered(ctx context.Context, orderID int64, at time.Time) error {
	return r.mutate(orderID, func(o *model.Order) {
		t := at
		o.Status = model.OrderStatusDelivered
		o.DeliveryStatus = model.DeliveryStatusDelivered
		o.DeliveredAt = &t
	})
}

func (r *orderFixtureRepo) UpdatePayment(ctx context.Context, orderID int64, status model.PaymentStatus, ref string) error {
	return r.mutate(orderID, func(o *model.Order) {
		o.PaymentStatus = status
		if ref != "" {
			o.PaymentRef = ref
		}
	})
}

func (r *orderFixtureRepo) Delete(ctx context.Context, orderID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.orders, orderID)
	delete(r.s.history, orderID)
	return nil
}

func (r *orderFixtureRepo) CountActiveByPartner(ctx context.Context, partnerID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, o := range r.s.orders {
		if o.DeliveryPartnerID != nil && *o.DeliveryPartnerID == partnerID && o.ActiveForDelivery() {
			n++
		}
	}
	return n, nil
}

func (r *orderFixtureRepo) mutate(orderID int64, fn func(o *model.Order)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	fn(&o)
	o.UpdatedAt = time.Now()
	r.s.orders[orderID] = o
	return nil
}

// withChildren must be called with s.mu held.
func (r *orderFixtureRepo) withChildren(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	o.StatusHistory = append([]model.StatusHistory(nil), r.s.history[o.ID]...)
	o.DeliveredAt = copyTime(o.DeliveredAt)
	return o
}

type historyFixtureRepo struct{ s *Store }

func (r *historyFixtureRepo) Append(ctx context.Context, entry model.StatusHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = r.s.id()
	r.s.history[entry.OrderID] = append(r.s.history[entry.OrderID], entry)
	return nil
}

func (r *historyFixtureRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.StatusHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return append([]model.StatusHistory(nil), r.s.history[orderID]...), nil
}

func sortOrdersDesc(orders []model.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
}

func paginate(orders []model.Order, page, limit int) []model.Order {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	start := (page - 1) * limit
	if start >= len(orders) {
		return []model.Order{}
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end]
}
