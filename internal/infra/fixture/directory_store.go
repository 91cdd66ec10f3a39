package fixture

import (
	"context"
	"sort"
	"strings"
	"time"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
)

type partnerFixtureRepo struct{ s *Store }

func (r *partnerFixtureRepo) Create(ctx context.Context, p model.DeliveryPartner) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.partners {
		if existing.Email == p.Email {
			return 0, repo.ErrDuplicate
		}
	}
	p.ID = r.s.id()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.partners[p.ID] = p
	return p.ID, nil
}

func (r *partnerFixtureRepo) FindByID(ctx context.Context, id int64) (model.DeliveryPartner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.partners[id]
	if !ok {
		return model.DeliveryPartner{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *partnerFixtureRepo) FindByEmail(ctx context.Context, email string) (model.DeliveryPartner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.partners {
		if p.Email == email {
			return p, nil
		}
	}
	return model.DeliveryPartner{}, repo.ErrNotFound
}

func (r *partnerFixtureRepo) List(ctx context.Context) ([]model.DeliveryPartner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.DeliveryPartner, 0, len(r.s.partners))
	for _, p := range r.s.partners {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *partnerFixtureRepo) Update(ctx context.Context, p model.DeliveryPartner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.partners[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	existing.Name = p.Name
	existing.Phone = p.Phone
	existing.VehicleType = p.VehicleType
	existing.VehicleNo = p.VehicleNo
	existing.Available = p.Available
	existing.Status = p.Status
	existing.UpdatedAt = time.Now()
	r.s.partners[p.ID] = existing
	return nil
}

func (r *partnerFixtureRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.partners[id]
	if !ok {
		return repo.ErrNotFound
	}
	p.Password = hash
	p.UpdatedAt = time.Now()
	r.s.partners[id] = p
	return nil
}

func (r *partnerFixtureRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.partners[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.partners, id)
	return nil
}

func (r *partnerFixtureRepo) AddDeliveryStats(ctx context.Context, id int64, earnings int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.partners[id]
	if !ok {
		return repo.ErrNotFound
	}
	p.TotalDeliveries++
	p.TotalEarnings += earnings
	p.UpdatedAt = time.Now()
	r.s.partners[id] = p
	return nil
}

type couponFixtureRepo struct{ s *Store }

func (r *couponFixtureRepo) Create(ctx context.Context, c model.Coupon) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.coupons {
		if existing.Code == c.Code {
			return 0, repo.ErrDuplicate
		}
	}
	c.ID = r.s.id()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.s.coupons[c.ID] = c
	return c.ID, nil
}

func (r *couponFixtureRepo) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.coupons {
		if strings.EqualFold(c.Code, code) {
			c.ExpiresAt = copyTime(c.ExpiresAt)
			return c, nil
		}
	}
	return model.Coupon{}, repo.ErrNotFound
}

func (r *couponFixtureRepo) List(ctx context.Context) ([]model.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Coupon, 0, len(r.s.coupons))
	for _, c := range r.s.coupons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *couponFixtureRepo) Update(ctx context.Context, c model.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.coupons[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for id, other := range r.s.coupons {
		if id != c.ID && other.Code == c.Code {
			return repo.ErrDuplicate
		}
	}
	existing.Code = c.Code
	existing.Type = c.Type
	existing.Value = c.Value
	existing.MinOrder = c.MinOrder
	existing.MaxDiscount = c.MaxDiscount
	existing.Active = c.Active
	existing.ExpiresAt = copyTime(c.ExpiresAt)
	existing.UpdatedAt = time.Now()
	r.s.coupons[c.ID] = existing
	return nil
}

func (r *couponFixtureRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.coupons[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.coupons, id)
	return nil
}

type productFixtureRepo struct{ s *Store }

func (r *productFixtureRepo) Create(ctx context.Context, p model.Product) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.products {
		if existing.Slug == p.Slug {
			return 0, repo.ErrDuplicate
		}
	}
	p.ID = r.s.id()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.products[p.ID] = p
	return p.ID, nil
}

func (r *productFixtureRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *productFixtureRepo) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (r *productFixtureRepo) List(ctx context.Context, f repo.ProductListFilter) ([]model.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []model.Product
	for _, p := range r.s.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if s := strings.TrimSpace(f.Search); s != "" {
			s = strings.ToLower(s)
			if !strings.Contains(strings.ToLower(p.Name), s) &&
				!strings.Contains(strings.ToLower(p.Description), s) {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *productFixtureRepo) Update(ctx context.Context, p model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.products[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.Category = p.Category
	existing.ImageURL = p.ImageURL
	existing.InStock = p.InStock
	existing.UpdatedAt = time.Now()
	r.s.products[p.ID] = existing
	return nil
}

func (r *productFixtureRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

type auditLogFixtureRepo struct{ s *Store }

func (r *auditLogFixtureRepo) Create(ctx context.Context, log model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	log.ID = r.s.id()
	r.s.auditLogs = append(r.s.auditLogs, log)
	return nil
}

func (r *auditLogFixtureRepo) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []model.AuditLog
	for _, l := range r.s.auditLogs {
		if f.ActorAdminID != nil && l.ActorAdminID != *f.ActorAdminID {
			continue
		}
		if f.Action != nil && l.Action != *f.Action {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
