package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
)

type CouponUsecase struct {
	coupons repo.CouponRepository
	clock   Clock
}

func NewCouponUsecase(coupons repo.CouponRepository, clock Clock) *CouponUsecase {
	return &CouponUsecase{coupons: coupons, clock: clock}
}

type ValidateCouponOutput struct {
	Valid    bool   `json:"valid"`
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
	Total    int64  `json:"total"`
	Reason   string `json:"reason,omitempty"`
}

// Validate prices a coupon against a cart subtotal without placing an order.
// An inapplicable coupon is a valid answer, not an error.
func (u *CouponUsecase) Validate(ctx context.Context, code string, subtotal int64) (ValidateCouponOutput, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusBadRequest, "coupon code is required")
	}
	if subtotal < 0 {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusBadRequest, "invalid subtotal")
	}

	c, err := u.coupons.FindByCode(ctx, code)
	if errors.Is(err, repo.ErrNotFound) {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusNotFound, "unknown coupon")
	}
	if err != nil {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	discount, reason := c.Discount(subtotal, u.clock.Now())
	return ValidateCouponOutput{
		Valid:    reason == "",
		Code:     code,
		Discount: discount,
		Total:    subtotal - discount,
		Reason:   reason,
	}, nil
}

type CouponInput struct {
	Code        string
	Type        string
	Value       int64
	MinOrder    int64
	MaxDiscount int64
	Active      bool
	ExpiresAt   *time.Time
}

func (u *CouponUsecase) Create(ctx context.Context, in CouponInput) (model.Coupon, error) {
	c, err := couponFromInput(in)
	if err != nil {
		return model.Coupon{}, err
	}

	id, err := u.coupons.Create(ctx, c)
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Coupon{}, NewHTTPError(http.StatusConflict, "coupon code already exists")
	}
	if err != nil {
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	c.ID = id
	return c, nil
}

func (u *CouponUsecase) List(ctx context.Context) ([]model.Coupon, error) {
	out, err := u.coupons.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return out, nil
}

func (u *CouponUsecase) Update(ctx context.Context, id int64, in CouponInput) (model.Coupon, error) {
	c, err := couponFromInput(in)
	if err != nil {
		return model.Coupon{}, err
	}

	current, err := u.coupons.FindByCode(ctx, c.Code)
	if err == nil && current.ID != id {
		return model.Coupon{}, NewHTTPError(http.StatusConflict, "coupon code already exists")
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c.ID = id
	if err := u.coupons.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Coupon{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Coupon{}, NewHTTPError(http.StatusConflict, "coupon code already exists")
		}
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CouponUsecase) Delete(ctx context.Context, id int64) error {
	err := u.coupons.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func couponFromInput(in CouponInput) (model.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "coupon code is required")
	}

	t := model.CouponType(in.Type)
	switch t {
	case model.CouponTypePercentage:
		if in.Value < 1 || in.Value > 100 {
			return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "percentage value must be between 1 and 100")
		}
	case model.CouponTypeFixed:
		if in.Value < 1 {
			return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "fixed value must be positive")
		}
	default:
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "invalid coupon type")
	}
	if in.MinOrder < 0 || in.MaxDiscount < 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "invalid coupon limits")
	}

	return model.Coupon{
		Code:        code,
		Type:        t,
		Value:       in.Value,
		MinOrder:    in.MinOrder,
		MaxDiscount: in.MaxDiscount,
		Active:      in.Active,
		ExpiresAt:   in.ExpiresAt,
	}, nil
}
