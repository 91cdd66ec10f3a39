package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"bakery/internal/domain/model"
	"bakery/internal/infra/fixture"
	"bakery/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponSetup(t *testing.T) *usecase.CouponUsecase {
	t.Helper()
	store := fixture.NewStore()
	store.Seed()
	return usecase.NewCouponUsecase(store.Coupons(), newFakeClock())
}

func TestValidateCoupon(t *testing.T) {
	u := newCouponSetup(t)
	ctx := context.Background()

	out, err := u.Validate(ctx, "sweet25", 650)
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Equal(t, "SWEET25", out.Code)
	assert.Equal(t, int64(25), out.Discount)
	assert.Equal(t, int64(625), out.Total)

	// below the minimum the answer is "not applicable", not an error
	out, err = u.Validate(ctx, "SWEET25", 499)
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Equal(t, model.CouponRejectMinOrder, out.Reason)
	assert.Zero(t, out.Discount)
	assert.Equal(t, int64(499), out.Total)

	_, err = u.Validate(ctx, "NOPE", 650)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestCouponCRUD(t *testing.T) {
	u := newCouponSetup(t)
	ctx := context.Background()

	created, err := u.Create(ctx, usecase.CouponInput{
		Code: "bday10", Type: "percentage", Value: 10, MaxDiscount: 100, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "BDAY10", created.Code)

	_, err = u.Create(ctx, usecase.CouponInput{Code: "BDAY10", Type: "fixed", Value: 5, Active: true})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)

	list, err := u.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2) // seeded SWEET25 plus BDAY10

	updated, err := u.Update(ctx, created.ID, usecase.CouponInput{
		Code: "BDAY10", Type: "percentage", Value: 15, Active: false,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.Value)
	assert.False(t, updated.Active)

	require.NoError(t, u.Delete(ctx, created.ID))
	err = u.Delete(ctx, created.ID)
	he, ok = usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestCouponUpdateRenamesCode(t *testing.T) {
	u := newCouponSetup(t)
	ctx := context.Background()

	created, err := u.Create(ctx, usecase.CouponInput{
		Code: "BDAY10", Type: "percentage", Value: 10, MaxDiscount: 100, Active: true,
	})
	require.NoError(t, err)

	renamed, err := u.Update(ctx, created.ID, usecase.CouponInput{
		Code: "BDAY15", Type: "percentage", Value: 15, MaxDiscount: 100, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "BDAY15", renamed.Code)

	// the new code prices carts, the old one is gone
	out, err := u.Validate(ctx, "BDAY15", 1000)
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Equal(t, int64(100), out.Discount)

	_, err = u.Validate(ctx, "BDAY10", 1000)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)

	// renaming onto an existing code conflicts
	_, err = u.Update(ctx, created.ID, usecase.CouponInput{
		Code: "SWEET25", Type: "percentage", Value: 15, Active: true,
	})
	he, ok = usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestCouponCreateValidation(t *testing.T) {
	u := newCouponSetup(t)
	ctx := context.Background()

	cases := []usecase.CouponInput{
		{Code: "", Type: "fixed", Value: 10},
		{Code: "X", Type: "bogo", Value: 10},
		{Code: "X", Type: "percentage", Value: 0},
		{Code: "X", Type: "percentage", Value: 101},
		{Code: "X", Type: "fixed", Value: 0},
		{Code: "X", Type: "fixed", Value: 10, MinOrder: -1},
	}
	for _, in := range cases {
		_, err := u.Create(ctx, in)
		he, ok := usecase.AsHTTPError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Status)
	}
}
