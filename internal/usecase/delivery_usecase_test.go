package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"bakery/internal/domain/model"
	"bakery/internal/infra/fixture"
	"bakery/internal/usecase"
	"bakery/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDeliverySetup(t *testing.T) (*usecase.DeliveryUsecase, *fixture.Store, model.Order, int64) {
	t.Helper()
	store := fixture.NewStore()
	store.Seed()
	clock := newFakeClock()

	orderUC := usecase.NewOrderUsecase(store, events.Noop{}, &seqIDGen{}, clock, zap.NewNop())
	placed, err := orderUC.PlaceOrder(context.Background(), checkoutInput("delivery-key"))
	require.NoError(t, err)

	partnerID := seededPartnerID(t, store)
	adminUC := usecase.NewAdminOrderUsecase(store, events.Noop{}, clock, zap.NewNop())
	placed, err = adminUC.Assign(context.Background(), 1, placed.ID, partnerID)
	require.NoError(t, err)

	u := usecase.NewDeliveryUsecase(store, events.Noop{}, clock, model.DefaultDeliveryFee, zap.NewNop())
	return u, store, placed, partnerID
}

func TestDeliveryLifecycle(t *testing.T) {
	u, store, placed, partnerID := newDeliverySetup(t)
	ctx := context.Background()

	o, err := u.UpdateStatus(ctx, partnerID, placed.ID, "picked_up")
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusPickedUp, o.DeliveryStatus)

	o, err = u.UpdateStatus(ctx, partnerID, placed.ID, "in_transit")
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusInTransit, o.DeliveryStatus)

	o, err = u.UpdateStatus(ctx, partnerID, placed.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusDelivered, o.DeliveryStatus)
	assert.Equal(t, model.OrderStatusDelivered, o.Status)
	require.NotNil(t, o.DeliveredAt)

	p, err := store.Partners().FindByID(ctx, partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.TotalDeliveries)
	assert.Equal(t, model.DefaultDeliveryFee, p.TotalEarnings)

	// delivered order no longer counts as active load
	n, err := store.Orders().CountActiveByPartner(ctx, partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestDeliveryCompletionIsIdempotent(t *testing.T) {
	u, store, placed, partnerID := newDeliverySetup(t)
	ctx := context.Background()

	_, err := u.UpdateStatus(ctx, partnerID, placed.ID, "picked_up")
	require.NoError(t, err)
	_, err = u.UpdateStatus(ctx, partnerID, placed.ID, "in_transit")
	require.NoError(t, err)
	first, err := u.UpdateStatus(ctx, partnerID, placed.ID, "delivered")
	require.NoError(t, err)

	// retry after a dropped response: same answer, no double credit
	second, err := u.UpdateStatus(ctx, partnerID, placed.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, first.DeliveryStatus, second.DeliveryStatus)
	require.NotNil(t, second.DeliveredAt)
	assert.Equal(t, first.DeliveredAt.Unix(), second.DeliveredAt.Unix())

	p, err := store.Partners().FindByID(ctx, partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.TotalDeliveries)
	assert.Equal(t, model.DefaultDeliveryFee, p.TotalEarnings)

	hist, err := store.History().ListByOrderID(ctx, placed.ID)
	require.NoError(t, err)
	var delivered int
	for _, h := range hist {
		if h.Status == string(model.DeliveryStatusDelivered) {
			delivered++
		}
	}
	assert.Equal(t, 1, delivered)
}

func TestDeliveryRejectsSkippedStep(t *testing.T) {
	u, _, placed, partnerID := newDeliverySetup(t)

	_, err := u.UpdateStatus(context.Background(), partnerID, placed.ID, "delivered")
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestDeliveryForeignOrderForbidden(t *testing.T) {
	u, _, placed, partnerID := newDeliverySetup(t)

	_, err := u.UpdateStatus(context.Background(), partnerID+1, placed.ID, "picked_up")
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)

	_, err = u.GetOrder(context.Background(), partnerID+1, placed.ID)
	he, ok = usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestDeliveryListOrders(t *testing.T) {
	u, _, placed, partnerID := newDeliverySetup(t)
	ctx := context.Background()

	orders, err := u.ListOrders(ctx, partnerID, "")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].ID)

	orders, err = u.ListOrders(ctx, partnerID, "picked_up")
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = u.ListOrders(ctx, partnerID, "lost")
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestDeliveryProfileDerivesActiveCount(t *testing.T) {
	u, _, placed, partnerID := newDeliverySetup(t)
	ctx := context.Background()

	profile, err := u.Profile(ctx, partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ActiveOrders)

	_, err = u.UpdateStatus(ctx, partnerID, placed.ID, "picked_up")
	require.NoError(t, err)
	_, err = u.UpdateStatus(ctx, partnerID, placed.ID, "in_transit")
	require.NoError(t, err)
	_, err = u.UpdateStatus(ctx, partnerID, placed.ID, "delivered")
	require.NoError(t, err)

	profile, err = u.Profile(ctx, partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.ActiveOrders)
	assert.Equal(t, int64(1), profile.Partner.TotalDeliveries)
}

func TestDeliveryUpdateProfile(t *testing.T) {
	u, _, _, partnerID := newDeliverySetup(t)
	ctx := context.Background()

	p, err := u.UpdateProfile(ctx, partnerID, usecase.PartnerProfileUpdate{
		Available: ptr(false),
		Status:    ptr("on_break"),
	})
	require.NoError(t, err)
	assert.False(t, p.Available)
	assert.Equal(t, model.PartnerStatusOnBreak, p.Status)

	_, err = u.UpdateProfile(ctx, partnerID, usecase.PartnerProfileUpdate{Status: ptr("retired")})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}
