package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"bakery/internal/domain/model"
	"bakery/internal/infra/fixture"
	repo "bakery/internal/repository"
	"bakery/internal/usecase"
	"bakery/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAdminSetup(t *testing.T) (*usecase.AdminOrderUsecase, *fixture.Store, model.Order) {
	t.Helper()
	store := fixture.NewStore()
	store.Seed()
	clock := newFakeClock()

	orderUC := usecase.NewOrderUsecase(store, events.Noop{}, &seqIDGen{}, clock, zap.NewNop())
	placed, err := orderUC.PlaceOrder(context.Background(), checkoutInput("admin-key"))
	require.NoError(t, err)

	return usecase.NewAdminOrderUsecase(store, events.Noop{}, clock, zap.NewNop()), store, placed
}

func seededPartnerID(t *testing.T, store *fixture.Store) int64 {
	t.Helper()
	partners, err := store.Partners().List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, partners)
	return partners[0].ID
}

func TestAdminUpdateStatus(t *testing.T) {
	u, _, placed := newAdminSetup(t)
	ctx := context.Background()

	updated, err := u.UpdateStatus(ctx, 1, placed.ID, "confirmed", "payment checked")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)

	// history gains an admin entry on top of the placement entry
	require.Len(t, updated.StatusHistory, 2)
	last := updated.StatusHistory[1]
	assert.Equal(t, "confirmed", last.Status)
	assert.Equal(t, model.ActorAdmin, last.Actor)
	assert.Equal(t, "payment checked", last.Note)
}

func TestAdminUpdateStatusSameStatusIsNoOp(t *testing.T) {
	u, _, placed := newAdminSetup(t)

	updated, err := u.UpdateStatus(context.Background(), 1, placed.ID, "pending", "")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, updated.Status)
	assert.Len(t, updated.StatusHistory, 1)
}

func TestAdminUpdateStatusRejectsIllegalJump(t *testing.T) {
	u, _, placed := newAdminSetup(t)

	_, err := u.UpdateStatus(context.Background(), 1, placed.ID, "delivered", "")
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestAdminUpdateStatusUnknownOrder(t *testing.T) {
	u, _, _ := newAdminSetup(t)

	_, err := u.UpdateStatus(context.Background(), 1, 9999, "confirmed", "")
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestAdminUpdateStatusWritesAuditLog(t *testing.T) {
	u, store, placed := newAdminSetup(t)
	ctx := context.Background()

	_, err := u.UpdateStatus(ctx, 42, placed.ID, "confirmed", "")
	require.NoError(t, err)

	logs, err := store.AuditLogs().List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(42), logs[0].ActorAdminID)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, logs[0].Action)
	assert.Equal(t, placed.ID, logs[0].ResourceID)
	assert.Contains(t, logs[0].AfterJSON, "confirmed")
}

func TestAdminAssign(t *testing.T) {
	u, store, placed := newAdminSetup(t)
	ctx := context.Background()
	partnerID := seededPartnerID(t, store)

	assigned, err := u.Assign(ctx, 1, placed.ID, partnerID)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusAssigned, assigned.DeliveryStatus)
	require.NotNil(t, assigned.DeliveryPartnerID)
	assert.Equal(t, partnerID, *assigned.DeliveryPartnerID)

	// assignment shows up as the partner's active load
	n, err := store.Orders().CountActiveByPartner(ctx, partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// a second assignment conflicts instead of double-booking
	_, err = u.Assign(ctx, 1, placed.ID, partnerID)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestAdminAssignUnavailablePartner(t *testing.T) {
	u, store, placed := newAdminSetup(t)
	ctx := context.Background()
	partnerID := seededPartnerID(t, store)

	p, err := store.Partners().FindByID(ctx, partnerID)
	require.NoError(t, err)
	p.Status = model.PartnerStatusOnBreak
	require.NoError(t, store.Partners().Update(ctx, p))

	_, err = u.Assign(ctx, 1, placed.ID, partnerID)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestAdminDelete(t *testing.T) {
	u, store, placed := newAdminSetup(t)
	ctx := context.Background()

	require.NoError(t, u.Delete(ctx, 1, placed.ID))

	_, err := store.Orders().FindByID(ctx, placed.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	err = u.Delete(ctx, 1, placed.ID)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
