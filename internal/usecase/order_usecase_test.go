package usecase_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"bakery/internal/domain/model"
	"bakery/internal/infra/fixture"
	"bakery/internal/usecase"
	"bakery/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderUsecase(t *testing.T) (*usecase.OrderUsecase, *fixture.Store, *fakeClock) {
	t.Helper()
	store := fixture.NewStore()
	store.Seed()
	clock := newFakeClock()
	u := usecase.NewOrderUsecase(store, events.Noop{}, &seqIDGen{}, clock, zap.NewNop())
	return u, store, clock
}

func checkoutInput(key string) usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{
		Customer: model.Customer{
			Name:    "Asha Patel",
			Email:   "asha@example.com",
			Phone:   "9000000002",
			Address: "12 Rose Street",
		},
		Items: []usecase.PlaceOrderItem{
			{ProductID: ptr(int64(1)), Quantity: 1}, // cake, 550
			{ProductID: ptr(int64(2)), Quantity: 2}, // croissant, 50
		},
		ShippingPrice:  50,
		CouponCode:     "SWEET25",
		PaymentMethod:  "cod",
		IdempotencyKey: key,
	}
}

func TestPlaceOrder(t *testing.T) {
	u, _, _ := newOrderUsecase(t)

	order, err := u.PlaceOrder(context.Background(), checkoutInput("key-1"))
	require.NoError(t, err)

	assert.Equal(t, int64(650), order.ItemsPrice)
	assert.Equal(t, int64(25), order.Discount)
	assert.Equal(t, int64(675), order.TotalPrice) // 650 + 50 shipping - 25
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.DeliveryStatusPending, order.DeliveryStatus)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "BKY-20260314-"))

	// catalogue snapshot wins over whatever the client sent
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Chocolate Truffle Cake", order.Items[0].Name)
	assert.Equal(t, int64(550), order.Items[0].UnitPrice)

	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, string(model.OrderStatusPending), order.StatusHistory[0].Status)
	assert.Equal(t, model.ActorSystem, order.StatusHistory[0].Actor)
}

func TestPlaceOrderIdempotentReplay(t *testing.T) {
	u, _, _ := newOrderUsecase(t)

	first, err := u.PlaceOrder(context.Background(), checkoutInput("key-dup"))
	require.NoError(t, err)

	second, err := u.PlaceOrder(context.Background(), checkoutInput("key-dup"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)

	third, err := u.PlaceOrder(context.Background(), checkoutInput("key-other"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

// dupIDGen repeats the same leading six characters for its first draws,
// then yields distinct ids.
type dupIDGen struct{ n int }

func (g *dupIDGen) NewID() string {
	g.n++
	if g.n <= 2 {
		return "aaaaaa-dup"
	}
	return fmt.Sprintf("%06d-dup", g.n)
}

func TestPlaceOrderRedrawsCollidingOrderNumber(t *testing.T) {
	store := fixture.NewStore()
	store.Seed()
	u := usecase.NewOrderUsecase(store, events.Noop{}, &dupIDGen{}, newFakeClock(), zap.NewNop())
	ctx := context.Background()

	first, err := u.PlaceOrder(ctx, checkoutInput("key-a"))
	require.NoError(t, err)

	// a fresh key whose generated number collides with the first order
	// must get a new number, not an idempotency conflict
	second, err := u.PlaceOrder(ctx, checkoutInput("key-b"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
}

func TestPlaceOrderRejectsCouponBelowMinimum(t *testing.T) {
	u, _, _ := newOrderUsecase(t)

	in := checkoutInput("key-min")
	in.Items = []usecase.PlaceOrderItem{{ProductID: ptr(int64(2)), Quantity: 1}} // 50 < 500 min

	_, err := u.PlaceOrder(context.Background(), in)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, model.CouponRejectMinOrder, he.Message)
}

func TestPlaceOrderUnknownCoupon(t *testing.T) {
	u, _, _ := newOrderUsecase(t)

	in := checkoutInput("key-coupon")
	in.CouponCode = "NOPE"

	_, err := u.PlaceOrder(context.Background(), in)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestPlaceOrderValidation(t *testing.T) {
	u, _, _ := newOrderUsecase(t)
	ctx := context.Background()

	in := checkoutInput("")
	_, err := u.PlaceOrder(ctx, in)
	he, _ := usecase.AsHTTPError(err)
	require.NotNil(t, he)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	in = checkoutInput("key-v1")
	in.Items = nil
	_, err = u.PlaceOrder(ctx, in)
	he, _ = usecase.AsHTTPError(err)
	require.NotNil(t, he)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	in = checkoutInput("key-v2")
	in.Items[0].Quantity = 0
	_, err = u.PlaceOrder(ctx, in)
	he, _ = usecase.AsHTTPError(err)
	require.NotNil(t, he)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	in = checkoutInput("key-v3")
	in.PaymentMethod = "crypto"
	_, err = u.PlaceOrder(ctx, in)
	he, _ = usecase.AsHTTPError(err)
	require.NotNil(t, he)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestPlaceOrderFreeFormItemNeedsNameAndPrice(t *testing.T) {
	u, _, _ := newOrderUsecase(t)

	in := checkoutInput("key-free")
	in.CouponCode = ""
	in.Items = []usecase.PlaceOrderItem{{Name: "Custom Cake Topper", UnitPrice: 120, Quantity: 1}}

	order, err := u.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(120), order.ItemsPrice)

	in = checkoutInput("key-free-bad")
	in.Items = []usecase.PlaceOrderItem{{UnitPrice: 120, Quantity: 1}}
	_, err = u.PlaceOrder(context.Background(), in)
	he, _ := usecase.AsHTTPError(err)
	require.NotNil(t, he)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestGetMyOrderScopedToOwner(t *testing.T) {
	u, _, _ := newOrderUsecase(t)
	ctx := context.Background()

	in := checkoutInput("key-own")
	in.UserID = ptr(int64(77))
	placed, err := u.PlaceOrder(ctx, in)
	require.NoError(t, err)

	got, err := u.GetMyOrder(ctx, 77, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, got.OrderNumber)

	_, err = u.GetMyOrder(ctx, 78, placed.ID)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
