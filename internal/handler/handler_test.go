package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bakery/internal/config"
	"bakery/internal/domain/model"
	"bakery/internal/handler"
	"bakery/internal/infra/fixture"
	"bakery/internal/usecase"
	"bakery/pkg/events"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testClock struct{}

func (testClock) Now() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

type testIDGen struct{ n int }

func (g *testIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("%06d", g.n)
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", DeliveryFeeDefault: 50}
}

func signToken(t *testing.T, cfg config.Config, subject int64, role model.Role) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return signed
}

func newTestServer(t *testing.T) (*echo.Echo, *fixture.Store, config.Config) {
	t.Helper()
	store := fixture.NewStore()
	store.Seed()
	cfg := testConfig()
	log := zap.NewNop()
	clock := testClock{}

	orderUC := usecase.NewOrderUsecase(store, events.Noop{}, &testIDGen{}, clock, log)
	deliveryUC := usecase.NewDeliveryUsecase(store, events.Noop{}, clock, cfg.DeliveryFeeDefault, log)
	couponUC := usecase.NewCouponUsecase(store.Coupons(), clock)

	e := echo.New()
	handler.NewOrderHandler(orderUC).RegisterRoutes(e, cfg)
	handler.NewCouponHandler(couponUC).RegisterRoutes(e)
	handler.NewDeliveryHandler(deliveryUC).RegisterRoutes(e, cfg)
	return e, store, cfg
}

func TestValidateCouponEndpoint(t *testing.T) {
	e, _, _ := newTestServer(t)

	body := `{"code":"SWEET25","subtotal":650}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out usecase.ValidateCouponOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Valid)
	assert.Equal(t, int64(25), out.Discount)
	assert.Equal(t, int64(625), out.Total)
}

func TestValidateCouponEndpointUnknownCode(t *testing.T) {
	e, _, _ := newTestServer(t)

	body := `{"code":"NOPE","subtotal":650}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown coupon")
}

func TestGuestCheckoutEndpoint(t *testing.T) {
	e, _, _ := newTestServer(t)

	body := `{
		"customer": {"name":"Asha Patel","email":"asha@example.com","phone":"9000000002","address":"12 Rose Street"},
		"items": [{"product_id":1,"quantity":1}],
		"shipping_price": 50,
		"payment_method": "cod"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Idempotency-Key", "guest-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var out model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(600), out.TotalPrice) // 550 + 50 shipping
	assert.Nil(t, out.UserID)

	// replay with the same key answers with the same order
	req = httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Idempotency-Key", "guest-1")
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req)

	require.Equal(t, http.StatusCreated, rec2.Code)
	var replay model.Order
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &replay))
	assert.Equal(t, out.ID, replay.ID)
	assert.Equal(t, out.OrderNumber, replay.OrderNumber)
}

func TestCheckoutMissingIdempotencyKey(t *testing.T) {
	e, _, _ := newTestServer(t)

	body := `{
		"customer": {"name":"Asha","email":"asha@example.com","phone":"9","address":"x"},
		"items": [{"product_id":1,"quantity":1}],
		"payment_method": "cod"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "idempotency key")
}

func TestDeliveryRoutesRequirePartnerRole(t *testing.T) {
	e, _, cfg := newTestServer(t)

	// no token
	req := httptest.NewRequest(http.MethodGet, "/api/delivery/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// user token on a partner route
	req = httptest.NewRequest(http.MethodGet, "/api/delivery/profile", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, cfg, 1, model.RoleUser))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeliveryProfileEndpoint(t *testing.T) {
	e, store, cfg := newTestServer(t)

	partners, err := store.Partners().List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, partners)
	partnerID := partners[0].ID

	req := httptest.NewRequest(http.MethodGet, "/api/delivery/profile", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, cfg, partnerID, model.RolePartner))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out usecase.PartnerProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, partnerID, out.Partner.ID)
	assert.Zero(t, out.ActiveOrders)
}
