package handler

import (
	"net/http"

	"bakery/internal/config"
	"bakery/internal/domain/model"
	"bakery/internal/middleware"
	"bakery/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	// checkout works for guests; a valid token attaches the order to the user
	e.POST("/api/orders", h.create, middleware.OptionalAuthJWT(cfg))
	e.POST("/api/payments/verify", h.verifyPayment)

	g := e.Group("/api/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireRole(model.RoleUser))
	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

type OrderItemRequest struct {
	ProductID *int64 `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

type OrderCreateRequest struct {
	Customer struct {
		Name    string `json:"name" validate:"required"`
		Email   string `json:"email" validate:"required,email"`
		Phone   string `json:"phone" validate:"required"`
		Address string `json:"address" validate:"required"`
	} `json:"customer"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingPrice int64              `json:"shipping_price"`
	TaxPrice      int64              `json:"tax_price"`
	CouponCode    string             `json:"coupon_code"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=cod online"`
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	// the duplicate-submit key travels in a header, not the body
	idemKey := c.Request().Header.Get("X-Idempotency-Key")

	in := usecase.PlaceOrderInput{
		Customer: model.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		ShippingPrice:  req.ShippingPrice,
		TaxPrice:       req.TaxPrice,
		CouponCode:     req.CouponCode,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: idemKey,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.PlaceOrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	if userID, ok := getUserIDFromContext(c); ok {
		if role, _ := getRoleFromContext(c); role == string(model.RoleUser) {
			in.UserID = &userID
		}
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	if page < 1 || limit < 1 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	orders, total, err := h.uc.ListMyOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, PagedResponse{Items: orders, Total: total, Page: page, Limit: limit})
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMyOrder(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type PaymentVerifyRequest struct {
	OrderID int64  `json:"order_id" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=paid failed refunded"`
	Ref     string `json:"ref"`
}

func (h *OrderHandler) verifyPayment(c echo.Context) error {
	var req PaymentVerifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.VerifyPayment(c.Request().Context(), req.OrderID, req.Status, req.Ref)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
