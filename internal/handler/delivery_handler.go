package handler

import (
	"net/http"

	"bakery/internal/config"
	"bakery/internal/domain/model"
	"bakery/internal/middleware"
	"bakery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Delivery partner dashboard endpoints. Every route is scoped to the
// authenticated partner.
type DeliveryHandler struct {
	uc *usecase.DeliveryUsecase
}

func NewDeliveryHandler(uc *usecase.DeliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

func (h *DeliveryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/delivery")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireRole(model.RolePartner))

	g.GET("/orders", h.listOrders)
	g.GET("/orders/:id", h.orderDetail)
	g.PATCH("/orders/:id/status", h.updateStatus)
	g.GET("/profile", h.profile)
	g.PATCH("/profile", h.updateProfile)
}

func (h *DeliveryHandler) listOrders(c echo.Context) error {
	partnerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListOrders(c.Request().Context(), partnerID, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) orderDetail(c echo.Context) error {
	partnerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetOrder(c.Request().Context(), partnerID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type DeliveryStatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *DeliveryHandler) updateStatus(c echo.Context) error {
	partnerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req DeliveryStatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), partnerID, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) profile(c echo.Context) error {
	partnerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Profile(c.Request().Context(), partnerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) updateProfile(c echo.Context) error {
	partnerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PartnerUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), partnerID, usecase.PartnerProfileUpdate{
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
		VehicleNo:   req.VehicleNo,
		Available:   req.Available,
		Status:      req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
