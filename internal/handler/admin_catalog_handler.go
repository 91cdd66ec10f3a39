package handler

import (
	"net/http"
	"time"

	"bakery/internal/config"
	"bakery/internal/domain/model"
	"bakery/internal/middleware"
	"bakery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Admin-side catalogue management: products and coupons.
type AdminCatalogHandler struct {
	products *usecase.ProductUsecase
	coupons  *usecase.CouponUsecase
}

func NewAdminCatalogHandler(products *usecase.ProductUsecase, coupons *usecase.CouponUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{products: products, coupons: coupons}
}

func (h *AdminCatalogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)

	g.GET("/coupons", h.listCoupons)
	g.POST("/coupons", h.createCoupon)
	g.PUT("/coupons/:id", h.updateCoupon)
	g.DELETE("/coupons/:id", h.deleteCoupon)
}

type ProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"min=0"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	InStock     bool   `json:"in_stock"`
}

func (r ProductRequest) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		InStock:     r.InStock,
	}
}

func (h *AdminCatalogHandler) createProduct(c echo.Context) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.products.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminCatalogHandler) updateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.products.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminCatalogHandler) deleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

type CouponRequest struct {
	Code        string     `json:"code" validate:"required"`
	Type        string     `json:"type" validate:"required,oneof=percentage fixed"`
	Value       int64      `json:"value" validate:"required,min=1"`
	MinOrder    int64      `json:"min_order" validate:"min=0"`
	MaxDiscount int64      `json:"max_discount" validate:"min=0"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func (r CouponRequest) toInput() usecase.CouponInput {
	return usecase.CouponInput{
		Code:        r.Code,
		Type:        r.Type,
		Value:       r.Value,
		MinOrder:    r.MinOrder,
		MaxDiscount: r.MaxDiscount,
		Active:      r.Active,
		ExpiresAt:   r.ExpiresAt,
	}
}

func (h *AdminCatalogHandler) listCoupons(c echo.Context) error {
	out, err := h.coupons.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCatalogHandler) createCoupon(c echo.Context) error {
	var req CouponRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.coupons.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateCoupon(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req CouponRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.coupons.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCatalogHandler) deleteCoupon(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.coupons.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
