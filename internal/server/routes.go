package server

import (
	"bakery/internal/config"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e)
	h.Coupon.RegisterRoutes(e)

	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminCatalog.RegisterRoutes(e, cfg)
	h.AdminDirectory.RegisterRoutes(e, cfg)

	h.Delivery.RegisterRoutes(e, cfg)
}
