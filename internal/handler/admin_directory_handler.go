package handler

import (
	"net/http"
	"time"

	"bakery/internal/config"
	"bakery/internal/domain/model"
	"bakery/internal/middleware"
	"bakery/internal/repository"
	"bakery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Admin-side account management: customers, admins, delivery partners, and
// the audit trail.
type AdminDirectoryHandler struct {
	uc *usecase.DirectoryUsecase
}

func NewAdminDirectoryHandler(uc *usecase.DirectoryUsecase) *AdminDirectoryHandler {
	return &AdminDirectoryHandler{uc: uc}
}

func (h *AdminDirectoryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.GET("/users", h.listUsers)
	g.GET("/users/:id", h.getUser)
	g.PUT("/users/:id", h.updateUser)
	g.DELETE("/users/:id", h.deleteUser)

	g.GET("/admins", h.listAdmins)
	g.POST("/admins", h.createAdmin)
	g.DELETE("/admins/:id", h.deleteAdmin)

	g.GET("/partners", h.listPartners)
	g.POST("/partners", h.createPartner)
	g.PATCH("/partners/:id", h.updatePartner)
	g.DELETE("/partners/:id", h.deletePartner)

	g.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminDirectoryHandler) listUsers(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)
	if page < 1 || limit < 1 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	users, total, err := h.uc.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, PagedResponse{Items: users, Total: total, Page: page, Limit: limit})
}

func (h *AdminDirectoryHandler) getUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetUser(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type UserUpdateRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (h *AdminDirectoryHandler) updateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UserUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.UpdateUser(c.Request().Context(), id, usecase.UserUpdateInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminDirectoryHandler) deleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteUser(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminDirectoryHandler) listAdmins(c echo.Context) error {
	out, err := h.uc.ListAdmins(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type AdminCreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *AdminDirectoryHandler) createAdmin(c echo.Context) error {
	var req AdminCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.CreateAdmin(c.Request().Context(), usecase.AdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminDirectoryHandler) deleteAdmin(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteAdmin(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminDirectoryHandler) listPartners(c echo.Context) error {
	out, err := h.uc.ListPartners(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type PartnerCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	VehicleType string `json:"vehicle_type"`
	VehicleNo   string `json:"vehicle_no"`
	Password    string `json:"password" validate:"required,min=8"`
}

func (h *AdminDirectoryHandler) createPartner(c echo.Context) error {
	var req PartnerCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.CreatePartner(c.Request().Context(), usecase.PartnerInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
		VehicleNo:   req.VehicleNo,
		Password:    req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type PartnerUpdateRequest struct {
	Phone       *string `json:"phone"`
	VehicleType *string `json:"vehicle_type"`
	VehicleNo   *string `json:"vehicle_no"`
	Available   *bool   `json:"available"`
	Status      *string `json:"status"`
}

func (h *AdminDirectoryHandler) updatePartner(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req PartnerUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.UpdatePartner(c.Request().Context(), id, usecase.PartnerProfileUpdate{
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

func (h *AdminDirectoryHandler) deletePartner(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeletePartner(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminDirectoryHandler) listAuditLogs(c echo.Context) error {
	limit := queryInt(c, "limit", 100)
	offset := queryInt(c, "offset", 0)
	if limit < 1 || offset < 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit or offset"})
	}

	f := repository.AuditLogFilter{Limit: limit, Offset: offset}

	actorID, ok := queryInt64Ptr(c, "actor_admin_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_admin_id"})
	}
	f.ActorAdminID = actorID

	resourceID, ok := queryInt64Ptr(c, "resource_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
	}
	f.ResourceID = resourceID

	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	if v := c.QueryParam("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		f.CreatedFrom = &tm
	}
	if v := c.QueryParam("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		f.CreatedTo = &tm
	}

	out, err := h.uc.ListAuditLogs(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
