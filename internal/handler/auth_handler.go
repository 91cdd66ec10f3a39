package handler

import (
	"net/http"
	"strings"

	"bakery/internal/config"
	"bakery/internal/domain/model"
	"bakery/internal/middleware"
	"bakery/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	auth *usecase.AuthUsecase
	otp  *usecase.OTPUsecase
}

func NewAuthHandler(auth *usecase.AuthUsecase, otp *usecase.OTPUsecase) *AuthHandler {
	return &AuthHandler{auth: auth, otp: otp}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/auth")

	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/forgot-password", h.forgotPassword)
	g.POST("/reset-password", h.resetPassword)
	g.POST("/otp/send", h.sendOTP)
	g.POST("/otp/verify", h.verifyOTP)

	authed := g.Group("")
	authed.Use(middleware.AuthJWT(cfg))
	authed.GET("/me", h.me)
	authed.POST("/change-password", h.changePassword)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"` // user (default) | admin | partner
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	role := model.RoleUser
	switch strings.ToLower(req.Role) {
	case "", "user":
	case "admin":
		role = model.RoleAdmin
	case "partner":
		role = model.RolePartner
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid role"})
	}

	out, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	id, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	role, ok := getRoleFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.auth.Me(c.Request().Context(), model.Role(role), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	id, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	role, ok := getRoleFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.Request().Context(), model.Role(role), id, req.CurrentPassword, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "password updated"})
}

type ForgotPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	UserType string `json:"user_type"` // user (default) | admin
}

func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.UserType == "" {
		req.UserType = "user"
	}

	out, err := h.auth.ForgotPassword(c.Request().Context(), req.Email, req.UserType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.auth.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "password reset"})
}

type SendOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=phone email"`
}

func (h *AuthHandler) sendOTP(c echo.Context) error {
	var req SendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.otp.Send(c.Request().Context(), req.Identifier, req.Type)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type VerifyOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=phone email"`
	Code       string `json:"code" validate:"required,len=6"`
}

func (h *AuthHandler) verifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.otp.Verify(c.Request().Context(), req.Identifier, req.Type, req.Code); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "verified"})
}
