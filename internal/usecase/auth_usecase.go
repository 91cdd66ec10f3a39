package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"

	"go.uber.org/zap"
)

const minPasswordLength = 8

type AuthUsecase struct {
	users    repo.UserRepository
	admins   repo.AdminRepository
	partners repo.DeliveryPartnerRepository
	resets   repo.PasswordResetRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	tokens   TokenIssuer
	idGen    IDGenerator
	clock    Clock
	log      *zap.Logger

	// revealResetTokens echoes the token in the response instead of mailing
	// it. Demo and dev only.
	revealResetTokens bool
}

func NewAuthUsecase(
	users repo.UserRepository,
	admins repo.AdminRepository,
	partners repo.DeliveryPartnerRepository,
	resets repo.PasswordResetRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	tokens TokenIssuer,
	idGen IDGenerator,
	clock Clock,
	revealResetTokens bool,
	log *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:             users,
		admins:            admins,
		partners:          partners,
		resets:            resets,
		hasher:            hasher,
		verifier:          verifier,
		tokens:            tokens,
		idGen:             idGen,
		clock:             clock,
		revealResetTokens: revealResetTokens,
		log:               log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Password string
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return model.User{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if len(in.Password) < minPasswordLength {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := model.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
		Password: hash,
	}
	id, err := u.users.Create(ctx, user)
	if errors.Is(err, repo.ErrDuplicate) {
		return model.User{}, NewHTTPError(http.StatusConflict, "email already registered")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	user.ID = id
	user.Password = ""
	return user, nil
}

type LoginOutput struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (u *AuthUsecase) Login(ctx context.Context, email, password string, role model.Role) (LoginOutput, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return LoginOutput{}, err
	}

	var (
		id   int64
		name string
		hash string
	)
	switch role {
	case model.RoleUser:
		usr, err := u.users.FindByEmail(ctx, email)
		if err != nil {
			return LoginOutput{}, loginError(err)
		}
		id, name, hash = usr.ID, usr.Name, usr.Password
	case model.RoleAdmin:
		adm, err := u.admins.FindByEmail(ctx, email)
		if err != nil {
			return LoginOutput{}, loginError(err)
		}
		id, name, hash = adm.ID, adm.Name, adm.Password
	case model.RolePartner:
		p, err := u.partners.FindByEmail(ctx, email)
		if err != nil {
			return LoginOutput{}, loginError(err)
		}
		id, name, hash = p.ID, p.Name, p.Password
	default:
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	if !u.verifier.Verify(hash, password) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	token, expiresAt, err := u.tokens.Issue(id, role, u.clock.Now())
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return LoginOutput{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      string(role),
	}, nil
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, role model.Role, id int64, current, next string) error {
	if len(next) < minPasswordLength {
		return NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	var hash string
	switch role {
	case model.RoleUser:
		usr, err := u.users.FindByID(ctx, id)
		if err != nil {
			return lookupError(err)
		}
		hash = usr.Password
	case model.RoleAdmin:
		adm, err := u.admins.FindByID(ctx, id)
		if err != nil {
			return lookupError(err)
		}
		hash = adm.Password
	case model.RolePartner:
		p, err := u.partners.FindByID(ctx, id)
		if err != nil {
			return lookupError(err)
		}
		hash = p.Password
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	if !u.verifier.Verify(hash, current) {
		return NewHTTPError(http.StatusUnauthorized, "current password is incorrect")
	}

	newHash, err := u.hasher.Hash(next)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	switch role {
	case model.RoleUser:
		err = u.users.UpdatePassword(ctx, id, newHash)
	case model.RoleAdmin:
		err = u.admins.UpdatePassword(ctx, id, newHash)
	case model.RolePartner:
		err = u.partners.UpdatePassword(ctx, id, newHash)
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type ForgotPasswordOutput struct {
	// DebugToken is only populated when mail delivery is disabled.
	DebugToken string `json:"debug_token,omitempty"`
}

// ForgotPassword always reports success so the endpoint does not leak which
// emails exist. A token is only issued when the account is real.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email, userType string) (ForgotPasswordOutput, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return ForgotPasswordOutput{}, err
	}
	if userType != "user" && userType != "admin" {
		return ForgotPasswordOutput{}, NewHTTPError(http.StatusBadRequest, "invalid user type")
	}

	var exists bool
	if userType == "user" {
		_, ferr := u.users.FindByEmail(ctx, email)
		exists = ferr == nil
	} else {
		_, ferr := u.admins.FindByEmail(ctx, email)
		exists = ferr == nil
	}
	if !exists {
		return ForgotPasswordOutput{}, nil
	}

	if err := u.resets.DeleteByEmail(ctx, email, userType); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return ForgotPasswordOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token := strings.ReplaceAll(u.idGen.NewID(), "-", "")
	now := u.clock.Now()
	pr := model.PasswordReset{
		Email:     email,
		Token:     token,
		UserType:  userType,
		ExpiresAt: now.Add(model.PasswordResetTTL),
	}
	if _, err := u.resets.Create(ctx, pr); err != nil {
		return ForgotPasswordOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.log.Info("password reset issued",
		zap.String("email", email),
		zap.String("user_type", userType),
	)

	var out ForgotPasswordOutput
	if u.revealResetTokens {
		out.DebugToken = token
	}
	return out, nil
}

func (u *AuthUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	pr, err := u.resets.FindByToken(ctx, token)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "invalid reset token")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !pr.Usable(u.clock.Now()) {
		return NewHTTPError(http.StatusBadRequest, "reset token expired or already used")
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if pr.UserType == "admin" {
		adm, err := u.admins.FindByEmail(ctx, pr.Email)
		if err != nil {
			return lookupError(err)
		}
		if err := u.admins.UpdatePassword(ctx, adm.ID, hash); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	} else {
		usr, err := u.users.FindByEmail(ctx, pr.Email)
		if err != nil {
			return lookupError(err)
		}
		if err := u.users.UpdatePassword(ctx, usr.ID, hash); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	if err := u.resets.MarkUsed(ctx, pr.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AuthUsecase) Me(ctx context.Context, role model.Role, id int64) (any, error) {
	switch role {
	case model.RoleUser:
		usr, err := u.users.FindByID(ctx, id)
		if err != nil {
			return nil, lookupError(err)
		}
		return usr, nil
	case model.RoleAdmin:
		adm, err := u.admins.FindByID(ctx, id)
		if err != nil {
			return nil, lookupError(err)
		}
		adm.Password = ""
		return adm, nil
	case model.RolePartner:
		p, err := u.partners.FindByID(ctx, id)
		if err != nil {
			return nil, lookupError(err)
		}
		return p, nil
	}
	return nil, NewHTTPError(http.StatusBadRequest, "invalid role")
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	return email, nil
}

func loginError(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		// same answer as a wrong password
		return NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

func lookupError(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
