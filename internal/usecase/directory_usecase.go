package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
)

// DirectoryUsecase covers the admin back office: customer accounts, admin
// accounts, delivery partner records and the audit trail.
type DirectoryUsecase struct {
	tx     repo.TransactionManager
	users  repo.UserRepository
	admins repo.AdminRepository
	hasher PasswordHasher
}

func NewDirectoryUsecase(tx repo.TransactionManager, users repo.UserRepository, admins repo.AdminRepository, hasher PasswordHasher) *DirectoryUsecase {
	return &DirectoryUsecase{tx: tx, users: users, admins: admins, hasher: hasher}
}

func (u *DirectoryUsecase) ListUsers(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	out, total, err := u.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return out, total, nil
}

func (u *DirectoryUsecase) GetUser(ctx context.Context, id int64) (model.User, error) {
	usr, err := u.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, lookupError(err)
	}
	return usr, nil
}

type UserUpdateInput struct {
	Name    *string
	Phone   *string
	Address *string
}

func (u *DirectoryUsecase) UpdateUser(ctx context.Context, id int64, in UserUpdateInput) (model.User, error) {
	usr, err := u.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, lookupError(err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "name cannot be empty")
		}
		usr.Name = name
	}
	if in.Phone != nil {
		usr.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		usr.Address = strings.TrimSpace(*in.Address)
	}

	if err := u.users.Update(ctx, usr); err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return usr, nil
}

func (u *DirectoryUsecase) DeleteUser(ctx context.Context, id int64) error {
	err := u.users.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type AdminInput struct {
	Name     string
	Email    string
	Password string
}

func (u *DirectoryUsecase) CreateAdmin(ctx context.Context, in AdminInput) (model.Admin, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return model.Admin{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Admin{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if len(in.Password) < minPasswordLength {
		return model.Admin{}, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.Admin{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	adm := model.Admin{Name: strings.TrimSpace(in.Name), Email: email, Password: hash}
	id, err := u.admins.Create(ctx, adm)
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Admin{}, NewHTTPError(http.StatusConflict, "email already registered")
	}
	if err != nil {
		return model.Admin{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	adm.ID = id
	adm.Password = ""
	return adm, nil
}

func (u *DirectoryUsecase) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	out, err := u.admins.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return out, nil
}

func (u *DirectoryUsecase) DeleteAdmin(ctx context.Context, id int64) error {
	err := u.admins.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type PartnerInput struct {
	Name        string
	Email       string
	Phone       string
	VehicleType string
	VehicleNo   string
	Password    string
}

func (u *DirectoryUsecase) CreatePartner(ctx context.Context, in PartnerInput) (model.DeliveryPartner, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return model.DeliveryPartner{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.DeliveryPartner{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return model.DeliveryPartner{}, NewHTTPError(http.StatusBadRequest, "phone is required")
	}
	if len(in.Password) < minPasswordLength {
		return model.DeliveryPartner{}, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.DeliveryPartner{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	p := model.DeliveryPartner{
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Phone:       strings.TrimSpace(in.Phone),
		VehicleType: strings.TrimSpace(in.VehicleType),
		VehicleNo:   strings.TrimSpace(in.VehicleNo),
		Password:    hash,
		Available:   true,
		Status:      model.PartnerStatusActive,
	}

	var id int64
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var cerr error
		id, cerr = r.Partners().Create(ctx, p)
		if errors.Is(cerr, repo.ErrDuplicate) {
			return NewHTTPError(http.StatusConflict, "email already registered")
		}
		if cerr != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return model.DeliveryPartner{}, err
	}
	p.ID = id
	p.Password = ""
	return p, nil
}

// PartnerWithLoad pairs a partner with the number of orders currently on the
// road with them.
type PartnerWithLoad struct {
	model.DeliveryPartner
	ActiveOrders int64 `json:"active_orders"`
}

func (u *DirectoryUsecase) ListPartners(ctx context.Context) ([]PartnerWithLoad, error) {
	var out []PartnerWithLoad
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		partners, err := r.Partners().List(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = make([]PartnerWithLoad, 0, len(partners))
		for _, p := range partners {
			n, err := r.Orders().CountActiveByPartner(ctx, p.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = append(out, PartnerWithLoad{DeliveryPartner: p, ActiveOrders: n})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *DirectoryUsecase) UpdatePartner(ctx context.Context, id int64, in PartnerProfileUpdate) (model.DeliveryPartner, error) {
	var out model.DeliveryPartner
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Partners().FindByID(ctx, id)
		if err != nil {
			return lookupError(err)
		}

		if in.Phone != nil {
			p.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.VehicleType != nil {
			p.VehicleType = strings.TrimSpace(*in.VehicleType)
		}
		if in.VehicleNo != nil {
			p.VehicleNo = strings.TrimSpace(*in.VehicleNo)
		}
		if in.Available != nil {
			p.Available = *in.Available
		}
		if in.Status != nil {
			st := model.PartnerStatus(*in.Status)
			if !st.Valid() {
				return NewHTTPError(http.StatusBadRequest, "invalid partner status")
			}
			p.Status = st
		}

		if err := r.Partners().Update(ctx, p); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = p
		return nil
	})
	return out, err
}

// DeletePartner refuses while the partner still has orders in flight.
func (u *DirectoryUsecase) DeletePartner(ctx context.Context, id int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Partners().FindByID(ctx, id); err != nil {
			return lookupError(err)
		}
		n, err := r.Orders().CountActiveByPartner(ctx, id)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if n > 0 {
			return NewHTTPError(http.StatusConflict, "partner has active orders")
		}
		if err := r.Partners().Delete(ctx, id); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *DirectoryUsecase) ListAuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	var out []model.AuditLog
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		logs, err := r.AuditLogs().List(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = logs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
