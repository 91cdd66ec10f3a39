package fixture

import (
	"context"
	"sort"
	"time"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
)

type userFixtureRepo struct{ s *Store }

func (r *userFixtureRepo) Create(ctx context.Context, u model.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return 0, repo.ErrDuplicate
		}
	}
	u.ID = r.s.id()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.s.users[u.ID] = u
	return u.ID, nil
}

func (r *userFixtureRepo) FindByID(ctx context.Context, id int64) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *userFixtureRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repo.ErrNotFound
}

func (r *userFixtureRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *userFixtureRepo) Update(ctx context.Context, u model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	existing.Name = u.Name
	existing.Phone = u.Phone
	existing.Address = u.Address
	existing.UpdatedAt = time.Now()
	r.s.users[u.ID] = existing
	return nil
}

func (r *userFixtureRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

func (r *userFixtureRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

type adminFixtureRepo struct{ s *Store }

func (r *adminFixtureRepo) Create(ctx context.Context, a model.Admin) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.admins {
		if existing.Email == a.Email {
			return 0, repo.ErrDuplicate
		}
	}
	a.ID = r.s.id()
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.s.admins[a.ID] = a
	return a.ID, nil
}

func (r *adminFixtureRepo) FindByID(ctx context.Context, id int64) (model.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.admins[id]
	if !ok {
		return model.Admin{}, repo.ErrNotFound
	}
	return a, nil
}

func (r *adminFixtureRepo) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Admin{}, repo.ErrNotFound
}

func (r *adminFixtureRepo) List(ctx context.Context) ([]model.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]model.Admin, 0, len(r.s.admins))
	for _, a := range r.s.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *adminFixtureRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.admins[id]
	if !ok {
		return repo.ErrNotFound
	}
	a.Password = hash
	a.UpdatedAt = time.Now()
	r.s.admins[id] = a
	return nil
}

func (r *adminFixtureRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.admins[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.admins, id)
	return nil
}

type otpFixtureRepo struct{ s *Store }

func (r *otpFixtureRepo) Create(ctx context.Context, otp model.OTP) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	otp.ID = r.s.id()
	otp.CreatedAt = time.Now()
	r.s.otps[otp.ID] = otp
	return otp.ID, nil
}

func (r *otpFixtureRepo) FindLive(ctx context.Context, identifier string, otpType model.OTPType) (model.OTP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var found *model.OTP
	for _, o := range r.s.otps {
		if o.Identifier == identifier && o.Type == otpType && !o.Verified {
			if found == nil || o.ID > found.ID {
				o := o
				found = &o
			}
		}
	}
	if found == nil {
		return model.OTP{}, repo.ErrNotFound
	}
	return *found, nil
}

func (r *otpFixtureRepo) DeleteByIdentifier(ctx context.Context, identifier string, otpType model.OTPType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, o := range r.s.otps {
		if o.Identifier == identifier && o.Type == otpType {
			delete(r.s.otps, id)
		}
	}
	return nil
}

func (r *otpFixtureRepo) IncrementAttempts(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.otps[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.Attempts++
	r.s.otps[id] = o
	return nil
}

func (r *otpFixtureRepo) MarkVerified(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.otps[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.Verified = true
	r.s.otps[id] = o
	return nil
}

func (r *otpFixtureRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.otps, id)
	return nil
}

func (r *otpFixtureRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, o := range r.s.otps {
		if now.After(o.ExpiresAt) {
			delete(r.s.otps, id)
			n++
		}
	}
	return n, nil
}

type passwordResetFixtureRepo struct{ s *Store }

func (r *passwordResetFixtureRepo) Create(ctx context.Context, pr model.PasswordReset) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pr.ID = r.s.id()
	pr.CreatedAt = time.Now()
	r.s.resets[pr.ID] = pr
	return pr.ID, nil
}

func (r *passwordResetFixtureRepo) FindByToken(ctx context.Context, token string) (model.PasswordReset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, pr := range r.s.resets {
		if pr.Token == token {
			return pr, nil
		}
	}
	return model.PasswordReset{}, repo.ErrNotFound
}

func (r *passwordResetFixtureRepo) MarkUsed(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pr, ok := r.s.resets[id]
	if !ok {
		return repo.ErrNotFound
	}
	pr.Used = true
	r.s.resets[id] = pr
	return nil
}

func (r *passwordResetFixtureRepo) DeleteByEmail(ctx context.Context, email, userType string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, pr := range r.s.resets {
		if pr.Email == email && pr.UserType == userType {
			delete(r.s.resets, id)
		}
	}
	return nil
}
