package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"

	"go.uber.org/zap"
)

type OTPUsecase struct {
	otps  repo.OTPRepository
	clock Clock
	log   *zap.Logger

	// revealCodes echoes the generated code in the response instead of
	// sending it out of band. Demo and dev only.
	revealCodes bool
}

func NewOTPUsecase(otps repo.OTPRepository, clock Clock, revealCodes bool, log *zap.Logger) *OTPUsecase {
	return &OTPUsecase{otps: otps, clock: clock, revealCodes: revealCodes, log: log}
}

type SendOTPOutput struct {
	Identifier string `json:"identifier"`
	ExpiresAt  string `json:"expires_at"`
	// DebugCode is only populated when delivery channels are disabled.
	DebugCode string `json:"debug_code,omitempty"`
}

// Send issues a fresh code for the identifier, replacing any live one.
func (u *OTPUsecase) Send(ctx context.Context, identifier, otpType string) (SendOTPOutput, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return SendOTPOutput{}, NewHTTPError(http.StatusBadRequest, "identifier is required")
	}
	t := model.OTPType(otpType)
	if t != model.OTPTypePhone && t != model.OTPTypeEmail {
		return SendOTPOutput{}, NewHTTPError(http.StatusBadRequest, "invalid otp type")
	}

	if err := u.otps.DeleteByIdentifier(ctx, identifier, t); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return SendOTPOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	code, err := generateOTPCode()
	if err != nil {
		return SendOTPOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	otp := model.OTP{
		Identifier: identifier,
		Type:       t,
		Code:       code,
		ExpiresAt:  now.Add(model.OTPTTL),
		CreatedAt:  now,
	}
	if _, err := u.otps.Create(ctx, otp); err != nil {
		return SendOTPOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.log.Info("otp issued",
		zap.String("identifier", identifier),
		zap.String("type", string(t)),
	)

	out := SendOTPOutput{Identifier: identifier, ExpiresAt: otp.ExpiresAt.Format("2006-01-02T15:04:05Z07:00")}
	if u.revealCodes {
		out.DebugCode = code
	}
	return out, nil
}

// Verify checks a code against the live record. Expired records and records
// that already burned through their attempts are deleted on sight, so the
// caller has to request a new code.
func (u *OTPUsecase) Verify(ctx context.Context, identifier, otpType, code string) error {
	identifier = strings.TrimSpace(identifier)
	t := model.OTPType(otpType)
	if identifier == "" || (t != model.OTPTypePhone && t != model.OTPTypeEmail) {
		return NewHTTPError(http.StatusBadRequest, "invalid identifier or otp type")
	}

	otp, err := u.otps.FindLive(ctx, identifier, t)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "otp not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if otp.Expired(u.clock.Now()) {
		if err := u.otps.Delete(ctx, otp.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return NewHTTPError(http.StatusBadRequest, "otp expired")
	}
	if otp.AttemptsExhausted() {
		if err := u.otps.Delete(ctx, otp.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return NewHTTPError(http.StatusBadRequest, "too many attempts, request a new code")
	}

	if otp.Code != code {
		if err := u.otps.IncrementAttempts(ctx, otp.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	if err := u.otps.MarkVerified(ctx, otp.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
