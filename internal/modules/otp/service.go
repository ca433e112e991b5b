package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/DEV-MEDEV/osecours-backend/internal/audit"
	"github.com/DEV-MEDEV/osecours-backend/internal/config"
	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// NormalizePhone strips every non-digit character. An empty or
// out-of-range result (8-10 digits) is rejected before touching the
// store.
func NormalizePhone(raw string) (string, error) {
	clean := nonDigits.ReplaceAllString(raw, "")
	if len(clean) < 8 || len(clean) > 10 {
		return "", ErrInvalidPhone
	}
	return clean, nil
}

// Service drives the per-phone OTP state machine: request, verify,
// consume. At most one active record exists per number.
type Service struct {
	otps    OtpRepositoryInterface
	gateway SMSGateway
	audit   audit.Recorder
	cfg     config.OTPConfig
}

func NewService(otps OtpRepositoryInterface, gateway SMSGateway, recorder audit.Recorder, cfg config.OTPConfig) *Service {
	return &Service{otps: otps, gateway: gateway, audit: recorder, cfg: cfg}
}

// Request supersedes any active code for the number, stores a fresh one
// and sends it. A failed send invalidates the record immediately so no
// active code exists that was never delivered.
func (s *Service) Request(ctx context.Context, rawPhone, ip string) (string, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	if err := s.otps.SupersedeActive(ctx, phone, domain.OtpDeletedNewRequest); err != nil {
		return "", err
	}

	code, err := generateCode(s.cfg.Length)
	if err != nil {
		return "", err
	}

	record := domain.CitizenOtp{
		PhoneNumber: phone,
		Otp:         code,
		ExpiresAt:   time.Now().Add(s.cfg.ExpiresIn),
	}
	if err := s.otps.Create(ctx, &record); err != nil {
		return "", err
	}

	message := fmt.Sprintf("Votre code de vérification O'secours est: %s. Valable %d minutes.",
		code, int(s.cfg.ExpiresIn.Minutes()))

	if err := s.gateway.Send(ctx, phone, message); err != nil {
		if delErr := s.otps.SoftDelete(ctx, record.ID, domain.OtpDeletedSMSFailed); delErr != nil {
			return "", delErr
		}
		s.audit.Record(ctx, audit.Event{
			Message:     fmt.Sprintf("Échec d'envoi OTP pour %s: %v", phone, err),
			Source:      "auth/otp",
			Action:      "OTP_SEND_FAILED",
			IPAddress:   ip,
			RequestData: map[string]any{"phoneNumber": phone},
			Status:      audit.StatusFailed,
		})
		return "", ErrSendFailed
	}

	s.audit.Record(ctx, audit.Event{
		Message:     fmt.Sprintf("OTP envoyé avec succès au %s", phone),
		Source:      "auth/otp",
		Action:      "OTP_SENT",
		IPAddress:   ip,
		RequestData: map[string]any{"phoneNumber": phone},
		Status:      audit.StatusSuccess,
	})
	return phone, nil
}

// Verify consumes the active code for the number. On a mismatch the
// record stays active so the caller may retry until expiry; the
// optional MaxAttempts knob caps retries when configured.
func (s *Service) Verify(ctx context.Context, rawPhone, code, ip string) (string, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	record, err := s.otps.FindActive(ctx, phone)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		used, lookupErr := s.otps.HasDeleted(ctx, phone)
		if lookupErr != nil {
			return "", lookupErr
		}
		if used {
			s.recordVerifyFailure(ctx, fmt.Sprintf("Tentative d'utilisation d'un OTP déjà validé pour %s", phone), "OTP_ALREADY_USED", phone, ip)
			return "", ErrAlreadyUsed
		}
		s.recordVerifyFailure(ctx, fmt.Sprintf("Tentative de vérification OTP inexistant pour %s", phone), "OTP_NOT_FOUND", phone, ip)
		return "", ErrNotFound
	}

	if time.Now().After(record.ExpiresAt) {
		if err := s.otps.SoftDelete(ctx, record.ID, domain.OtpDeletedExpired); err != nil {
			return "", err
		}
		return "", ErrExpired
	}

	if record.Otp != code {
		// A superseded or consumed code reports as already used, not
		// incorrect, so the caller knows to request a fresh one.
		stale, lookupErr := s.otps.HasDeletedCode(ctx, phone, code)
		if lookupErr != nil {
			return "", lookupErr
		}
		if stale {
			s.recordVerifyFailure(ctx, fmt.Sprintf("Tentative d'utilisation d'un OTP déjà validé pour %s", phone), "OTP_ALREADY_USED", phone, ip)
			return "", ErrAlreadyUsed
		}

		if err := s.otps.IncrementAttempts(ctx, record.ID); err != nil {
			return "", err
		}
		s.recordVerifyFailure(ctx, fmt.Sprintf("Code OTP incorrect pour %s", phone), "OTP_INVALID", phone, ip)
		if s.cfg.MaxAttempts > 0 && record.Attempts+1 >= s.cfg.MaxAttempts {
			return "", ErrTooManyAttempts
		}
		return "", ErrIncorrect
	}

	if err := s.otps.SoftDelete(ctx, record.ID, domain.OtpDeletedVerified); err != nil {
		return "", err
	}

	s.audit.Record(ctx, audit.Event{
		Message:     fmt.Sprintf("Vérification OTP réussie pour %s", phone),
		Source:      "auth/otp",
		Action:      "OTP_VERIFIED",
		IPAddress:   ip,
		RequestData: map[string]any{"phoneNumber": phone},
		Status:      audit.StatusSuccess,
	})
	return phone, nil
}

// RequireVerified checks that the number holds a fresh USER_VERIFIED
// record; registration calls this before creating the account.
func (s *Service) RequireVerified(ctx context.Context, phone string) (*domain.CitizenOtp, error) {
	record, err := s.otps.FindVerified(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotVerified
		}
		return nil, err
	}

	if time.Now().After(record.ExpiresAt) {
		if err := s.otps.Delete(ctx, record.ID); err != nil {
			return nil, err
		}
		return nil, ErrExpired
	}
	return record, nil
}

// ConsumeVerified removes the verified record outright once
// registration has completed.
func (s *Service) ConsumeVerified(ctx context.Context, record *domain.CitizenOtp) error {
	return s.otps.Delete(ctx, record.ID)
}

func (s *Service) recordVerifyFailure(ctx context.Context, message, action, phone, ip string) {
	s.audit.Record(ctx, audit.Event{
		Message:     message,
		Source:      "auth/otp",
		Action:      action,
		IPAddress:   ip,
		RequestData: map[string]any{"phoneNumber": phone},
		Status:      audit.StatusFailed,
	})
}

// generateCode draws each code uniformly from [0, 10^length).
func generateCode(length int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
