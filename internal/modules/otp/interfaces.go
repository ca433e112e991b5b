package otp

import (
	"context"

	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
)

// OtpRepositoryInterface — persistence of the OTP soft-delete state
// machine.
type OtpRepositoryInterface interface {
	Create(ctx context.Context, o *domain.CitizenOtp) error
	SupersedeActive(ctx context.Context, phone string, reason domain.OtpDeleteReason) error
	FindActive(ctx context.Context, phone string) (*domain.CitizenOtp, error)
	HasDeleted(ctx context.Context, phone string) (bool, error)
	HasDeletedCode(ctx context.Context, phone, code string) (bool, error)
	SoftDelete(ctx context.Context, id string, reason domain.OtpDeleteReason) error
	IncrementAttempts(ctx context.Context, id string) error
	FindVerified(ctx context.Context, phone string) (*domain.CitizenOtp, error)
	Delete(ctx context.Context, id string) error
}

// SMSGateway delivers one message; a nil error means accepted.
type SMSGateway interface {
	Send(ctx context.Context, phone, message string) error
}
