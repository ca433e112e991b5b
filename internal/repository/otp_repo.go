package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
)

type OtpRepository struct {
	db *gorm.DB
}

func NewOtpRepository(db *gorm.DB) *OtpRepository {
	return &OtpRepository{db: db}
}

func (r *OtpRepository) Create(ctx context.Context, o *domain.CitizenOtp) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// SupersedeActive soft-deletes every active record for the number, which
// enforces the one-active-record-per-phone invariant before a new insert.
func (r *OtpRepository) SupersedeActive(ctx context.Context, phone string, reason domain.OtpDeleteReason) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.CitizenOtp{}).
		Where("phone_number = ? AND deleted_at IS NULL", phone).
		Updates(map[string]any{"deleted_at": now, "deleted_by": reason}).Error
}

func (r *OtpRepository) FindActive(ctx context.Context, phone string) (*domain.CitizenOtp, error) {
	var o domain.CitizenOtp
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND deleted_at IS NULL", phone).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// HasDeleted reports whether any soft-deleted record exists for the
// number, which distinguishes "already used" from "never requested".
func (r *OtpRepository) HasDeleted(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CitizenOtp{}).
		Where("phone_number = ? AND deleted_at IS NOT NULL", phone).
		Count(&count).Error
	return count > 0, err
}

// HasDeletedCode reports whether this exact code was issued to the
// number and has since been superseded or consumed. It lets the verify
// flow answer "already used" instead of "incorrect" for stale codes.
func (r *OtpRepository) HasDeletedCode(ctx context.Context, phone, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CitizenOtp{}).
		Where("phone_number = ? AND otp = ? AND deleted_at IS NOT NULL", phone, code).
		Count(&count).Error
	return count > 0, err
}

func (r *OtpRepository) SoftDelete(ctx context.Context, id string, reason domain.OtpDeleteReason) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.CitizenOtp{}).
		Where("id = ?", id).
		Updates(map[string]any{"deleted_at": now, "deleted_by": reason}).Error
}

func (r *OtpRepository) IncrementAttempts(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.CitizenOtp{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

// FindVerified returns the latest record consumed by a successful
// verification; registration requires one before creating the account.
func (r *OtpRepository) FindVerified(ctx context.Context, phone string) (*domain.CitizenOtp, error) {
	var o domain.CitizenOtp
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND deleted_by = ?", phone, domain.OtpDeletedVerified).
		Order("created_at DESC").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Delete removes the record outright, done once registration completes.
func (r *OtpRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.CitizenOtp{}).Error
}
