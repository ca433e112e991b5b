package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// activeScope keeps soft-deleted and deactivated users invisible to
// every authentication lookup.
func activeScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ? AND deleted_at IS NULL", true)
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := activeScope(r.db.WithContext(ctx)).
		Preload("RescueMember.RescueService").
		Preload("AdminRights").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := activeScope(r.db.WithContext(ctx)).
		Preload("RescueMember.RescueService").
		Preload("AdminRights").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("LOWER(email) = ? AND deleted_at IS NULL", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("phone_number = ? AND deleted_at IS NULL", phone).
		Count(&count).Error
	return count > 0, err
}
