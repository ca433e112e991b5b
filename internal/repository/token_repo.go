package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
)

// TokenRepository is the persistence side of the token ledger. Rows are
// only ever created or flipped to revoked, never deleted.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, t *domain.Token) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*domain.Token, error) {
	var t domain.Token
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// RevokeByToken marks every row carrying the literal token string as
// revoked. Updating by token rather than id keeps the operation
// idempotent and covers accidental duplicate rows.
func (r *TokenRepository) RevokeByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Model(&domain.Token{}).
		Where("token = ?", token).
		Update("is_revoked", true).Error
}

func (r *TokenRepository) RevokeAllByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&domain.Token{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

// FindActiveByUser returns non-revoked, unexpired rows, newest first.
func (r *TokenRepository) FindActiveByUser(ctx context.Context, userID string, now time.Time) ([]domain.Token, error) {
	var tokens []domain.Token
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_revoked = ? AND expires_at > ?", userID, false, now).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

// FindActiveByID looks up one non-revoked session row, scoped to its
// owner so users cannot touch each other's sessions.
func (r *TokenRepository) FindActiveByID(ctx context.Context, id, userID string) (*domain.Token, error) {
	var t domain.Token
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_revoked = ?", id, userID, false).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
