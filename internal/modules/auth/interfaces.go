package auth

import (
	"context"
	"time"

	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
)

// UserRepositoryInterface — only the lookups the auth flows need.
type UserRepositoryInterface interface {
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	FindActiveByID(ctx context.Context, id string) (*domain.User, error)
}

// TokenRepositoryInterface — ledger storage.
type TokenRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Token) error
	FindByToken(ctx context.Context, token string) (*domain.Token, error)
	RevokeByToken(ctx context.Context, token string) error
	RevokeAllByUser(ctx context.Context, userID string) error
	FindActiveByUser(ctx context.Context, userID string, now time.Time) ([]domain.Token, error)
	FindActiveByID(ctx context.Context, id, userID string) (*domain.Token, error)
}

type tokenCodec interface {
	Sign(userID, role, tokenType string, ttl time.Duration) (string, error)
}
