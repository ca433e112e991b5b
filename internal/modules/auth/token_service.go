package auth

import (
	"context"
	"time"

	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// accessTokenTTL applies the role issuance policy: staff and admin
// tokens are short, citizen tokens last a week.
func accessTokenTTL(role domain.Role) time.Duration {
	switch role {
	case domain.RoleAdmin, domain.RoleRescueMember:
		return 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// TokenService is the token ledger: it issues signed tokens, records
// every issuance durably, and answers revocation queries.
type TokenService struct {
	tokens TokenRepositoryInterface
	codec  tokenCodec
}

func NewTokenService(tokens TokenRepositoryInterface, codec tokenCodec) *TokenService {
	return &TokenService{tokens: tokens, codec: codec}
}

// IssueAccessToken signs an access token with the role-based expiry and
// persists one ledger row. Rows accumulate; nothing is reused.
func (s *TokenService) IssueAccessToken(ctx context.Context, user *domain.User) (string, error) {
	ttl := accessTokenTTL(user.Role)
	signed, err := s.codec.Sign(user.ID, string(user.Role), string(domain.TokenAccess), ttl)
	if err != nil {
		return "", err
	}

	row := domain.Token{
		UserID:    user.ID,
		Token:     signed,
		Type:      domain.TokenAccess,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.tokens.Create(ctx, &row); err != nil {
		return "", err
	}
	return signed, nil
}

// IssueRefreshToken returns "" for admins: they are single-session by
// policy and must re-login. The REFRESH type is embedded in the signed
// payload itself, so a refresh token cannot pass as an access token
// even if ledger state is bypassed.
func (s *TokenService) IssueRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	if user.Role == domain.RoleAdmin {
		return "", nil
	}

	signed, err := s.codec.Sign(user.ID, string(user.Role), string(domain.TokenRefresh), refreshTokenTTL)
	if err != nil {
		return "", err
	}

	row := domain.Token{
		UserID:    user.ID,
		Token:     signed,
		Type:      domain.TokenRefresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.tokens.Create(ctx, &row); err != nil {
		return "", err
	}
	return signed, nil
}

func (s *TokenService) Revoke(ctx context.Context, token string) error {
	return s.tokens.RevokeByToken(ctx, token)
}

func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	return s.tokens.RevokeAllByUser(ctx, userID)
}

// IsRevoked is fail-closed: a token the ledger does not know, or a
// lookup that errors, counts as revoked.
func (s *TokenService) IsRevoked(ctx context.Context, token string) bool {
	record, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		return true
	}
	return record.IsRevoked
}

// FindActiveSession resolves one non-revoked ledger row owned by the
// given user.
func (s *TokenService) FindActiveSession(ctx context.Context, id, userID string) (*domain.Token, error) {
	return s.tokens.FindActiveByID(ctx, id, userID)
}

// Session is one active ledger row as shown to its owner.
type Session struct {
	ID         string           `json:"id"`
	Type       domain.TokenType `json:"type"`
	CreatedAt  time.Time        `json:"createdAt"`
	ExpiresAt  time.Time        `json:"expiresAt"`
	IsCurrent  bool             `json:"isCurrent"`
	DeviceInfo string           `json:"deviceInfo"`
}

// ActiveSessions lists non-revoked, unexpired rows newest first and
// flags the one matching the caller's presented token.
func (s *TokenService) ActiveSessions(ctx context.Context, userID, currentToken string) ([]Session, error) {
	rows, err := s.tokens.FindActiveByUser(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(rows))
	for _, row := range rows {
		isCurrent := row.Token == currentToken
		device := "Autre appareil"
		if isCurrent {
			device = "Appareil actuel"
		}
		sessions = append(sessions, Session{
			ID:         row.ID,
			Type:       row.Type,
			CreatedAt:  row.CreatedAt,
			ExpiresAt:  row.ExpiresAt,
			IsCurrent:  isCurrent,
			DeviceInfo: device,
		})
	}
	return sessions, nil
}
