package auth

import "github.com/DEV-MEDEV/osecours-backend/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenPair — RefreshToken is empty for ADMIN logins.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type LoginResult struct {
	User    *domain.User
	Tokens  TokenPair
	Context map[string]any
}

type RefreshResult struct {
	Tokens TokenPair
}

// SessionsResult mirrors the sessions listing shape of the API: tokens
// grouped by type plus totals.
type SessionsResult struct {
	AccessTokens  []Session `json:"accessTokens"`
	RefreshTokens []Session `json:"refreshTokens"`
	Total         int       `json:"total"`
}
