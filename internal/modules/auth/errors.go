package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrWrongTokenType      = errors.New("token is not a refresh token")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
	ErrUserNotFound        = errors.New("user not found or inactive")
	ErrAdminRefresh        = errors.New("admins cannot use refresh tokens")

	ErrSessionNotFound = errors.New("session not found")
	ErrCurrentSession  = errors.New("cannot delete current session")
)
