package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/DEV-MEDEV/osecours-backend/internal/audit"
	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
	jwtsvc "github.com/DEV-MEDEV/osecours-backend/internal/pkg/jwt"
)

type tokenVerifier interface {
	Verify(token string) (*jwtsvc.Claims, error)
}

// Service implements the session operations: login, logout, session
// listing/revocation and the refresh rotation protocol.
type Service struct {
	users    UserRepositoryInterface
	tokens   *TokenService
	verifier tokenVerifier
	audit    audit.Recorder
}

func NewService(users UserRepositoryInterface, tokens *TokenService, verifier tokenVerifier, recorder audit.Recorder) *Service {
	return &Service{users: users, tokens: tokens, verifier: verifier, audit: recorder}
}

// Login authenticates any role against email+password. Wrong email and
// wrong password are indistinguishable to the caller; the audit trail
// keeps the distinction.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit.Record(ctx, audit.Event{
				Message:   fmt.Sprintf("Tentative de connexion avec email inexistant: %s", email),
				Source:    "auth/login",
				Action:    "LOGIN_FAILED",
				IPAddress: ip,
				Status:    audit.StatusFailed,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.audit.Record(ctx, audit.Event{
			Message:   fmt.Sprintf("Tentative de connexion avec mot de passe incorrect pour: %s", email),
			Source:    "auth/login",
			UserID:    user.ID,
			Action:    "LOGIN_FAILED",
			IPAddress: ip,
			Status:    audit.StatusFailed,
		})
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		Message:   fmt.Sprintf("Connexion réussie pour %s: %s", user.Role, email),
		Source:    "auth/login",
		UserID:    user.ID,
		Action:    "LOGIN_SUCCESS",
		IPAddress: ip,
		Status:    audit.StatusSuccess,
	})

	return &LoginResult{
		User:    user,
		Tokens:  TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		Context: roleContext(user),
	}, nil
}

// roleContext builds the role-specific payload returned on login.
func roleContext(user *domain.User) map[string]any {
	switch user.Role {
	case domain.RoleRescueMember:
		if user.RescueMember == nil {
			return map[string]any{}
		}
		ctx := map[string]any{
			"position":    user.RescueMember.Position,
			"badgeNumber": user.RescueMember.BadgeNumber,
			"isOnDuty":    user.RescueMember.IsOnDuty,
		}
		if svc := user.RescueMember.RescueService; svc != nil {
			ctx["rescueService"] = map[string]any{
				"id":          svc.ID,
				"name":        svc.Name,
				"serviceType": svc.ServiceType,
			}
		}
		return ctx
	case domain.RoleAdmin:
		if user.AdminRights == nil {
			return map[string]any{}
		}
		return map[string]any{
			"permissions": user.AdminRights.Permissions,
			"isActive":    user.AdminRights.IsActive,
		}
	default:
		completed := user.PhoneNumber != nil && user.FirstName != "" && user.LastName != ""
		return map[string]any{"hasCompletedProfile": completed}
	}
}

func (s *Service) Logout(ctx context.Context, user *domain.User, token, ip string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		Message:   fmt.Sprintf("Déconnexion réussie pour l'utilisateur: %s", user.Email),
		Source:    "auth/logout",
		UserID:    user.ID,
		Action:    "LOGOUT_SUCCESS",
		IPAddress: ip,
		Status:    audit.StatusSuccess,
	})
	return nil
}

// LogoutAll revokes every non-revoked token of the user ("log out
// everywhere"). Revocation is visible on the very next request since
// the authenticator reads ledger state live.
func (s *Service) LogoutAll(ctx context.Context, user *domain.User, ip string) error {
	if err := s.tokens.RevokeAll(ctx, user.ID); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		Message:   fmt.Sprintf("Déconnexion de toutes les sessions pour l'utilisateur: %s", user.Email),
		Source:    "auth/logout",
		UserID:    user.ID,
		Action:    "LOGOUT_ALL_SUCCESS",
		IPAddress: ip,
		Status:    audit.StatusSuccess,
	})
	return nil
}

func (s *Service) Sessions(ctx context.Context, user *domain.User, currentToken, ip string) (*SessionsResult, error) {
	sessions, err := s.tokens.ActiveSessions(ctx, user.ID, currentToken)
	if err != nil {
		return nil, err
	}

	result := &SessionsResult{
		AccessTokens:  []Session{},
		RefreshTokens: []Session{},
		Total:         len(sessions),
	}
	for _, session := range sessions {
		if session.Type == domain.TokenRefresh {
			result.RefreshTokens = append(result.RefreshTokens, session)
		} else {
			result.AccessTokens = append(result.AccessTokens, session)
		}
	}

	s.audit.Record(ctx, audit.Event{
		Message:   fmt.Sprintf("Consultation des sessions pour l'utilisateur: %s", user.Email),
		Source:    "auth/sessions",
		UserID:    user.ID,
		Action:    "SESSIONS_VIEWED",
		IPAddress: ip,
		RequestData: map[string]any{
			"totalSessions": result.Total,
		},
		Status: audit.StatusSuccess,
	})
	return result, nil
}

// DeleteSession revokes one of the caller's other sessions. The current
// session is protected: logging out goes through /logout so the audit
// trail stays coherent.
func (s *Service) DeleteSession(ctx context.Context, user *domain.User, currentToken, sessionID, ip string) (*Session, error) {
	row, err := s.tokens.FindActiveSession(ctx, sessionID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit.Record(ctx, audit.Event{
				Message:     fmt.Sprintf("Tentative de suppression d'une session inexistante ou non autorisée: %s", sessionID),
				Source:      "auth/sessions",
				UserID:      user.ID,
				Action:      "SESSION_DELETE_FAILED",
				IPAddress:   ip,
				RequestData: map[string]any{"sessionId": sessionID},
				Status:      audit.StatusFailed,
			})
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if row.Token == currentToken {
		return nil, ErrCurrentSession
	}

	if err := s.tokens.Revoke(ctx, row.Token); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		Message:   fmt.Sprintf("Session supprimée avec succès: %s pour l'utilisateur: %s", sessionID, user.Email),
		Source:    "auth/sessions",
		UserID:    user.ID,
		Action:    "SESSION_DELETED",
		IPAddress: ip,
		RequestData: map[string]any{
			"sessionId":   sessionID,
			"sessionType": row.Type,
		},
		Status: audit.StatusSuccess,
	})

	return &Session{
		ID:        row.ID,
		Type:      row.Type,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// Refresh implements strict single-use rotation: signature, REFRESH
// type, ledger state, user state and role are all checked before a new
// pair is issued, and the consumed token is revoked afterwards. A
// replayed token fails on the ledger check no matter how valid its
// signature still is.
func (s *Service) Refresh(ctx context.Context, refreshToken, ip string) (*RefreshResult, error) {
	claims, err := s.verifier.Verify(refreshToken)
	if err != nil {
		reason := ErrInvalidRefreshToken
		if errors.Is(err, jwtsvc.ErrTokenExpired) {
			reason = ErrRefreshTokenExpired
		}
		s.recordRefreshFailure(ctx, "Tentative de refresh avec token invalide", "", ip)
		return nil, reason
	}

	if claims.Type != string(domain.TokenRefresh) {
		s.recordRefreshFailure(ctx, "Tentative de refresh avec un token qui n'est pas un refresh token", claims.UserID, ip)
		return nil, ErrWrongTokenType
	}

	if s.tokens.IsRevoked(ctx, refreshToken) {
		s.recordRefreshFailure(ctx, "Tentative de refresh avec token révoqué", claims.UserID, ip)
		return nil, ErrRefreshTokenRevoked
	}

	user, err := s.users.FindActiveByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordRefreshFailure(ctx, "Refresh token valide mais utilisateur inexistant ou inactif", claims.UserID, ip)
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Role == domain.RoleAdmin {
		s.recordRefreshFailure(ctx, "Tentative de refresh par un ADMIN (non autorisé)", user.ID, ip)
		return nil, ErrAdminRefresh
	}

	accessToken, err := s.tokens.IssueAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.tokens.IssueRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		Message:   fmt.Sprintf("Refresh token réussi pour l'utilisateur: %s", user.Email),
		Source:    "auth/refresh",
		UserID:    user.ID,
		Action:    "REFRESH_SUCCESS",
		IPAddress: ip,
		Status:    audit.StatusSuccess,
	})

	return &RefreshResult{
		Tokens: TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken},
	}, nil
}

func (s *Service) recordRefreshFailure(ctx context.Context, message, userID, ip string) {
	s.audit.Record(ctx, audit.Event{
		Message:   message,
		Source:    "auth/refresh",
		UserID:    userID,
		Action:    "REFRESH_FAILED",
		IPAddress: ip,
		Status:    audit.StatusFailed,
	})
}
