package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DEV-MEDEV/osecours-backend/internal/audit"
	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
	jwtsvc "github.com/DEV-MEDEV/osecours-backend/internal/pkg/jwt"
	"github.com/DEV-MEDEV/osecours-backend/internal/pkg/response"
)

const (
	ContextUser  = "user"
	ContextToken = "token"
)

// TokenLedger answers revocation queries. Unknown tokens count as
// revoked (fail-closed).
type TokenLedger interface {
	IsRevoked(ctx context.Context, token string) bool
}

// UserFinder resolves the authenticated identity. Inactive and
// soft-deleted users must not be returned.
type UserFinder interface {
	FindActiveByID(ctx context.Context, id string) (*domain.User, error)
}

type AuthMiddleware struct {
	codec  *jwtsvc.Service
	ledger TokenLedger
	users  UserFinder
	audit  audit.Recorder
}

func NewAuthMiddleware(codec *jwtsvc.Service, ledger TokenLedger, users UserFinder, recorder audit.Recorder) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, ledger: ledger, users: users, audit: recorder}
}

// Authenticate gates every protected route: bearer header, signature,
// ledger revocation, then user lookup. Each rejection leaves an audit
// event behind.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "Token d'authentification requis")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		ip := c.ClientIP()

		claims, err := m.codec.Verify(token)
		if err != nil {
			message := "Token invalide"
			if errors.Is(err, jwtsvc.ErrTokenExpired) {
				message = "Le token a expiré, veuillez vous reconnecter."
			}
			m.audit.Record(c.Request.Context(), audit.Event{
				Message:   "Tentative d'accès avec token invalide",
				Source:    "middleware/auth",
				Action:    "AUTH_FAILED",
				IPAddress: ip,
				RequestData: map[string]any{
					"reason": err.Error(),
				},
				Status: audit.StatusFailed,
			})
			response.Unauthorized(c, message)
			c.Abort()
			return
		}

		if m.ledger.IsRevoked(c.Request.Context(), token) {
			m.audit.Record(c.Request.Context(), audit.Event{
				Message:   "Tentative d'accès avec token révoqué",
				Source:    "middleware/auth",
				UserID:    claims.UserID,
				Action:    "AUTH_FAILED",
				IPAddress: ip,
				Status:    audit.StatusFailed,
			})
			response.Unauthorized(c, "Token révoqué, veuillez vous reconnecter")
			c.Abort()
			return
		}

		user, err := m.users.FindActiveByID(c.Request.Context(), claims.UserID)
		if err != nil {
			m.audit.Record(c.Request.Context(), audit.Event{
				Message:   "Token valide mais utilisateur inexistant ou inactif",
				Source:    "middleware/auth",
				UserID:    claims.UserID,
				Action:    "AUTH_FAILED",
				IPAddress: ip,
				Status:    audit.StatusFailed,
			})
			response.Unauthorized(c, "Utilisateur non trouvé ou inactif")
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextToken, token)
		c.Next()
	}
}

// Authorize runs after Authenticate and checks the role against the
// permitted set. Rejections use a distinct audit action.
func (m *AuthMiddleware) Authorize(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "Authentification requise")
			c.Abort()
			return
		}

		for _, role := range allowed {
			if user.Role == role {
				c.Next()
				return
			}
		}

		m.audit.Record(c.Request.Context(), audit.Event{
			Message:   fmt.Sprintf("Tentative d'accès non autorisé - Rôle: %s", user.Role),
			Source:    "middleware/auth",
			UserID:    user.ID,
			Action:    "AUTHORIZATION_FAILED",
			IPAddress: c.ClientIP(),
			RequestData: map[string]any{
				"userRole":      user.Role,
				"requiredRoles": allowed,
				"route":         c.Request.Method + " " + c.Request.URL.Path,
			},
			Status: audit.StatusFailed,
		})
		response.Unauthorized(c, "Accès refusé - Permissions insuffisantes")
		c.Abort()
	}
}

// CurrentUser returns the authenticated user set by Authenticate, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentToken returns the raw bearer token of the request, or "".
func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
