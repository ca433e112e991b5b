package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DEV-MEDEV/osecours-backend/internal/audit"
	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
	jwtsvc "github.com/DEV-MEDEV/osecours-backend/internal/pkg/jwt"
)

type ledgerStub struct {
	revoked bool
}

func (l *ledgerStub) IsRevoked(context.Context, string) bool { return l.revoked }

type userFinderStub struct {
	user *domain.User
	err  error
}

func (u *userFinderStub) FindActiveByID(context.Context, string) (*domain.User, error) {
	return u.user, u.err
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, audit.Event) {}

func testUser() *domain.User {
	return &domain.User{ID: "u-1", Email: "citoyen@example.com", Role: domain.RoleCitizen, IsActive: true}
}

func newTestRouter(mw *AuthMiddleware, roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/", mw.Authenticate())
	if len(roles) > 0 {
		group.Use(mw.Authorize(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"userId": user.ID, "token": CurrentToken(c)})
	})
	return router
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_ValidToken(t *testing.T) {
	codec := jwtsvc.New("test-secret")
	token, err := codec.Sign("u-1", "CITIZEN", "ACCESS", time.Hour)
	require.NoError(t, err)

	mw := NewAuthMiddleware(codec, &ledgerStub{}, &userFinderStub{user: testUser()}, nopRecorder{})
	w := doRequest(newTestRouter(mw), token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-1")
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	codec := jwtsvc.New("test-secret")
	mw := NewAuthMiddleware(codec, &ledgerStub{}, &userFinderStub{user: testUser()}, nopRecorder{})

	w := doRequest(newTestRouter(mw), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token d'authentification requis")
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	codec := jwtsvc.New("test-secret")
	mw := NewAuthMiddleware(codec, &ledgerStub{}, &userFinderStub{user: testUser()}, nopRecorder{})

	w := doRequest(newTestRouter(mw), "garbage-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token invalide")
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	codec := jwtsvc.New("test-secret")
	token, err := codec.Sign("u-1", "CITIZEN", "ACCESS", -time.Minute)
	require.NoError(t, err)

	mw := NewAuthMiddleware(codec, &ledgerStub{}, &userFinderStub{user: testUser()}, nopRecorder{})
	w := doRequest(newTestRouter(mw), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Le token a expiré")
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	codec := jwtsvc.New("test-secret")
	token, err := codec.Sign("u-1", "CITIZEN", "ACCESS", time.Hour)
	require.NoError(t, err)

	mw := NewAuthMiddleware(codec, &ledgerStub{revoked: true}, &userFinderStub{user: testUser()}, nopRecorder{})
	w := doRequest(newTestRouter(mw), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token révoqué")
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	codec := jwtsvc.New("test-secret")
	token, err := codec.Sign("u-1", "CITIZEN", "ACCESS", time.Hour)
	require.NoError(t, err)

	mw := NewAuthMiddleware(codec, &ledgerStub{}, &userFinderStub{err: gorm.ErrRecordNotFound}, nopRecorder{})
	w := doRequest(newTestRouter(mw), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Utilisateur non trouvé ou inactif")
}

func TestAuthorize_AllowedRole(t *testing.T) {
	codec := jwtsvc.New("test-secret")
	token, err := codec.Sign("u-1", "CITIZEN", "ACCESS", time.Hour)
	require.NoError(t, err)

	mw := NewAuthMiddleware(codec, &ledgerStub{}, &userFinderStub{user: testUser()}, nopRecorder{})
	w := doRequest(newTestRouter(mw, domain.RoleCitizen, domain.RoleAdmin), token)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorize_ForbiddenRole(t *testing.T) {
	codec := jwtsvc.New("test-secret")
	token, err := codec.Sign("u-1", "CITIZEN", "ACCESS", time.Hour)
	require.NoError(t, err)

	mw := NewAuthMiddleware(codec, &ledgerStub{}, &userFinderStub{user: testUser()}, nopRecorder{})
	w := doRequest(newTestRouter(mw, domain.RoleAdmin), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Permissions insuffisantes")
}
