package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/DEV-MEDEV/osecours-backend/internal/audit"
	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
	jwtsvc "github.com/DEV-MEDEV/osecours-backend/internal/pkg/jwt"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Mock Token Repository
type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Create(ctx context.Context, t *domain.Token) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTokenRepo) FindByToken(ctx context.Context, token string) (*domain.Token, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

func (m *mockTokenRepo) RevokeByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepo) RevokeAllByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockTokenRepo) FindActiveByUser(ctx context.Context, userID string, now time.Time) ([]domain.Token, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Token), args.Error(1)
}

func (m *mockTokenRepo) FindActiveByID(ctx context.Context, id, userID string) (*domain.Token, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

// recorderStub collects audit events in memory.
type recorderStub struct {
	events []audit.Event
}

func (r *recorderStub) Record(_ context.Context, e audit.Event) {
	r.events = append(r.events, e)
}

func (r *recorderStub) actions() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

func newTestService(users *mockUserRepo, tokens *mockTokenRepo) (*Service, *recorderStub) {
	codec := jwtsvc.New("test-secret")
	recorder := &recorderStub{}
	tokenSvc := NewTokenService(tokens, codec)
	return NewService(users, tokenSvc, codec, recorder), recorder
}

func citizenUser() *domain.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	phone := "0708091011"
	return &domain.User{
		ID:           "citizen-1",
		Email:        "citoyen@example.com",
		PhoneNumber:  &phone,
		PasswordHash: string(hashed),
		FirstName:    "Awa",
		LastName:     "Kone",
		Role:         domain.RoleCitizen,
		IsActive:     true,
	}
}

func TestService_Login_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)
	user := citizenUser()

	userRepo.On("FindActiveByEmail", mock.Anything, "citoyen@example.com").Return(user, nil)
	tokenRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service, recorder := newTestService(userRepo, tokenRepo)

	result, err := service.Login(context.Background(), LoginRequest{
		Email:    "Citoyen@Example.com",
		Password: "password123",
	}, "127.0.0.1")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, true, result.Context["hasCompletedProfile"])
	assert.Contains(t, recorder.actions(), "LOGIN_SUCCESS")

	// one ledger row per issued token
	tokenRepo.AssertNumberOfCalls(t, "Create", 2)
	userRepo.AssertExpectations(t)
}

func TestService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)

	userRepo.On("FindActiveByEmail", mock.Anything, "citoyen@example.com").Return(citizenUser(), nil)

	service, recorder := newTestService(userRepo, tokenRepo)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "citoyen@example.com",
		Password: "wrong-password",
	}, "127.0.0.1")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, recorder.actions(), "LOGIN_FAILED")
	tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)

	userRepo.On("FindActiveByEmail", mock.Anything, "inconnu@example.com").Return(nil, gorm.ErrRecordNotFound)

	service, recorder := newTestService(userRepo, tokenRepo)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "inconnu@example.com",
		Password: "password123",
	}, "127.0.0.1")

	// same error as a wrong password so the two are indistinguishable
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, recorder.actions(), "LOGIN_FAILED")
}

func TestService_Login_AdminGetsNoRefreshToken(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	admin := &domain.User{
		ID:           "admin-1",
		Email:        "admin@example.com",
		PasswordHash: string(hashed),
		Role:         domain.RoleAdmin,
		IsActive:     true,
		AdminRights:  &domain.AdminRights{Permissions: []string{"ALL"}, IsActive: true},
	}

	userRepo.On("FindActiveByEmail", mock.Anything, "admin@example.com").Return(admin, nil)
	tokenRepo.On("Create", mock.Anything, mock.MatchedBy(func(tok *domain.Token) bool {
		return tok.Type == domain.TokenAccess
	})).Return(nil)

	service, _ := newTestService(userRepo, tokenRepo)

	result, err := service.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "admin1234",
	}, "127.0.0.1")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.Empty(t, result.Tokens.RefreshToken)
	tokenRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestService_Refresh_RotatesPair(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)
	user := citizenUser()

	codec := jwtsvc.New("test-secret")
	oldRefresh, err := codec.Sign(user.ID, string(user.Role), string(domain.TokenRefresh), time.Hour)
	require.NoError(t, err)

	tokenRepo.On("FindByToken", mock.Anything, oldRefresh).Return(&domain.Token{
		UserID: user.ID, Token: oldRefresh, Type: domain.TokenRefresh, IsRevoked: false,
	}, nil)
	userRepo.On("FindActiveByID", mock.Anything, user.ID).Return(user, nil)
	tokenRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	tokenRepo.On("RevokeByToken", mock.Anything, oldRefresh).Return(nil)

	service, recorder := newTestService(userRepo, tokenRepo)

	result, err := service.Refresh(context.Background(), oldRefresh, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.NotEqual(t, oldRefresh, result.Tokens.RefreshToken)
	assert.Contains(t, recorder.actions(), "REFRESH_SUCCESS")

	// consumed token is revoked once, after the new pair exists
	tokenRepo.AssertCalled(t, "RevokeByToken", mock.Anything, oldRefresh)
	tokenRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestService_Refresh_RejectsAccessToken(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)

	codec := jwtsvc.New("test-secret")
	accessToken, err := codec.Sign("citizen-1", "CITIZEN", string(domain.TokenAccess), time.Hour)
	require.NoError(t, err)

	service, recorder := newTestService(userRepo, tokenRepo)

	_, err = service.Refresh(context.Background(), accessToken, "127.0.0.1")
	assert.ErrorIs(t, err, ErrWrongTokenType)
	assert.Contains(t, recorder.actions(), "REFRESH_FAILED")
}

func TestService_Refresh_RejectsRevokedToken(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)

	codec := jwtsvc.New("test-secret")
	refresh, err := codec.Sign("citizen-1", "CITIZEN", string(domain.TokenRefresh), time.Hour)
	require.NoError(t, err)

	tokenRepo.On("FindByToken", mock.Anything, refresh).Return(&domain.Token{
		UserID: "citizen-1", Token: refresh, Type: domain.TokenRefresh, IsRevoked: true,
	}, nil)

	service, _ := newTestService(userRepo, tokenRepo)

	_, err = service.Refresh(context.Background(), refresh, "127.0.0.1")
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
	tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Refresh_RejectsExpiredToken(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)

	codec := jwtsvc.New("test-secret")
	refresh, err := codec.Sign("citizen-1", "CITIZEN", string(domain.TokenRefresh), -time.Minute)
	require.NoError(t, err)

	service, _ := newTestService(userRepo, tokenRepo)

	_, err = service.Refresh(context.Background(), refresh, "127.0.0.1")
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestService_Refresh_RejectsGarbage(t *testing.T) {
	service, _ := newTestService(new(mockUserRepo), new(mockTokenRepo))

	_, err := service.Refresh(context.Background(), "not-a-token", "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestService_Refresh_ForbiddenForAdmin(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)

	admin := &domain.User{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true}

	codec := jwtsvc.New("test-secret")
	refresh, err := codec.Sign(admin.ID, string(admin.Role), string(domain.TokenRefresh), time.Hour)
	require.NoError(t, err)

	tokenRepo.On("FindByToken", mock.Anything, refresh).Return(&domain.Token{
		UserID: admin.ID, Token: refresh, Type: domain.TokenRefresh,
	}, nil)
	userRepo.On("FindActiveByID", mock.Anything, admin.ID).Return(admin, nil)

	service, _ := newTestService(userRepo, tokenRepo)

	_, err = service.Refresh(context.Background(), refresh, "127.0.0.1")
	assert.ErrorIs(t, err, ErrAdminRefresh)
	tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Refresh_InactiveUser(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)

	codec := jwtsvc.New("test-secret")
	refresh, err := codec.Sign("gone-1", "CITIZEN", string(domain.TokenRefresh), time.Hour)
	require.NoError(t, err)

	tokenRepo.On("FindByToken", mock.Anything, refresh).Return(&domain.Token{
		UserID: "gone-1", Token: refresh, Type: domain.TokenRefresh,
	}, nil)
	userRepo.On("FindActiveByID", mock.Anything, "gone-1").Return(nil, gorm.ErrRecordNotFound)

	service, _ := newTestService(userRepo, tokenRepo)

	_, err = service.Refresh(context.Background(), refresh, "127.0.0.1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Logout_RevokesToken(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)

	tokenRepo.On("RevokeByToken", mock.Anything, "bearer-token").Return(nil)

	service, recorder := newTestService(userRepo, tokenRepo)

	err := service.Logout(context.Background(), citizenUser(), "bearer-token", "127.0.0.1")
	require.NoError(t, err)
	assert.Contains(t, recorder.actions(), "LOGOUT_SUCCESS")
	tokenRepo.AssertExpectations(t)
}

func TestService_LogoutAll_RevokesEverySession(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)
	user := citizenUser()

	tokenRepo.On("RevokeAllByUser", mock.Anything, user.ID).Return(nil)

	service, recorder := newTestService(userRepo, tokenRepo)

	err := service.LogoutAll(context.Background(), user, "127.0.0.1")
	require.NoError(t, err)
	assert.Contains(t, recorder.actions(), "LOGOUT_ALL_SUCCESS")
	tokenRepo.AssertExpectations(t)
}

func TestService_Sessions_GroupsByType(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)
	user := citizenUser()

	now := time.Now()
	rows := []domain.Token{
		{ID: "t-1", UserID: user.ID, Token: "current-access", Type: domain.TokenAccess, CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
		{ID: "t-2", UserID: user.ID, Token: "other-refresh", Type: domain.TokenRefresh, CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
	}
	tokenRepo.On("FindActiveByUser", mock.Anything, user.ID, mock.Anything).Return(rows, nil)

	service, recorder := newTestService(userRepo, tokenRepo)

	result, err := service.Sessions(context.Background(), user, "current-access", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.AccessTokens, 1)
	require.Len(t, result.RefreshTokens, 1)
	assert.True(t, result.AccessTokens[0].IsCurrent)
	assert.False(t, result.RefreshTokens[0].IsCurrent)
	assert.Contains(t, recorder.actions(), "SESSIONS_VIEWED")
}

func TestService_DeleteSession_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)
	user := citizenUser()

	tokenRepo.On("FindActiveByID", mock.Anything, "t-2", user.ID).Return(&domain.Token{
		ID: "t-2", UserID: user.ID, Token: "other-token", Type: domain.TokenAccess,
	}, nil)
	tokenRepo.On("RevokeByToken", mock.Anything, "other-token").Return(nil)

	service, recorder := newTestService(userRepo, tokenRepo)

	session, err := service.DeleteSession(context.Background(), user, "current-token", "t-2", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "t-2", session.ID)
	assert.Contains(t, recorder.actions(), "SESSION_DELETED")
	tokenRepo.AssertExpectations(t)
}

func TestService_DeleteSession_NotFound(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)
	user := citizenUser()

	tokenRepo.On("FindActiveByID", mock.Anything, "missing", user.ID).Return(nil, gorm.ErrRecordNotFound)

	service, recorder := newTestService(userRepo, tokenRepo)

	_, err := service.DeleteSession(context.Background(), user, "current-token", "missing", "127.0.0.1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Contains(t, recorder.actions(), "SESSION_DELETE_FAILED")
}

func TestService_DeleteSession_RefusesCurrent(t *testing.T) {
	userRepo := new(mockUserRepo)
	tokenRepo := new(mockTokenRepo)
	user := citizenUser()

	tokenRepo.On("FindActiveByID", mock.Anything, "t-1", user.ID).Return(&domain.Token{
		ID: "t-1", UserID: user.ID, Token: "current-token", Type: domain.TokenAccess,
	}, nil)

	service, _ := newTestService(userRepo, tokenRepo)

	_, err := service.DeleteSession(context.Background(), user, "current-token", "t-1", "127.0.0.1")
	assert.ErrorIs(t, err, ErrCurrentSession)
	tokenRepo.AssertNotCalled(t, "RevokeByToken", mock.Anything, mock.Anything)
}
