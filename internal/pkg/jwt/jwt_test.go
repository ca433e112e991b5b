package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	svc := New("test-secret")

	token, err := svc.Sign("user-1", "CITIZEN", "ACCESS", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "CITIZEN", claims.Role)
	assert.Equal(t, "ACCESS", claims.Type)
}

func TestVerify_ExpiredReturnsClaims(t *testing.T) {
	svc := New("test-secret")

	token, err := svc.Sign("user-2", "ADMIN", "ACCESS", -time.Minute)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	require.NotNil(t, claims)
	assert.Equal(t, "user-2", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := New("secret-a").Sign("user-3", "CITIZEN", "REFRESH", time.Hour)
	require.NoError(t, err)

	claims, err := New("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}

func TestVerify_Garbage(t *testing.T) {
	svc := New("test-secret")

	claims, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}

func TestVerify_TamperedPayload(t *testing.T) {
	svc := New("test-secret")

	token, err := svc.Sign("user-4", "CITIZEN", "ACCESS", time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "xxxx"
	claims, err := svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}
