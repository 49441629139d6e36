package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/config"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
)

func newAuthFixture(t *testing.T) (AuthServiceInterface, *fakeUserRepo, service.JWTService) {
	t.Helper()
	hash, err := utils.HashPassword("secret-pass")
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[uint64]*entities.User{
		1: {ID: 1, CompanyID: testCompanyID, Email: "ana@example.com", Password: hash, Enabled: true},
		2: {ID: 2, CompanyID: testCompanyID, Email: "off@example.com", Password: hash, Enabled: false},
	}}
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop())
	cfg := config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: time.Minute}
	return NewAuthService(users, newMemCache(), jwtSvc, cfg, zap.NewNop()), users, jwtSvc
}

func TestAuthService_SignIn(t *testing.T) {
	svc, _, jwtSvc := newAuthFixture(t)

	resp, err := svc.SignIn(context.Background(), dto.SignInDTO{Email: " Ana@Example.com ", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := jwtSvc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.False(t, claims.IsRefreshToken)
}

func TestAuthService_SignInFailures(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, dto.SignInDTO{Email: "nobody@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, dto.SignInDTO{Email: "off@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrUserDisabled)
}

func TestAuthService_LocksAfterRepeatedFailures(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.SignIn(ctx, dto.SignInDTO{Email: "ana@example.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}
	_, err := svc.SignIn(ctx, dto.SignInDTO{Email: "ana@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
}

func TestAuthService_FailedAttemptCounterExpires(t *testing.T) {
	hash, err := utils.HashPassword("secret-pass")
	require.NoError(t, err)
	users := &fakeUserRepo{users: map[uint64]*entities.User{
		1: {ID: 1, CompanyID: testCompanyID, Email: "ana@example.com", Password: hash, Enabled: true},
	}}
	cache := newMemCache()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop())
	cfg := config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: 15 * time.Minute}
	svc := NewAuthService(users, cache, jwtSvc, cfg, zap.NewNop())
	ctx := context.Background()

	_, err = svc.SignIn(ctx, dto.SignInDTO{Email: "ana@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, 15*time.Minute, cache.ttls["login_attempts:1"])
	assert.Equal(t, "1", cache.data["login_attempts:1"])

	delete(cache.ttls, "login_attempts:1")
	_, err = svc.SignIn(ctx, dto.SignInDTO{Email: "ana@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, refreshed := cache.ttls["login_attempts:1"]
	assert.False(t, refreshed, "later failures keep the first window")
}

func TestAuthService_Refresh(t *testing.T) {
	svc, users, jwtSvc := newAuthFixture(t)
	ctx := context.Background()

	access, refresh, err := jwtSvc.GenerateTokens(1, testCompanyID)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, dto.RefreshTokenDTO{RefreshToken: access})
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)

	resp, err := svc.Refresh(ctx, dto.RefreshTokenDTO{RefreshToken: refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	users.users[1].Enabled = false
	_, err = svc.Refresh(ctx, dto.RefreshTokenDTO{RefreshToken: refresh})
	assert.ErrorIs(t, err, apperrors.ErrUserDisabled)
}
