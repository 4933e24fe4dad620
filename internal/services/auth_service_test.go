package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/apperrors"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@fairwin.app"
	testAdminPassword = "correct-horse-battery"
	testJWTSecret     = "unit-test-secret"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeAdminRepo) {
	t.Helper()
	adminRepo := newFakeAdminRepo()
	service := NewAuthService(adminRepo, testJWTSecret, time.Hour)
	require.NoError(t, service.EnsureDefaultAdmin(context.Background(), testAdminEmail, testAdminPassword))
	return service, adminRepo
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	service, _ := newAuthFixture(t)

	resp, err := service.Login(context.Background(), &models.LoginRequest{
		Email:    testAdminEmail,
		Password: testAdminPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.True(t, resp.ExpiresAt.After(time.Now()))

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, testAdminEmail, claims["email"])
	require.Equal(t, "admin", claims["role"])
	require.NotEmpty(t, claims["sub"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service, _ := newAuthFixture(t)

	_, err := service.Login(context.Background(), &models.LoginRequest{
		Email:    testAdminEmail,
		Password: "wrong",
	})
	require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	service, _ := newAuthFixture(t)

	_, err := service.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@fairwin.app",
		Password: testAdminPassword,
	})
	require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestEnsureDefaultAdminRunsOnce(t *testing.T) {
	service, adminRepo := newAuthFixture(t)
	ctx := context.Background()

	// A second bootstrap with different credentials must not add or
	// replace anything.
	require.NoError(t, service.EnsureDefaultAdmin(ctx, "other@fairwin.app", "other-password"))

	count, err := adminRepo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	admin, err := adminRepo.FindByEmail(ctx, testAdminEmail)
	require.NoError(t, err)
	require.Equal(t, "admin", admin.Role)
	// The stored credential is a bcrypt hash, never the raw password.
	require.NotEqual(t, testAdminPassword, admin.Password)
}

func TestEnsureDefaultAdminSkipsBlankConfig(t *testing.T) {
	adminRepo := newFakeAdminRepo()
	service := NewAuthService(adminRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	require.NoError(t, service.EnsureDefaultAdmin(ctx, "", ""))
	count, err := adminRepo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}
