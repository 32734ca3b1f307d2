package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type userRepoStub struct {
	users map[string]*models.User
}

func (s *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

type denylistStub struct {
	denied map[string]bool
}

func newDenylistStub() *denylistStub {
	return &denylistStub{denied: make(map[string]bool)}
}

func (s *denylistStub) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	s.denied[jti] = true
	return nil
}

func (s *denylistStub) IsDenied(ctx context.Context, jti string) (bool, error) {
	return s.denied[jti], nil
}

func newAuthService(t *testing.T, repo *userRepoStub, denylist *denylistStub) *AuthService {
	t.Helper()
	return NewAuthService(repo, denylist, nil, nil, AuthConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "attendease",
	})
}

func seedUser(t *testing.T, username, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           1,
		Username:     username,
		PasswordHash: string(hash),
		Name:         "Alice Smith",
		Role:         role,
	}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := &userRepoStub{users: map[string]*models.User{
		"10001": seedUser(t, "10001", "password", models.RoleTeacher),
	}}
	svc := newAuthService(t, repo, newDenylistStub())

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "10001",
		Password: "password",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, int64(3600), res.ExpiresIn)
	require.Equal(t, models.RoleTeacher, res.User.Role)

	claims, err := svc.ValidateToken(context.Background(), res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
	require.Equal(t, "10001", claims.Username)
	require.NotEmpty(t, claims.ID)
}

func TestAuthServiceLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := &userRepoStub{users: map[string]*models.User{
		"10001": seedUser(t, "10001", "password", models.RoleTeacher),
	}}
	svc := newAuthService(t, repo, newDenylistStub())

	cases := []struct {
		name string
		req  models.LoginRequest
	}{
		{"unknown username", models.LoginRequest{Username: "ghost", Password: "password", Role: models.RoleTeacher}},
		{"wrong password", models.LoginRequest{Username: "10001", Password: "wrong", Role: models.RoleTeacher}},
		{"wrong role", models.LoginRequest{Username: "10001", Password: "password", Role: models.RoleStudent}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.req)
			appErr := appErrors.FromError(err)
			require.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
			require.Equal(t, appErrors.ErrInvalidCredentials.Message, appErr.Message)
			require.Equal(t, appErrors.ErrInvalidCredentials.Status, appErr.Status)
		})
	}
}

func TestAuthServiceLoginRejectsUnknownRole(t *testing.T) {
	svc := newAuthService(t, &userRepoStub{}, newDenylistStub())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "10001",
		Password: "password",
		Role:     models.UserRole("superuser"),
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	repo := &userRepoStub{users: map[string]*models.User{
		"10001": seedUser(t, "10001", "password", models.RoleTeacher),
	}}
	denylist := newDenylistStub()
	svc := newAuthService(t, repo, denylist)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "10001",
		Password: "password",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), res.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	require.True(t, denylist.denied[claims.ID])

	_, err = svc.ValidateToken(context.Background(), res.AccessToken)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc := newAuthService(t, &userRepoStub{}, newDenylistStub())

	_, err := svc.ValidateToken(context.Background(), "not.a.token")
	require.Error(t, err)

	other := NewAuthService(&userRepoStub{}, newDenylistStub(), nil, nil, AuthConfig{
		Secret: "different-secret",
		Expiry: time.Hour,
		Issuer: "attendease",
	})
	repo := &userRepoStub{users: map[string]*models.User{
		"10001": seedUser(t, "10001", "password", models.RoleTeacher),
	}}
	signer := newAuthService(t, repo, newDenylistStub())
	res, err := signer.Login(context.Background(), models.LoginRequest{
		Username: "10001",
		Password: "password",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(context.Background(), res.AccessToken)
	require.Error(t, err)
}
