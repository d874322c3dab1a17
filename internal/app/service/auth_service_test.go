package service

import (
	"testing"
	"time"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/internal/db"
	"github.com/magicmenu/magicmenu-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewAuthService(
		repository.NewUserRepository(testDB),
		testSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestAuthService_Register(t *testing.T) {
	svc := setupAuthServiceTest(t)

	user, tokens, err := svc.Register("owner@example.com", "password123", "Alice", "Smith", "owner")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, model.RoleOwner, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "owner", claims.Role)
}

func TestAuthService_Register_AdminRoleDowngraded(t *testing.T) {
	svc := setupAuthServiceTest(t)

	// Self-registration cannot grant admin.
	user, _, err := svc.Register("sneaky@example.com", "password123", "Sneaky", "User", "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, user.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, _, err := svc.Register("owner@example.com", "password123", "Alice", "Smith", "owner")
	require.NoError(t, err)

	_, _, err = svc.Register("owner@example.com", "other-password", "Bob", "Jones", "customer")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc := setupAuthServiceTest(t)

	registered, _, err := svc.Register("owner@example.com", "password123", "Alice", "Smith", "owner")
	require.NoError(t, err)

	user, tokens, err := svc.Login("owner@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotNil(t, user.LastSignInAt)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc := setupAuthServiceTest(t)

	_, _, err := svc.Register("owner@example.com", "password123", "Alice", "Smith", "owner")
	require.NoError(t, err)

	_, _, err = svc.Login("owner@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_UpdateUserRole(t *testing.T) {
	svc := setupAuthServiceTest(t)

	user, _, err := svc.Register("customer@example.com", "password123", "Carol", "White", "customer")
	require.NoError(t, err)

	updated, err := svc.UpdateUserRole(user.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, updated.Role)

	_, err = svc.UpdateUserRole(user.ID, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.UpdateUserRole("no-such-user", "owner")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
