package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-order-backend/internal/auth"
	"print-order-backend/internal/models"
	"print-order-backend/internal/services"
	"print-order-backend/internal/testutil"
)

func newUserService() (*services.UserService, *testutil.UserStore) {
	store := testutil.NewUserStore()
	return services.NewUserService(store, auth.NewTokenManager("test-secret", time.Hour)), store
}

func register(t *testing.T, svc *services.UserService, username, email string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct horse",
		FullName: strPtr("Test User"),
	})
	require.NoError(t, err)
	return user
}

func TestUserService_Register(t *testing.T) {
	svc, store := newUserService()
	user := register(t, svc, "alice", "alice@example.com")

	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct horse", user.HashedPassword)

	stored, err := store.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestUserService_RegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()
	register(t, svc, "alice", "alice@example.com")

	_, err := svc.Register(ctx, models.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	_, err = svc.Register(ctx, models.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	assert.EqualError(t, err, "the username has already been registered")

	_, err = svc.Register(ctx, models.RegisterRequest{Username: "carol", Email: "not-an-email", Password: "whatever1"})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestUserService_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()
	register(t, svc, "alice", "alice@example.com")

	token, user, err := svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, _, err = svc.Login(ctx, models.LoginRequest{Username: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, models.LoginRequest{Username: "nobody", Password: "correct horse"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	authed, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestUserService_AuthenticateRejectsRoleMismatch(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewUserStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	svc := services.NewUserService(store, tokens)
	register(t, svc, "alice", "alice@example.com")

	forged, err := tokens.Issue("alice", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	ghost, err := tokens.Issue("ghost", models.RoleUser)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()
	user := register(t, svc, "alice", "alice@example.com")

	err := svc.ResetPassword(ctx, user, models.PasswordResetRequest{CurrentPassword: "wrong", NewPassword: "brand new pass"})
	assert.ErrorIs(t, err, services.ErrIncorrectPassword)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)

	err = svc.ResetPassword(ctx, user, models.PasswordResetRequest{CurrentPassword: "correct horse", NewPassword: "short"})
	assert.ErrorIs(t, err, services.ErrWeakPassword)

	err = svc.ResetPassword(ctx, user, models.PasswordResetRequest{CurrentPassword: "correct horse", NewPassword: "brand new pass"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "brand new pass"})
	assert.NoError(t, err)
}

func TestUserService_AdminResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()
	register(t, svc, "alice", "alice@example.com")
	root, err := svc.CreateAdmin(ctx, models.RegisterRequest{Username: "root", Email: "root@example.com", Password: "admin pass"})
	require.NoError(t, err)

	req := models.AdminPasswordResetRequest{UserEmail: "alice@example.com", NewPassword: "reset by admin"}

	assert.ErrorIs(t, svc.AdminResetPassword(ctx, bob, req), services.ErrForbidden)
	require.NoError(t, svc.AdminResetPassword(ctx, root, req))

	_, _, err = svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "reset by admin"})
	assert.NoError(t, err)

	missing := models.AdminPasswordResetRequest{UserEmail: "ghost@example.com", NewPassword: "whatever123"}
	assert.ErrorIs(t, svc.AdminResetPassword(ctx, root, missing), models.ErrNotFound)
}

func TestUserService_UpdateProfileMergesPresentFields(t *testing.T) {
	ctx := context.Background()
	svc, store := newUserService()
	user := register(t, svc, "alice", "alice@example.com")

	updated, err := svc.UpdateProfile(ctx, user, models.UserUpdateRequest{
		Phone:    strPtr("0411111111"),
		Building: strPtr("Block C"),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.FullName)
	assert.Equal(t, "Test User", *updated.FullName)
	assert.Equal(t, "0411111111", *updated.Phone)
	assert.Equal(t, "Block C", *updated.Building)
	assert.Nil(t, updated.MailboxNumber)
	assert.NotNil(t, updated.UpdatedAt)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Block C", *stored.Building)
	assert.Equal(t, user.HashedPassword, stored.HashedPassword)
}

func TestUserService_GetIsAdminOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()
	user := register(t, svc, "alice", "alice@example.com")

	_, err := svc.Get(ctx, user, user.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	got, err := svc.Get(ctx, admin, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.Get(ctx, admin, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
