package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lverma/planora/internal/apperrors"
	"github.com/lverma/planora/internal/auth"
	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/store/memory"
)

func newTestAuthService(t *testing.T) (*AuthService, *auth.TokenService) {
	t.Helper()
	stores := memory.NewStores()
	require.NoError(t, memory.Seed(stores))
	tokens := auth.NewTokenService("test-secret")
	return NewAuthService(stores.Users, tokens, logger.NewLogger("test")), tokens
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	svc, tokens := newTestAuthService(t)

	token, user, err := svc.Login("admin", "Test1234!")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, user.Role, identity.Role)

	_, user, err = svc.Login("dev@example.com", "Test1234!")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, err := svc.Login("admin", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = svc.Login("no-such-user", "Test1234!")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	require.NoError(t, svc.ChangePassword("u2", "Test1234!", "NewPass99?"))

	// Old password no longer works, new one does.
	_, _, err := svc.Login("dev", "Test1234!")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, _, err = svc.Login("dev", "NewPass99?")
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, _ := newTestAuthService(t)

	err := svc.ChangePassword("u2", "wrong", "NewPass99?")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.ChangePassword("ghost", "Test1234!", "NewPass99?")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
