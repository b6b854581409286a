package services

import (
	"fmt"

	"github.com/lverma/planora/internal/apperrors"
	"github.com/lverma/planora/internal/auth"
	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/store"
	"github.com/lverma/planora/pkg/utils"
)

// AuthService verifies credentials and manages passwords.
type AuthService struct {
	users  store.UserStore
	tokens *auth.TokenService
	log    *logger.Logger
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users store.UserStore, tokens *auth.TokenService, log *logger.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Login authenticates a user by username or email and returns a signed
// token plus the user record. Unknown identifier and wrong password
// both come back as ErrInvalidCredentials so callers cannot probe for
// registered accounts.
func (s *AuthService) Login(identifier, password string) (string, models.User, error) {
	user, ok := s.users.FindByIdentifier(identifier)
	if !ok {
		return "", models.User{}, apperrors.ErrInvalidCredentials
	}
	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return "", models.User{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", models.User{}, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info("User logged in", "user_id", user.ID)
	return token, user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, ok := s.users.FindByID(userID)
	if !ok {
		return fmt.Errorf("%w: user", apperrors.ErrNotFound)
	}
	if err := utils.CheckPassword(user.PasswordHash, currentPassword); err != nil {
		return fmt.Errorf("%w: currentPassword is incorrect", apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(user); err != nil {
		return err
	}

	s.log.Info("Password changed", "user_id", user.ID)
	return nil
}
