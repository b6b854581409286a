// Package auth issues and verifies the stateless session tokens used by
// the API. Tokens are self-contained; there is no revocation list.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lverma/planora/internal/apperrors"
	"github.com/lverma/planora/internal/models"
)

const tokenTTL = 2 * time.Hour

// Identity is the authenticated principal derived from a verified token.
type Identity struct {
	UserID string
	Role   models.GlobalRole
}

// TokenService signs and verifies HS256 session tokens binding a user
// id and global role for two hours.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service with the process-wide secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: tokenTTL}
}

// Issue signs a token for the given subject and role.
func (ts *TokenService) Issue(userID string, role models.GlobalRole) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  time.Now().Add(ts.ttl).Unix(),
	})
	return token.SignedString(ts.secret)
}

// Verify parses and validates a token and returns the identity it
// encodes. Every failure mode (bad signature, malformed payload,
// expiry) yields the same ErrUnauthenticated so callers cannot tell
// tampering from expiry.
func (ts *TokenService) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperrors.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperrors.ErrUnauthenticated
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || !models.ValidGlobalRole(models.GlobalRole(role)) {
		return Identity{}, apperrors.ErrUnauthenticated
	}

	return Identity{UserID: sub, Role: models.GlobalRole(role)}, nil
}
