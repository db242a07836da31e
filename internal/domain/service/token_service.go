package service

import (
	"time"

	"bazaar/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the identity facts encoded in an access token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   entity.Role
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating access tokens.
// Tokens are stateless and expire by time only; validation failures are
// distinguishable so callers can produce different user-facing messages for
// an expired versus a tampered token.
type TokenService interface {
	// IssueToken creates a signed, time-limited access token for a principal.
	IssueToken(user *entity.User) (string, error)

	// ValidateToken checks a token string. It fails with
	// domainerrors.ErrTokenExpired on an expired-but-well-formed token and
	// domainerrors.ErrTokenMalformed on any structural or signature failure.
	ValidateToken(tokenString string) (*Claims, error)

	// TokenDuration returns the configured validity window.
	TokenDuration() time.Duration
}
