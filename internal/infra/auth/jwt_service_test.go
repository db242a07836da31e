package auth

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService(t *testing.T) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Signing = "test_signing_key_very_long_for_testing"

	svc, err := NewJWTService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return svc
}

func testUser() *entity.User {
	return &entity.User{
		ID:    uuid.New(),
		Email: "owner@example.com",
		Role:  entity.RoleStoreOwner,
	}
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := testTokenService(t)
	user := testUser()

	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, entity.RoleStoreOwner, claims.Role)
}

func TestJWTService_TokenDuration(t *testing.T) {
	svc := testTokenService(t)
	assert.Equal(t, 7*24*time.Hour, svc.TokenDuration())
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := testTokenService(t)
	user := testUser()

	// Sign a well-formed token whose expiry is already in the past.
	now := time.Now()
	claims := &service.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test_signing_key_very_long_for_testing"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(expired)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))
	assert.False(t, errors.Is(err, domainerrors.ErrTokenMalformed))
}

func TestJWTService_TamperedToken(t *testing.T) {
	svc := testTokenService(t)

	token, err := svc.IssueToken(testUser())
	require.NoError(t, err)

	// Flip one character in the signature segment.
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'a' {
		tampered[last] = 'b'
	} else {
		tampered[last] = 'a'
	}

	_, err = svc.ValidateToken(string(tampered))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenMalformed))
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := testTokenService(t)

	_, err := svc.ValidateToken("clearly-not-a-jwt-token-format")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenMalformed))
}

func TestJWTService_WrongKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.Signing = "a_completely_different_signing_key"
	other, err := NewJWTService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	token, err := other.IssueToken(testUser())
	require.NoError(t, err)

	svc := testTokenService(t)
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenMalformed))
}

func TestJWTService_RequiresKey(t *testing.T) {
	cfg := &config.Config{}
	_, err := NewJWTService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
