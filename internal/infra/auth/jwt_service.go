package auth

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	signingKey []byte
	ttl        time.Duration
}

// NewJWTService is the constructor for jwtService. The signing key is
// process-wide immutable configuration loaded once at startup; when the
// insecure development default is in effect a warning is logged so it is
// never silently carried into production.
func NewJWTService(cfg *config.Config, logger *slog.Logger) (service.TokenService, error) {
	if cfg.SecretKey.Signing == "" {
		return nil, errors.New("jwt signing key must be provided")
	}
	if cfg.UsesInsecureSigningKey() {
		logger.Warn("Token signing key is the insecure development default; set SECRETKEY_SIGNING before deploying")
	}

	return &jwtService{
		signingKey: []byte(cfg.SecretKey.Signing),
		ttl:        config.DefaultTokenTTL,
	}, nil
}

// IssueToken encodes the principal's id, email and role into a signed,
// time-limited token.
func (s *jwtService) IssueToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := &service.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// ValidateToken parses and verifies a token string. Expiry and structural
// failures map to distinct domain errors so callers can phrase the two
// differently to the user.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage("token expired")
		}

		return nil, domainerrors.ErrTokenMalformed.WrapMessage("failed to parse token structure")
	}
	if !token.Valid {
		return nil, domainerrors.ErrTokenMalformed.WrapMessage("token is not valid")
	}

	return claims, nil
}

// TokenDuration returns the configured validity window.
func (s *jwtService) TokenDuration() time.Duration {
	return s.ttl
}
