// Package apple implements ID-token verification for Sign in with Apple.
package apple

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service"

	"github.com/pkg/errors"
)

// idTokenClaims represents the claims in an Apple identity token. Apple does
// not include name claims; clients supply the name separately on first login.
type idTokenClaims struct {
	Iss            string `json:"iss"`
	Sub            string `json:"sub"`
	Aud            string `json:"aud"`
	Exp            int64  `json:"exp"`
	Email          string `json:"email"`
	EmailVerified  any    `json:"email_verified"` // Apple sends "true"/"false" strings or booleans.
	IsPrivateEmail any    `json:"is_private_email"`
}

// verifier implements service.OAuthVerifier for Apple identity tokens.
type verifier struct {
	clientID string
	logger   *slog.Logger
}

// NewVerifier creates the Apple identity-token verifier.
func NewVerifier(cfg *config.Config, logger *slog.Logger) service.OAuthVerifier {
	clientID := ""
	if cfg.AppleOAuth != nil {
		clientID = cfg.AppleOAuth.ClientID
	}

	return &verifier{
		clientID: clientID,
		logger:   logger,
	}
}

// VerifyIDToken implements service.OAuthVerifier.
func (s *verifier) VerifyIDToken(_ context.Context, idToken string) (*service.OAuthUser, error) {
	claims, err := s.parseIDToken(idToken)
	if err != nil {
		s.logger.Warn("Failed to parse Apple identity token", slog.Any("error", err))

		return nil, errors.Wrap(err, "invalid identity token")
	}

	if err := s.verifyTokenClaims(claims); err != nil {
		s.logger.Warn("Apple identity token verification failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "token verification failed")
	}

	return &service.OAuthUser{
		ID:            claims.Sub,
		Email:         entity.NormalizeEmail(claims.Email),
		Origin:        entity.OriginApple,
		EmailVerified: truthyClaim(claims.EmailVerified),
	}, nil
}

// Origin implements service.OAuthVerifier.
func (s *verifier) Origin() entity.Origin {
	return entity.OriginApple
}

func (s *verifier) parseIDToken(idToken string) (*idTokenClaims, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return nil, errors.New("malformed JWT: expected 3 segments")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode claims segment")
	}

	claims := &idTokenClaims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal claims")
	}

	return claims, nil
}

func (s *verifier) verifyTokenClaims(claims *idTokenClaims) error {
	if claims.Iss != "https://appleid.apple.com" {
		return errors.Errorf("unexpected issuer: %s", claims.Iss)
	}
	if s.clientID != "" && claims.Aud != s.clientID {
		return errors.New("token audience does not match client ID")
	}
	if time.Now().Unix() >= claims.Exp {
		return errors.New("token is expired")
	}
	if claims.Sub == "" {
		return errors.New("token has no subject")
	}
	if claims.Email == "" {
		return errors.New("token has no email")
	}

	return nil
}

func truthyClaim(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true"
	default:
		return false
	}
}
