package service

import (
	"context"

	"bazaar/internal/domain/entity"
)

// OAuthUser represents the identity facts returned by an OAuth provider.
type OAuthUser struct {
	ID            string        // Provider-specific user ID (e.g., Google's 'sub' claim).
	Email         string        // User's email address as attested by the provider.
	FirstName     string        // Given name, when the provider supplies it.
	LastName      string        // Family name, when the provider supplies it.
	Origin        entity.Origin // Which provider attested this identity.
	EmailVerified bool          // Whether the provider verified the email.
}

// OAuthVerifier verifies a provider-issued ID token and returns the attested
// identity. One implementation exists per provider.
type OAuthVerifier interface {
	// VerifyIDToken verifies an OAuth ID token and returns user information.
	VerifyIDToken(ctx context.Context, idToken string) (*OAuthUser, error)

	// Origin returns the provider this verifier handles.
	Origin() entity.Origin
}

// OAuthFlow builds the browser-facing pieces of the authorization-code flow.
type OAuthFlow interface {
	// BuildAuthorizationURL returns the provider consent-screen URL with a
	// fresh CSRF state parameter.
	BuildAuthorizationURL() string

	// ExchangeCode trades an authorization code for the provider's ID token.
	ExchangeCode(ctx context.Context, code, state string) (string, error)
}
