package usecase

import (
	"context"

	"bazaar/internal/domain/entity"
)

// LoginInput defines the data required for a principal to log in.
type LoginInput struct {
	Email      string
	Password   string
	Provenance entity.Provenance
}

// LoginOutput returns the generated token after a successful login.
type LoginOutput struct {
	Token string
	User  *entity.User
}

// OAuthCallbackInput carries the provider-issued ID token from a callback.
type OAuthCallbackInput struct {
	IDToken    string
	Provenance entity.Provenance
}

// OAuthExchangeInput carries the authorization code and CSRF state from a
// browser redirect callback.
type OAuthExchangeInput struct {
	Code       string
	State      string
	Provenance entity.Provenance
}

// OAuthCallbackOutput returns the token and whether the principal still has
// to complete onboarding before acting as a store owner.
type OAuthCallbackOutput struct {
	Token           string
	User            *entity.User
	NeedsOnboarding bool
}

// SessionUsecase defines the interface for credential and OAuth sign-in.
type SessionUsecase interface {
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// GoogleAuthorizationURL returns the provider consent-screen URL with a
	// fresh CSRF state parameter.
	GoogleAuthorizationURL() string

	// GoogleExchange trades an authorization code for an ID token and signs
	// the attested identity in.
	GoogleExchange(ctx context.Context, input *OAuthExchangeInput) (*OAuthCallbackOutput, error)

	GoogleCallback(ctx context.Context, input *OAuthCallbackInput) (*OAuthCallbackOutput, error)
	AppleCallback(ctx context.Context, input *OAuthCallbackInput) (*OAuthCallbackOutput, error)
}
