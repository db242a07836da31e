package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIDToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func newTestVerifier(clientID string) *verifier {
	cfg := &config.Config{GoogleOAuth: &config.GoogleOAuthConfig{ClientID: clientID}}

	return NewVerifier(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).(*verifier)
}

func validClaims() map[string]any {
	return map[string]any{
		"iss":            "https://accounts.google.com",
		"sub":            "google-user-123",
		"aud":            "client-id",
		"exp":            time.Now().Add(time.Hour).Unix(),
		"email":          "User@Example.com",
		"email_verified": true,
		"given_name":     "Ada",
		"family_name":    "Lovelace",
	}
}

func TestVerifyIDToken_Valid(t *testing.T) {
	v := newTestVerifier("client-id")

	user, err := v.VerifyIDToken(context.Background(), buildIDToken(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "google-user-123", user.ID)
	assert.Equal(t, "user@example.com", user.Email) // normalized
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.Equal(t, entity.OriginGoogle, user.Origin)
	assert.True(t, user.EmailVerified)
}

func TestVerifyIDToken_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "wrong issuer", mutate: func(c map[string]any) { c["iss"] = "https://evil.example.com" }},
		{name: "wrong audience", mutate: func(c map[string]any) { c["aud"] = "other-client" }},
		{name: "expired", mutate: func(c map[string]any) { c["exp"] = time.Now().Add(-time.Hour).Unix() }},
		{name: "no subject", mutate: func(c map[string]any) { c["sub"] = "" }},
		{name: "no email", mutate: func(c map[string]any) { c["email"] = "" }},
	}

	v := newTestVerifier("client-id")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			tt.mutate(claims)

			_, err := v.VerifyIDToken(context.Background(), buildIDToken(t, claims))
			assert.Error(t, err)
		})
	}
}

func TestVerifyIDToken_Malformed(t *testing.T) {
	v := newTestVerifier("client-id")

	_, err := v.VerifyIDToken(context.Background(), "not-a-jwt")
	assert.Error(t, err)

	_, err = v.VerifyIDToken(context.Background(), "a.!!!invalid-base64!!!.c")
	assert.Error(t, err)
}

func TestOAuthFlow_StateRoundTrip(t *testing.T) {
	flow := NewOAuthFlow(&config.Config{GoogleOAuth: &config.GoogleOAuthConfig{
		ClientID:    "client-id",
		RedirectURI: "http://localhost/callback",
	}}).(*oauthFlow)

	authURL := flow.BuildAuthorizationURL()
	assert.Contains(t, authURL, "client_id=client-id")
	assert.Contains(t, authURL, "state=")

	// A state handed out once is consumable exactly once.
	var state string
	for key := range flow.stateStore {
		state = key
	}
	require.NotEmpty(t, state)
	assert.True(t, flow.consumeState(state))
	assert.False(t, flow.consumeState(state))
	assert.False(t, flow.consumeState("never-issued"))
}
