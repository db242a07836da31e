package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	googleOAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"

	stateLifetime = 10 * time.Minute
)

// oauthFlow implements service.OAuthFlow for Google's authorization-code flow.
type oauthFlow struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       string
	httpClient   *http.Client

	// State storage for CSRF protection.
	stateStore map[string]time.Time
	stateMutex sync.Mutex
}

// NewOAuthFlow creates the Google OAuth flow helper.
func NewOAuthFlow(cfg *config.Config) service.OAuthFlow {
	flow := &oauthFlow{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		stateStore: make(map[string]time.Time),
	}
	if cfg.GoogleOAuth != nil {
		flow.clientID = cfg.GoogleOAuth.ClientID
		flow.clientSecret = cfg.GoogleOAuth.ClientSecret
		flow.redirectURI = cfg.GoogleOAuth.RedirectURI
		flow.scopes = cfg.GoogleOAuth.Scopes
	}
	if flow.scopes == "" {
		flow.scopes = "openid email profile"
	}

	return flow
}

// BuildAuthorizationURL implements service.OAuthFlow.
func (s *oauthFlow) BuildAuthorizationURL() string {
	state := s.generateState()
	s.storeState(state)

	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("redirect_uri", s.redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", s.scopes)
	params.Set("state", state)
	params.Set("access_type", "offline")

	return googleOAuthURL + "?" + params.Encode()
}

// ExchangeCode implements service.OAuthFlow: it validates the CSRF state and
// trades the authorization code for the provider's ID token.
func (s *oauthFlow) ExchangeCode(ctx context.Context, code, state string) (string, error) {
	if !s.consumeState(state) {
		return "", errors.New("unknown or expired oauth state")
	}

	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)
	form.Set("redirect_uri", s.redirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "token exchange request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read token response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tokenResp struct {
		IDToken string `json:"id_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal token response")
	}
	if tokenResp.IDToken == "" {
		return "", errors.New("token response contained no id_token")
	}

	return tokenResp.IDToken, nil
}

// generateState generates a cryptographically secure random state string.
func (s *oauthFlow) generateState() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

func (s *oauthFlow) storeState(state string) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	now := time.Now()
	for key, created := range s.stateStore {
		if now.Sub(created) > stateLifetime {
			delete(s.stateStore, key)
		}
	}
	s.stateStore[state] = now
}

// consumeState validates a state parameter and removes it so it cannot be replayed.
func (s *oauthFlow) consumeState(state string) bool {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	created, ok := s.stateStore[state]
	if !ok {
		return false
	}
	delete(s.stateStore, state)

	return time.Since(created) <= stateLifetime
}
