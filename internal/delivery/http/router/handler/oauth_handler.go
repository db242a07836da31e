package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"bazaar/config"
	"bazaar/internal/delivery/http/response"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OAuthHandler holds dependencies for the OAuth sign-in endpoints.
type OAuthHandler struct {
	sessionUC usecase.SessionUsecase
	cfg       *config.Config
	logger    *slog.Logger
}

// NewOAuthHandler is the constructor for OAuthHandler, injected by Fx.
func NewOAuthHandler(sessionUC usecase.SessionUsecase, cfg *config.Config, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		sessionUC: sessionUC,
		cfg:       cfg,
		logger:    logger,
	}
}

// GoogleLogin handles GET /oauth/google. With ?redirect=true the browser is
// sent straight to the consent screen; otherwise the URL is returned as JSON
// for frontends that drive the flow themselves.
func (h *OAuthHandler) GoogleLogin(c echo.Context) error {
	oauthURL := h.sessionUC.GoogleAuthorizationURL()

	if c.QueryParam("redirect") == "true" {
		return c.Redirect(http.StatusTemporaryRedirect, oauthURL)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"oauthUrl": oauthURL,
	}, "Google OAuth URL generated successfully")
}

type oauthCallbackRequest struct {
	IDToken string `json:"idToken" form:"id_token"`
}

// GoogleCallback handles GET and POST /oauth/google/callback. A browser
// redirect arrives with code+state query parameters; API clients post the ID
// token directly.
func (h *OAuthHandler) GoogleCallback(c echo.Context) error {
	if code := c.QueryParam("code"); code != "" {
		output, err := h.sessionUC.GoogleExchange(c.Request().Context(), &usecase.OAuthExchangeInput{
			Code:       code,
			State:      c.QueryParam("state"),
			Provenance: provenanceFrom(c),
		})
		if err != nil {
			return errors.WithStack(err)
		}

		if redirectURL := h.onboardingRedirect(output); redirectURL != "" {
			return c.Redirect(http.StatusTemporaryRedirect, redirectURL)
		}

		return h.callbackResponse(c, output)
	}

	input, err := h.bindCallback(c)
	if err != nil {
		return err
	}

	output, err := h.sessionUC.GoogleCallback(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return h.callbackResponse(c, output)
}

// AppleCallback handles POST /oauth/apple/callback.
func (h *OAuthHandler) AppleCallback(c echo.Context) error {
	input, err := h.bindCallback(c)
	if err != nil {
		return err
	}

	output, err := h.sessionUC.AppleCallback(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return h.callbackResponse(c, output)
}

func (h *OAuthHandler) bindCallback(c echo.Context) (*usecase.OAuthCallbackInput, error) {
	var req oauthCallbackRequest
	if err := c.Bind(&req); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("malformed callback body")
	}
	if req.IDToken == "" {
		return nil, domainerrors.ErrMissingRequiredFields.WithDetails("idToken")
	}

	return &usecase.OAuthCallbackInput{
		IDToken:    req.IDToken,
		Provenance: provenanceFrom(c),
	}, nil
}

func (h *OAuthHandler) callbackResponse(c echo.Context, output *usecase.OAuthCallbackOutput) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"token":           output.Token,
		"user":            toUserView(output.User),
		"needsOnboarding": output.NeedsOnboarding,
	}, "OAuth authentication successful")
}

// onboardingRedirect builds the frontend redirect carrying the token and a
// type flag, when one is configured.
func (h *OAuthHandler) onboardingRedirect(output *usecase.OAuthCallbackOutput) string {
	if h.cfg.GoogleOAuth == nil || h.cfg.GoogleOAuth.OnboardingRedirectURL == "" {
		return ""
	}

	target, err := url.Parse(h.cfg.GoogleOAuth.OnboardingRedirectURL)
	if err != nil {
		h.logger.Warn("Invalid onboarding redirect URL configured", slog.Any("error", err))

		return ""
	}

	query := target.Query()
	query.Set("token", output.Token)
	if output.NeedsOnboarding {
		query.Set("type", "onboarding")
	} else {
		query.Set("type", "login")
	}
	target.RawQuery = query.Encode()

	return target.String()
}
