package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/response"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProfileHandler serves the authenticated principal's own resources.
type ProfileHandler struct {
	profileUC      usecase.ProfileUsecase
	registrationUC usecase.RegistrationUsecase
	logger         *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(profileUC usecase.ProfileUsecase, registrationUC usecase.RegistrationUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUC:      profileUC,
		registrationUC: registrationUC,
		logger:         logger,
	}
}

// GetProfile handles GET /me.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	principalID, err := middleware.PrincipalIDFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	output, err := h.profileUC.GetProfile(c.Request().Context(), principalID)
	if err != nil {
		return errors.WithStack(err)
	}

	data := map[string]any{
		"user": toUserView(output.User),
	}
	if output.Store != nil {
		data["store"] = toStoreView(output.Store)
	}

	return response.Success(c, http.StatusOK, data, "Profile retrieved successfully")
}

type completeOnboardingRequest struct {
	PhoneNumber    string          `json:"phoneNumber" validate:"required"`
	StoreName      string          `json:"storeName" validate:"required"`
	RegistrationID string          `json:"registrationId" validate:"required"`
	StoreAddress   addressRequest  `json:"storeAddress" validate:"required"`
	BillingAddress *addressRequest `json:"billingAddress"`
	AcceptedCGU    bool            `json:"acceptedCGU"`
	AcceptedCGUAt  *time.Time      `json:"acceptedCGUAt"`
}

// CompleteOnboarding handles POST /complete-onboarding for principals created
// through an OAuth provider.
func (h *ProfileHandler) CompleteOnboarding(c echo.Context) error {
	principalID, err := middleware.PrincipalIDFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var req completeOnboardingRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	input := &usecase.CompleteOnboardingInput{
		UserID:          principalID,
		PhoneNumber:     req.PhoneNumber,
		StoreName:       req.StoreName,
		RegistrationID:  req.RegistrationID,
		StoreAddress:    req.StoreAddress.toInput(),
		AcceptedTerms:   req.AcceptedCGU,
		AcceptedTermsAt: req.AcceptedCGUAt,
		Provenance:      provenanceFrom(c),
	}
	if req.BillingAddress != nil {
		billing := req.BillingAddress.toInput()
		input.BillingAddress = &billing
	}

	output, err := h.registrationUC.CompleteOnboarding(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"user":  toUserView(output.User),
		"store": toStoreView(output.Store),
	}, "Onboarding completed successfully")
}
