// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bazaar/internal/delivery/http/response"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// dateOfBirthLayout is the accepted wire format for ownerDateOfBirth.
const dateOfBirthLayout = "2006-01-02"

// AuthHandler holds dependencies for registration and login handlers.
type AuthHandler struct {
	registrationUC usecase.RegistrationUsecase
	sessionUC      usecase.SessionUsecase
	logger         *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(registrationUC usecase.RegistrationUsecase, sessionUC usecase.SessionUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		registrationUC: registrationUC,
		sessionUC:      sessionUC,
		logger:         logger,
	}
}

type registerCustomerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password_policy"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// RegisterCustomer handles POST /customer/register.
func (h *AuthHandler) RegisterCustomer(c echo.Context) error {
	var req registerCustomerRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.registrationUC.RegisterCustomer(c.Request().Context(), &usecase.RegisterCustomerInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Provenance: provenanceFrom(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]any{
		"token": output.Token,
		"user":  toUserView(output.User),
	}, "Customer registered successfully")
}

type addressRequest struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
}

func (a addressRequest) toInput() usecase.AddressInput {
	return usecase.AddressInput{
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type countrySpecificRequest struct {
	SIREN      string `json:"siren"`
	SIRET      string `json:"siret"`
	LegalForm  string `json:"legalForm"`
	EIN        string `json:"ein"`
	Identifier string `json:"identifier"`
}

type registerStoreOwnerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password_policy"`

	StoreName       string         `json:"storeName" validate:"required"`
	BusinessName    string         `json:"businessName" validate:"required"`
	BusinessType    string         `json:"businessType" validate:"required"`
	BusinessAddress addressRequest `json:"businessAddress" validate:"required"`

	OwnerFirstName   string `json:"ownerFirstName" validate:"required"`
	OwnerLastName    string `json:"ownerLastName" validate:"required"`
	OwnerPhone       string `json:"ownerPhone" validate:"required"`
	OwnerDateOfBirth string `json:"ownerDateOfBirth" validate:"required"`

	AcceptedTerms          bool `json:"acceptedTerms"`
	AcceptedPrivacyPolicy  bool `json:"acceptedPrivacyPolicy"`
	AcceptedDataProcessing bool `json:"acceptedDataProcessing"`
	MarketingConsent       bool `json:"marketingConsent"`

	CountrySpecificFields *countrySpecificRequest `json:"countrySpecificFields"`
}

// RegisterStoreOwner handles POST /store/register.
func (h *AuthHandler) RegisterStoreOwner(c echo.Context) error {
	var req registerStoreOwnerRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dateOfBirth, err := time.Parse(dateOfBirthLayout, req.OwnerDateOfBirth)
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("ownerDateOfBirth")
	}

	input := &usecase.RegisterStoreOwnerInput{
		Email:            req.Email,
		Password:         req.Password,
		StoreName:        req.StoreName,
		BusinessName:     req.BusinessName,
		BusinessType:     req.BusinessType,
		BusinessAddress:  req.BusinessAddress.toInput(),
		OwnerFirstName:   req.OwnerFirstName,
		OwnerLastName:    req.OwnerLastName,
		OwnerPhone:       req.OwnerPhone,
		OwnerDateOfBirth: dateOfBirth,

		AcceptedTerms:          req.AcceptedTerms,
		AcceptedPrivacyPolicy:  req.AcceptedPrivacyPolicy,
		AcceptedDataProcessing: req.AcceptedDataProcessing,
		MarketingConsent:       req.MarketingConsent,

		Provenance: provenanceFrom(c),
	}
	if req.CountrySpecificFields != nil {
		input.CountrySpecific = &usecase.RegulatoryInput{
			SIREN:      req.CountrySpecificFields.SIREN,
			SIRET:      req.CountrySpecificFields.SIRET,
			LegalForm:  req.CountrySpecificFields.LegalForm,
			EIN:        req.CountrySpecificFields.EIN,
			Identifier: req.CountrySpecificFields.Identifier,
		}
	}

	output, err := h.registrationUC.RegisterStoreOwner(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]any{
		"token": output.Token,
		"user":  toUserView(output.User),
		"store": toStoreView(output.Store),
	}, "Store owner registered successfully")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /customer/login and POST /store/login, which share one
// contract.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.sessionUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		Provenance: provenanceFrom(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"token": output.Token,
		"user":  toUserView(output.User),
	}, "Login successful")
}

// CheckStoreName handles GET /check-store-name?storeName=...
func (h *AuthHandler) CheckStoreName(c echo.Context) error {
	storeName := c.QueryParam("storeName")
	if storeName == "" {
		return domainerrors.ErrMissingRequiredFields.WithDetails("storeName")
	}

	availability, err := h.registrationUC.CheckStoreNameAvailability(c.Request().Context(), storeName)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"available": availability.Available,
		"slug":      availability.Slug,
	}, "")
}

// provenanceFrom captures the request facts recorded with compliance events.
func provenanceFrom(c echo.Context) entity.Provenance {
	return entity.Provenance{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
