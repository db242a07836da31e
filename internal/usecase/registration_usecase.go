// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// AddressInput is the wire shape of a postal address.
type AddressInput struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// ToEntity converts the input into a domain address.
func (a AddressInput) ToEntity() entity.Address {
	return entity.Address{
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// RegulatoryInput carries the optional country-specific identifiers supplied
// at store-owner registration. Which fields apply is decided by the business
// address country.
type RegulatoryInput struct {
	SIREN      string
	SIRET      string
	LegalForm  string
	EIN        string
	Identifier string
}

// IsZero reports whether no identifier was supplied at all.
func (r RegulatoryInput) IsZero() bool {
	return r.SIREN == "" && r.SIRET == "" && r.LegalForm == "" && r.EIN == "" && r.Identifier == ""
}

// RegisterCustomerInput defines the data required to register a new customer.
type RegisterCustomerInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Provenance entity.Provenance
}

// RegisterStoreOwnerInput defines the full profile required to register a
// store owner together with their store.
type RegisterStoreOwnerInput struct {
	Email    string
	Password string

	StoreName       string
	BusinessName    string
	BusinessType    string
	BusinessAddress AddressInput

	OwnerFirstName   string
	OwnerLastName    string
	OwnerPhone       string
	OwnerDateOfBirth time.Time

	AcceptedTerms          bool
	AcceptedPrivacyPolicy  bool
	AcceptedDataProcessing bool
	MarketingConsent       bool

	CountrySpecific *RegulatoryInput

	Provenance entity.Provenance
}

// CompleteOnboardingInput defines the data an OAuth-created principal submits
// to finish becoming a store owner.
type CompleteOnboardingInput struct {
	UserID uuid.UUID

	PhoneNumber    string
	StoreName      string
	RegistrationID string
	StoreAddress   AddressInput
	BillingAddress *AddressInput

	AcceptedTerms   bool
	AcceptedTermsAt *time.Time

	Provenance entity.Provenance
}

// --- Output DTOs ---

// RegisterCustomerOutput returns the token and the newly created principal.
type RegisterCustomerOutput struct {
	Token string
	User  *entity.User
}

// RegisterStoreOwnerOutput returns the token, the principal and its store.
type RegisterStoreOwnerOutput struct {
	Token string
	User  *entity.User
	Store *entity.Store
}

// CompleteOnboardingOutput returns the upgraded principal and the new store.
type CompleteOnboardingOutput struct {
	User  *entity.User
	Store *entity.Store
}

// StoreNameAvailability reports whether a candidate store name is free, and
// the slug it would occupy. The answer is advisory: the unique constraint at
// creation time remains authoritative.
type StoreNameAvailability struct {
	Available bool
	Slug      string
}

// RegistrationUsecase defines the interface for the registration and
// onboarding flows. This is the contract the delivery layer depends on.
type RegistrationUsecase interface {
	RegisterCustomer(ctx context.Context, input *RegisterCustomerInput) (*RegisterCustomerOutput, error)
	RegisterStoreOwner(ctx context.Context, input *RegisterStoreOwnerInput) (*RegisterStoreOwnerOutput, error)
	CompleteOnboarding(ctx context.Context, input *CompleteOnboardingInput) (*CompleteOnboardingOutput, error)
	CheckStoreNameAvailability(ctx context.Context, storeName string) (*StoreNameAvailability, error)
}
