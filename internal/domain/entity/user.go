// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the principal of the system: a single authenticated identity,
// either a customer or a store owner.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the principal.
	Email        string    // Primary login identifier, always stored normalized to lowercase.
	PasswordHash string    // bcrypt hash of the password. Empty for OAuth-originated principals.
	FirstName    string
	LastName     string
	Role         Role   // Either RoleCustomer or RoleStoreOwner.
	Origin       Origin // How this principal was created: local registration or an OAuth provider.

	// IsActive gates login and token resolution. Deactivation happens outside
	// this core; a deactivated principal is never hard-deleted.
	IsActive bool

	// IsFullyRegistered is false only for principals created via a deferred
	// OAuth path, until CompleteOnboarding upgrades them.
	IsFullyRegistered bool

	LastLoginAt *time.Time

	// Business holds the legal profile of a store owner. Nil for customers
	// and for OAuth principals that have not completed onboarding.
	Business *BusinessProfile

	Consents Consents

	// Registration provenance, captured from the originating HTTP request.
	RegistrationIP        string
	RegistrationUserAgent string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name used in token claims and views.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// OwnsBusinessProfile reports whether a legal business profile is attached.
func (u *User) OwnsBusinessProfile() bool {
	return u.Business != nil
}

// BusinessProfile carries the regulatory facts recorded for a store owner.
type BusinessProfile struct {
	LegalName    string  // Registered legal name of the business.
	LegalType    string  // Legal form of the business, e.g. "SARL" or "LLC".
	Address      Address // Registered business address.
	Phone        string  // Owner contact phone.
	DateOfBirth  time.Time
	RegulatoryID *RegulatoryID // Country-specific identifiers, nil when none were supplied.
}

// Address is a postal address embedded in profiles and stores.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string // ISO 3166-1 alpha-2, uppercase.
}

// IsZero reports whether no field of the address is set.
func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.PostalCode == "" && a.Country == ""
}

// NormalizeEmail lowercases and trims an email so the unique index on
// lower(email) and all lookups agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
