package entity

import (
	"time"

	"github.com/google/uuid"
)

// Store is the tenant record owned by exactly one store-owner principal.
type Store struct {
	ID      uuid.UUID
	OwnerID uuid.UUID // The owning principal. Always set at creation.
	Name    string    // Display name as entered by the owner.
	Slug    string    // URL-safe unique identifier derived from Name. Immutable after creation.

	// Operational fields, editable by the owner.
	Address        Address
	Phone          string
	ContactEmail   string
	OpeningHours   string
	Timezone       string
	OnHoliday      bool
	HolidayMessage string
	IsActive       bool // Cleared on "deletion"; the row is never removed.

	// Legal fields, copied from the owning principal's business profile at
	// creation time so later profile edits do not rewrite history.
	LegalName      string
	LegalType      string
	LegalAddress   Address
	BillingAddress Address // Defaults to the store address when not supplied separately.
	RegulatoryID   *RegulatoryID

	// Document verification state. Every known document kind is present from
	// creation on; the verification process itself lives outside this core.
	DocumentChecks    DocumentChecks
	IsLegallyVerified bool
	VerificationNotes string
	VerifiedAt        *time.Time
	VerifiedBy        *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentStatus is the verification state of a single compliance document.
type DocumentStatus string

const (
	// DocumentPending means the document has not been reviewed yet.
	DocumentPending DocumentStatus = "pending"
	// DocumentVerified means the document passed review.
	DocumentVerified DocumentStatus = "verified"
	// DocumentRejected means the document failed review.
	DocumentRejected DocumentStatus = "rejected"
)

// DocumentKind names one of the compliance documents tracked per store.
type DocumentKind string

const (
	DocumentIdentityCard         DocumentKind = "identity_card"
	DocumentBusinessRegistration DocumentKind = "business_registration"
	DocumentTaxCertificate       DocumentKind = "tax_certificate"
	DocumentProofOfAddress       DocumentKind = "proof_of_address"
	DocumentBankDetails          DocumentKind = "bank_details"
	DocumentInsurance            DocumentKind = "insurance_certificate"
)

// KnownDocumentKinds is the fixed set of documents every store tracks.
var KnownDocumentKinds = []DocumentKind{
	DocumentIdentityCard,
	DocumentBusinessRegistration,
	DocumentTaxCertificate,
	DocumentProofOfAddress,
	DocumentBankDetails,
	DocumentInsurance,
}

// DocumentChecks maps every known document kind to its verification status.
type DocumentChecks map[DocumentKind]DocumentStatus

// NewDocumentChecks initializes the full document set to pending. No kind is
// ever omitted from a store's check map.
func NewDocumentChecks() DocumentChecks {
	checks := make(DocumentChecks, len(KnownDocumentKinds))
	for _, kind := range KnownDocumentKinds {
		checks[kind] = DocumentPending
	}

	return checks
}

// AllVerified reports whether every tracked document passed review.
func (d DocumentChecks) AllVerified() bool {
	if len(d) == 0 {
		return false
	}
	for _, status := range d {
		if status != DocumentVerified {
			return false
		}
	}

	return true
}
