package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditEventKind names the compliance fact an audit event records.
type AuditEventKind string

const (
	// AuditRegistration records the overall creation of a principal.
	AuditRegistration AuditEventKind = "registration"
	// AuditStoreRegistration records the creation of a store.
	AuditStoreRegistration AuditEventKind = "store_registration"
	// AuditConsentAccepted records one accepted consent; ConsentType names which.
	AuditConsentAccepted AuditEventKind = "consent_accepted"
	// AuditLogin records a successful credential login.
	AuditLogin AuditEventKind = "login"
	// AuditOnboardingCompleted records a deferred OAuth onboarding completion.
	AuditOnboardingCompleted AuditEventKind = "onboarding_completed"
)

// Provenance identifies the HTTP request a compliance fact originated from.
type Provenance struct {
	IP        string
	UserAgent string
}

// AuditEvent is an immutable compliance record. Events are write-once: the
// repository exposes no update or delete for them.
type AuditEvent struct {
	ID          uuid.UUID
	Kind        AuditEventKind
	ConsentType ConsentType // Set only when Kind == AuditConsentAccepted.
	SubjectID   uuid.UUID   // The principal the fact is about.
	StoreID     *uuid.UUID  // Set when the fact concerns a tenant.
	Payload     map[string]any
	IP          string
	UserAgent   string
	CreatedAt   time.Time
}
