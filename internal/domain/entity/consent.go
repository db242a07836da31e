package entity

import "time"

// ConsentType names a single legal consent a principal can accept.
type ConsentType string

const (
	// ConsentTerms is acceptance of the terms of service.
	ConsentTerms ConsentType = "terms"
	// ConsentPrivacy is acceptance of the privacy policy.
	ConsentPrivacy ConsentType = "privacy_policy"
	// ConsentDataProcessing is acceptance of personal data processing.
	ConsentDataProcessing ConsentType = "data_processing"
	// ConsentMarketing is the optional marketing opt-in.
	ConsentMarketing ConsentType = "marketing"
)

// String returns the string representation of the ConsentType.
func (c ConsentType) String() string {
	return string(c)
}

// RequiredConsents are the consents a store owner must accept explicitly.
var RequiredConsents = []ConsentType{ConsentTerms, ConsentPrivacy, ConsentDataProcessing}

// Consents records the legal consents attached to a principal. Each timestamp
// is set if and only if the corresponding flag is true.
type Consents struct {
	Terms            bool
	TermsAt          *time.Time
	Privacy          bool
	PrivacyAt        *time.Time
	DataProcessing   bool
	DataProcessingAt *time.Time
	Marketing        bool
	MarketingAt      *time.Time
}

// Accept sets a consent flag and stamps it with the given time.
func (c *Consents) Accept(kind ConsentType, at time.Time) {
	ts := at
	switch kind {
	case ConsentTerms:
		c.Terms = true
		c.TermsAt = &ts
	case ConsentPrivacy:
		c.Privacy = true
		c.PrivacyAt = &ts
	case ConsentDataProcessing:
		c.DataProcessing = true
		c.DataProcessingAt = &ts
	case ConsentMarketing:
		c.Marketing = true
		c.MarketingAt = &ts
	}
}

// Accepted reports whether the given consent flag is set.
func (c Consents) Accepted(kind ConsentType) bool {
	switch kind {
	case ConsentTerms:
		return c.Terms
	case ConsentPrivacy:
		return c.Privacy
	case ConsentDataProcessing:
		return c.DataProcessing
	case ConsentMarketing:
		return c.Marketing
	default:
		return false
	}
}

// AcceptedTypes lists every consent flag that is currently set, in a stable order.
func (c Consents) AcceptedTypes() []ConsentType {
	var out []ConsentType
	for _, kind := range []ConsentType{ConsentTerms, ConsentPrivacy, ConsentDataProcessing, ConsentMarketing} {
		if c.Accepted(kind) {
			out = append(out, kind)
		}
	}

	return out
}
