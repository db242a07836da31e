package entity

import (
	"regexp"
	"slices"

	"github.com/pkg/errors"
)

// Jurisdiction tags the country whose identifier scheme a RegulatoryID follows.
type Jurisdiction string

const (
	// JurisdictionFR uses SIREN/SIRET numbers and a closed set of legal forms.
	JurisdictionFR Jurisdiction = "FR"
	// JurisdictionUS uses the federal EIN in XX-XXXXXXX form.
	JurisdictionUS Jurisdiction = "US"
	// JurisdictionOther accepts a free-form identifier without a format check.
	JurisdictionOther Jurisdiction = "OTHER"
)

var (
	sirenPattern = regexp.MustCompile(`^\d{9}$`)
	siretPattern = regexp.MustCompile(`^\d{14}$`)
	einPattern   = regexp.MustCompile(`^\d{2}-\d{7}$`)
)

// FrenchLegalForms is the closed set of accepted FR business entity subtypes.
var FrenchLegalForms = []string{"SARL", "SAS", "SASU", "EURL", "SA", "SNC", "MICRO", "EI"}

// Validation errors for regulatory identifiers. They are wrapped into the
// field-level validation failure by the orchestrator.
var (
	ErrInvalidSIREN     = errors.New("siren must be exactly 9 digits")
	ErrInvalidSIRET     = errors.New("siret must be exactly 14 digits")
	ErrInvalidLegalForm = errors.New("unknown french legal form")
	ErrInvalidEIN       = errors.New("ein must match XX-XXXXXXX")
	ErrEmptyIdentifier  = errors.New("identifier must not be empty")
)

// RegulatoryID is a closed tagged structure holding country-specific business
// identifiers. It is only built through the constructors below, so an invalid
// jurisdiction/field combination is unrepresentable.
type RegulatoryID struct {
	Jurisdiction Jurisdiction

	// FR fields. Set only when Jurisdiction == JurisdictionFR.
	SIREN     string
	SIRET     string
	LegalForm string

	// US field. Set only when Jurisdiction == JurisdictionUS.
	EIN string

	// Free-form identifier for every other jurisdiction.
	Identifier string
}

// NewFrenchRegulatoryID validates and builds an FR identifier set. SIRET and
// legal form are optional; SIREN is required.
func NewFrenchRegulatoryID(siren, siret, legalForm string) (*RegulatoryID, error) {
	if !sirenPattern.MatchString(siren) {
		return nil, errors.Wrapf(ErrInvalidSIREN, "got %q", siren)
	}
	if siret != "" && !siretPattern.MatchString(siret) {
		return nil, errors.Wrapf(ErrInvalidSIRET, "got %q", siret)
	}
	if legalForm != "" && !slices.Contains(FrenchLegalForms, legalForm) {
		return nil, errors.Wrapf(ErrInvalidLegalForm, "got %q", legalForm)
	}

	return &RegulatoryID{
		Jurisdiction: JurisdictionFR,
		SIREN:        siren,
		SIRET:        siret,
		LegalForm:    legalForm,
	}, nil
}

// NewUSRegulatoryID validates and builds a US identifier set.
func NewUSRegulatoryID(ein string) (*RegulatoryID, error) {
	if !einPattern.MatchString(ein) {
		return nil, errors.Wrapf(ErrInvalidEIN, "got %q", ein)
	}

	return &RegulatoryID{Jurisdiction: JurisdictionUS, EIN: ein}, nil
}

// NewGenericRegulatoryID accepts a free-form identifier for jurisdictions
// without a documented format.
func NewGenericRegulatoryID(identifier string) (*RegulatoryID, error) {
	if identifier == "" {
		return nil, ErrEmptyIdentifier
	}

	return &RegulatoryID{Jurisdiction: JurisdictionOther, Identifier: identifier}, nil
}

// Primary returns the leading identifier for display and token-free views.
func (r *RegulatoryID) Primary() string {
	if r == nil {
		return ""
	}
	switch r.Jurisdiction {
	case JurisdictionFR:
		return r.SIREN
	case JurisdictionUS:
		return r.EIN
	default:
		return r.Identifier
	}
}
