package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. The email column carries a unique
// index and is always written lowercase, so duplicate registrations are
// rejected by the database even when two requests race.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `gorm:"type:varchar(255)"`
	FirstName    string    `gorm:"type:varchar(100)"`
	LastName     string    `gorm:"type:varchar(100)"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Origin       string    `gorm:"type:varchar(20);not null"`

	IsActive          bool `gorm:"not null;default:true"`
	IsFullyRegistered bool `gorm:"not null;default:false"`
	LastLoginAt       *time.Time

	// Business profile, present only for store owners.
	Business *BusinessJSON `gorm:"type:jsonb"`

	// Consent flags with their acceptance timestamps. A timestamp is set iff
	// the matching flag is true.
	TermsAccepted            bool `gorm:"not null;default:false"`
	TermsAcceptedAt          *time.Time
	PrivacyAccepted          bool `gorm:"not null;default:false"`
	PrivacyAcceptedAt        *time.Time
	DataProcessingAccepted   bool `gorm:"not null;default:false"`
	DataProcessingAcceptedAt *time.Time
	MarketingAccepted        bool `gorm:"not null;default:false"`
	MarketingAcceptedAt      *time.Time

	RegistrationIP        string `gorm:"type:varchar(45)"`
	RegistrationUserAgent string `gorm:"type:varchar(512)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BusinessJSON is the jsonb shape of a store owner's business profile.
type BusinessJSON struct {
	LegalName    string          `json:"legalName"`
	LegalType    string          `json:"legalType"`
	Street       string          `json:"street"`
	City         string          `json:"city"`
	PostalCode   string          `json:"postalCode"`
	Country      string          `json:"country"`
	Phone        string          `json:"phone"`
	DateOfBirth  time.Time       `json:"dateOfBirth"`
	RegulatoryID *RegulatoryJSON `json:"regulatoryId,omitempty"`
}

// Scan implements sql.Scanner.
func (b *BusinessJSON) Scan(value any) error {
	return scanJSONB(value, b)
}

// Value implements driver.Valuer.
func (b BusinessJSON) Value() (driver.Value, error) {
	return valueJSONB(b)
}

// RegulatoryJSON is the jsonb shape of a country-specific identifier set.
type RegulatoryJSON struct {
	Jurisdiction string `json:"jurisdiction"`
	SIREN        string `json:"siren,omitempty"`
	SIRET        string `json:"siret,omitempty"`
	LegalForm    string `json:"legalForm,omitempty"`
	EIN          string `json:"ein,omitempty"`
	Identifier   string `json:"identifier,omitempty"`
}

// Scan implements sql.Scanner.
func (r *RegulatoryJSON) Scan(value any) error {
	return scanJSONB(value, r)
}

// Value implements driver.Valuer.
func (r RegulatoryJSON) Value() (driver.Value, error) {
	return valueJSONB(r)
}
