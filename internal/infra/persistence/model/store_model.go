package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// AddressColumns is an embeddable set of address columns.
type AddressColumns struct {
	Street     string `gorm:"type:varchar(255)"`
	City       string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20)"`
	Country    string `gorm:"type:varchar(2)"`
}

// StoreModel mirrors the 'stores' table. The slug column carries the unique
// index that arbitrates concurrent registrations colliding on a derived slug.
type StoreModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stores_owner"`
	Name    string    `gorm:"type:varchar(100);not null"`
	Slug    string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_stores_slug"`

	Address        AddressColumns `gorm:"embedded;embeddedPrefix:address_"`
	Phone          string         `gorm:"type:varchar(30)"`
	ContactEmail   string         `gorm:"type:varchar(255)"`
	OpeningHours   string         `gorm:"type:varchar(255)"`
	Timezone       string         `gorm:"type:varchar(64)"`
	OnHoliday      bool           `gorm:"not null;default:false"`
	HolidayMessage string         `gorm:"type:varchar(255)"`
	IsActive       bool           `gorm:"not null;default:true"`

	LegalName      string          `gorm:"type:varchar(255)"`
	LegalType      string          `gorm:"type:varchar(50)"`
	LegalAddress   AddressColumns  `gorm:"embedded;embeddedPrefix:legal_address_"`
	BillingAddress AddressColumns  `gorm:"embedded;embeddedPrefix:billing_address_"`
	RegulatoryID   *RegulatoryJSON `gorm:"type:jsonb"`

	DocumentChecks    DocumentChecksJSON `gorm:"type:jsonb;not null"`
	IsLegallyVerified bool               `gorm:"not null;default:false"`
	VerificationNotes string             `gorm:"type:text"`
	VerifiedAt        *time.Time
	VerifiedBy        *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (StoreModel) TableName() string {
	return "stores"
}

// DocumentChecksJSON is the jsonb shape of the per-document verification map.
type DocumentChecksJSON map[string]string

// Scan implements sql.Scanner.
func (d *DocumentChecksJSON) Scan(value any) error {
	return scanJSONB(value, d)
}

// Value implements driver.Valuer.
func (d DocumentChecksJSON) Value() (driver.Value, error) {
	return valueJSONB(d)
}
