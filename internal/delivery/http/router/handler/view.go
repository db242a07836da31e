package handler

import (
	"time"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// UserView is the public shape of a principal. It never carries the password
// hash or raw consent timestamps.
type UserView struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Role              string    `json:"role"`
	Type              string    `json:"type"`
	IsActive          bool      `json:"isActive"`
	IsFullyRegistered bool      `json:"isFullyRegistered"`
	RegulatoryID      string    `json:"regulatoryId,omitempty"`
}

// StoreView is the public shape of a store.
type StoreView struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	Slug              string            `json:"slug"`
	Address           AddressView       `json:"address"`
	Phone             string            `json:"phone,omitempty"`
	ContactEmail      string            `json:"contactEmail,omitempty"`
	OpeningHours      string            `json:"openingHours,omitempty"`
	Timezone          string            `json:"timezone,omitempty"`
	OnHoliday         bool              `json:"onHoliday"`
	HolidayMessage    string            `json:"holidayMessage,omitempty"`
	IsActive          bool              `json:"isActive"`
	LegalName         string            `json:"legalName,omitempty"`
	LegalType         string            `json:"legalType,omitempty"`
	DocumentChecks    map[string]string `json:"documentVerificationStatus"`
	IsLegallyVerified bool              `json:"isLegallyVerified"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// AddressView mirrors entity.Address on the wire.
type AddressView struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func toUserView(user *entity.User) *UserView {
	if user == nil {
		return nil
	}

	view := &UserView{
		ID:                user.ID,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Role:              user.Role.String(),
		Type:              user.Origin.String(),
		IsActive:          user.IsActive,
		IsFullyRegistered: user.IsFullyRegistered,
	}
	if user.Business != nil {
		view.RegulatoryID = user.Business.RegulatoryID.Primary()
	}

	return view
}

func toStoreView(store *entity.Store) *StoreView {
	if store == nil {
		return nil
	}

	checks := make(map[string]string, len(store.DocumentChecks))
	for kind, status := range store.DocumentChecks {
		checks[string(kind)] = string(status)
	}

	return &StoreView{
		ID:   store.ID,
		Name: store.Name,
		Slug: store.Slug,
		Address: AddressView{
			Street:     store.Address.Street,
			City:       store.Address.City,
			PostalCode: store.Address.PostalCode,
			Country:    store.Address.Country,
		},
		Phone:             store.Phone,
		ContactEmail:      store.ContactEmail,
		OpeningHours:      store.OpeningHours,
		Timezone:          store.Timezone,
		OnHoliday:         store.OnHoliday,
		HolidayMessage:    store.HolidayMessage,
		IsActive:          store.IsActive,
		LegalName:         store.LegalName,
		LegalType:         store.LegalType,
		DocumentChecks:    checks,
		IsLegallyVerified: store.IsLegallyVerified,
		CreatedAt:         store.CreatedAt,
	}
}
