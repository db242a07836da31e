package postgres

import (
	"context"
	"time"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single principal by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single principal by email. The lookup normalizes
// the argument so it always agrees with the stored lowercase form.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("email = ?", entity.NormalizeEmail(email)).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new principal. The unique index on email is the
// authoritative duplicate check: a violation here means another request won
// the race, regardless of any earlier existence lookup.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Propagate generated values back to the entity.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies an existing principal in place.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// TouchLastLogin records a successful login without rewriting the whole row.
func (repo *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("last_login_at", at)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to touch last login")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:                data.ID,
		Email:             data.Email,
		PasswordHash:      data.PasswordHash,
		FirstName:         data.FirstName,
		LastName:          data.LastName,
		Role:              entity.Role(data.Role),
		Origin:            entity.Origin(data.Origin),
		IsActive:          data.IsActive,
		IsFullyRegistered: data.IsFullyRegistered,
		LastLoginAt:       data.LastLoginAt,
		Business:          toBusinessDomain(data.Business),
		Consents: entity.Consents{
			Terms:            data.TermsAccepted,
			TermsAt:          data.TermsAcceptedAt,
			Privacy:          data.PrivacyAccepted,
			PrivacyAt:        data.PrivacyAcceptedAt,
			DataProcessing:   data.DataProcessingAccepted,
			DataProcessingAt: data.DataProcessingAcceptedAt,
			Marketing:        data.MarketingAccepted,
			MarketingAt:      data.MarketingAcceptedAt,
		},
		RegistrationIP:        data.RegistrationIP,
		RegistrationUserAgent: data.RegistrationUserAgent,
		CreatedAt:             data.CreatedAt,
		UpdatedAt:             data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:                       data.ID,
		Email:                    entity.NormalizeEmail(data.Email),
		PasswordHash:             data.PasswordHash,
		FirstName:                data.FirstName,
		LastName:                 data.LastName,
		Role:                     data.Role.String(),
		Origin:                   data.Origin.String(),
		IsActive:                 data.IsActive,
		IsFullyRegistered:        data.IsFullyRegistered,
		LastLoginAt:              data.LastLoginAt,
		Business:                 fromBusinessDomain(data.Business),
		TermsAccepted:            data.Consents.Terms,
		TermsAcceptedAt:          data.Consents.TermsAt,
		PrivacyAccepted:          data.Consents.Privacy,
		PrivacyAcceptedAt:        data.Consents.PrivacyAt,
		DataProcessingAccepted:   data.Consents.DataProcessing,
		DataProcessingAcceptedAt: data.Consents.DataProcessingAt,
		MarketingAccepted:        data.Consents.Marketing,
		MarketingAcceptedAt:      data.Consents.MarketingAt,
		RegistrationIP:           data.RegistrationIP,
		RegistrationUserAgent:    data.RegistrationUserAgent,
		CreatedAt:                data.CreatedAt,
		UpdatedAt:                data.UpdatedAt,
	}
}

func toBusinessDomain(data *model.BusinessJSON) *entity.BusinessProfile {
	if data == nil {
		return nil
	}

	return &entity.BusinessProfile{
		LegalName: data.LegalName,
		LegalType: data.LegalType,
		Address: entity.Address{
			Street:     data.Street,
			City:       data.City,
			PostalCode: data.PostalCode,
			Country:    data.Country,
		},
		Phone:        data.Phone,
		DateOfBirth:  data.DateOfBirth,
		RegulatoryID: toRegulatoryDomain(data.RegulatoryID),
	}
}

func fromBusinessDomain(data *entity.BusinessProfile) *model.BusinessJSON {
	if data == nil {
		return nil
	}

	return &model.BusinessJSON{
		LegalName:    data.LegalName,
		LegalType:    data.LegalType,
		Street:       data.Address.Street,
		City:         data.Address.City,
		PostalCode:   data.Address.PostalCode,
		Country:      data.Address.Country,
		Phone:        data.Phone,
		DateOfBirth:  data.DateOfBirth,
		RegulatoryID: fromRegulatoryDomain(data.RegulatoryID),
	}
}

func toRegulatoryDomain(data *model.RegulatoryJSON) *entity.RegulatoryID {
	if data == nil {
		return nil
	}

	return &entity.RegulatoryID{
		Jurisdiction: entity.Jurisdiction(data.Jurisdiction),
		SIREN:        data.SIREN,
		SIRET:        data.SIRET,
		LegalForm:    data.LegalForm,
		EIN:          data.EIN,
		Identifier:   data.Identifier,
	}
}

func fromRegulatoryDomain(data *entity.RegulatoryID) *model.RegulatoryJSON {
	if data == nil {
		return nil
	}

	return &model.RegulatoryJSON{
		Jurisdiction: string(data.Jurisdiction),
		SIREN:        data.SIREN,
		SIRET:        data.SIRET,
		LegalForm:    data.LegalForm,
		EIN:          data.EIN,
		Identifier:   data.Identifier,
	}
}
