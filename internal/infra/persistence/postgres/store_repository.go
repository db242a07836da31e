package postgres

import (
	"context"
	"strings"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// storeRepository implements the domain.StoreRepository interface using GORM.
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository is the constructor for storeRepository.
func NewStoreRepository(db *gorm.DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

// FindByID retrieves a single tenant by its unique ID.
func (repo *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	var storeM model.StoreModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&storeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, "failed to find store by id")
	}

	return toStoreDomain(&storeM), nil
}

// FindByOwnerID retrieves the tenant owned by the given principal.
func (repo *storeRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error) {
	var storeM model.StoreModel
	err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&storeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, "failed to find store by owner")
	}

	return toStoreDomain(&storeM), nil
}

// FindBySlug retrieves a tenant by its slug regardless of active state.
func (repo *storeRepository) FindBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	var storeM model.StoreModel
	err := repo.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(slug)).
		First(&storeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, "failed to find store by slug")
	}

	return toStoreDomain(&storeM), nil
}

// FindActiveBySlug retrieves a tenant by slug, restricted to active tenants.
// Deactivated stores keep their slug reserved but are invisible to lookups.
func (repo *storeRepository) FindActiveBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	var storeM model.StoreModel
	err := repo.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", strings.ToLower(slug), true).
		First(&storeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, "failed to find active store by slug")
	}

	return toStoreDomain(&storeM), nil
}

// Create persists a new tenant. The unique indexes arbitrate both kinds of
// race: two owners deriving the same slug, and one owner submitting twice.
func (repo *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	storeM := fromStoreDomain(store)

	if err := repo.db.WithContext(ctx).Create(storeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// A duplicate owner_id means this principal already has a store;
			// any other unique collision on this table is the slug.
			var existing int64
			countErr := repo.db.WithContext(ctx).
				Model(&model.StoreModel{}).
				Where("owner_id = ?", store.OwnerID).
				Count(&existing).Error
			if countErr == nil && existing > 0 {
				return domainerrors.ErrStoreAlreadyExists
			}

			return domainerrors.ErrSlugUnavailable
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("store owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create store")
	}

	store.ID = storeM.ID
	store.CreatedAt = storeM.CreatedAt
	store.UpdatedAt = storeM.UpdatedAt

	return nil
}

// Update modifies an existing tenant in place. The slug never changes after
// creation, so unique violations here are unexpected and surfaced as such.
func (repo *storeRepository) Update(ctx context.Context, store *entity.Store) error {
	storeM := fromStoreDomain(store)

	if err := repo.db.WithContext(ctx).Save(storeM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update store")
	}

	store.UpdatedAt = storeM.UpdatedAt

	return nil
}

// --- Mapper Functions ---

func toStoreDomain(data *model.StoreModel) *entity.Store {
	if data == nil {
		return nil
	}

	checks := make(entity.DocumentChecks, len(data.DocumentChecks))
	for kind, status := range data.DocumentChecks {
		checks[entity.DocumentKind(kind)] = entity.DocumentStatus(status)
	}

	return &entity.Store{
		ID:                data.ID,
		OwnerID:           data.OwnerID,
		Name:              data.Name,
		Slug:              data.Slug,
		Address:           toAddressDomain(data.Address),
		Phone:             data.Phone,
		ContactEmail:      data.ContactEmail,
		OpeningHours:      data.OpeningHours,
		Timezone:          data.Timezone,
		OnHoliday:         data.OnHoliday,
		HolidayMessage:    data.HolidayMessage,
		IsActive:          data.IsActive,
		LegalName:         data.LegalName,
		LegalType:         data.LegalType,
		LegalAddress:      toAddressDomain(data.LegalAddress),
		BillingAddress:    toAddressDomain(data.BillingAddress),
		RegulatoryID:      toRegulatoryDomain(data.RegulatoryID),
		DocumentChecks:    checks,
		IsLegallyVerified: data.IsLegallyVerified,
		VerificationNotes: data.VerificationNotes,
		VerifiedAt:        data.VerifiedAt,
		VerifiedBy:        data.VerifiedBy,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromStoreDomain(data *entity.Store) *model.StoreModel {
	if data == nil {
		return nil
	}

	checks := make(model.DocumentChecksJSON, len(data.DocumentChecks))
	for kind, status := range data.DocumentChecks {
		checks[string(kind)] = string(status)
	}

	return &model.StoreModel{
		ID:                data.ID,
		OwnerID:           data.OwnerID,
		Name:              data.Name,
		Slug:              data.Slug,
		Address:           fromAddressDomain(data.Address),
		Phone:             data.Phone,
		ContactEmail:      data.ContactEmail,
		OpeningHours:      data.OpeningHours,
		Timezone:          data.Timezone,
		OnHoliday:         data.OnHoliday,
		HolidayMessage:    data.HolidayMessage,
		IsActive:          data.IsActive,
		LegalName:         data.LegalName,
		LegalType:         data.LegalType,
		LegalAddress:      fromAddressDomain(data.LegalAddress),
		BillingAddress:    fromAddressDomain(data.BillingAddress),
		RegulatoryID:      fromRegulatoryDomain(data.RegulatoryID),
		DocumentChecks:    checks,
		IsLegallyVerified: data.IsLegallyVerified,
		VerificationNotes: data.VerificationNotes,
		VerifiedAt:        data.VerifiedAt,
		VerifiedBy:        data.VerifiedBy,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

func toAddressDomain(data model.AddressColumns) entity.Address {
	return entity.Address{
		Street:     data.Street,
		City:       data.City,
		PostalCode: data.PostalCode,
		Country:    data.Country,
	}
}

func fromAddressDomain(data entity.Address) model.AddressColumns {
	return model.AddressColumns{
		Street:     data.Street,
		City:       data.City,
		PostalCode: data.PostalCode,
		Country:    data.Country,
	}
}
