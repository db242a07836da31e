package impl

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"
	"bazaar/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// minOwnerAge is the minimum age, in calendar years, for store-owner-capable
// principals. Exactly this age is accepted.
const minOwnerAge = 18

var countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// registrationService implements the RegistrationUsecase interface.
type registrationService struct {
	txManager    repository.TransactionManager
	storeRepo    repository.StoreRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	audit        *auditRecorder
	logger       *slog.Logger
}

// RegistrationServiceParams holds dependencies for registrationService, injected by Fx.
type RegistrationServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	StoreRepo    repository.StoreRepository
	AuditRepo    repository.AuditRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewRegistrationService is the constructor for registrationService.
func NewRegistrationService(params RegistrationServiceParams) usecase.RegistrationUsecase {
	return &registrationService{
		txManager:    params.TxManager,
		storeRepo:    params.StoreRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		audit:        newAuditRecorder(params.AuditRepo, params.Logger),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *registrationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterCustomer creates a customer principal and signs it in.
func (srv *registrationService) RegisterCustomer(ctx context.Context, input *usecase.RegisterCustomerInput) (*usecase.RegisterCustomerOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting customer registration", slog.String("email", email))

	// bcrypt is CPU-bound, hash before entering the transaction.
	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Email:                 email,
		PasswordHash:          passwordHash,
		FirstName:             input.FirstName,
		LastName:              input.LastName,
		Role:                  entity.RoleCustomer,
		Origin:                entity.OriginLocal,
		IsActive:              true,
		IsFullyRegistered:     true,
		RegistrationIP:        input.Provenance.IP,
		RegistrationUserAgent: input.Provenance.UserAgent,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return srv.createPrincipal(ctx, repoFactory.UserRepo(), newUser)
	})
	if err != nil {
		srv.log(ctx).Warn("Customer registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute customer registration transaction")
	}

	token, err := srv.tokenService.IssueToken(newUser)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token after registration")
	}

	srv.audit.RecordRegistration(ctx, newUser, input.Provenance)

	srv.log(ctx).Debug("Customer registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterCustomerOutput{Token: token, User: newUser}, nil
}

// RegisterStoreOwner creates a store-owner principal and its store inside a
// single transaction, so a failed store insert unwinds the principal too.
func (srv *registrationService) RegisterStoreOwner(ctx context.Context, input *usecase.RegisterStoreOwnerInput) (*usecase.RegisterStoreOwnerOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting store owner registration", slog.String("email", email), slog.String("storeName", input.StoreName))

	if err := validateStoreOwnerInput(input); err != nil {
		srv.log(ctx).Warn("Store owner registration rejected", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	regulatoryID, err := buildRegulatoryID(input.BusinessAddress.Country, input.CountrySpecific)
	if err != nil {
		srv.log(ctx).Warn("Regulatory identifier rejected", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	now := time.Now()
	newUser := &entity.User{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    input.OwnerFirstName,
		LastName:     input.OwnerLastName,
		Role:         entity.RoleStoreOwner,
		Origin:       entity.OriginLocal,
		IsActive:     true,
		// The direct path carries the complete profile, so the principal is
		// fully registered at creation. Only deferred OAuth principals start
		// with this flag cleared.
		IsFullyRegistered: true,
		Business: &entity.BusinessProfile{
			LegalName:    input.BusinessName,
			LegalType:    input.BusinessType,
			Address:      input.BusinessAddress.ToEntity(),
			Phone:        input.OwnerPhone,
			DateOfBirth:  input.OwnerDateOfBirth,
			RegulatoryID: regulatoryID,
		},
		RegistrationIP:        input.Provenance.IP,
		RegistrationUserAgent: input.Provenance.UserAgent,
	}
	newUser.Consents.Accept(entity.ConsentTerms, now)
	newUser.Consents.Accept(entity.ConsentPrivacy, now)
	newUser.Consents.Accept(entity.ConsentDataProcessing, now)
	if input.MarketingConsent {
		newUser.Consents.Accept(entity.ConsentMarketing, now)
	}

	var newStore *entity.Store
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := srv.createPrincipal(ctx, repoFactory.UserRepo(), newUser); err != nil {
			return err
		}

		newStore = buildStoreForOwner(newUser, input.StoreName, input.BusinessAddress.ToEntity(), nil)

		return repoFactory.StoreRepo().Create(ctx, newStore)
	})
	if err != nil {
		srv.log(ctx).Warn("Store owner registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute store owner registration transaction")
	}

	token, err := srv.tokenService.IssueToken(newUser)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token after registration")
	}

	srv.audit.RecordRegistration(ctx, newUser, input.Provenance)
	srv.audit.RecordStoreRegistration(ctx, newUser.ID, newStore, input.Provenance)
	srv.audit.RecordConsents(ctx, newUser, input.Provenance)

	srv.log(ctx).Debug("Store owner registration completed", slog.Any("userID", newUser.ID), slog.String("slug", newStore.Slug))

	return &usecase.RegisterStoreOwnerOutput{Token: token, User: newUser, Store: newStore}, nil
}

// CompleteOnboarding upgrades an OAuth-created principal into a store owner
// and creates their store, both inside one transaction.
func (srv *registrationService) CompleteOnboarding(ctx context.Context, input *usecase.CompleteOnboardingInput) (*usecase.CompleteOnboardingOutput, error) {
	srv.log(ctx).Info("Starting onboarding completion", slog.Any("userID", input.UserID))

	if missing := missingOnboardingField(input); missing != "" {
		return nil, domainerrors.ErrMissingRequiredFields.WithDetails(missing)
	}
	if !input.AcceptedTerms {
		return nil, domainerrors.ErrConsentRequired.WithDetails(entity.ConsentTerms.String())
	}

	acceptedAt := time.Now()
	if input.AcceptedTermsAt != nil {
		acceptedAt = *input.AcceptedTermsAt
	}

	var (
		upgradedUser *entity.User
		newStore     *entity.Store
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		storeRepo := repoFactory.StoreRepo()

		user, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("principal to onboard does not exist")
			}

			return errors.Wrap(err, "failed to find principal for onboarding")
		}

		// One principal owns at most one store: a second completion attempt
		// is rejected instead of minting another store.
		if _, err := storeRepo.FindByOwnerID(ctx, user.ID); err == nil {
			return domainerrors.ErrStoreAlreadyExists.WrapMessage("principal already completed onboarding")
		} else if !errors.Is(err, repository.ErrStoreNotFound) {
			return errors.Wrap(err, "failed to check existing store for onboarding")
		}

		applyOnboarding(user, input, acceptedAt)
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to upgrade principal during onboarding")
		}

		billing := input.BillingAddress
		var billingAddr *entity.Address
		if billing != nil {
			addr := billing.ToEntity()
			billingAddr = &addr
		}
		store := buildStoreForOwner(user, input.StoreName, input.StoreAddress.ToEntity(), billingAddr)
		if err := storeRepo.Create(ctx, store); err != nil {
			return err
		}

		upgradedUser = user
		newStore = store

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Onboarding completion failed", slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute onboarding transaction")
	}

	srv.audit.RecordOnboardingCompleted(ctx, upgradedUser, newStore, input.Provenance)
	srv.audit.RecordStoreRegistration(ctx, upgradedUser.ID, newStore, input.Provenance)
	srv.audit.RecordConsents(ctx, upgradedUser, input.Provenance)

	srv.log(ctx).Debug("Onboarding completed", slog.Any("userID", upgradedUser.ID), slog.String("slug", newStore.Slug))

	return &usecase.CompleteOnboardingOutput{User: upgradedUser, Store: newStore}, nil
}

// CheckStoreNameAvailability computes the candidate slug and reports whether
// it is currently free. The answer is advisory; the unique constraint at
// creation time still arbitrates races.
func (srv *registrationService) CheckStoreNameAvailability(ctx context.Context, storeName string) (*usecase.StoreNameAvailability, error) {
	slug := util.Slugify(storeName)
	if slug == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("storeName")
	}

	_, err := srv.storeRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return &usecase.StoreNameAvailability{Available: true, Slug: slug}, nil
		}

		return nil, errors.Wrap(err, "failed to check slug availability")
	}

	return &usecase.StoreNameAvailability{Available: false, Slug: slug}, nil
}

// createPrincipal inserts a new principal, double-checking the email inside
// the transaction. The unique index remains the authority when two requests
// race past the lookup.
func (srv *registrationService) createPrincipal(ctx context.Context, userRepo repository.UserRepository, newUser *entity.User) error {
	_, err := userRepo.FindByEmail(ctx, newUser.Email)
	if err == nil {
		return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already registered")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check existing email")
	}

	if err := userRepo.Create(ctx, newUser); err != nil {
		return errors.Wrap(err, "failed to create principal")
	}

	return nil
}

// buildStoreForOwner assembles a store for a principal, copying the legal
// facts from the business profile so later profile edits do not rewrite the
// store's history. Every known document check starts out pending.
func buildStoreForOwner(owner *entity.User, storeName string, legalAddress entity.Address, billingAddress *entity.Address) *entity.Store {
	store := &entity.Store{
		OwnerID:        owner.ID,
		Name:           storeName,
		Slug:           util.Slugify(storeName),
		Address:        legalAddress,
		IsActive:       true,
		LegalAddress:   legalAddress,
		BillingAddress: legalAddress,
		DocumentChecks: entity.NewDocumentChecks(),
	}
	if billingAddress != nil {
		store.BillingAddress = *billingAddress
	}
	if owner.Business != nil {
		store.LegalName = owner.Business.LegalName
		store.LegalType = owner.Business.LegalType
		store.Phone = owner.Business.Phone
		store.RegulatoryID = owner.Business.RegulatoryID
	}
	store.ContactEmail = owner.Email

	return store
}

// applyOnboarding backfills the onboarding facts onto the principal.
func applyOnboarding(user *entity.User, input *usecase.CompleteOnboardingInput, acceptedAt time.Time) {
	if user.Business == nil {
		user.Business = &entity.BusinessProfile{}
	}
	user.Business.Phone = input.PhoneNumber
	user.Business.Address = input.StoreAddress.ToEntity()
	if user.Business.LegalName == "" {
		user.Business.LegalName = input.StoreName
	}
	if regulatoryID, err := entity.NewGenericRegulatoryID(input.RegistrationID); err == nil {
		user.Business.RegulatoryID = regulatoryID
	}

	user.Role = entity.RoleStoreOwner
	user.IsFullyRegistered = true
	user.Consents.Accept(entity.ConsentTerms, acceptedAt)
}

// missingOnboardingField names the first required onboarding field that was
// not supplied, or "" when all are present.
func missingOnboardingField(input *usecase.CompleteOnboardingInput) string {
	switch {
	case input.PhoneNumber == "":
		return "phoneNumber"
	case input.StoreName == "":
		return "storeName"
	case input.RegistrationID == "":
		return "registrationId"
	case input.StoreAddress.ToEntity().IsZero():
		return "storeAddress"
	default:
		return ""
	}
}

// validateStoreOwnerInput enforces the preconditions of the direct
// store-owner path: adult owner, explicit required consents, complete
// business address.
func validateStoreOwnerInput(input *usecase.RegisterStoreOwnerInput) error {
	if ageInCalendarYears(input.OwnerDateOfBirth, time.Now()) < minOwnerAge {
		return domainerrors.ErrUnderage.WithDetails("ownerDateOfBirth")
	}

	consents := map[entity.ConsentType]bool{
		entity.ConsentTerms:          input.AcceptedTerms,
		entity.ConsentPrivacy:        input.AcceptedPrivacyPolicy,
		entity.ConsentDataProcessing: input.AcceptedDataProcessing,
	}
	for _, required := range entity.RequiredConsents {
		if !consents[required] {
			return domainerrors.ErrConsentRequired.WithDetails(required.String())
		}
	}

	addr := input.BusinessAddress
	switch {
	case addr.Street == "":
		return domainerrors.ErrValidationFailed.WithDetails("businessAddress.street")
	case addr.City == "":
		return domainerrors.ErrValidationFailed.WithDetails("businessAddress.city")
	case addr.PostalCode == "":
		return domainerrors.ErrValidationFailed.WithDetails("businessAddress.postalCode")
	case !countryCodePattern.MatchString(addr.Country):
		return domainerrors.ErrValidationFailed.WithDetails("businessAddress.country")
	}

	return nil
}

// ageInCalendarYears computes age as a plain calendar-year difference, so a
// birthday of 2008-12-31 counts as 18 for the whole of 2026.
func ageInCalendarYears(dateOfBirth, now time.Time) int {
	return now.Year() - dateOfBirth.Year()
}

// buildRegulatoryID constructs the country-specific identifier set for the
// business address country. Absent input yields nil; a malformed identifier
// is a field-level validation failure.
func buildRegulatoryID(country string, input *usecase.RegulatoryInput) (*entity.RegulatoryID, error) {
	if input == nil || input.IsZero() {
		return nil, nil
	}

	var (
		regulatoryID *entity.RegulatoryID
		err          error
	)
	switch entity.Jurisdiction(country) {
	case entity.JurisdictionFR:
		regulatoryID, err = entity.NewFrenchRegulatoryID(input.SIREN, input.SIRET, input.LegalForm)
	case entity.JurisdictionUS:
		regulatoryID, err = entity.NewUSRegulatoryID(input.EIN)
	default:
		regulatoryID, err = entity.NewGenericRegulatoryID(input.Identifier)
	}
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return regulatoryID, nil
}
