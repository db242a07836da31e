package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- in-memory repository fakes ---

type fakeUserRepo struct {
	byID      map[uuid.UUID]*entity.User
	byEmail   map[string]*entity.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]*entity.User),
	}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	clone := *user

	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	user, ok := f.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	clone := *user

	return &clone, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[entity.NormalizeEmail(user.Email)]; ok {
		// Mirrors the unique-index translation done by the real repository.
		return domainerrors.ErrEmailAlreadyRegistered
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.byID[user.ID] = &clone
	f.byEmail[entity.NormalizeEmail(user.Email)] = &clone

	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	clone := *user
	f.byID[user.ID] = &clone
	f.byEmail[entity.NormalizeEmail(user.Email)] = &clone

	return nil
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	ts := at
	user.LastLoginAt = &ts

	return nil
}

type fakeStoreRepo struct {
	byID      map[uuid.UUID]*entity.Store
	createErr error
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{byID: make(map[uuid.UUID]*entity.Store)}
}

func (f *fakeStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Store, error) {
	store, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}

	clone := *store

	return &clone, nil
}

func (f *fakeStoreRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) (*entity.Store, error) {
	for _, store := range f.byID {
		if store.OwnerID == ownerID {
			clone := *store

			return &clone, nil
		}
	}

	return nil, repository.ErrStoreNotFound
}

func (f *fakeStoreRepo) FindBySlug(_ context.Context, slug string) (*entity.Store, error) {
	for _, store := range f.byID {
		if store.Slug == slug {
			clone := *store

			return &clone, nil
		}
	}

	return nil, repository.ErrStoreNotFound
}

func (f *fakeStoreRepo) FindActiveBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	store, err := f.FindBySlug(ctx, slug)
	if err != nil || !store.IsActive {
		return nil, repository.ErrStoreNotFound
	}

	return store, nil
}

func (f *fakeStoreRepo) Create(ctx context.Context, store *entity.Store) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, err := f.FindByOwnerID(ctx, store.OwnerID); err == nil {
		return domainerrors.ErrStoreAlreadyExists
	}
	if _, err := f.FindBySlug(ctx, store.Slug); err == nil {
		return domainerrors.ErrSlugUnavailable
	}
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	store.CreatedAt = time.Now()
	store.UpdatedAt = store.CreatedAt
	clone := *store
	f.byID[store.ID] = &clone

	return nil
}

func (f *fakeStoreRepo) Update(_ context.Context, store *entity.Store) error {
	if _, ok := f.byID[store.ID]; !ok {
		return repository.ErrStoreNotFound
	}
	store.UpdatedAt = time.Now()
	clone := *store
	f.byID[store.ID] = &clone

	return nil
}

type fakeAuditRepo struct {
	events    []*entity.AuditEvent
	appendErr error
}

func (f *fakeAuditRepo) Append(_ context.Context, event *entity.AuditEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	f.events = append(f.events, event)

	return nil
}

func (f *fakeAuditRepo) kinds() []entity.AuditEventKind {
	out := make([]entity.AuditEventKind, 0, len(f.events))
	for _, event := range f.events {
		out = append(out, event.Kind)
	}

	return out
}

// --- transaction fake ---

type fakeRepoFactory struct {
	users  *fakeUserRepo
	stores *fakeStoreRepo
	audits *fakeAuditRepo
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository   { return f.users }
func (f *fakeRepoFactory) StoreRepo() repository.StoreRepository { return f.stores }
func (f *fakeRepoFactory) AuditRepo() repository.AuditRepository { return f.audits }

type fakeTxManager struct {
	factory *fakeRepoFactory
	execErr error
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if f.execErr != nil {
		return f.execErr
	}

	return fn(f.factory)
}

// --- domain service fakes ---

type fakeHasher struct{ hashErr error }

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}

	return "hashed:" + password, nil
}

func (f *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

type fakeTokenService struct{ issueErr error }

func (f *fakeTokenService) IssueToken(user *entity.User) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}

	return "token-" + user.ID.String(), nil
}

func (f *fakeTokenService) ValidateToken(string) (*service.Claims, error) {
	return nil, nil
}

func (f *fakeTokenService) TokenDuration() time.Duration {
	return 7 * 24 * time.Hour
}

type fakeVerifier struct {
	user   *service.OAuthUser
	err    error
	origin entity.Origin
}

func (f *fakeVerifier) VerifyIDToken(context.Context, string) (*service.OAuthUser, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.user, nil
}

func (f *fakeVerifier) Origin() entity.Origin { return f.origin }

type fakeFlow struct {
	url     string
	idToken string
	err     error
}

func (f *fakeFlow) BuildAuthorizationURL() string { return f.url }

func (f *fakeFlow) ExchangeCode(context.Context, string, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return f.idToken, nil
}

// --- fixture wiring ---

type fixtures struct {
	users  *fakeUserRepo
	stores *fakeStoreRepo
	audits *fakeAuditRepo
	tx     *fakeTxManager
}

func newFixtures() *fixtures {
	users := newFakeUserRepo()
	stores := newFakeStoreRepo()
	audits := &fakeAuditRepo{}

	return &fixtures{
		users:  users,
		stores: stores,
		audits: audits,
		tx:     &fakeTxManager{factory: &fakeRepoFactory{users: users, stores: stores, audits: audits}},
	}
}
