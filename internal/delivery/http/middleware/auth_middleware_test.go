package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenService struct {
	claims map[string]*service.Claims
	err    error
}

func (f *fakeTokenService) IssueToken(user *entity.User) (string, error) {
	return "token-" + user.ID.String(), nil
}

func (f *fakeTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	claims, ok := f.claims[tokenString]
	if !ok {
		return nil, domainerrors.ErrTokenMalformed
	}

	return claims, nil
}

func (f *fakeTokenService) TokenDuration() time.Duration {
	return time.Hour
}

type fakeUserRepo struct {
	byID map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, _ *entity.User) error { return nil }

func (f *fakeUserRepo) Update(_ context.Context, _ *entity.User) error { return nil }

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

func newTestContext(authHeader string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}

	return e.NewContext(req, httptest.NewRecorder())
}

func activeUser(role entity.Role) *entity.User {
	return &entity.User{
		ID:       uuid.New(),
		Email:    "user@example.com",
		Role:     role,
		IsActive: true,
	}
}

func newAuthFixture(user *entity.User) (*AuthMiddleware, string) {
	token := "token-" + user.ID.String()
	tokenSvc := &fakeTokenService{
		claims: map[string]*service.Claims{
			token: {UserID: user.ID, Email: user.Email, Role: user.Role},
		},
	}
	repo := &fakeUserRepo{byID: map[uuid.UUID]*entity.User{user.ID: user}}

	return NewAuthMiddleware(tokenSvc, repo), "Bearer " + token
}

func TestAuthenticate_ValidToken(t *testing.T) {
	user := activeUser(entity.RoleCustomer)
	mw, header := newAuthFixture(user)

	c := newTestContext(header)
	var captured *entity.User
	err := mw.Authenticate(func(c echo.Context) error {
		captured = PrincipalFromContext(c)

		return nil
	})(c)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, user.ID, captured.ID)

	id, err := PrincipalIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	user := activeUser(entity.RoleCustomer)
	mw, _ := newAuthFixture(user)

	err := mw.Authenticate(failIfCalled(t))(newTestContext(""))

	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthenticate_NotBearer(t *testing.T) {
	user := activeUser(entity.RoleCustomer)
	mw, _ := newAuthFixture(user)

	err := mw.Authenticate(failIfCalled(t))(newTestContext("Basic dXNlcjpwdw=="))

	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	user := activeUser(entity.RoleCustomer)
	mw, header := newAuthFixture(user)
	mw.tokenSvc.(*fakeTokenService).err = domainerrors.ErrTokenExpired

	err := mw.Authenticate(failIfCalled(t))(newTestContext(header))

	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestAuthenticate_MalformedToken(t *testing.T) {
	user := activeUser(entity.RoleCustomer)
	mw, _ := newAuthFixture(user)

	err := mw.Authenticate(failIfCalled(t))(newTestContext("Bearer not-a-real-token"))

	assert.ErrorIs(t, err, domainerrors.ErrTokenMalformed)
}

func TestAuthenticate_PrincipalGone(t *testing.T) {
	user := activeUser(entity.RoleCustomer)
	mw, header := newAuthFixture(user)
	delete(mw.userRepo.(*fakeUserRepo).byID, user.ID)

	err := mw.Authenticate(failIfCalled(t))(newTestContext(header))

	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthenticate_DeactivatedPrincipal(t *testing.T) {
	user := activeUser(entity.RoleCustomer)
	user.IsActive = false
	mw, header := newAuthFixture(user)

	err := mw.Authenticate(failIfCalled(t))(newTestContext(header))

	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	user := activeUser(entity.RoleStoreOwner)
	mw, _ := newAuthFixture(user)

	c := newTestContext("")
	c.Set(KeyPrincipal, user)

	called := false
	err := mw.RequireRole(entity.RoleStoreOwner)(func(c echo.Context) error {
		called = true

		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
}

func TestRequireRole_RejectsOtherRole(t *testing.T) {
	user := activeUser(entity.RoleCustomer)
	mw, _ := newAuthFixture(user)

	c := newTestContext("")
	c.Set(KeyPrincipal, user)

	err := mw.RequireRole(entity.RoleStoreOwner)(failIfCalled(t))(c)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestRequireRole_RequiresAuthenticateFirst(t *testing.T) {
	user := activeUser(entity.RoleStoreOwner)
	mw, _ := newAuthFixture(user)

	err := mw.RequireRole(entity.RoleStoreOwner)(failIfCalled(t))(newTestContext(""))

	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func failIfCalled(t *testing.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		t.Fatal("handler should not have been reached")

		return errors.New("unreachable")
	}
}
