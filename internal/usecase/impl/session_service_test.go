package impl

import (
	"context"
	"testing"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(fx *fixtures, google, apple service.OAuthVerifier, flow service.OAuthFlow) usecase.SessionUsecase {
	if google == nil {
		google = &fakeVerifier{origin: entity.OriginGoogle}
	}
	if apple == nil {
		apple = &fakeVerifier{origin: entity.OriginApple}
	}
	if flow == nil {
		flow = &fakeFlow{}
	}

	return NewSessionService(SessionServiceParams{
		TxManager:    fx.tx,
		UserRepo:     fx.users,
		AuditRepo:    fx.audits,
		Hasher:       &fakeHasher{},
		TokenService: &fakeTokenService{},
		GoogleAuth:   google,
		AppleAuth:    apple,
		GoogleFlow:   flow,
		Logger:       newDiscardLogger(),
	})
}

func seedLocalUser(t *testing.T, fx *fixtures, email, password string, active bool) *entity.User {
	t.Helper()
	user := &entity.User{
		Email:             entity.NormalizeEmail(email),
		PasswordHash:      "hashed:" + password,
		Role:              entity.RoleCustomer,
		Origin:            entity.OriginLocal,
		IsActive:          active,
		IsFullyRegistered: true,
	}
	require.NoError(t, fx.users.Create(context.Background(), user))

	return user
}

func TestSessionService_Login_Success(t *testing.T) {
	fx := newFixtures()
	user := seedLocalUser(t, fx, "login@example.com", "password1", true)
	service := newSessionService(fx, nil, nil, nil)

	out, err := service.Login(context.Background(), &usecase.LoginInput{
		Email:    "LOGIN@example.com",
		Password: "password1",
	})

	require.NoError(t, err)
	assert.Equal(t, "token-"+user.ID.String(), out.Token)
	assert.Equal(t, user.ID, out.User.ID)
	require.NotNil(t, out.User.LastLoginAt)
	assert.Equal(t, []entity.AuditEventKind{entity.AuditLogin}, fx.audits.kinds())
}

func TestSessionService_Login_WrongPassword(t *testing.T) {
	fx := newFixtures()
	seedLocalUser(t, fx, "login@example.com", "password1", true)
	service := newSessionService(fx, nil, nil, nil)

	_, err := service.Login(context.Background(), &usecase.LoginInput{
		Email:    "login@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.Empty(t, fx.audits.events)
}

func TestSessionService_Login_UnknownEmail(t *testing.T) {
	service := newSessionService(newFixtures(), nil, nil, nil)

	_, err := service.Login(context.Background(), &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "password1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestSessionService_Login_DeactivatedAccountSameBody(t *testing.T) {
	fx := newFixtures()
	seedLocalUser(t, fx, "gone@example.com", "password1", false)
	service := newSessionService(fx, nil, nil, nil)

	_, err := service.Login(context.Background(), &usecase.LoginInput{
		Email:    "gone@example.com",
		Password: "password1",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	// Deliberately indistinguishable from bad credentials on the wire.
	assert.Equal(t, "INVALID_CREDENTIALS", appErr.ErrorCode())
	assert.Equal(t, domainerrors.ErrInvalidCredentials.Message(), appErr.Message())
}

func TestSessionService_Login_OAuthAccountHasNoPassword(t *testing.T) {
	fx := newFixtures()
	user := seedLocalUser(t, fx, "oauth@example.com", "irrelevant", true)
	user.PasswordHash = ""
	require.NoError(t, fx.users.Update(context.Background(), user))
	service := newSessionService(fx, nil, nil, nil)

	_, err := service.Login(context.Background(), &usecase.LoginInput{
		Email:    "oauth@example.com",
		Password: "",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestSessionService_GoogleCallback_ProvisionsPendingPrincipal(t *testing.T) {
	fx := newFixtures()
	verifier := &fakeVerifier{
		origin: entity.OriginGoogle,
		user: &service.OAuthUser{
			ID:        "google-sub-1",
			Email:     "New.Person@example.com",
			FirstName: "New",
			LastName:  "Person",
			Origin:    entity.OriginGoogle,
		},
	}
	svc := newSessionService(fx, verifier, nil, nil)

	out, err := svc.GoogleCallback(context.Background(), &usecase.OAuthCallbackInput{IDToken: "idtoken"})

	require.NoError(t, err)
	assert.True(t, out.NeedsOnboarding)
	assert.Equal(t, "new.person@example.com", out.User.Email)
	assert.Equal(t, entity.OriginGoogle, out.User.Origin)
	assert.Equal(t, entity.RoleCustomer, out.User.Role)
	assert.False(t, out.User.IsFullyRegistered)
	assert.Empty(t, out.User.PasswordHash)
	assert.Equal(t, []entity.AuditEventKind{entity.AuditRegistration, entity.AuditLogin}, fx.audits.kinds())
}

func TestSessionService_GoogleCallback_ExistingPrincipalSignsIn(t *testing.T) {
	fx := newFixtures()
	existing := seedLocalUser(t, fx, "known@example.com", "password1", true)
	verifier := &fakeVerifier{
		origin: entity.OriginGoogle,
		user:   &service.OAuthUser{ID: "sub", Email: "known@example.com", Origin: entity.OriginGoogle},
	}
	svc := newSessionService(fx, verifier, nil, nil)

	out, err := svc.GoogleCallback(context.Background(), &usecase.OAuthCallbackInput{IDToken: "idtoken"})

	require.NoError(t, err)
	assert.False(t, out.NeedsOnboarding)
	assert.Equal(t, existing.ID, out.User.ID)
	assert.Len(t, fx.users.byID, 1)
	assert.Equal(t, []entity.AuditEventKind{entity.AuditLogin}, fx.audits.kinds())
}

func TestSessionService_GoogleCallback_BadToken(t *testing.T) {
	verifier := &fakeVerifier{origin: entity.OriginGoogle, err: errors.New("issuer mismatch")}
	svc := newSessionService(newFixtures(), verifier, nil, nil)

	_, err := svc.GoogleCallback(context.Background(), &usecase.OAuthCallbackInput{IDToken: "bogus"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOAuthFailed))
}

func TestSessionService_AppleCallback_UsesAppleOrigin(t *testing.T) {
	fx := newFixtures()
	verifier := &fakeVerifier{
		origin: entity.OriginApple,
		user:   &service.OAuthUser{ID: "apple-sub", Email: "apple@example.com", Origin: entity.OriginApple},
	}
	svc := newSessionService(fx, nil, verifier, nil)

	out, err := svc.AppleCallback(context.Background(), &usecase.OAuthCallbackInput{IDToken: "idtoken"})

	require.NoError(t, err)
	assert.Equal(t, entity.OriginApple, out.User.Origin)
	assert.True(t, out.NeedsOnboarding)
}

func TestSessionService_GoogleExchange(t *testing.T) {
	fx := newFixtures()
	verifier := &fakeVerifier{
		origin: entity.OriginGoogle,
		user:   &service.OAuthUser{ID: "sub", Email: "code@example.com", Origin: entity.OriginGoogle},
	}
	flow := &fakeFlow{idToken: "exchanged-id-token"}
	svc := newSessionService(fx, verifier, nil, flow)

	out, err := svc.GoogleExchange(context.Background(), &usecase.OAuthExchangeInput{Code: "code", State: "state"})

	require.NoError(t, err)
	assert.Equal(t, "code@example.com", out.User.Email)
}

func TestSessionService_GoogleExchange_BadState(t *testing.T) {
	flow := &fakeFlow{err: errors.New("unknown state")}
	svc := newSessionService(newFixtures(), nil, nil, flow)

	_, err := svc.GoogleExchange(context.Background(), &usecase.OAuthExchangeInput{Code: "code", State: "forged"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOAuthFailed))
}

func TestSessionService_GoogleAuthorizationURL(t *testing.T) {
	flow := &fakeFlow{url: "https://accounts.google.com/o/oauth2/v2/auth?state=abc"}
	svc := newSessionService(newFixtures(), nil, nil, flow)

	assert.Equal(t, flow.url, svc.GoogleAuthorizationURL())
}
