package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	googleAuth   service.OAuthVerifier
	appleAuth    service.OAuthVerifier
	googleFlow   service.OAuthFlow
	audit        *auditRecorder
	logger       *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	AuditRepo    repository.AuditRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	GoogleAuth   service.OAuthVerifier `name:"google"`
	AppleAuth    service.OAuthVerifier `name:"apple"`
	GoogleFlow   service.OAuthFlow
	Logger       *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		googleAuth:   params.GoogleAuth,
		appleAuth:    params.AppleAuth,
		googleFlow:   params.GoogleFlow,
		audit:        newAuditRecorder(params.AuditRepo, params.Logger),
		logger:       params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login verifies credentials and issues an access token. A missing account,
// a wrong password and a deactivated account all surface the same response
// body; only the log distinguishes them.
func (srv *sessionService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting login", slog.String("email", email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn roughly one bcrypt verification so a missing account does
			// not answer measurably faster than a wrong password.
			srv.hasher.Check(input.Password, dummyBcryptHash)
			srv.log(ctx).Warn("Login failed, unknown email", slog.String("email", email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to load principal for login")
	}

	// bcrypt check outside any transaction, it is CPU-bound.
	if user.PasswordHash == "" || !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("email", email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	if !user.IsActive {
		srv.log(ctx).Warn("Login rejected, account deactivated", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrAccountDeactivated.WrapMessage("login rejected")
	}

	now := time.Now()
	if err := srv.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		// The login itself succeeded; a failed touch only loses the timestamp.
		srv.log(ctx).Error("Failed to touch last login", slog.Any("userID", user.ID), slog.Any("error", err))
	} else {
		user.LastLoginAt = &now
	}

	token, err := srv.tokenService.IssueToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token during login")
	}

	srv.audit.RecordLogin(ctx, user, input.Provenance)
	srv.log(ctx).Debug("Login succeeded", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{Token: token, User: user}, nil
}

// GoogleAuthorizationURL returns the consent-screen URL with a fresh state.
func (srv *sessionService) GoogleAuthorizationURL() string {
	return srv.googleFlow.BuildAuthorizationURL()
}

// GoogleExchange trades an authorization code for an ID token and completes
// the sign-in with it.
func (srv *sessionService) GoogleExchange(ctx context.Context, input *usecase.OAuthExchangeInput) (*usecase.OAuthCallbackOutput, error) {
	idToken, err := srv.googleFlow.ExchangeCode(ctx, input.Code, input.State)
	if err != nil {
		srv.log(ctx).Warn("Google code exchange failed", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthFailed.WrapMessage("failed to exchange authorization code")
	}

	return srv.GoogleCallback(ctx, &usecase.OAuthCallbackInput{IDToken: idToken, Provenance: input.Provenance})
}

// GoogleCallback signs in (or provisions) the identity attested by a Google
// ID token.
func (srv *sessionService) GoogleCallback(ctx context.Context, input *usecase.OAuthCallbackInput) (*usecase.OAuthCallbackOutput, error) {
	return srv.oauthCallback(ctx, srv.googleAuth, input)
}

// AppleCallback signs in (or provisions) the identity attested by an Apple
// ID token.
func (srv *sessionService) AppleCallback(ctx context.Context, input *usecase.OAuthCallbackInput) (*usecase.OAuthCallbackOutput, error) {
	return srv.oauthCallback(ctx, srv.appleAuth, input)
}

func (srv *sessionService) oauthCallback(ctx context.Context, verifier service.OAuthVerifier, input *usecase.OAuthCallbackInput) (*usecase.OAuthCallbackOutput, error) {
	origin := verifier.Origin()
	srv.log(ctx).Info("Handling OAuth callback", slog.String("origin", origin.String()))

	oauthUser, err := verifier.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		srv.log(ctx).Warn("OAuth ID token rejected", slog.String("origin", origin.String()), slog.Any("error", err))

		return nil, domainerrors.ErrOAuthFailed.WrapMessage("failed to verify ID token")
	}

	var (
		signedInUser *entity.User
		created      bool
	)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, findErr := userRepo.FindByEmail(ctx, oauthUser.Email)
		if findErr == nil {
			signedInUser = user

			return nil
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to look up OAuth principal")
		}

		// First sign-in through this provider: provision a principal in the
		// pending-onboarding state. A later CompleteOnboarding upgrades it.
		newUser := &entity.User{
			Email:                 entity.NormalizeEmail(oauthUser.Email),
			FirstName:             oauthUser.FirstName,
			LastName:              oauthUser.LastName,
			Role:                  entity.RoleCustomer,
			Origin:                origin,
			IsActive:              true,
			IsFullyRegistered:     false,
			RegistrationIP:        input.Provenance.IP,
			RegistrationUserAgent: input.Provenance.UserAgent,
		}
		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create OAuth principal")
		}

		signedInUser = newUser
		created = true

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("OAuth callback failed", slog.String("origin", origin.String()), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute OAuth callback transaction")
	}

	if !signedInUser.IsActive {
		srv.log(ctx).Warn("OAuth login rejected, account deactivated", slog.Any("userID", signedInUser.ID))

		return nil, domainerrors.ErrAccountDeactivated.WrapMessage("login rejected")
	}

	token, err := srv.tokenService.IssueToken(signedInUser)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token after OAuth callback")
	}

	if created {
		srv.audit.RecordRegistration(ctx, signedInUser, input.Provenance)
	}
	srv.audit.RecordLogin(ctx, signedInUser, input.Provenance)

	return &usecase.OAuthCallbackOutput{
		Token:           token,
		User:            signedInUser,
		NeedsOnboarding: !signedInUser.IsFullyRegistered,
	}, nil
}

// dummyBcryptHash is a valid hash of a random throwaway string, used only to
// equalize timing when the email lookup misses.
var dummyBcryptHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.MinCost)
	if err != nil {
		return ""
	}

	return string(hash)
}()
