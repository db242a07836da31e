// Package middleware contains the echo middleware of the HTTP delivery.
package middleware

import (
	"strings"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Context keys used by downstream handlers.
const (
	// KeyPrincipal holds the resolved *entity.User.
	KeyPrincipal = "principal"
	// KeyPrincipalID holds the resolved uuid.UUID.
	KeyPrincipalID = "principalID"
)

// AuthMiddleware validates bearer tokens and resolves them to a live, active
// principal before any protected handler runs.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userRepo repository.UserRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userRepo: userRepo}
}

// Authenticate validates the access token and attaches the principal to the
// echo context. Expired and malformed tokens surface distinguishable codes;
// a token for a missing or deactivated principal is a plain 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthorized.WithDetails("missing Authorization header")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.ErrUnauthorized.WithDetails("Authorization header must be a Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			// ErrTokenExpired / ErrTokenMalformed carry their own codes.
			return err
		}

		user, err := m.userRepo.FindByID(c.Request().Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUnauthorized.WrapMessage("token principal no longer exists")
			}

			return errors.Wrap(err, "failed to resolve token principal")
		}

		if !user.IsActive {
			return domainerrors.ErrUnauthorized.WrapMessage("token principal is deactivated")
		}

		c.Set(KeyPrincipal, user)
		c.Set(KeyPrincipalID, user.ID)

		return next(c)
	}
}

// RequireRole gates a route group on a coarse role. Must run after
// Authenticate.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(KeyPrincipal).(*entity.User)
			if !ok {
				return domainerrors.ErrUnauthorized.WrapMessage("principal missing from context")
			}
			if user.Role != requiredRole {
				return domainerrors.ErrForbidden.WithDetails("requires " + requiredRole.String() + " role")
			}

			return next(c)
		}
	}
}

// PrincipalFromContext returns the authenticated principal set by
// Authenticate, or nil when the route is unauthenticated.
func PrincipalFromContext(c echo.Context) *entity.User {
	user, _ := c.Get(KeyPrincipal).(*entity.User)

	return user
}

// PrincipalIDFromContext returns the authenticated principal's ID set by
// Authenticate.
func PrincipalIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(KeyPrincipalID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domainerrors.ErrUnauthorized.WithDetails("missing authentication context")
	}

	return id, nil
}
