// Package router contains routing setup for the HTTP delivery.
package router

import (
	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/router/handler"
	"bazaar/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	OAuthHandler      *handler.OAuthHandler
	ProfileHandler    *handler.ProfileHandler
	AuthMiddleware    *middleware.AuthMiddleware
	MetricsMiddleware *middleware.MetricsMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	oauthHandler      *handler.OAuthHandler
	profileHandler    *handler.ProfileHandler
	authMiddleware    *middleware.AuthMiddleware
	metricsMiddleware *middleware.MetricsMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		oauthHandler:      params.OAuthHandler,
		profileHandler:    params.ProfileHandler,
		authMiddleware:    params.AuthMiddleware,
		metricsMiddleware: params.MetricsMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(r.metricsMiddleware.Handler()))

	customerGroup := e.Group("/customer")
	{
		customerGroup.POST("/register", r.authHandler.RegisterCustomer)
		customerGroup.POST("/login", r.authHandler.Login)
	}

	storeGroup := e.Group("/store")
	{
		storeGroup.POST("/register", r.authHandler.RegisterStoreOwner)
		storeGroup.POST("/login", r.authHandler.Login)
	}

	oauthGroup := e.Group("/oauth")
	{
		oauthGroup.GET("/google", r.oauthHandler.GoogleLogin)
		oauthGroup.GET("/google/callback", r.oauthHandler.GoogleCallback)
		oauthGroup.POST("/google/callback", r.oauthHandler.GoogleCallback)
		oauthGroup.POST("/apple/callback", r.oauthHandler.AppleCallback)
	}

	e.GET("/check-store-name", r.authHandler.CheckStoreName)

	// Routes that require an authenticated principal.
	e.GET("/me", r.profileHandler.GetProfile, r.authMiddleware.Authenticate)
	e.POST("/complete-onboarding", r.profileHandler.CompleteOnboarding,
		r.authMiddleware.Authenticate)

	// Store management surface, restricted to fully registered owners.
	managementGroup := e.Group("/store/manage")
	managementGroup.Use(r.authMiddleware.Authenticate)
	managementGroup.Use(r.authMiddleware.RequireRole(entity.RoleStoreOwner))
	{
		managementGroup.GET("/profile", r.profileHandler.GetProfile)
	}
}
