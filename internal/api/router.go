package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/regportal/auth-gateway/docs" // swagger spec registration

	"github.com/regportal/auth-gateway/internal/api/handler"
	"github.com/regportal/auth-gateway/internal/api/middleware"
	"github.com/regportal/auth-gateway/internal/core/service"
	"github.com/regportal/auth-gateway/internal/infrastructure/db/postgres"
	healthhandlers "github.com/regportal/auth-gateway/internal/infrastructure/http/handlers"
	"github.com/regportal/auth-gateway/internal/pkg/password"
	"github.com/regportal/auth-gateway/internal/pkg/token"
)

// Dependencies bundles everything the router needs to wire the handlers.
type Dependencies struct {
	DB     *sql.DB
	Hasher password.Hasher
	Tokens *token.Issuer
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("authgw"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Dependencies ---
	accountRepo := postgres.NewAccountRepository(deps.DB)
	authService := service.NewAuthService(accountRepo, deps.Hasher, deps.Tokens, deps.Logger)
	authHandler := handler.NewAuthHandler(authService)
	tokenHandler := handler.NewTokenHandler()
	authMiddleware := middleware.Auth(deps.Tokens)

	// --- Role-scoped auth routes ---
	e.POST("/admin/register", authHandler.RegisterAdmin)
	e.POST("/admin/login", authHandler.LoginAdmin)
	e.POST("/regulator/register", authHandler.RegisterRegulator)
	e.POST("/regulator/login", authHandler.LoginRegulator)
	e.POST("/entity/register", authHandler.RegisterEntity)
	e.POST("/entity/login", authHandler.LoginEntity)

	// --- Token introspection ---
	e.GET("/verify-token", tokenHandler.Verify, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(deps.DB)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
