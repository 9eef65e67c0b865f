package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/examplecore/account-service/docs"
	"github.com/examplecore/account-service/internal/api/handler"
	"github.com/examplecore/account-service/internal/api/middleware"
	"github.com/examplecore/account-service/internal/core/domain"
	"github.com/examplecore/account-service/internal/core/ports"
	"github.com/examplecore/account-service/internal/core/service"
	"github.com/examplecore/account-service/internal/infrastructure/config"
	mongostore "github.com/examplecore/account-service/internal/infrastructure/db/mongo"
	redisstore "github.com/examplecore/account-service/internal/infrastructure/db/redis"
	"github.com/examplecore/account-service/internal/security"
)

// Deps carries the infrastructure the router wires together.
type Deps struct {
	Config *config.Config
	Mongo  *mongo.Database
	Redis  *redis.Client
	Mail   ports.MailDispatcher
	Log    zerolog.Logger
}

// loginAttemptsPerWindow / resetRequestsPerWindow bound abuse of the
// credential endpoints per subject per window.
const (
	loginAttemptsPerWindow = 10
	resetRequestsPerWindow = 3
	rateLimitWindow        = time.Minute
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("account"))

	// --- Dependencies ---
	cfg := deps.Config
	hasher := security.NewPasswordHasher(cfg.Security.Pepper, security.DefaultCost)
	tokens := security.NewSessionTokens(cfg.JWT.Key, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)

	accountRepo := mongostore.NewAccountRepository(deps.Mongo)
	roleRepo := mongostore.NewRoleRepository(deps.Mongo)

	accountService := service.NewAccountService(accountRepo, hasher, deps.Mail, cfg.AppURL, deps.Log)
	roleService := service.NewRoleService(accountRepo, roleRepo)

	var limiter handler.RateLimiter
	if deps.Redis != nil {
		limiter = scopedLimiter{
			login: redisstore.NewLimiter(deps.Redis, loginAttemptsPerWindow, rateLimitWindow),
			reset: redisstore.NewLimiter(deps.Redis, resetRequestsPerWindow, rateLimitWindow),
		}
	}

	accountHandler := handler.NewAccountHandler(accountService, roleService, tokens, limiter)
	roleHandler := handler.NewRoleHandler(roleService)
	authRequired := middleware.Auth(tokens)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Account routes ---
	account := e.Group("/account")
	account.POST("/create", accountHandler.Create)
	account.POST("/login", accountHandler.Login)
	account.PUT("/update", accountHandler.Update, authRequired)
	account.GET("/info", accountHandler.GetInfo, authRequired)
	account.POST("/verify-email", accountHandler.VerifyEmail)
	account.POST("/request-password-reset", accountHandler.RequestPasswordReset)
	account.POST("/check-password-reset", accountHandler.CheckPasswordReset)
	account.POST("/reset-password", accountHandler.ResetPassword)

	// --- Role routes (admin only) ---
	roles := e.Group("/roles", authRequired, adminOnly)
	roles.GET("", roleHandler.List)
	roles.POST("", roleHandler.Create)
	roles.POST("/assign", roleHandler.Assign)
	roles.POST("/unassign", roleHandler.Unassign)

	// --- Health probes, metrics, docs ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

// scopedLimiter routes limiter scopes to differently budgeted windows.
type scopedLimiter struct {
	login *redisstore.Limiter
	reset *redisstore.Limiter
}

func (s scopedLimiter) Allow(ctx context.Context, scope, subject string) (bool, error) {
	if scope == "reset" {
		return s.reset.Allow(ctx, scope, subject)
	}
	return s.login.Allow(ctx, scope, subject)
}
