package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/accountd/account-service/internal/api/handler"
	"github.com/accountd/account-service/internal/api/middleware"
	"github.com/accountd/account-service/internal/core/auth"
	"github.com/accountd/account-service/internal/core/domain"
	"github.com/accountd/account-service/internal/core/ports"
	"github.com/accountd/account-service/internal/core/service"
	mongodb "github.com/accountd/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/accountd/account-service/internal/infrastructure/db/redis"
)

// Deps bundles the external collaborators the router wires together.
type Deps struct {
	Mongo  *mongo.Database
	Redis  *redis.Client
	Tokens *auth.TokenService
	Audit  ports.AuditRecorder
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("account"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(d.Mongo)
	auditRepo := mongodb.NewAuditRepository(d.Mongo)
	cache := redisdb.NewUserCache(d.Redis)
	hasher := auth.NewPasswordHasher()
	accounts := service.NewAccountService(userRepo, hasher, d.Tokens, cache, d.Audit, d.Log)

	accountHandler := handler.NewAccountHandler(accounts)
	userHandler := handler.NewUserHandler(accounts)
	auditHandler := handler.NewAuditHandler(auditRepo)
	authMiddleware := middleware.Auth(d.Tokens)

	// --- Auth routes ---
	e.POST("/api/auth/sign-up", accountHandler.SignUp)
	e.POST("/api/auth/sign-in", accountHandler.SignIn)
	e.POST("/api/auth/sign-in-with-token", accountHandler.SignInWithToken)

	// --- User routes ---
	e.GET("/api/users", userHandler.List)
	e.GET("/api/users/:id", userHandler.GetByID)

	// --- Admin routes ---
	admin := e.Group("/api/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users/:id", userHandler.AdminGetByID)
	admin.GET("/events", auditHandler.ListRecent)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
