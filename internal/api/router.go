package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/exam-manager/exam-system/docs"
	"github.com/exam-manager/exam-system/internal/api/handler"
	"github.com/exam-manager/exam-system/internal/api/middleware"
	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/core/ports"
	"github.com/exam-manager/exam-system/internal/core/service"
	mongodb "github.com/exam-manager/exam-system/internal/infrastructure/db/mongo"
)

// Deps carries the infrastructure the router wires into services.
type Deps struct {
	Mongo    *mongo.Database
	Redis    *redis.Client
	Tokens   ports.TokenIssuer
	OTPs     ports.OTPStore
	Hasher   ports.PasswordHasher
	Notifier ports.Notifier
	Links    ports.LinkSigner
	Resets   ports.ResetTokenIssuer
	Throttle ports.Throttle
	Files    ports.FileStore
	BaseURL  string
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("exam_manager"))

	// --- Services ---
	users := mongodb.NewUserRepository(deps.Mongo)
	actors := mongodb.NewActorRepository(deps.Mongo)

	authService := service.NewAuthService(service.AuthDeps{
		Users:    users,
		Actors:   actors,
		Tokens:   deps.Tokens,
		OTPs:     deps.OTPs,
		Hasher:   deps.Hasher,
		Notifier: deps.Notifier,
		Links:    deps.Links,
		Resets:   deps.Resets,
		Throttle: deps.Throttle,
		BaseURL:  deps.BaseURL,
	}, deps.Log)
	actorService := service.NewActorService(actors, users, deps.Files, deps.Log)

	authHandler := handler.NewAuthHandler(authService)
	emailHandler := handler.NewEmailHandler(authService)
	actorHandler := handler.NewActorHandler(actorService)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	// --- Guest routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/login/verify-user", authHandler.VerifyOTP)
	e.POST("/email/verification-notification", emailHandler.SendVerification)
	e.GET("/email/verify/:id/:hash", emailHandler.VerifyEmail)
	e.POST("/forgot-password", emailHandler.ForgotPassword)
	e.POST("/reset-password", emailHandler.ResetPassword)

	// --- Authenticated routes ---
	authed := e.Group("", middleware.Auth(deps.Tokens, users))
	authed.POST("/logout", authHandler.Logout)
	authed.GET("/users", authHandler.ListUsers, middleware.RBAC(domain.RoleAdmin))

	verified := authed.Group("", middleware.Verified())
	verified.GET("/user", authHandler.CurrentUser)
	verified.GET("/actors", actorHandler.List)
	verified.POST("/actors", actorHandler.Create)
	verified.GET("/actors/:id", actorHandler.Get)
	verified.PUT("/actors/:id", actorHandler.Update)
	verified.DELETE("/actors/:id", actorHandler.Delete)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	return e
}
