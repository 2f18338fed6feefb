package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ventaboard/sales-api/internal/api/handler"
	"github.com/ventaboard/sales-api/internal/api/middleware"
	"github.com/ventaboard/sales-api/internal/core/service"
	"github.com/ventaboard/sales-api/internal/infrastructure/config"
	mongodb "github.com/ventaboard/sales-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ventaboard/sales-api/internal/infrastructure/db/redis"
	healthhandlers "github.com/ventaboard/sales-api/internal/infrastructure/http/handlers"
	"github.com/ventaboard/sales-api/internal/infrastructure/mail"
)

// NewRouter builds the Echo instance with all dependencies wired and routes
// registered. The returned AuthService is also used at startup to create the
// bootstrap admin.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, *service.AuthService, error) {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("dashboard"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	salesRepo := mongodb.NewSalesRepository(db)
	fileRepo := mongodb.NewFileRepository(db)
	cache := redisdb.NewDatasetCache(rdb, log)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.BootstrapUsername, log)
	ingestService := service.NewIngestService(salesRepo, fileRepo, cache, cfg.UploadDir, log)
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log)

	authHandler := handler.NewAuthHandler(authService)
	fileHandler := handler.NewFileHandler(ingestService, authService, cfg.VisibilityFilter)
	alertHandler := handler.NewAlertHandler(mailer)

	requireAuth := middleware.Auth(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.PUT("/auth/profile", authHandler.UpdateProfile, requireAuth)
	e.GET("/auth/users", authHandler.ListUsers, requireAuth)
	e.POST("/auth/users", authHandler.CreateUser)
	e.DELETE("/auth/users/:id", authHandler.DeleteUser)

	// --- File routes (token optional: role upgrades visibility) ---
	e.POST("/files/upload", fileHandler.Upload, optionalAuth)
	e.GET("/files/data", fileHandler.Data, optionalAuth)

	// --- Alerts ---
	e.POST("/alerts/send", alertHandler.Send)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Static dashboard assets (collaborator concern) ---
	if cfg.StaticDir != "" {
		e.Static("/", cfg.StaticDir)
	}

	return e, authService, nil
}
