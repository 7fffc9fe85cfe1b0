package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/rafabene/gearshare-backend/docs"
	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/handlers/dto"
	httphandlers "github.com/rafabene/gearshare-backend/internal/handlers/http"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/cache"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/config"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/i18n"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/i18n/locales"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/logging"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/metrics"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/ratelimit"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/realtime"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/security"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/storage"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// @title                       GearShare API
// @version                     1.0
// @description                 Compartilhamento de equipamentos entre voluntários da comunidade.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting gearshare backend",
		"env", cfg.Env,
		"version", "dev",
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Conectar ao banco de dados
	db, err := postgres.NewDatabaseConnection(&cfg.Database, cfg.Logging.Level, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Inicializar i18n
	i18nService, err := i18n.NewService(locales.FS, cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Redis é opcional: sem ele limites e revogações ficam em memória
	authLimit := ratelimit.Config{Limit: cfg.RateLimit.AuthAttempts, Window: cfg.RateLimit.AuthWindow}
	apiLimit := ratelimit.Config{Limit: cfg.RateLimit.APIRequests, Window: cfg.RateLimit.APIWindow}

	var (
		authLimiter ports.RateLimiter = ratelimit.NewMemoryLimiter(authLimit)
		apiLimiter  ports.RateLimiter = ratelimit.NewMemoryLimiter(apiLimit)
		revocations ports.TokenRevocations = cache.NewMemoryRevocations()
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			log.Fatal(err)
		}
		defer client.Close()

		authLimiter = ratelimit.NewRedisLimiter(client, authLimit, "ratelimit:auth")
		apiLimiter = ratelimit.NewRedisLimiter(client, apiLimit, "ratelimit:api")
		revocations = cache.NewRedisRevocations(client)
		logger.Info("redis connected")
	}

	// Armazenamento de imagens
	var (
		images    ports.ImageStore
		imagesDir string
	)
	if cfg.Uploads.S3.Enabled() {
		images, err = storage.NewS3ImageStore(ctx, cfg.Uploads.S3)
		if err != nil {
			logger.Error("failed to initialize s3 image store", "error", err)
			log.Fatal(err)
		}
		logger.Info("images stored in s3", "bucket", cfg.Uploads.S3.Bucket)
	} else {
		images, err = storage.NewLocalImageStore(cfg.Uploads.Dir, cfg.Uploads.PublicPath)
		if err != nil {
			logger.Error("failed to initialize local image store", "error", err)
			log.Fatal(err)
		}
		imagesDir = cfg.Uploads.Dir
	}

	appMetrics := metrics.NewMetrics()

	hub := realtime.NewHub(logger, func(entry *entities.AuditLogEntry) any {
		return dto.ToAuditEntryResponse(entry)
	}, originChecker(cfg.CORS.AllowedOrigins))

	tokens, err := security.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	if err != nil {
		log.Fatal(err)
	}
	hasher := security.NewBcryptHasher(security.DefaultBcryptCost)

	// Inicializar repositories
	userRepo := postgres.NewUserRepository(db)
	listingRepo := postgres.NewListingRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Inicializar services
	auditTrail := services.NewAuditTrail(auditRepo, hub, logger)
	sessionService := services.NewSessionService(tokens, revocations, userRepo, logger)
	authService := services.NewAuthService(userRepo, hasher, tokens, revocations, appMetrics, logger)
	listingService := services.NewListingService(listingRepo, images, cfg.Uploads.MaxBytes, logger)
	adminService := services.NewAdminService(userRepo, listingRepo, auditTrail, images, uow, appMetrics, cfg.Admin.ProtectedUsername, logger)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := httphandlers.NewRouter(httphandlers.RouterConfig{
		Env:            cfg.Env,
		BaseURL:        cfg.Server.BaseURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		I18n:           i18nService,
		Sessions:       sessionService,
		Logger:         logger,
		Auth:           httphandlers.NewAuthHandler(authService, logger),
		Listings:       httphandlers.NewListingHandler(listingService, logger),
		Admin:          httphandlers.NewAdminHandler(adminService, hub, logger),
		Health:         httphandlers.NewHealthHandler(cfg.Env, sqlDB),
		AuthLimiter:    authLimiter,
		APILimiter:     apiLimiter,
		Metrics:        appMetrics,
		ImagesDir:      imagesDir,
		ImagesPath:     cfg.Uploads.PublicPath,
		Swagger:        !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatal(err)
	}

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// conexões WebSocket são hijacked e não entram no Shutdown
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}

	logger.Info("server exited")
}

// originChecker aplica ao WebSocket a mesma lista de origens do CORS
func originChecker(allowedOrigins string) func(*http.Request) bool {
	allowed := map[string]bool{}
	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return nil
		}
		if origin != "" {
			allowed[origin] = true
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return allowed[origin]
	}
}
