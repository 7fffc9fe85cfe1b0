package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/handlers/dto"
	"github.com/rafabene/gearshare-backend/internal/handlers/middleware"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/i18n"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// MetricsExporter observa requisições e expõe o endpoint de scrape
type MetricsExporter interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

// RouterConfig reúne tudo que NewRouter precisa para montar as rotas
type RouterConfig struct {
	Env            string
	BaseURL        string
	AllowedOrigins string
	// Proxies confiáveis para X-Forwarded-For; vazio usa o endereço da conexão
	TrustedProxies []string

	I18n     *i18n.Service
	Sessions *services.SessionService
	Logger   ports.Logger

	Auth     *AuthHandler
	Listings *ListingHandler
	Admin    *AdminHandler
	Health   *HealthHandler

	AuthLimiter ports.RateLimiter
	APILimiter  ports.RateLimiter
	Metrics     MetricsExporter // opcional

	// Diretório servido em ImagesPath; vazio quando as imagens vão para S3
	ImagesDir  string
	ImagesPath string

	Swagger bool
}

// NewRouter registra os validadores customizados e monta o engine
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := dto.RegisterValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(gin.Recovery())
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.RequestContext(cfg.BaseURL, cfg.Env))
	router.Use(middleware.NewI18nMiddleware(cfg.I18n).DetectLanguage())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.Health != nil {
		router.GET("/health", cfg.Health.Health)
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	if cfg.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.ImagesDir != "" && cfg.ImagesPath != "" {
		router.Static(cfg.ImagesPath, cfg.ImagesDir)
	}

	auth := middleware.NewAuthMiddleware(cfg.Sessions, cfg.Logger)
	rbac := middleware.NewRBAC(cfg.Logger)

	api := router.Group("/api")
	if cfg.APILimiter != nil {
		api.Use(middleware.RateLimit(cfg.APILimiter, "api", cfg.Logger))
	}

	authRoutes := api.Group("/auth")
	{
		credentials := []gin.HandlerFunc{}
		if cfg.AuthLimiter != nil {
			credentials = append(credentials, middleware.RateLimit(cfg.AuthLimiter, "auth", cfg.Logger))
		}
		authRoutes.POST("/register", append(credentials, cfg.Auth.Register)...)
		authRoutes.POST("/login", append(credentials, cfg.Auth.Login)...)

		authRoutes.POST("/logout", auth.Authenticate(), cfg.Auth.Logout)
		authRoutes.GET("/me", auth.Authenticate(), cfg.Auth.Me)
		authRoutes.PATCH("/profile", auth.Authenticate(), cfg.Auth.UpdateProfile)
	}

	listings := api.Group("/listings")
	{
		listings.GET("", auth.OptionalAuth(), cfg.Listings.List)
		listings.GET("/my/listings", auth.Authenticate(), cfg.Listings.Mine)
		listings.GET("/:id", auth.OptionalAuth(), cfg.Listings.Get)
		listings.POST("/:id/increment-view", cfg.Listings.IncrementView)

		listings.POST("", auth.Authenticate(), rbac.RequireVerifiedVolunteer(), cfg.Listings.Create)
		listings.PATCH("/:id", auth.Authenticate(), cfg.Listings.Update)
		listings.DELETE("/:id", auth.Authenticate(), cfg.Listings.Delete)
	}

	admin := api.Group("/admin", auth.Authenticate(), rbac.RequireAdmin())
	{
		admin.GET("/stats", cfg.Admin.Stats)
		admin.GET("/pending-volunteers", cfg.Admin.PendingVolunteers)
		admin.GET("/users", cfg.Admin.ListUsers)
		admin.DELETE("/users/:userId", cfg.Admin.DeleteUser)
		admin.POST("/approve-volunteer/:userId", cfg.Admin.Approve)
		admin.POST("/reject-volunteer/:userId", cfg.Admin.Reject)
		admin.POST("/promote-admin/:userId", cfg.Admin.Promote)
		admin.POST("/demote-admin/:userId", cfg.Admin.Demote)
		admin.GET("/audit-log", cfg.Admin.AuditLog)
		admin.GET("/audit-log/stream", cfg.Admin.Stream)
	}

	return router, nil
}
