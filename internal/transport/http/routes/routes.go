package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/RaoufAlaadin/MedicaRental/internal/infra/config"
	"github.com/RaoufAlaadin/MedicaRental/internal/transport/http/handlers"
	"github.com/RaoufAlaadin/MedicaRental/internal/transport/http/middleware"
	"github.com/RaoufAlaadin/MedicaRental/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Accounts *usecase.AccountService
	Chat     *usecase.ChatService
	Cart     *usecase.CartService
	Reports  *usecase.ReportService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	Metrics     *middleware.HTTPMetrics
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Config != nil && len(deps.Config.App.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.App.CORSAllowedOrigins))
	}
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	checks := make(map[string]handlers.ReadinessCheck)
	if deps.Database != nil {
		checks["database"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}
	healthHandler := handlers.NewHealthHandler(checks)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		accountsHandler := handlers.NewAccountsHandler(deps.Services.Accounts)
		accountsHandler.RegisterRoutes(api.Group("/accounts"), buildLoginMiddlewares(deps)...)

		chatHandler := handlers.NewChatHandler(deps.Services.Chat, deps.Services.Accounts)
		chatHandler.RegisterRoutes(api.Group("/chats"))

		cartHandler := handlers.NewCartHandler(deps.Services.Cart, deps.Services.Accounts)
		cartHandler.RegisterRoutes(api.Group("/cartitems"))

		reportsHandler := handlers.NewReportsHandler(deps.Services.Reports, deps.Services.Accounts)
		reportsHandler.RegisterRoutes(api.Group("/reports"))
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.LoginMaxAttempts
	window := deps.Config.RateLimit.WindowDuration
	if limit <= 0 || window <= 0 {
		return nil
	}

	return []gin.HandlerFunc{
		deps.RateLimiter.RateLimit(middleware.RateLimitRule{
			Name:       "login_ip",
			Limit:      limit,
			Window:     window,
			Identifier: middleware.ClientIPIdentifier(),
		}),
	}
}
