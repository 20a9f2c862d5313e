package bootstrap

import (
	"log"
	"net/http"

	"github.com/cesariojr/ecommerce-microservices/internal/config"
	"github.com/cesariojr/ecommerce-microservices/internal/metrics"
	"github.com/cesariojr/ecommerce-microservices/internal/middleware"
	"github.com/cesariojr/ecommerce-microservices/internal/services"
	"github.com/cesariojr/ecommerce-microservices/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	prometheusMetrics metrics.Recorder,
	grantService *services.GrantService,
) *gin.Engine {
	setupGinMode(cfg)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", createHealthCheckHandler(db))

	setupMetricsEndpoint(r, cfg)

	// Direct authentication routes
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.auth.Login)
		auth.POST("/validate", h.auth.Validate)
		auth.GET("/profile", middleware.RequireToken(grantService), h.auth.Profile)
	}

	// OAuth 2.0 routes
	oauth := r.Group("/oauth")
	{
		oauth.GET("/authorize", h.authorization.Authorize)
		oauth.POST("/authorize/confirm", h.authorization.Confirm)
		oauth.POST("/token", h.token.Token)
		oauth.POST("/introspect", h.token.Introspect)
	}

	logServerStartup(cfg)

	return r
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// createHealthCheckHandler creates health check endpoint handler
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := db.Health(); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"database": "connected",
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
		return
	}
	gin.SetMode(gin.DebugMode)
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("Auth service starting on %s", cfg.ServerAddr)
	log.Printf("Token issuer: %s, audience: %s", cfg.JWTIssuer, cfg.JWTAudience)
	if cfg.SeedDemoData {
		log.Printf("Demo users: admin@ecommerce.com, viewer@ecommerce.com, customer@ecommerce.com")
		log.Printf("Demo client: ecommerce-frontend")
	}
}
