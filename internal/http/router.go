// Package httpapi wires the Gin transport to the shortener services,
// middleware and handlers.
//
// Route layout:
//
//	GET  /{code}          redirect (no gzip, cacheable)
//	POST /shorten         public, rate limited by IP
//	GET  /stats, /stats/{code}, /domains
//	                      bearer token, rate limited by token
//	GET  /health, /metrics, /swagger/*any
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-url-shortener/docs"
	"github.com/tbourn/go-url-shortener/internal/cache"
	"github.com/tbourn/go-url-shortener/internal/clicks"
	"github.com/tbourn/go-url-shortener/internal/config"
	"github.com/tbourn/go-url-shortener/internal/domain"
	"github.com/tbourn/go-url-shortener/internal/http/handlers"
	"github.com/tbourn/go-url-shortener/internal/http/middleware"
	"github.com/tbourn/go-url-shortener/internal/repo"
	"github.com/tbourn/go-url-shortener/internal/services"
)

// maxBodyBytes caps request bodies. A full 100-item batch of 2 KiB URLs
// fits comfortably.
const maxBodyBytes = 1 << 20

// App carries the long-lived dependencies the routes are built on.
type App struct {
	Store   *repo.Store
	Cache   cache.Cache
	Clicks  *clicks.Queue
	Version string
}

// RegisterRoutes builds the services, attaches middleware and mounts every
// endpoint on r. The returned resolver owns background cache fills; call its
// Wait during shutdown.
//
// Middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. RedactingLogger
//  4. Recovery
//  5. body size limit
//  6. Metrics
//  7. CORS (global so preflights reach it)
//
// API routes additionally get security headers (no-store) and gzip;
// protected routes get BearerAuth followed by the rate limiter.
func RegisterRoutes(r *gin.Engine, app App, cfg config.Config) *services.Resolver {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(middleware.Metrics())
	r.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))

	// Services
	resolver := services.NewResolver(app.Store, app.Store, app.Cache, cfg.Cache.TTL)
	links := services.NewLinkService(app.Store, app.Store, cfg.PublicScheme, cfg.MaxBatchSize)
	h := handlers.New(handlers.Services{
		Redirect: services.NewRedirector(resolver, app.Clicks),
		Links:    links,
		Stats:    services.NewStatsService(app.Store, app.Store, app.Store, links.ShortURL),
		Domains:  services.NewDomainService(app.Store),
		Health: &services.HealthService{
			DB:      app.Store,
			Domains: app.Store,
			Queue:   app.Clicks,
			Cache:   app.Cache,
			Version: app.Version,
		},
	})
	auth := services.NewAuthService(app.Store)

	// Operational
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", h.Health)
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.Version = app.Version
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// API
	api := r.Group("",
		middleware.SecurityHeaders(middleware.SecurityOptions{
			EnableHSTS:   cfg.Security.EnableHSTS,
			HSTSMaxAge:   cfg.Security.HSTSMaxAge,
			NoStore:      true,
			EnablePolicy: true,
		}),
		gzip.Gzip(gzip.DefaultCompression),
	)
	{
		public := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
		api.POST("/shorten", public.Handler(), h.Shorten)

		protected := api.Group("",
			middleware.BearerAuth(auth),
			middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByTokenOrIP()).Handler(),
		)
		protected.GET("/stats", h.ListStats)
		protected.GET("/stats/:code", h.LinkStats)
		protected.GET("/domains", h.ListDomains)
	}

	// Redirects stay uncompressed and carry only the baseline headers.
	r.GET("/:code", middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}), h.Redirect)

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, domain.CodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	return resolver
}

// corsConfig allows every origin when none are configured. Credentials are
// never allowed; bearer tokens travel in the Authorization header.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// limitBody caps the request body; reads past maxBytes fail with
// *http.MaxBytesError.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
