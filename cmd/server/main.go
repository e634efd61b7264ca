// Command server runs the multi-domain URL shortener API.
//
// @title                      URL Shortener API
// @version                    1.0
// @description                Multi-domain URL shortener with asynchronous click ingestion.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the API token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-url-shortener/internal/cache"
	"github.com/tbourn/go-url-shortener/internal/clicks"
	"github.com/tbourn/go-url-shortener/internal/config"
	httpapi "github.com/tbourn/go-url-shortener/internal/http"
	"github.com/tbourn/go-url-shortener/internal/observability"
	"github.com/tbourn/go-url-shortener/internal/repo"
	"github.com/tbourn/go-url-shortener/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	sysutil.ConfigureLogger(cfg.LogLevel, cfg.LogPretty, os.Stderr, cfg.OTEL.ServiceName)

	if err := run(cfg, ver); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(cfg config.Config, ver string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}
	store := repo.NewStore(db)

	c, err := cache.New(cfg.Cache)
	if err != nil {
		return err
	}
	defer c.Close()

	queue := clicks.NewQueue(cfg.Clicks.QueueCapacity)
	worker := clicks.NewWorker(queue, store, clicks.WorkerOptions{
		RetryBase:  cfg.Clicks.RetryBase,
		MaxRetries: cfg.Clicks.MaxRetries,
	})
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	go worker.Run(workerCtx)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return err
	}
	resolver := httpapi.RegisterRoutes(r, httpapi.App{Store: store, Cache: c, Clicks: queue, Version: ver}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("db", cfg.DB.Driver).
			Str("cache", c.Name()).
			Int("click_queue", queue.Cap()).
			Str("version", ver).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			worker.Shutdown(cfg.ShutdownGrace, cancelWorker)
			return err
		}
	}

	// Stop accepting requests first so no click is offered after the queue closes.
	hctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(hctx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if !worker.Shutdown(cfg.ShutdownGrace, cancelWorker) {
		log.Warn().Msg("click queue not fully drained")
	}
	resolver.Wait()
	return nil
}
