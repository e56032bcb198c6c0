package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JMousqueton/api.ransomware.live/internal/api"
	"github.com/JMousqueton/api.ransomware.live/internal/cache"
	"github.com/JMousqueton/api.ransomware.live/internal/enrich"
	"github.com/JMousqueton/api.ransomware.live/internal/ratelimit"
	"github.com/JMousqueton/api.ransomware.live/internal/screenshot"
	"github.com/JMousqueton/api.ransomware.live/internal/source"
	"github.com/JMousqueton/api.ransomware.live/pkg/config"
	"github.com/JMousqueton/api.ransomware.live/pkg/logger"
)

const cacheSweepInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})
	log.SetDefault()

	var loader source.Loader
	switch cfg.SourceMode {
	case config.SourceLocal:
		loader = source.NewFile(cfg.DataDir, log.Logger)
	default:
		loader = source.NewHTTP(cfg, log.Logger)
	}

	var store cache.Store
	switch cfg.CacheBackend {
	case config.CacheRedis:
		redisStore := cache.NewRedis(cfg.RedisAddr, log.Logger)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisStore.Ping(ctx); err != nil {
			cancel()
			log.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		cancel()
		defer redisStore.Close()
		store = redisStore
	default:
		memStore := cache.NewMemory(cacheSweepInterval)
		defer memStore.Stop()
		store = memStore
	}

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow)
	defer limiter.Stop()

	shots := screenshot.NewResolver(cfg.ScreenshotDir, cfg.ScreenshotBaseURL)
	enricher := enrich.New(shots)

	app := api.New(cfg, loader, enricher, store, log.Logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      app.Router(limiter),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Info("starting server",
			"service", cfg.ServiceName,
			"port", cfg.HTTPPort,
			"source_mode", cfg.SourceMode,
			"cache_backend", cfg.CacheBackend,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
