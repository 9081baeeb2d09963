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

	"github.com/learnsphere/assessment-client/internal/cache"
	"github.com/learnsphere/assessment-client/internal/client"
	"github.com/learnsphere/assessment-client/internal/config"
	"github.com/learnsphere/assessment-client/internal/handlers"
	"github.com/learnsphere/assessment-client/internal/session"
	"github.com/learnsphere/assessment-client/internal/utils"
	"github.com/learnsphere/assessment-client/internal/validator"
	"github.com/learnsphere/assessment-client/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	v := validator.New()

	// Remote API client, with a redis read-through cache when redis is
	// reachable. The service stays functional without the cache.
	var apiClient client.Client = client.NewHTTPClient(cfg.APIBaseURL, pkg.NewAPIHTTPClient(), cfg.APIToken, logger)
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, assessment caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheService := cache.NewRedisCache(redisClient, logger)
		apiClient = client.NewCachedClient(apiClient, cacheService, cfg.CacheTTL, logger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	manager := session.NewManager(apiClient, v, logger, publisher)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(manager, v, logger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting assessment session service",
			"port", cfg.Port,
			"api_base_url", cfg.APIBaseURL,
			"environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down", "live_sessions", manager.Count())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	// Countdown goroutines stop with their sessions.
	manager.CloseAll()

	logger.Info("Shutdown complete")
}
