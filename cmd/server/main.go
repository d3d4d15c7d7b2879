package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tripveda/flightdesk/internal/backend"
	"github.com/tripveda/flightdesk/internal/cache"
	"github.com/tripveda/flightdesk/internal/config"
	"github.com/tripveda/flightdesk/internal/handler"
	"github.com/tripveda/flightdesk/internal/orchestrator"
	"github.com/tripveda/flightdesk/internal/ratelimit"
	"github.com/tripveda/flightdesk/internal/refdata"
	"github.com/tripveda/flightdesk/internal/session"
)

var CLI struct {
	Config     string `help:"Path to config file" type:"path"`
	Port       string `help:"Listen port" env:"PORT"`
	BackendURL string `help:"Flight search backend base URL" env:"BACKEND_URL"`
	RedisHost  string `help:"Redis host" env:"REDIS_HOST"`
	RedisPort  string `help:"Redis port" env:"REDIS_PORT"`
	NoCache    bool   `help:"Disable the Redis search cache" env:"CACHE_DISABLED"`
}

func main() {
	kong.Parse(&CLI)

	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}
	applyOverrides(cfg)

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Log.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}

	ref, err := refdata.NewService()
	if err != nil {
		logger.WithError(err).Fatal("failed to load reference data")
	}
	logger.WithField("airlines", ref.AirlineCount()).Info("loaded reference data")

	limiter := ratelimit.NewHostLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.Backend.RateLimitRPS,
		BurstSize:         cfg.Backend.RateLimitBurst,
	})

	client, err := backend.NewClient(backend.Config{
		BaseURL:    cfg.Backend.URL,
		Timeout:    cfg.BackendTimeout(),
		MaxRetries: cfg.Backend.MaxRetries,
		RetryDelays: []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
		},
		RateLimiter: limiter,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize backend client")
	}

	var searchCache cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Cache.RedisHost,
			Port:     cfg.Cache.RedisPort,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.CacheTTL(),
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to Redis")
		}
		searchCache = redisCache
		logger.WithFields(logrus.Fields{
			"host": cfg.Cache.RedisHost + ":" + cfg.Cache.RedisPort,
			"ttl":  cfg.CacheTTL(),
		}).Info("Redis cache enabled")
	} else {
		searchCache = cache.NewNoOpCache()
		logger.Info("cache disabled")
	}
	defer searchCache.Close()

	orch := orchestrator.New(client, searchCache, logger)
	store := session.NewStore(cfg.SessionTTL(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Sweep(ctx, cfg.SessionSweepInterval())

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	searchHandler := handler.NewSearchHandler(orch)
	sessionHandler := handler.NewSessionHandler(store, orch, ref)
	referenceHandler := handler.NewReferenceHandler(ref)

	api := e.Group("/api/v1")
	api.GET("/flights/search", searchHandler.Search)
	api.POST("/sessions", sessionHandler.Create)
	api.GET("/sessions/:id", sessionHandler.Get)
	api.POST("/sessions/:id/refresh", sessionHandler.Refresh)
	api.DELETE("/sessions/:id", sessionHandler.Delete)
	api.GET("/sessions/:id/flights", sessionHandler.Flights)
	api.POST("/sessions/:id/select", sessionHandler.Select)
	api.POST("/sessions/:id/change", sessionHandler.Change)
	api.POST("/sessions/:id/confirm", sessionHandler.Confirm)
	api.GET("/reference/airlines/:code", referenceHandler.Airline)
	api.GET("/reference/airports/:code", referenceHandler.Airport)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig).Info("received signal, shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("shutdown failed")
		}
		cancel()
	}()

	logger.WithField("port", cfg.Port).Info("starting flightdesk server")
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.WithError(err).Info("server stopped")
	}
}

func applyOverrides(cfg *config.Config) {
	if CLI.Port != "" {
		cfg.Port = CLI.Port
	}
	if CLI.BackendURL != "" {
		cfg.Backend.URL = CLI.BackendURL
	}
	if CLI.RedisHost != "" {
		cfg.Cache.RedisHost = CLI.RedisHost
	}
	if CLI.RedisPort != "" {
		cfg.Cache.RedisPort = CLI.RedisPort
	}
	if CLI.NoCache {
		cfg.Cache.Enabled = false
	}
}
