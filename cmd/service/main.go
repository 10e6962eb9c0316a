package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/geoweather-service/internal/cache"
	"github.com/kjstillabower/geoweather-service/internal/client"
	"github.com/kjstillabower/geoweather-service/internal/config"
	httphandler "github.com/kjstillabower/geoweather-service/internal/http"
	"github.com/kjstillabower/geoweather-service/internal/lifecycle"
	"github.com/kjstillabower/geoweather-service/internal/observability"
	"github.com/kjstillabower/geoweather-service/internal/service"
)

const inFlightCheckInterval = 100 * time.Millisecond

// app is the wired service: router plus the pieces main has to start and stop.
type app struct {
	router http.Handler
	cache  *cache.InMemoryCache
	warmer *cache.CacheWarmer
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	weatherClient, err := client.NewOpenWeatherClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.UpstreamTimeout)
	if err != nil {
		return nil, fmt.Errorf("weather client: %w", err)
	}
	geocodingClient, err := client.NewGeocodingClient(cfg.WeatherAPIKey, cfg.GeocodingAPIURL, cfg.UpstreamTimeout)
	if err != nil {
		return nil, fmt.Errorf("geocoding client: %w", err)
	}

	if cfg.CircuitBreakerEnabled {
		weatherClient.SetCircuitBreaker(client.NewBreaker(client.ProviderWeather, client.BreakerConfig{
			FailureThreshold: cfg.CircuitBreakerFailureThreshold,
			OpenTimeout:      cfg.CircuitBreakerOpenTimeout,
			HalfOpenRequests: cfg.CircuitBreakerHalfOpenRequests,
		}))
		logger.Info("circuit breaker enabled",
			zap.Uint32("failure_threshold", cfg.CircuitBreakerFailureThreshold),
			zap.Duration("open_timeout", cfg.CircuitBreakerOpenTimeout))
	}

	weatherCache := cache.NewInMemoryCache(cfg.CacheTTL)
	weatherService := service.NewWeatherService(weatherClient, geocodingClient, weatherCache)
	logger.Info("cache backend: in_memory", zap.Duration("ttl", weatherCache.Window()))

	observability.RegisterTrafficGauges(cfg.DegradedWindow)
	observability.RegisterCacheSizeGauge(weatherCache.Len)

	handler := httphandler.NewHandler(weatherService, &httphandler.HealthConfig{
		DegradedWindow:   cfg.DegradedWindow,
		DegradedErrorPct: cfg.DegradedErrorPct,
		Version:          cfg.Version,
	}, logger)

	router := httphandler.NewRouter(handler, logger, httphandler.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		Limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	})

	return &app{
		router: router,
		cache:  weatherCache,
		warmer: cache.NewCacheWarmer(weatherService, logger),
	}, nil
}

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("startup", zap.Error(err))
	}

	if cfg.WarmInterval > 0 {
		if err := a.warmer.Start(cfg.WarmTargets(), cfg.WarmInterval, cfg.WarmTimeout); err != nil {
			logger.Fatal("cache warming", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		logger.Info("api docs available", zap.String("url", "http://localhost:"+cfg.ServerPort+"/api-docs"))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	if lifecycle.BeginShutdown() {
		logger.Info("graceful shutdown triggered")
	}
	a.warmer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("waiting for in-flight requests", zap.Int64("count", httphandler.InFlightCount()))
	if err := httphandler.WaitForInFlight(shutdownCtx, inFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	logger.Info("shutdown complete",
		zap.Duration("drain", lifecycle.DrainDuration()),
		zap.Int64("peak_in_flight", httphandler.PeakInFlight()),
		zap.Int("cache_entries", a.cache.Len()))
}
