package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/geoweather-service/internal/cache"
	"github.com/kjstillabower/geoweather-service/internal/client"
	"github.com/kjstillabower/geoweather-service/internal/models"
	"github.com/kjstillabower/geoweather-service/internal/observability"
)

// WeatherService serves assembled weather reports cache-aside: a fresh cached report is
// returned as is, otherwise both upstreams are called and the result is cached.
type WeatherService struct {
	client          client.WeatherClient
	geocoder        client.Geocoder
	cache           cache.Cache
	stampedeTracker *stampedeTracker
	now             func() time.Time
}

// NewWeatherService creates a new WeatherService with the provided dependencies.
func NewWeatherService(weather client.WeatherClient, geocoder client.Geocoder, c cache.Cache) *WeatherService {
	return &WeatherService{
		client:          weather,
		geocoder:        geocoder,
		cache:           c,
		stampedeTracker: newStampedeTracker(),
		now:             time.Now,
	}
}

// WithClock replaces the time source used for report timestamps.
func (s *WeatherService) WithClock(now func() time.Time) *WeatherService {
	s.now = now
	return s
}

// GetWeather returns the report for coord. A weather upstream failure is returned wrapped
// (the *client.UpstreamError stays reachable with errors.As); geocoding never fails the call.
func (s *WeatherService) GetWeather(ctx context.Context, coord models.Coordinate) (models.WeatherReport, error) {
	key := coord.Key()
	start := time.Now()
	logger := observability.LoggerFromContext(ctx)
	observability.WeatherQueriesTotal.Inc()

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		observability.CacheHitsTotal.Inc()
		logger.Debug("weather served", zap.String("key", key), zap.Bool("cached", true), zap.Duration("duration", time.Since(start)))
		return cached, nil
	}
	observability.CacheMissesTotal.Inc()

	if inFlight := s.stampedeTracker.Begin(key); inFlight > 1 {
		observability.CacheStampedeDetectedTotal.Inc()
		observability.CacheStampedeConcurrency.Observe(float64(inFlight))
	}
	defer s.stampedeTracker.Done(key)

	logger.Debug("cache miss, fetching upstream", zap.String("key", key))

	obs, err := s.client.GetCurrentWeather(ctx, coord)
	if err != nil {
		return models.WeatherReport{}, fmt.Errorf("fetch weather for %s: %w", key, err)
	}

	loc := s.geocoder.ReverseGeocode(ctx, coord)
	report := Assemble(coord, loc, obs, s.now())

	if err := s.cache.Set(ctx, key, report); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}

	logger.Debug("weather served",
		zap.String("key", key),
		zap.Bool("cached", false),
		zap.String("city", loc.City),
		zap.Duration("duration", time.Since(start)),
	)
	return report, nil
}
