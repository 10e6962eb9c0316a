package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/kjstillabower/geoweather-service/internal/models"
	"github.com/kjstillabower/geoweather-service/internal/observability"
)

// WeatherFetcher is implemented by the service layer to fetch weather for a coordinate.
// Used by CacheWarmer to avoid a circular dependency on the service package.
type WeatherFetcher interface {
	GetWeather(ctx context.Context, coord models.Coordinate) (models.WeatherReport, error)
}

// CacheWarmer fills the cache for a fixed list of coordinates, once or on a schedule.
type CacheWarmer struct {
	fetcher   WeatherFetcher
	logger    *zap.Logger
	scheduler *gocron.Scheduler
}

// NewCacheWarmer creates a CacheWarmer that uses the given fetcher and logger.
func NewCacheWarmer(fetcher WeatherFetcher, logger *zap.Logger) *CacheWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheWarmer{fetcher: fetcher, logger: logger}
}

// Warm fetches weather for each coordinate concurrently, populating the cache via the fetcher.
// Returns the joined per-coordinate errors, if any.
func (w *CacheWarmer) Warm(ctx context.Context, coords []models.Coordinate) error {
	start := time.Now()
	observability.CacheWarmingTotal.Inc()
	w.logger.Info("warming cache", zap.Int("coordinates", len(coords)))

	var wg sync.WaitGroup
	errCh := make(chan error, len(coords))
	for _, coord := range coords {
		coord := coord
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := w.fetcher.GetWeather(ctx, coord); err != nil {
				errCh <- fmt.Errorf("warm %s: %w", coord.Key(), err)
			}
		}()
	}
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}

	duration := time.Since(start).Seconds()
	observability.CacheWarmingDurationSeconds.Observe(duration)
	w.logger.Info("cache warming complete",
		zap.Int("coordinates", len(coords)),
		zap.Int("errors", len(errs)),
		zap.Float64("duration_seconds", duration),
	)
	if len(errs) > 0 {
		observability.CacheWarmingErrorsTotal.Inc()
		return fmt.Errorf("cache warming: %w", errors.Join(errs...))
	}
	return nil
}

// Start runs Warm immediately and then every interval in the background. Each run gets its
// own context bounded by timeout. Call Stop to end the schedule.
func (w *CacheWarmer) Start(coords []models.Coordinate, interval, timeout time.Duration) error {
	if len(coords) == 0 {
		w.logger.Info("cache warming: no coordinates configured; nothing to schedule")
		return nil
	}
	if interval <= 0 {
		return fmt.Errorf("cache warming interval must be positive, got %s", interval)
	}

	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := w.Warm(ctx, coords); err != nil {
			w.logger.Warn("periodic cache warm failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule cache warming: %w", err)
	}

	w.scheduler = s
	s.StartAsync()
	return nil
}

// Stop ends the schedule started by Start. Safe to call when Start was not called.
func (w *CacheWarmer) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}
