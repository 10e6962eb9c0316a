//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"testing"
	"time"

	"github.com/kjstillabower/geoweather-service/internal/cache"
	"github.com/kjstillabower/geoweather-service/internal/client"
	"github.com/kjstillabower/geoweather-service/internal/service"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	APIKey        string
	WeatherURL    string
	GeocodingURL  string
	UpstreamLimit time.Duration
}

// GetIntegrationConfig loads integration test configuration from environment.
// Skips test if OPENWEATHER_API_KEY is not set.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("OPENWEATHER_API_KEY not set, skipping integration test")
	}

	weatherURL := os.Getenv("WEATHER_API_URL")
	if weatherURL == "" {
		weatherURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	geocodingURL := os.Getenv("GEOCODING_API_URL")
	if geocodingURL == "" {
		geocodingURL = "https://api.openweathermap.org/geo/1.0/reverse"
	}

	return IntegrationTestConfig{
		APIKey:        apiKey,
		WeatherURL:    weatherURL,
		GeocodingURL:  geocodingURL,
		UpstreamLimit: 5 * time.Second,
	}
}

// SetupIntegrationService creates a service wired to the real provider with a fresh cache.
func SetupIntegrationService(t *testing.T, cfg IntegrationTestConfig) (*service.WeatherService, *cache.InMemoryCache) {
	weatherClient, err := client.NewOpenWeatherClient(cfg.APIKey, cfg.WeatherURL, cfg.UpstreamLimit)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}
	geocodingClient, err := client.NewGeocodingClient(cfg.APIKey, cfg.GeocodingURL, cfg.UpstreamLimit)
	if err != nil {
		t.Fatalf("NewGeocodingClient() error = %v", err)
	}

	c := cache.NewInMemoryCache(5 * time.Minute)
	return service.NewWeatherService(weatherClient, geocodingClient, c), c
}
