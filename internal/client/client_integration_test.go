//go:build integration
// +build integration

package client

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/kjstillabower/geoweather-service/internal/models"
)

func isValidAPIKeyFormat(key string) error {
	if len(key) != 32 {
		return fmt.Errorf("API key length is %d, expected 32", len(key))
	}

	hexPattern := regexp.MustCompile(`^[0-9a-fA-F]+$`)
	if !hexPattern.MatchString(key) {
		return fmt.Errorf("API key contains non-hexadecimal characters")
	}

	return nil
}

func integrationAPIKey(t *testing.T) string {
	t.Helper()
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("OPENWEATHER_API_KEY not set, skipping integration test")
	}
	if err := isValidAPIKeyFormat(apiKey); err != nil {
		t.Fatalf("API key format validation failed: %v", err)
	}
	return apiKey
}

var london = models.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

func TestOpenWeatherClient_GetCurrentWeather_Integration(t *testing.T) {
	apiKey := integrationAPIKey(t)

	client, err := NewOpenWeatherClient(apiKey, "https://api.openweathermap.org/data/2.5/weather", 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}

	obs, err := client.GetCurrentWeather(context.Background(), london)
	if err != nil {
		t.Fatalf("GetCurrentWeather() error = %v (API key may not be activated yet)", err)
	}
	if obs.Main == "" {
		t.Error("GetCurrentWeather() returned empty condition")
	}
	if obs.Humidity == 0 {
		t.Error("GetCurrentWeather() returned zero humidity")
	}
}

func TestGeocodingClient_Lookup_Integration(t *testing.T) {
	apiKey := integrationAPIKey(t)

	client, err := NewGeocodingClient(apiKey, "https://api.openweathermap.org/geo/1.0/reverse", 5*time.Second)
	if err != nil {
		t.Fatalf("NewGeocodingClient() error = %v", err)
	}

	loc, err := client.Lookup(context.Background(), london)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if loc.Country != "GB" {
		t.Errorf("Country = %q, want GB", loc.Country)
	}
}
