package client

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/geoweather-service/internal/models"
	"github.com/kjstillabower/geoweather-service/internal/observability"
)

// Geocoder resolves a coordinate to a place name. ReverseGeocode never fails; it falls
// back to the Unknown placeholder.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, coord models.Coordinate) models.Location
}

// GeocodingClient calls the OpenWeatherMap reverse geocoding endpoint.
type GeocodingClient struct {
	apiKey   string
	endpoint endpoint
}

func NewGeocodingClient(apiKey, apiURL string, timeout time.Duration) (*GeocodingClient, error) {
	if err := validateAPIKey(apiKey); err != nil {
		return nil, err
	}

	return &GeocodingClient{
		apiKey:   apiKey,
		endpoint: newEndpoint(ProviderGeocoding, apiURL, timeout),
	}, nil
}

type geocodingResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Lookup returns the nearest named place for coord. An empty result is an *UpstreamError
// wrapping ErrNotFound. The returned location echoes coord, not the place's own position.
func (c *GeocodingClient) Lookup(ctx context.Context, coord models.Coordinate) (models.Location, error) {
	params := coordinateParams(coord, c.apiKey)
	params.Set("limit", "1")

	var results []geocodingResult
	if err := c.endpoint.get(ctx, params, &results, msgGeocodingFailed); err != nil {
		return models.Location{}, err
	}
	if len(results) == 0 {
		return models.Location{}, c.endpoint.fail("", msgGeocodingFailed, fmt.Errorf("%w: no place near coordinate", ErrNotFound))
	}

	place := results[0]
	loc := models.UnknownLocation(coord)
	if place.Name != "" {
		loc.City = place.Name
	}
	if place.Country != "" {
		loc.Country = place.Country
	}
	loc.State = place.State
	return loc, nil
}

// ReverseGeocode is Lookup with failures swallowed: it logs a warning, counts the fallback
// and returns the Unknown placeholder.
func (c *GeocodingClient) ReverseGeocode(ctx context.Context, coord models.Coordinate) models.Location {
	loc, err := c.Lookup(ctx, coord)
	if err == nil {
		return loc
	}

	category := CategorizeError(err)
	observability.GeocodingFallbackTotal.WithLabelValues(string(category)).Inc()
	observability.LoggerFromContext(ctx).Warn("reverse geocoding failed, using placeholder location",
		zap.Float64("latitude", coord.Latitude),
		zap.Float64("longitude", coord.Longitude),
		zap.String("error_category", string(category)),
		zap.Error(err),
	)
	return models.UnknownLocation(coord)
}
