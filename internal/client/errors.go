package client

import (
	"errors"
)

// Provider names used in UpstreamError and as metric labels.
const (
	ProviderWeather   = "weather"
	ProviderGeocoding = "geocoding"
)

var (
	ErrInvalidAPIKey   = errors.New("invalid API key")
	ErrNotFound        = errors.New("not found")
	ErrUpstreamFailure = errors.New("upstream failure")
	ErrRateLimited     = errors.New("rate limited")
	ErrMalformed       = errors.New("malformed upstream response")
)

const (
	apiErrorPrefix     = "OpenWeatherMap API Error: "
	msgWeatherFailed   = "Failed to fetch weather data"
	msgGeocodingFailed = "Failed to fetch location data"
)

// UpstreamError is returned when a call to an OpenWeatherMap endpoint fails. Message is
// safe to show to clients; Err carries the cause for errors.Is and CategorizeError.
type UpstreamError struct {
	Provider string
	Message  string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// upstreamMessage returns the client-facing message: the provider's own message when the
// response body carried one, otherwise the generic fallback.
func upstreamMessage(providerMsg, fallback string) string {
	if providerMsg == "" {
		return fallback
	}
	return apiErrorPrefix + providerMsg
}
