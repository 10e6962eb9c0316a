package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/kjstillabower/geoweather-service/internal/models"
)

// WeatherClient fetches current conditions for a coordinate.
type WeatherClient interface {
	GetCurrentWeather(ctx context.Context, coord models.Coordinate) (models.Observation, error)
}

// OpenWeatherClient calls the OpenWeatherMap current-conditions endpoint.
type OpenWeatherClient struct {
	apiKey   string
	endpoint endpoint
	breaker  *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(apiKey, apiURL string, timeout time.Duration) (*OpenWeatherClient, error) {
	if err := validateAPIKey(apiKey); err != nil {
		return nil, err
	}

	return &OpenWeatherClient{
		apiKey:   apiKey,
		endpoint: newEndpoint(ProviderWeather, apiURL, timeout),
	}, nil
}

// SetCircuitBreaker routes every call through cb. While cb is open, calls fail fast with
// an *UpstreamError wrapping gobreaker.ErrOpenState.
func (c *OpenWeatherClient) SetCircuitBreaker(cb *gobreaker.CircuitBreaker) {
	c.breaker = cb
}

type openWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`
}

func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, coord models.Coordinate) (models.Observation, error) {
	if c.breaker == nil {
		return c.fetch(ctx, coord)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, coord)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return models.Observation{}, c.endpoint.fail("", msgWeatherFailed, fmt.Errorf("circuit breaker: %w", err))
		}
		return models.Observation{}, err
	}
	return result.(models.Observation), nil
}

func (c *OpenWeatherClient) fetch(ctx context.Context, coord models.Coordinate) (models.Observation, error) {
	params := coordinateParams(coord, c.apiKey)
	params.Set("units", "metric")

	var apiResp openWeatherResponse
	if err := c.endpoint.get(ctx, params, &apiResp, msgWeatherFailed); err != nil {
		return models.Observation{}, err
	}

	if len(apiResp.Weather) == 0 {
		return models.Observation{}, c.endpoint.fail("", msgWeatherFailed, fmt.Errorf("%w: empty weather array", ErrMalformed))
	}

	return mapResponse(apiResp), nil
}

func mapResponse(apiResp openWeatherResponse) models.Observation {
	return models.Observation{
		Temperature: apiResp.Main.Temp,
		Humidity:    apiResp.Main.Humidity,
		Pressure:    apiResp.Main.Pressure,
		Main:        apiResp.Weather[0].Main,
		Description: apiResp.Weather[0].Description,
		WindSpeed:   apiResp.Wind.Speed,
		City:        apiResp.Name,
		Country:     apiResp.Sys.Country,
	}
}
