package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kjstillabower/geoweather-service/internal/models"
	"github.com/kjstillabower/geoweather-service/internal/observability"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// endpoint is a single OpenWeatherMap GET endpoint. Every call is one attempt.
type endpoint struct {
	provider string
	apiURL   string
	timeout  time.Duration
	client   *http.Client
}

func newEndpoint(provider, apiURL string, timeout time.Duration) endpoint {
	return endpoint{
		provider: provider,
		apiURL:   apiURL,
		timeout:  timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func validateAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if len(apiKey) < 10 {
		return fmt.Errorf("%w: API key appears invalid (too short)", ErrInvalidAPIKey)
	}
	return nil
}

// coordinateParams returns lat, lon and appid query values for coord.
func coordinateParams(coord models.Coordinate, apiKey string) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	params.Set("appid", apiKey)
	return params
}

// get performs the call and decodes a 2xx JSON body into out. Every failure comes back as
// an *UpstreamError; fallback is its message when the provider supplied none.
func (e endpoint) get(ctx context.Context, params url.Values, out any, fallback string) error {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := e.buildRequest(reqCtx, params)
	if err != nil {
		e.observe("error", start)
		return e.fail("", fallback, fmt.Errorf("build request: %w", err))
	}

	if corrID := observability.CorrelationIDFromContext(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.observe("error", start)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return e.fail("", fallback, fmt.Errorf("request timeout: %w", err))
		}
		return e.fail("", fallback, fmt.Errorf("http request failed: %w", err))
	}
	defer resp.Body.Close()

	e.observe(statusLabel(resp.StatusCode), start)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return e.fail("", fallback, fmt.Errorf("read response body: %w", err))
	}

	if cause := statusError(resp.StatusCode); cause != nil {
		return e.fail(providerMessage(body), fallback, cause)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return e.fail("", fallback, fmt.Errorf("%w: parse response: %v", ErrMalformed, err))
	}
	return nil
}

func (e endpoint) buildRequest(ctx context.Context, params url.Values) (*http.Request, error) {
	baseURL, err := url.Parse(e.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (e endpoint) observe(status string, start time.Time) {
	observability.UpstreamCallsTotal.WithLabelValues(e.provider, status).Inc()
	observability.UpstreamDuration.WithLabelValues(e.provider, status).Observe(time.Since(start).Seconds())
}

func (e endpoint) fail(providerMsg, fallback string, cause error) *UpstreamError {
	observability.UpstreamErrorsTotal.WithLabelValues(e.provider, string(CategorizeError(cause))).Inc()
	return &UpstreamError{
		Provider: e.provider,
		Message:  upstreamMessage(providerMsg, fallback),
		Err:      cause,
	}
}

func statusError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: HTTP %d", ErrInvalidAPIKey, statusCode)
	case http.StatusNotFound:
		return fmt.Errorf("%w: HTTP %d", ErrNotFound, statusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d", ErrRateLimited, statusCode)
	}

	if statusCode < 200 || statusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, statusCode)
	}
	return nil
}

// providerMessage extracts the "message" field OpenWeatherMap puts in error bodies.
func providerMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == http.StatusTooManyRequests {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
