package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/geoweather-service/internal/lifecycle"
	"github.com/kjstillabower/geoweather-service/internal/models"
	"github.com/kjstillabower/geoweather-service/internal/observability"
	"github.com/kjstillabower/geoweather-service/internal/traffic"
	"github.com/kjstillabower/geoweather-service/internal/validation"
)

// WeatherService is the service-layer dependency of Handler.
type WeatherService interface {
	GetWeather(ctx context.Context, coord models.Coordinate) (models.WeatherReport, error)
}

// HealthConfig holds thresholds for the health handler.
type HealthConfig struct {
	DegradedWindow   time.Duration
	DegradedErrorPct int
	Version          string
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	weatherService   WeatherService
	healthConfig     *HealthConfig
	logger           *zap.Logger
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. healthConfig may be nil, which disables the degraded check.
func NewHandler(weatherService WeatherService, healthConfig *HealthConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		weatherService: weatherService,
		healthConfig:   healthConfig,
		logger:         logger,
	}
}

// GetWeather handles GET /api/weather?lat=&lon=.
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coord, err := validation.ValidateCoordinates(queryValue(q, "lat"), queryValue(q, "lon"))
	if err != nil {
		var vErr *validation.ValidationError
		if errors.As(err, &vErr) {
			observability.ValidationFailuresTotal.WithLabelValues(string(vErr.Kind)).Inc()
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.weatherService.GetWeather(r.Context(), coord)
	if err != nil {
		traffic.RecordError()
		writeServiceError(w, r, err)
		return
	}
	traffic.RecordSuccess()
	writeJSON(w, http.StatusOK, report)
}

// queryValue returns nil for an absent parameter so the validator reports it as missing.
func queryValue(q url.Values, name string) any {
	if !q.Has(name) {
		return nil
	}
	return q.Get(name)
}

type endpointDoc struct {
	Method      string            `json:"method"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
	Example     string            `json:"example"`
}

type indexResponse struct {
	Message       string `json:"message"`
	Documentation struct {
		Swagger   string                 `json:"swagger"`
		Endpoints map[string]endpointDoc `json:"endpoints"`
	} `json:"documentation"`
}

// GetIndex handles GET / with a short description of the API.
func (h *Handler) GetIndex(w http.ResponseWriter, r *http.Request) {
	var resp indexResponse
	resp.Message = "OpenWeatherMap Service API"
	resp.Documentation.Swagger = "/api-docs"
	resp.Documentation.Endpoints = map[string]endpointDoc{
		"/api/weather": {
			Method:      http.MethodGet,
			Description: "Get weather information by coordinates",
			Parameters: map[string]string{
				"lat": "Latitude (required)",
				"lon": "Longitude (required)",
			},
			Example: "/api/weather?lat=40.7128&lon=-74.0060",
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := map[string]string{"weatherApi": "healthy"}
	if result.reason == "error_rate_breach" {
		checks["weatherApi"] = "unhealthy"
	}

	version := "dev"
	if h.healthConfig != nil && h.healthConfig.Version != "" {
		version = h.healthConfig.Version
	}

	writeJSON(w, result.statusCode, map[string]interface{}{
		"status":    result.status,
		"service":   observability.ServiceName,
		"version":   version,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates, in order: shutting-down, degraded (weather error rate in the
// window at or above the threshold), healthy.
func (h *Handler) computeHealthStatus() healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.healthConfig != nil && h.healthConfig.DegradedWindow > 0 && h.healthConfig.DegradedErrorPct > 0 {
		errs, total := traffic.ErrorRate(h.healthConfig.DegradedWindow)
		if total > 0 && float64(errs)*100/float64(total) >= float64(h.healthConfig.DegradedErrorPct) {
			return healthResult{"degraded", http.StatusServiceUnavailable, "error_rate_breach"}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}
