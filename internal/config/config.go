package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/kjstillabower/geoweather-service/internal/models"
)

const (
	defaultPort            = "3000"
	defaultWeatherAPIURL   = "https://api.openweathermap.org/data/2.5/weather"
	defaultGeocodingAPIURL = "https://api.openweathermap.org/geo/1.0/reverse"
)

// Config holds service configuration loaded from .env, YAML and the environment.
type Config struct {
	ServerPort string `validate:"required,numeric"`
	Version    string

	WeatherAPIKey   string        `validate:"required"`
	WeatherAPIURL   string        `validate:"required,url"`
	GeocodingAPIURL string        `validate:"required,url"`
	UpstreamTimeout time.Duration `validate:"gt=0"`

	RequestTimeout  time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	CacheTTL        time.Duration    `validate:"gt=0"`
	WarmCoordinates []WarmCoordinate `validate:"dive"`
	WarmInterval    time.Duration    `validate:"gte=0"`
	WarmTimeout     time.Duration    `validate:"gt=0"`

	RateLimitRPS   int `validate:"gt=0"`
	RateLimitBurst int `validate:"gt=0"`

	DegradedWindow   time.Duration `validate:"gt=0"`
	DegradedErrorPct int           `validate:"gte=1,lte=100"`

	CircuitBreakerEnabled          bool
	CircuitBreakerFailureThreshold uint32        `validate:"gte=1"`
	CircuitBreakerOpenTimeout      time.Duration `validate:"gt=0"`
	CircuitBreakerHalfOpenRequests uint32        `validate:"gte=1"`
}

// WarmCoordinate is a location refreshed in the background by the cache warmer.
type WarmCoordinate struct {
	Lat float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `yaml:"lon" validate:"gte=-180,lte=180"`
}

// WarmTargets returns the warm coordinates as domain coordinates.
func (c *Config) WarmTargets() []models.Coordinate {
	coords := make([]models.Coordinate, 0, len(c.WarmCoordinates))
	for _, wc := range c.WarmCoordinates {
		coords = append(coords, models.Coordinate{Latitude: wc.Lat, Longitude: wc.Lon})
	}
	return coords
}

type fileConfig struct {
	Server struct {
		Port            string `yaml:"port"`
		RequestTimeout  string `yaml:"request_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	WeatherAPI struct {
		URL          string `yaml:"url"`
		GeocodingURL string `yaml:"geocoding_url"`
		Timeout      string `yaml:"timeout"`
	} `yaml:"weather_api"`

	Cache struct {
		TTL             string           `yaml:"ttl"`
		WarmCoordinates []WarmCoordinate `yaml:"warm_coordinates"`
		WarmInterval    string           `yaml:"warm_interval"`
		WarmTimeout     string           `yaml:"warm_timeout"`
	} `yaml:"cache"`

	RateLimit struct {
		RPS   int `yaml:"rps"`
		Burst int `yaml:"burst"`
	} `yaml:"rate_limit"`

	Health struct {
		DegradedWindow   string `yaml:"degraded_window"`
		DegradedErrorPct int    `yaml:"degraded_error_pct"`
	} `yaml:"health"`

	CircuitBreaker struct {
		Enabled          bool   `yaml:"enabled"`
		FailureThreshold uint32 `yaml:"failure_threshold"`
		OpenTimeout      string `yaml:"open_timeout"`
		HalfOpenRequests uint32 `yaml:"half_open_requests"`
	} `yaml:"circuit_breaker"`
}

// envOverrides are read with envconfig after the YAML file. Empty values keep the file setting.
type envOverrides struct {
	Port            string        `envconfig:"PORT"`
	APIKey          string        `envconfig:"OPENWEATHER_API_KEY"`
	WeatherAPIURL   string        `envconfig:"WEATHER_API_URL"`
	GeocodingAPIURL string        `envconfig:"GEOCODING_API_URL"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT"`
	Version         string        `envconfig:"APP_VERSION"`
}

type secretsFile struct {
	WeatherAPIKey string `yaml:"weather_api_key"`
}

// Load reads an optional .env, then config/{ENV_NAME}.yaml (default dev), then environment
// overrides. The API key comes from OPENWEATHER_API_KEY or config/secrets.yaml. Call from
// project root.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	var fc fileConfig
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := fromFile(fc)

	var ov envOverrides
	if err := envconfig.Process("", &ov); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	applyOverrides(cfg, ov)

	if cfg.WeatherAPIKey == "" {
		key, err := readSecretsKey(filepath.Join(cwd, "config", "secrets.yaml"))
		if err != nil {
			return nil, err
		}
		cfg.WeatherAPIKey = key
	}
	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY required (set env or config/secrets.yaml weather_api_key)")
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromFile(fc fileConfig) *Config {
	cfg := &Config{
		ServerPort:      orDefault(fc.Server.Port, defaultPort),
		Version:         "dev",
		WeatherAPIURL:   orDefault(fc.WeatherAPI.URL, defaultWeatherAPIURL),
		GeocodingAPIURL: orDefault(fc.WeatherAPI.GeocodingURL, defaultGeocodingAPIURL),
		UpstreamTimeout: parseDuration(fc.WeatherAPI.Timeout, 5*time.Second),
		RequestTimeout:  parseDuration(fc.Server.RequestTimeout, 10*time.Second),
		ShutdownTimeout: parseDuration(fc.Server.ShutdownTimeout, 30*time.Second),

		CacheTTL:        parseDuration(fc.Cache.TTL, 5*time.Minute),
		WarmCoordinates: fc.Cache.WarmCoordinates,
		WarmInterval:    parseDurationOrZero(fc.Cache.WarmInterval, 0),
		WarmTimeout:     parseDuration(fc.Cache.WarmTimeout, 30*time.Second),

		RateLimitRPS:   fc.RateLimit.RPS,
		RateLimitBurst: fc.RateLimit.Burst,

		DegradedWindow:   parseDuration(fc.Health.DegradedWindow, 60*time.Second),
		DegradedErrorPct: fc.Health.DegradedErrorPct,

		CircuitBreakerEnabled:          fc.CircuitBreaker.Enabled,
		CircuitBreakerFailureThreshold: fc.CircuitBreaker.FailureThreshold,
		CircuitBreakerOpenTimeout:      parseDuration(fc.CircuitBreaker.OpenTimeout, 30*time.Second),
		CircuitBreakerHalfOpenRequests: fc.CircuitBreaker.HalfOpenRequests,
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 250
	}
	if cfg.DegradedErrorPct <= 0 {
		cfg.DegradedErrorPct = 5
	}
	if cfg.CircuitBreakerFailureThreshold == 0 {
		cfg.CircuitBreakerFailureThreshold = 5
	}
	if cfg.CircuitBreakerHalfOpenRequests == 0 {
		cfg.CircuitBreakerHalfOpenRequests = 1
	}
	return cfg
}

func applyOverrides(cfg *Config, ov envOverrides) {
	if ov.Port != "" {
		cfg.ServerPort = ov.Port
	}
	if ov.APIKey != "" {
		cfg.WeatherAPIKey = ov.APIKey
	}
	if ov.WeatherAPIURL != "" {
		cfg.WeatherAPIURL = ov.WeatherAPIURL
	}
	if ov.GeocodingAPIURL != "" {
		cfg.GeocodingAPIURL = ov.GeocodingAPIURL
	}
	if ov.CacheTTL > 0 {
		cfg.CacheTTL = ov.CacheTTL
	}
	if ov.UpstreamTimeout > 0 {
		cfg.UpstreamTimeout = ov.UpstreamTimeout
	}
	if ov.Version != "" {
		cfg.Version = ov.Version
	}
}

func readSecretsKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read secrets file: %w", err)
	}
	var sec secretsFile
	if err := yaml.Unmarshal(data, &sec); err != nil {
		return "", fmt.Errorf("parse secrets file: %w", err)
	}
	return strings.TrimSpace(sec.WeatherAPIKey), nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty string or parse error.
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

var structValidator = validator.New()

// validate runs struct validation and keeps the request deadline above the upstream timeout
// so a slow provider answer still reaches the handler.
func validate(cfg *Config) error {
	if cfg.RequestTimeout <= cfg.UpstreamTimeout {
		cfg.RequestTimeout = cfg.UpstreamTimeout + time.Second
	}
	if err := structValidator.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
