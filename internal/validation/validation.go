package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kjstillabower/geoweather-service/internal/models"
)

// Kind classifies a coordinate validation failure.
type Kind string

const (
	KindRequired Kind = "required"
	KindFormat   Kind = "format"
	KindRange    Kind = "range"
)

// ValidationError is returned by ValidateCoordinates. Message is safe to show to clients.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches another *ValidationError of the same Kind, so callers can use the
// Err* values below with errors.Is.
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrRequired  = &ValidationError{Kind: KindRequired, Message: "Latitude and longitude are required"}
	ErrFormat    = &ValidationError{Kind: KindFormat, Message: "Invalid coordinates format"}
	ErrLatitude  = &ValidationError{Kind: KindRange, Message: "Latitude must be between -90 and 90 degrees"}
	ErrLongitude = &ValidationError{Kind: KindRange, Message: "Longitude must be between -180 and 180 degrees"}
)

// ValidateCoordinates checks presence, format and range of a raw latitude/longitude pair.
//
// Values may be strings (query parameters) or numbers. A value counts as missing when it is
// nil, an empty string, false, or a numeric zero; the string "0" is present. This means
// ValidateCoordinates(0, 0) fails with KindRequired while lat=0&lon=0 over HTTP is accepted.
func ValidateCoordinates(lat, lon any) (models.Coordinate, error) {
	if isMissing(lat) || isMissing(lon) {
		return models.Coordinate{}, ErrRequired
	}

	latitude, err := parseNumber(lat)
	if err != nil {
		return models.Coordinate{}, ErrFormat
	}
	longitude, err := parseNumber(lon)
	if err != nil {
		return models.Coordinate{}, ErrFormat
	}

	if latitude < -90 || latitude > 90 {
		return models.Coordinate{}, ErrLatitude
	}
	if longitude < -180 || longitude > 180 {
		return models.Coordinate{}, ErrLongitude
	}
	return models.Coordinate{Latitude: latitude, Longitude: longitude}, nil
}

func isMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case float32:
		return x == 0
	case int:
		return x == 0
	case int32:
		return x == 0
	case int64:
		return x == 0
	}
	return false
}

func parseNumber(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	default:
		return 0, fmt.Errorf("unsupported coordinate type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("coordinate is not finite")
	}
	return f, nil
}
