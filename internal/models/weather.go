package models

import (
	"strconv"
	"time"
)

// Unknown is the placeholder city and country used when reverse geocoding yields nothing.
const Unknown = "Unknown"

type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionCloudy       Condition = "cloudy"
	ConditionRain         Condition = "rain"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionSnow         Condition = "snow"
	ConditionFoggy        Condition = "foggy"
)

type TemperatureCategory string

const (
	TemperatureHot      TemperatureCategory = "hot"
	TemperatureModerate TemperatureCategory = "moderate"
	TemperatureCold     TemperatureCategory = "cold"
)

// Coordinate is a validated latitude/longitude pair.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Key returns the canonical cache key for the coordinate. Values are written with the
// shortest exact decimal form, so "40", "40.0" and "40.000" map to the same key.
func (c Coordinate) Key() string {
	return formatCoord(c.Latitude) + "," + formatCoord(c.Longitude)
}

func formatCoord(v float64) string {
	if v == 0 {
		v = 0 // drops the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	State     string  `json:"state,omitempty"`
}

// UnknownLocation returns the placeholder location for coord.
func UnknownLocation(coord Coordinate) Location {
	return Location{
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		City:      Unknown,
		Country:   Unknown,
	}
}

type Temperature struct {
	Celsius    int                 `json:"celsius"`
	Fahrenheit int                 `json:"fahrenheit"`
	Category   TemperatureCategory `json:"category"`
}

type Current struct {
	Condition   Condition   `json:"condition"`
	Temperature Temperature `json:"temperature"`
	Description string      `json:"description"`
	Humidity    int         `json:"humidity"`
	WindSpeed   float64     `json:"windSpeed"`
	Pressure    float64     `json:"pressure"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Alerts is reserved for severe-weather alerts; it is always empty for now.
type Alerts struct {
	HasAlerts bool             `json:"hasAlerts"`
	Alerts    []map[string]any `json:"alerts"`
}

// NoAlerts returns an empty Alerts value that serializes alerts as [] rather than null.
func NoAlerts() Alerts {
	return Alerts{HasAlerts: false, Alerts: []map[string]any{}}
}

// WeatherReport is the assembled response served by GET /api/weather.
type WeatherReport struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
	Alerts   Alerts   `json:"alerts"`
}

// Observation holds the raw fields returned by the current-conditions endpoint.
type Observation struct {
	Temperature float64
	Humidity    int
	Pressure    float64
	Main        string // provider condition group, e.g. "Clouds"
	Description string
	WindSpeed   float64
	City        string
	Country     string
}
