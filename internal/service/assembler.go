package service

import (
	"math"
	"strings"
	"time"

	"github.com/kjstillabower/geoweather-service/internal/models"
)

const (
	hotThreshold  = 25.0
	coldThreshold = 10.0
)

var conditionMap = map[string]models.Condition{
	"Clear":        models.ConditionClear,
	"Clouds":       models.ConditionCloudy,
	"Rain":         models.ConditionRain,
	"Drizzle":      models.ConditionRain,
	"Thunderstorm": models.ConditionThunderstorm,
	"Snow":         models.ConditionSnow,
	"Mist":         models.ConditionFoggy,
	"Fog":          models.ConditionFoggy,
	"Smoke":        models.ConditionFoggy,
	"Haze":         models.ConditionFoggy,
}

// Assemble merges the coordinate, the resolved location and the raw observation into the
// response body. The location always echoes coord; now becomes the report timestamp.
func Assemble(coord models.Coordinate, loc models.Location, obs models.Observation, now time.Time) models.WeatherReport {
	loc.Latitude = coord.Latitude
	loc.Longitude = coord.Longitude

	return models.WeatherReport{
		Location: loc,
		Current: models.Current{
			Condition: MapCondition(obs.Main),
			Temperature: models.Temperature{
				Celsius:    roundHalfUp(obs.Temperature),
				Fahrenheit: ToFahrenheit(obs.Temperature),
				Category:   CategorizeTemperature(obs.Temperature),
			},
			Description: obs.Description,
			Humidity:    obs.Humidity,
			WindSpeed:   obs.WindSpeed,
			Pressure:    obs.Pressure,
			Timestamp:   now,
		},
		Alerts: models.NoAlerts(),
	}
}

// CategorizeTemperature buckets a Celsius reading: >= 25 hot, <= 10 cold, otherwise moderate.
func CategorizeTemperature(celsius float64) models.TemperatureCategory {
	switch {
	case celsius >= hotThreshold:
		return models.TemperatureHot
	case celsius <= coldThreshold:
		return models.TemperatureCold
	default:
		return models.TemperatureModerate
	}
}

// ToFahrenheit converts the raw Celsius value and rounds the result, so it is not derived
// from the rounded Celsius figure.
func ToFahrenheit(celsius float64) int {
	return roundHalfUp(celsius*9/5 + 32)
}

// MapCondition normalizes a provider condition group; unknown groups are lower-cased.
func MapCondition(main string) models.Condition {
	if c, ok := conditionMap[main]; ok {
		return c
	}
	return models.Condition(strings.ToLower(main))
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
