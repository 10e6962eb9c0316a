// Package testhelpers provides fake OpenWeatherMap endpoints and integration-test wiring.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeAPIKey passes the client's API key checks.
const FakeAPIKey = "test-api-key-12345"

// NewYorkWeather is a current-conditions body for 22 °C and clear sky in New York.
func NewYorkWeather() map[string]interface{} {
	return map[string]interface{}{
		"name": "New York",
		"sys":  map[string]interface{}{"country": "US"},
		"main": map[string]interface{}{
			"temp":     22.0,
			"humidity": 65,
			"pressure": 1012,
		},
		"weather": []map[string]interface{}{
			{"main": "Clear", "description": "clear sky"},
		},
		"wind": map[string]interface{}{"speed": 3.5},
	}
}

// NewYorkPlaces is a reverse geocoding body resolving to New York, US.
func NewYorkPlaces() []map[string]interface{} {
	return []map[string]interface{}{
		{"name": "New York", "country": "US", "lat": 40.7127, "lon": -74.0059},
	}
}

type fakeEndpoint struct {
	status int
	body   interface{}
	calls  int
}

// FakeOpenWeather serves the current-conditions and reverse geocoding endpoints from
// httptest servers. Responses can be changed between requests.
type FakeOpenWeather struct {
	Weather   *httptest.Server
	Geocoding *httptest.Server

	mu        sync.Mutex
	weather   fakeEndpoint
	geocoding fakeEndpoint
}

// NewFakeOpenWeather starts both servers with the New York fixtures. They are closed
// when the test finishes.
func NewFakeOpenWeather(t testing.TB) *FakeOpenWeather {
	t.Helper()
	f := &FakeOpenWeather{
		weather:   fakeEndpoint{status: http.StatusOK, body: NewYorkWeather()},
		geocoding: fakeEndpoint{status: http.StatusOK, body: NewYorkPlaces()},
	}
	f.Weather = httptest.NewServer(f.serve(&f.weather))
	f.Geocoding = httptest.NewServer(f.serve(&f.geocoding))
	t.Cleanup(func() {
		f.Weather.Close()
		f.Geocoding.Close()
	})
	return f
}

func (f *FakeOpenWeather) serve(ep *fakeEndpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ep.calls++
		status, body := ep.status, ep.body
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

// SetWeather changes the current-conditions response.
func (f *FakeOpenWeather) SetWeather(status int, body interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weather.status, f.weather.body = status, body
}

// SetGeocoding changes the reverse geocoding response.
func (f *FakeOpenWeather) SetGeocoding(status int, body interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geocoding.status, f.geocoding.body = status, body
}

func (f *FakeOpenWeather) WeatherCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.weather.calls
}

func (f *FakeOpenWeather) GeocodingCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.geocoding.calls
}
