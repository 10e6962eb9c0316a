package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kjstillabower/geoweather-service/internal/cache"
	"github.com/kjstillabower/geoweather-service/internal/client"
	"github.com/kjstillabower/geoweather-service/internal/models"
)

type mockWeatherClient struct {
	mu    sync.Mutex
	obs   models.Observation
	err   error
	calls int
	delay time.Duration
}

func (m *mockWeatherClient) GetCurrentWeather(ctx context.Context, coord models.Coordinate) (models.Observation, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.obs, m.err
}

func (m *mockWeatherClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockGeocoder struct {
	mu    sync.Mutex
	loc   models.Location
	calls int
}

func (m *mockGeocoder) ReverseGeocode(ctx context.Context, coord models.Coordinate) models.Location {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.loc.City == "" {
		return models.UnknownLocation(coord)
	}
	return m.loc
}

type mockCache struct {
	data   map[string]models.WeatherReport
	getErr error
	setErr error
}

func (m *mockCache) Get(ctx context.Context, key string) (models.WeatherReport, bool, error) {
	if m.getErr != nil {
		return models.WeatherReport{}, false, m.getErr
	}
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *mockCache) Set(ctx context.Context, key string, report models.WeatherReport) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.data == nil {
		m.data = make(map[string]models.WeatherReport)
	}
	m.data[key] = report
	return nil
}

var (
	newYork    = models.Coordinate{Latitude: 40.7128, Longitude: -74.006}
	fixedNow   = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clearSky22 = models.Observation{Temperature: 22, Humidity: 65, Pressure: 1012, Main: "Clear", Description: "clear sky", WindSpeed: 3.5}
)

func TestWeatherService_GetWeather_CacheHit(t *testing.T) {
	cached := models.WeatherReport{Location: models.Location{City: "Cached"}}
	mc := &mockCache{data: map[string]models.WeatherReport{newYork.Key(): cached}}
	wc := &mockWeatherClient{err: errors.New("should not be called")}
	gc := &mockGeocoder{}
	svc := NewWeatherService(wc, gc, mc)

	got, err := svc.GetWeather(context.Background(), newYork)
	if err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	if got.Location.City != "Cached" {
		t.Errorf("City = %q, want Cached", got.Location.City)
	}
	if wc.callCount() != 0 || gc.calls != 0 {
		t.Errorf("upstream calls = %d/%d, want 0/0 on cache hit", wc.callCount(), gc.calls)
	}
}

func TestWeatherService_GetWeather_CacheMiss_UpstreamSuccess(t *testing.T) {
	mc := &mockCache{}
	wc := &mockWeatherClient{obs: clearSky22}
	gc := &mockGeocoder{loc: models.Location{City: "New York", Country: "US"}}
	svc := NewWeatherService(wc, gc, mc).WithClock(func() time.Time { return fixedNow })

	got, err := svc.GetWeather(context.Background(), newYork)
	if err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}

	if got.Location.City != "New York" || got.Location.Latitude != 40.7128 {
		t.Errorf("Location = %+v", got.Location)
	}
	if got.Current.Temperature != (models.Temperature{Celsius: 22, Fahrenheit: 72, Category: models.TemperatureModerate}) {
		t.Errorf("Temperature = %+v", got.Current.Temperature)
	}
	if got.Current.Condition != models.ConditionClear {
		t.Errorf("Condition = %q, want clear", got.Current.Condition)
	}
	if !got.Current.Timestamp.Equal(fixedNow) {
		t.Errorf("Timestamp = %v, want %v", got.Current.Timestamp, fixedNow)
	}

	if _, ok := mc.data[newYork.Key()]; !ok {
		t.Error("report was not cached under the coordinate key")
	}
}

// TestWeatherService_GetWeather_UpstreamFailure verifies weather failures abort the request,
// skip geocoding and leave the cache untouched.
func TestWeatherService_GetWeather_UpstreamFailure(t *testing.T) {
	upErr := &client.UpstreamError{Provider: client.ProviderWeather, Message: "OpenWeatherMap API Error: Invalid API key", Err: client.ErrInvalidAPIKey}
	mc := &mockCache{}
	wc := &mockWeatherClient{err: upErr}
	gc := &mockGeocoder{}
	svc := NewWeatherService(wc, gc, mc)

	_, err := svc.GetWeather(context.Background(), newYork)
	if err == nil {
		t.Fatal("GetWeather() error = nil, want error")
	}

	var got *client.UpstreamError
	if !errors.As(err, &got) || got.Message != upErr.Message {
		t.Errorf("GetWeather() error = %v, want wrapped UpstreamError", err)
	}
	if gc.calls != 0 {
		t.Errorf("geocoder calls = %d, want 0", gc.calls)
	}
	if len(mc.data) != 0 {
		t.Errorf("cache entries = %d, want 0", len(mc.data))
	}
}

func TestWeatherService_GetWeather_GeocodingFallback(t *testing.T) {
	svc := NewWeatherService(&mockWeatherClient{obs: clearSky22}, &mockGeocoder{}, &mockCache{})

	got, err := svc.GetWeather(context.Background(), newYork)
	if err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	if got.Location.City != models.Unknown || got.Location.Country != models.Unknown {
		t.Errorf("Location = %+v, want Unknown placeholder", got.Location)
	}
}

func TestWeatherService_GetWeather_CacheGetError(t *testing.T) {
	mc := &mockCache{getErr: errors.New("cache unavailable")}
	wc := &mockWeatherClient{obs: clearSky22}
	svc := NewWeatherService(wc, &mockGeocoder{}, mc)

	if _, err := svc.GetWeather(context.Background(), newYork); err != nil {
		t.Fatalf("GetWeather() error = %v, want fallthrough to upstream", err)
	}
	if wc.callCount() != 1 {
		t.Errorf("upstream calls = %d, want 1", wc.callCount())
	}
}

func TestWeatherService_GetWeather_CacheSetError(t *testing.T) {
	mc := &mockCache{setErr: errors.New("cache full")}
	svc := NewWeatherService(&mockWeatherClient{obs: clearSky22}, &mockGeocoder{}, mc)

	if _, err := svc.GetWeather(context.Background(), newYork); err != nil {
		t.Fatalf("GetWeather() error = %v, want success despite cache set failure", err)
	}
}

// TestWeatherService_GetWeather_ExpiryRefetches runs against the real cache with a fake clock:
// a second call inside the window is served from cache, one after it goes upstream again.
func TestWeatherService_GetWeather_ExpiryRefetches(t *testing.T) {
	now := fixedNow
	clock := func() time.Time { return now }
	c := cache.NewInMemoryCache(5 * time.Minute).WithClock(clock)
	wc := &mockWeatherClient{obs: clearSky22}
	svc := NewWeatherService(wc, &mockGeocoder{}, c).WithClock(clock)
	ctx := context.Background()

	if _, err := svc.GetWeather(ctx, newYork); err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	now = now.Add(4 * time.Minute)
	if _, err := svc.GetWeather(ctx, models.Coordinate{Latitude: 40.7128, Longitude: -74.0060}); err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	if wc.callCount() != 1 {
		t.Fatalf("upstream calls = %d, want 1 within the window", wc.callCount())
	}

	now = now.Add(2 * time.Minute)
	got, err := svc.GetWeather(ctx, newYork)
	if err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	if wc.callCount() != 2 {
		t.Errorf("upstream calls = %d, want 2 after the window", wc.callCount())
	}
	if !got.Current.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want refreshed %v", got.Current.Timestamp, now)
	}
}

// TestWeatherService_GetWeather_ConcurrentMisses documents that concurrent misses for one
// coordinate each call upstream.
func TestWeatherService_GetWeather_ConcurrentMisses(t *testing.T) {
	wc := &mockWeatherClient{obs: clearSky22, delay: 50 * time.Millisecond}
	svc := NewWeatherService(wc, &mockGeocoder{}, cache.NewInMemoryCache(time.Minute))

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.GetWeather(context.Background(), newYork); err != nil {
				t.Errorf("GetWeather() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if wc.callCount() != 3 {
		t.Errorf("upstream calls = %d, want 3 (no coalescing)", wc.callCount())
	}
}
