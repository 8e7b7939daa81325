package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// --- Mocks ---
// Shared test doubles for the WeatherService, insightGenerator and Cache
// interfaces, plus a config constructor wired entirely from mocks.

// mockWeatherService is a mock for the WeatherService interface.
type mockWeatherService struct {
	FetchFunc func(ctx context.Context, cities []string, units string) ([]CityWeather, error)
}

func (m *mockWeatherService) Fetch(ctx context.Context, cities []string, units string) ([]CityWeather, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, cities, units)
	}
	return nil, errors.New("FetchFunc not implemented in mock")
}

// mockGateway is a mock for the insightGenerator interface.
type mockGateway struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, string)
}

func (m *mockGateway) Generate(ctx context.Context, prompt string) (string, string) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", ""
}

// mockCache is a mock for the Cache interface. The zero value behaves like
// an empty cache.
type mockCache struct {
	getFunc   func(ctx context.Context, key string) (string, error)
	setFunc   func(ctx context.Context, key string, value any, expiration time.Duration) error
	flushFunc func(ctx context.Context) error
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return "", redis.Nil
}

func (m *mockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockCache) Flush(ctx context.Context) error {
	if m.flushFunc != nil {
		return m.flushFunc(ctx)
	}
	return nil
}

// newTestConfig builds an apiConfig with a silent logger and mock
// collaborators, ready for individual fields to be overridden.
func newTestConfig() *apiConfig {
	return &apiConfig{
		weather:    &mockWeatherService{},
		gateway:    &mockGateway{},
		cache:      &mockCache{},
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// --- Fixture helpers ---

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// testRows returns two realistic weather rows for prompt and insight tests.
func testRows() []CityWeather {
	return []CityWeather{
		{
			City:        "New York",
			Temperature: floatPtr(64),
			Humidity:    intPtr(55),
			WindSpeed:   floatPtr(9),
			Pressure:    floatPtr(1018),
			Condition:   "Partly cloudy",
		},
		{
			City:        "Chicago",
			Temperature: floatPtr(48),
			Humidity:    intPtr(62),
			WindSpeed:   floatPtr(18),
			Pressure:    floatPtr(1012),
			Condition:   "Overcast",
		},
	}
}
