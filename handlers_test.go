package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerWeather(t *testing.T) {
	cfg := newTestConfig()
	cfg.weather = &mockWeatherService{FetchFunc: func(ctx context.Context, cities []string, units string) ([]CityWeather, error) {
		assert.Equal(t, []string{"New York", "Chicago"}, cities)
		assert.Equal(t, "m", units)
		return testRows(), nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/weather?cities=New+York,+Chicago&units=m", nil)
	rr := httptest.NewRecorder()
	cfg.handlerWeather(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp WeatherResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "m", resp.Units)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "New York", resp.Rows[0].City)
}

func TestHandlerWeather_MethodNotAllowed(t *testing.T) {
	cfg := newTestConfig()

	req := httptest.NewRequest(http.MethodPost, "/api/weather", nil)
	rr := httptest.NewRecorder()
	cfg.handlerWeather(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandlerWeather_InvalidUnits(t *testing.T) {
	cfg := newTestConfig()

	req := httptest.NewRequest(http.MethodGet, "/api/weather?units=kelvin", nil)
	rr := httptest.NewRecorder()
	cfg.handlerWeather(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "Units must be one of")
}

func TestHandlerWeather_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name         string
		fetchErr     error
		expectedCode int
	}{
		{name: "No cities", fetchErr: ErrNoCities, expectedCode: http.StatusBadRequest},
		{name: "Missing API key", fetchErr: ErrMissingAPIKey, expectedCode: http.StatusInternalServerError},
		{name: "Upstream gave no data", fetchErr: ErrNoWeatherData, expectedCode: http.StatusBadGateway},
		{name: "Unknown error", fetchErr: errors.New("boom"), expectedCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.weather = &mockWeatherService{FetchFunc: func(ctx context.Context, cities []string, units string) ([]CityWeather, error) {
				return nil, tc.fetchErr
			}}

			req := httptest.NewRequest(http.MethodGet, "/api/weather?cities=Nowhere", nil)
			rr := httptest.NewRecorder()
			cfg.handlerWeather(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func TestHandlerInsights(t *testing.T) {
	cfg := newTestConfig()
	cfg.weather = &mockWeatherService{FetchFunc: func(ctx context.Context, cities []string, units string) ([]CityWeather, error) {
		return testRows(), nil
	}}
	cfg.gateway = &mockGateway{GenerateFunc: func(ctx context.Context, prompt string) (string, string) {
		return threeSectionReply, "openai"
	}}

	body := `{"cities": ["New York", "Chicago"], "units": "f"}`
	req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(body))
	rr := httptest.NewRecorder()
	cfg.handlerInsights(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var insight Insight
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &insight))
	assert.NotEmpty(t, insight.Summary)
	assert.NotEmpty(t, insight.Training)
	assert.False(t, insight.Sample)
	assert.NotZero(t, insight.RequestID)
}

func TestHandlerInsights_MethodNotAllowed(t *testing.T) {
	cfg := newTestConfig()

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	rr := httptest.NewRecorder()
	cfg.handlerInsights(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandlerInsights_InvalidBody(t *testing.T) {
	cfg := newTestConfig()

	req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	cfg.handlerInsights(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerInsights_InvalidUnits(t *testing.T) {
	cfg := newTestConfig()

	body := `{"cities": ["New York"], "units": "x"}`
	req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(body))
	rr := httptest.NewRecorder()
	cfg.handlerInsights(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerInsights_SampleRequest(t *testing.T) {
	cfg := newTestConfig()
	cfg.weather = &mockWeatherService{FetchFunc: func(ctx context.Context, cities []string, units string) ([]CityWeather, error) {
		return testRows(), nil
	}}
	cfg.gateway = &mockGateway{GenerateFunc: func(ctx context.Context, prompt string) (string, string) {
		t.Error("no provider should be contacted for a sample request")
		return "", ""
	}}

	body := `{"cities": ["New York"], "sample": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(body))
	rr := httptest.NewRecorder()
	cfg.handlerInsights(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var insight Insight
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &insight))
	assert.True(t, insight.Sample)
	assert.Empty(t, insight.Error)
}

func TestHandlerInsights_WeatherFailureIsAnHTTPError(t *testing.T) {
	cfg := newTestConfig()
	cfg.weather = &mockWeatherService{FetchFunc: func(ctx context.Context, cities []string, units string) ([]CityWeather, error) {
		return nil, ErrNoWeatherData
	}}

	body := `{"cities": ["Nowhere"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(body))
	rr := httptest.NewRecorder()
	cfg.handlerInsights(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestHandlerConfig(t *testing.T) {
	cfg := newTestConfig()
	cfg.devMode = true
	cfg.openAIKey = "set"
	cfg.ollamaKey = "   "

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rr := httptest.NewRecorder()
	cfg.handlerConfig(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ConfigResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.DevMode)
	assert.True(t, resp.OpenAIConfigured)
	assert.False(t, resp.OllamaCloudConfigured)
	assert.Equal(t, defaultCities, resp.DefaultCities)
}

func TestHandlerResetCache(t *testing.T) {
	cfg := newTestConfig()
	flushed := false
	cfg.cache = &mockCache{flushFunc: func(ctx context.Context) error {
		flushed = true
		return nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/dev/reset-cache", nil)
	rr := httptest.NewRecorder()
	cfg.handlerResetCache(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, flushed)
}

func TestHandlerResetCache_FlushError(t *testing.T) {
	cfg := newTestConfig()
	cfg.cache = &mockCache{flushFunc: func(ctx context.Context) error {
		return errors.New("redis down")
	}}

	req := httptest.NewRequest(http.MethodPost, "/dev/reset-cache", nil)
	rr := httptest.NewRecorder()
	cfg.handlerResetCache(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestSplitCities(t *testing.T) {
	assert.Nil(t, splitCities(""))
	assert.Nil(t, splitCities("  ,  "))
	assert.Equal(t, []string{"New York", "Chicago"}, splitCities(" New York , Chicago "))
}

func TestValidUnits(t *testing.T) {
	units, ok := validUnits("")
	assert.True(t, ok)
	assert.Equal(t, "f", units)

	for _, valid := range []string{"f", "m", "s"} {
		units, ok := validUnits(valid)
		assert.True(t, ok)
		assert.Equal(t, valid, units)
	}

	_, ok = validUnits("kelvin")
	assert.False(t, ok)
}
