package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestWeatherService(apiKey string, server *httptest.Server) *WeatherstackService {
	return NewWeatherstackService(
		apiKey,
		server.URL,
		server.Client(),
		0, // no pause between cities in tests
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func weatherstackBody(temp float64, condition string) string {
	return fmt.Sprintf(`{"current": {"temperature": %g, "humidity": 55, "wind_speed": 9, "pressure": 1018, "weather_descriptions": [%q, "Mist"]}}`, temp, condition)
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_key") != "dummy-key" {
			t.Errorf("expected access_key query parameter to be set")
		}
		if r.URL.Query().Get("units") != "f" {
			t.Errorf("expected units query parameter to be forwarded")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, weatherstackBody(64, "Partly cloudy"))
	}))
	defer server.Close()

	service := newTestWeatherService("dummy-key", server)

	rows, err := service.Fetch(context.Background(), []string{"New York", " Chicago "}, "f")
	if err != nil {
		t.Fatalf("Fetch() returned an unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].City != "New York" {
		t.Errorf("Expected first row city 'New York', got '%s'", rows[0].City)
	}
	if rows[1].City != "Chicago" {
		t.Errorf("Expected trimmed city 'Chicago', got '%s'", rows[1].City)
	}
	if rows[0].Temperature == nil || *rows[0].Temperature != 64 {
		t.Errorf("Expected temperature 64, got %v", rows[0].Temperature)
	}
	if rows[0].Condition != "Partly cloudy" {
		t.Errorf("Expected first weather description only, got '%s'", rows[0].Condition)
	}
}

func TestFetch_MissingAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued without an API key")
	}))
	defer server.Close()

	service := newTestWeatherService("   ", server)

	_, err := service.Fetch(context.Background(), []string{"New York"}, "f")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestFetch_EmptyCities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for an empty city list")
	}))
	defer server.Close()

	service := newTestWeatherService("dummy-key", server)

	_, err := service.Fetch(context.Background(), nil, "f")
	if !errors.Is(err, ErrNoCities) {
		t.Errorf("Expected ErrNoCities, got %v", err)
	}
}

func TestFetch_SkipsFailedCities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("query") {
		case "Nowhere":
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, `{"success": false, "error": {"code": 615, "info": "Your API request failed."}}`)
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, weatherstackBody(48, "Overcast"))
		}
	}))
	defer server.Close()

	service := newTestWeatherService("dummy-key", server)

	rows, err := service.Fetch(context.Background(), []string{"Chicago", "Nowhere", "Boston"}, "f")
	if err != nil {
		t.Fatalf("Fetch() returned an unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows after skipping the failed city, got %d", len(rows))
	}
	if rows[0].City != "Chicago" || rows[1].City != "Boston" {
		t.Errorf("Expected input order minus failures, got %q then %q", rows[0].City, rows[1].City)
	}
}

func TestFetch_AllCitiesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"success": false, "error": {"code": 615, "info": "Your API request failed."}}`)
	}))
	defer server.Close()

	service := newTestWeatherService("dummy-key", server)

	_, err := service.Fetch(context.Background(), []string{"Nowhere"}, "f")
	if !errors.Is(err, ErrNoWeatherData) {
		t.Fatalf("Expected ErrNoWeatherData, got %v", err)
	}
	if !strings.Contains(err.Error(), "Your API request failed.") {
		t.Errorf("Expected the last per-city diagnostic in the error, got %q", err.Error())
	}
}

func TestFetch_Non200StatusUsesHTTPDiagnostic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := newTestWeatherService("dummy-key", server)

	_, err := service.Fetch(context.Background(), []string{"New York"}, "f")
	if !errors.Is(err, ErrNoWeatherData) {
		t.Fatalf("Expected ErrNoWeatherData, got %v", err)
	}
	if !strings.Contains(err.Error(), "non-200") {
		t.Errorf("Expected status diagnostic in the error, got %q", err.Error())
	}
}

func TestFetch_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"current": [invalid]`)
	}))
	defer server.Close()

	service := newTestWeatherService("dummy-key", server)

	_, err := service.Fetch(context.Background(), []string{"New York"}, "f")
	if !errors.Is(err, ErrNoWeatherData) {
		t.Errorf("Expected ErrNoWeatherData for malformed payload, got %v", err)
	}
}

func TestFetch_MissingCurrentSection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"request": {"query": "New York"}}`)
	}))
	defer server.Close()

	service := newTestWeatherService("dummy-key", server)

	_, err := service.Fetch(context.Background(), []string{"New York"}, "f")
	if !errors.Is(err, ErrNoWeatherData) {
		t.Fatalf("Expected ErrNoWeatherData, got %v", err)
	}
	if !strings.Contains(err.Error(), "no current weather") {
		t.Errorf("Expected missing-section diagnostic, got %q", err.Error())
	}
}

func TestFetch_AbsentFieldsStayNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"current": {"temperature": 21, "weather_descriptions": []}}`)
	}))
	defer server.Close()

	service := newTestWeatherService("dummy-key", server)

	rows, err := service.Fetch(context.Background(), []string{"Lima"}, "m")
	if err != nil {
		t.Fatalf("Fetch() returned an unexpected error: %v", err)
	}
	if rows[0].Humidity != nil {
		t.Errorf("Expected nil humidity for absent field, got %v", *rows[0].Humidity)
	}
	if rows[0].Condition != "" {
		t.Errorf("Expected empty condition for empty descriptions, got %q", rows[0].Condition)
	}
}
