package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// This file contains the HTTP handlers backing the dashboard frontend.
// The weather and insights handlers are the two user actions: fetch a table
// of current conditions, then ask for an AI summary of those conditions.
// The frontend disables its buttons while a request is in flight, so the
// server does not deduplicate overlapping invocations itself.

func (cfg *apiConfig) handlerWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	cities := splitCities(r.URL.Query().Get("cities"))
	units, ok := validUnits(r.URL.Query().Get("units"))
	if !ok {
		cfg.respondWithError(w, http.StatusBadRequest, "Units must be one of: f, m, s", nil)
		return
	}
	cfg.logger.Debug("weather request", "cities", len(cities), "units", units)

	rows, err := cfg.getCachedOrFetchWeather(r.Context(), cities, units)
	if err != nil {
		cfg.respondWithError(w, weatherErrorStatus(err), err.Error(), err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, WeatherResponse{
		Units: units,
		Rows:  rows,
	})
}

func (cfg *apiConfig) handlerInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	var req InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	units, ok := validUnits(req.Units)
	if !ok {
		cfg.respondWithError(w, http.StatusBadRequest, "Units must be one of: f, m, s", nil)
		return
	}
	cfg.logger.Debug("insights request", "cities", len(req.Cities), "units", units, "use_case", req.UseCase)

	rows, err := cfg.getCachedOrFetchWeather(r.Context(), req.Cities, units)
	if err != nil {
		cfg.respondWithError(w, weatherErrorStatus(err), err.Error(), err)
		return
	}

	insight := cfg.generateInsight(r.Context(), rows, req.UseCase, req.Sample)
	cfg.respondWithJSON(w, http.StatusOK, insight)
}

func (cfg *apiConfig) handlerConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, ConfigResponse{
		DevMode:               cfg.devMode,
		DefaultCities:         defaultCities,
		OpenAIConfigured:      strings.TrimSpace(cfg.openAIKey) != "",
		OllamaCloudConfigured: strings.TrimSpace(cfg.ollamaKey) != "",
	})
}

// handlerResetCache is a development-only endpoint that flushes the Redis cache.
func (cfg *apiConfig) handlerResetCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	cfg.logger.Debug("cache reset request received")

	if err := cfg.cache.Flush(r.Context()); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to flush cache", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "cache reset"})
}

// splitCities parses the comma-separated cities query parameter, dropping
// empty elements.
func splitCities(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var cities []string
	for _, city := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(city); trimmed != "" {
			cities = append(cities, trimmed)
		}
	}
	return cities
}

// validUnits checks the Weatherstack units flag: f (Fahrenheit), m (metric)
// or s (scientific). An empty value defaults to f.
func validUnits(units string) (string, bool) {
	switch units {
	case "":
		return "f", true
	case "f", "m", "s":
		return units, true
	default:
		return "", false
	}
}

// weatherErrorStatus maps weather fetch failures to response codes: bad
// input is the caller's fault, a missing credential is a deployment problem,
// and an upstream that failed for every city is a bad gateway.
func weatherErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoCities):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingAPIKey):
		return http.StatusInternalServerError
	case errors.Is(err, ErrNoWeatherData):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
