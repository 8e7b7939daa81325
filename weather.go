package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// This file implements the Weatherstack client. The provider is queried one
// city at a time with a fixed pause between requests; a failed city is
// skipped rather than failing the whole fetch, and only the most recent
// per-city diagnostic is kept for the error message when nothing succeeds.

// ErrMissingAPIKey is returned when no Weatherstack credential is configured.
var ErrMissingAPIKey = errors.New("weather API key not found; add WEATHER_API_KEY to a .env file or the environment")

// ErrNoCities is returned when the caller supplies an empty city list.
var ErrNoCities = errors.New("please select at least one city")

// ErrNoWeatherData is returned when every city in the request failed.
// The wrapping error carries the last per-city diagnostic.
var ErrNoWeatherData = errors.New("could not load weather for any city")

// defaultCities mirrors the selector choices offered by the dashboard frontend.
var defaultCities = []string{
	"New York",
	"Los Angeles",
	"Chicago",
	"Houston",
	"Phoenix",
	"Philadelphia",
	"Seattle",
	"San Diego",
	"Boston",
	"San Jose",
}

// WeatherService defines the upstream data source for the insight pipeline.
// An interface here decouples the handlers from the concrete Weatherstack
// client, which simplifies testing.
type WeatherService interface {
	Fetch(ctx context.Context, cities []string, units string) ([]CityWeather, error)
}

// WeatherstackService is the production implementation of WeatherService.
type WeatherstackService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	pause      time.Duration
	logger     *slog.Logger
}

func NewWeatherstackService(apiKey, baseURL string, httpClient *http.Client, pause time.Duration, logger *slog.Logger) *WeatherstackService {
	return &WeatherstackService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		pause:      pause,
		logger:     logger,
	}
}

// Fetch queries current conditions for each city in order. Units is one of
// "f", "m" or "s" (Fahrenheit, metric, scientific). The returned rows keep
// the input order, with failed cities omitted. The pause between consecutive
// requests is a self-imposed rate limit, not a retry policy; there is no
// pause after the last city.
func (s *WeatherstackService) Fetch(ctx context.Context, cities []string, units string) ([]CityWeather, error) {
	if strings.TrimSpace(s.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if len(cities) == 0 {
		return nil, ErrNoCities
	}

	var rows []CityWeather
	var lastErr string
	var lastStatus int

	for i, city := range cities {
		row, err := s.fetchCity(ctx, city, units, &lastStatus)
		if err != nil {
			lastErr = err.Error()
			s.logger.Warn("skipping city after fetch failure", "city", city, "error", err)
			weatherCityFetchesTotal.WithLabelValues("error").Inc()
		} else {
			rows = append(rows, row)
			weatherCityFetchesTotal.WithLabelValues("ok").Inc()
		}

		if i < len(cities)-1 {
			select {
			case <-ctx.Done():
				return s.finish(rows, ctx.Err().Error(), lastStatus)
			case <-time.After(s.pause):
			}
		}
	}

	return s.finish(rows, lastErr, lastStatus)
}

func (s *WeatherstackService) finish(rows []CityWeather, lastErr string, lastStatus int) ([]CityWeather, error) {
	if len(rows) == 0 {
		msg := lastErr
		if msg == "" && lastStatus != 0 {
			msg = fmt.Sprintf("HTTP %d", lastStatus)
		}
		if msg == "" {
			msg = "no data returned"
		}
		return nil, fmt.Errorf("%w: %s", ErrNoWeatherData, msg)
	}
	return rows, nil
}

func (s *WeatherstackService) fetchCity(ctx context.Context, city, units string, lastStatus *int) (CityWeather, error) {
	reqURL, err := url.Parse(s.baseURL)
	if err != nil {
		return CityWeather{}, fmt.Errorf("failed to parse weather base URL: %w", err)
	}
	q := reqURL.Query()
	q.Set("access_key", s.apiKey)
	q.Set("query", strings.TrimSpace(city))
	q.Set("units", units)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return CityWeather{}, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return CityWeather{}, fmt.Errorf("weather API request failed: %w", err)
	}
	defer resp.Body.Close()
	*lastStatus = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return CityWeather{}, fmt.Errorf("failed to read weather response: %w", err)
	}

	var response weatherstackResponse
	decodeErr := json.Unmarshal(body, &response)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && response.Error.Info != "" {
			return CityWeather{}, errors.New(response.Error.Info)
		}
		return CityWeather{}, fmt.Errorf("weather API returned non-200 status: %s", resp.Status)
	}
	if decodeErr != nil {
		return CityWeather{}, fmt.Errorf("failed to decode weather response: %w", decodeErr)
	}

	// Weatherstack reports request-level errors with a 200 status and an
	// "error" object instead of "current".
	if response.Current == nil {
		if response.Error.Info != "" {
			return CityWeather{}, errors.New(response.Error.Info)
		}
		return CityWeather{}, errors.New("no current weather in response")
	}

	condition := ""
	if len(response.Current.WeatherDescriptions) > 0 {
		condition = response.Current.WeatherDescriptions[0]
	}

	return CityWeather{
		City:        strings.TrimSpace(city),
		Temperature: response.Current.Temperature,
		Humidity:    response.Current.Humidity,
		WindSpeed:   response.Current.WindSpeed,
		Pressure:    response.Current.Pressure,
		Condition:   condition,
	}, nil
}

// The following structs represent the Weatherstack current-conditions JSON.
type weatherstackResponse struct {
	Current *weatherstackCurrent `json:"current"`
	Error   weatherstackError    `json:"error"`
}

type weatherstackCurrent struct {
	Temperature         *float64 `json:"temperature"`
	Humidity            *int     `json:"humidity"`
	WindSpeed           *float64 `json:"wind_speed"`
	Pressure            *float64 `json:"pressure"`
	WeatherDescriptions []string `json:"weather_descriptions"`
}

type weatherstackError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}
