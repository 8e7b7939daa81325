package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics exposed by the application.

// httpRequestsTotal tracks HTTP requests by path, method and status code.
var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "skybrief_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

// providerAttemptsTotal tracks calls into the AI provider chain. Outcome is
// one of ok, error, empty or skipped.
var providerAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "skybrief_provider_attempts_total",
	Help: "Total number of AI provider attempts by provider and outcome.",
}, []string{"provider", "outcome"})

// weatherCityFetchesTotal tracks per-city weather requests by outcome.
var weatherCityFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "skybrief_weather_city_fetches_total",
	Help: "Total number of per-city weather API fetches by outcome.",
}, []string{"outcome"})
