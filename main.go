package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config()
	cfg.logger.Debug("configuration loaded")

	mux := http.NewServeMux()

	mux.HandleFunc("/api/weather", cfg.handlerWeather)
	mux.HandleFunc("/api/insights", cfg.handlerInsights)
	mux.HandleFunc("/api/config", cfg.handlerConfig)
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.devMode {
		cfg.logger.Debug("development mode enabled. Registering /dev/reset-cache endpoint.")
		mux.HandleFunc("/dev/reset-cache", cfg.handlerResetCache)
	}

	handler := metricsMiddleware(cfg.requestIDMiddleware(corsMiddleware(mux)))

	server := &http.Server{
		Addr:    ":" + cfg.port,
		Handler: handler,
	}

	cfg.logger.Info("starting server", "port", cfg.port)
	err := server.ListenAndServe()
	if err != nil {
		cfg.logger.Error("server startup failed", "error", err)
		os.Exit(1)
	}
}
