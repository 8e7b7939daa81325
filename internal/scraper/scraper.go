// This file implements a standalone metrics scraper for the skybrief
// service. It is deployed as a separate serverless container and triggered
// periodically by a scheduler: each trigger fetches the service's /metrics
// endpoint, parses the Prometheus exposition format, and ingests the samples
// into Google Cloud's Managed Service for Prometheus.
//
// skybrief only exposes counter metrics (request, provider-attempt and
// city-fetch totals), so the converter handles counters, gauges and untyped
// samples and skips everything else.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("starting server", "port", port)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		scrapeHandler(w, r, logger)
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func scrapeHandler(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	logger.Info("scrape request received")
	if err := scrapeAndIngest(r.Context(), logger); err != nil {
		logger.Error("error during scrape and ingest", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	logger.Info("scrape and ingest finished")
	w.WriteHeader(http.StatusOK)
}

// scrapeAndIngest fetches the service metrics, converts them to Cloud
// Monitoring TimeSeries and writes them.
func scrapeAndIngest(ctx context.Context, logger *slog.Logger) error {
	metricsURL := os.Getenv("METRICS_URL")
	if metricsURL == "" {
		return fmt.Errorf("environment variable METRICS_URL must be set")
	}
	projectID := os.Getenv("PROJECT_ID")
	if projectID == "" {
		return fmt.Errorf("environment variable PROJECT_ID must be set")
	}

	timeSeries, err := fetchAndConvertToTimeSeries(ctx, projectID, metricsURL, logger)
	if err != nil {
		return fmt.Errorf("failed to fetch and convert metrics: %w", err)
	}

	if len(timeSeries) == 0 {
		logger.Info("no metric samples found to ingest")
		return nil
	}

	if err := ingestMetrics(ctx, projectID, timeSeries); err != nil {
		return fmt.Errorf("failed to ingest metrics: %w", err)
	}

	return nil
}

// fetchAndConvertToTimeSeries scrapes the Prometheus endpoint and converts
// each sample into Cloud Monitoring's TimeSeries format.
func fetchAndConvertToTimeSeries(ctx context.Context, projectID, url string, logger *slog.Logger) ([]*monitoringpb.TimeSeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http request failed with status code %d", resp.StatusCode)
	}

	var parser expfmt.TextParser
	metricFamilies, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prometheus metrics: %w", err)
	}

	resource := &monitoredres.MonitoredResource{
		Type: "prometheus_target",
		Labels: map[string]string{
			"project_id": projectID,
			"location":   "europe-west1",
			"cluster":    "__gce__",
			"namespace":  "skybrief",
			"job":        "skybrief",
			"instance":   url,
		},
	}

	var timeSeriesList []*monitoringpb.TimeSeries
	now := timestamppb.New(time.Now())

	for name, mf := range metricFamilies {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}

			var value float64
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				value = m.GetGauge().GetValue()
			case dto.MetricType_UNTYPED:
				value = m.GetUntyped().GetValue()
			default:
				logger.Debug("skipping metric with unhandled type", "metric", name, "type", mf.GetType())
				continue
			}

			timeSeriesList = append(timeSeriesList, &monitoringpb.TimeSeries{
				Metric: &metric.Metric{
					Type:   "prometheus.googleapis.com/" + name,
					Labels: labels,
				},
				Resource: resource,
				Points: []*monitoringpb.Point{{
					Interval: &monitoringpb.TimeInterval{
						EndTime: now,
					},
					Value: &monitoringpb.TypedValue{
						Value: &monitoringpb.TypedValue_DoubleValue{
							DoubleValue: value,
						},
					},
				}},
			})
		}
	}
	return timeSeriesList, nil
}

// ingestMetrics writes the TimeSeries data to the Cloud Monitoring API.
func ingestMetrics(ctx context.Context, projectID string, timeSeries []*monitoringpb.TimeSeries) error {
	client, err := monitoring.NewMetricClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create monitoring client: %w", err)
	}
	defer client.Close()

	req := &monitoringpb.CreateTimeSeriesRequest{
		Name:       "projects/" + projectID,
		TimeSeries: timeSeries,
	}

	if err := client.CreateTimeSeries(ctx, req); err != nil {
		return fmt.Errorf("failed to write time series data: %w", err)
	}
	return nil
}
