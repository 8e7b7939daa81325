package main

import (
	"context"
	"strings"
)

// generateInsight runs the AI half of the pipeline: parse the use-case
// field, build the prompt from the current weather rows, walk the provider
// chain and sectionize the reply. Per-provider failures never surface here;
// the only degraded outcome is the sample payload with a diagnostic message.
// The prompt is derived fresh on every call and never reused.
func (cfg *apiConfig) generateInsight(ctx context.Context, rows []CityWeather, useCaseRaw string, sampleOnly bool) Insight {
	requestID := cfg.insightSeq.Add(1)
	useCases := parseUseCases(useCaseRaw)
	cities := cityList(rows)

	if len(rows) == 0 {
		return Insight{RequestID: requestID, Error: "No weather data to analyze."}
	}

	if sampleOnly {
		insight := sampleInsight(useCases, cities)
		insight.RequestID = requestID
		return insight
	}

	prompt := buildInsightPrompt(rows, useCases)
	raw, provider := cfg.gateway.Generate(ctx, prompt)

	if strings.TrimSpace(raw) == "" {
		cfg.logger.Warn("all providers exhausted, returning sample insight", "request_id", requestID)
		insight := sampleInsight(useCases, cities)
		insight.Error = noProviderMessage
		insight.RequestID = requestID
		return insight
	}

	cfg.logger.Debug("insight generated", "request_id", requestID, "provider", provider, "use_cases", len(useCases))

	insight := parseInsight(raw, useCases)
	insight.Raw = raw
	insight.Sample = false
	insight.RequestID = requestID
	return insight
}
