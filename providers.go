package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// This file implements the text-generation provider chain. Providers are
// described as data (name, configured-predicate, timeout, call function) and
// tried strictly in order; the first non-empty reply wins. Any provider
// failure (transport error, non-2xx status, malformed JSON, timeout) is
// treated as "provider unavailable" and never propagated to the caller.

const (
	defaultOpenAIURL      = "https://api.openai.com/v1/chat/completions"
	defaultOllamaLocalURL = "http://localhost:11434/api/generate"
	defaultOllamaCloudURL = "https://ollama.com/api/chat"

	openAIModel = "gpt-4o-mini"
	ollamaModel = "llama3.2"

	hostedProviderTimeout = 60 * time.Second
	localProviderTimeout  = 120 * time.Second
)

// textProvider bundles everything the gateway needs to try one provider.
type textProvider struct {
	name       string
	configured func() bool
	timeout    time.Duration
	call       func(ctx context.Context, prompt string) (string, error)
}

// insightGenerator is the gateway seen by the orchestrator. It returns the
// raw reply and the name of the provider that produced it, or two empty
// strings when every provider was unavailable.
type insightGenerator interface {
	Generate(ctx context.Context, prompt string) (raw string, provider string)
}

// ProviderGateway tries its providers sequentially. This is a fallback chain,
// not a race: a slower provider is only contacted after the faster ones gave
// no usable text.
type ProviderGateway struct {
	providers  []textProvider
	httpClient *http.Client
	logger     *slog.Logger
}

// NewProviderGateway wires the standard chain: OpenAI (when a key is set),
// then a local Ollama instance (always), then Ollama cloud (when its own key
// is set). The httpClient should have no global timeout; each provider call
// runs under its own deadline.
func NewProviderGateway(openAIKey, openAIURL, ollamaLocalURL, ollamaCloudKey, ollamaCloudURL string, httpClient *http.Client, logger *slog.Logger) *ProviderGateway {
	g := &ProviderGateway{
		httpClient: httpClient,
		logger:     logger,
	}
	g.providers = []textProvider{
		{
			name:       "openai",
			configured: func() bool { return strings.TrimSpace(openAIKey) != "" },
			timeout:    hostedProviderTimeout,
			call: func(ctx context.Context, prompt string) (string, error) {
				return g.callOpenAI(ctx, openAIURL, openAIKey, prompt)
			},
		},
		{
			name:       "ollama-local",
			configured: func() bool { return true },
			timeout:    localProviderTimeout,
			call: func(ctx context.Context, prompt string) (string, error) {
				return g.callOllamaLocal(ctx, ollamaLocalURL, prompt)
			},
		},
		{
			name:       "ollama-cloud",
			configured: func() bool { return strings.TrimSpace(ollamaCloudKey) != "" },
			timeout:    localProviderTimeout,
			call: func(ctx context.Context, prompt string) (string, error) {
				return g.callOllamaCloud(ctx, ollamaCloudURL, ollamaCloudKey, prompt)
			},
		},
	}
	return g
}

// Generate walks the provider chain and short-circuits on the first provider
// that returns non-empty text.
func (g *ProviderGateway) Generate(ctx context.Context, prompt string) (string, string) {
	for _, p := range g.providers {
		if !p.configured() {
			g.logger.Debug("skipping unconfigured provider", "provider", p.name)
			providerAttemptsTotal.WithLabelValues(p.name, "skipped").Inc()
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		text, err := p.call(callCtx, prompt)
		cancel()

		if err != nil {
			g.logger.Warn("provider unavailable", "provider", p.name, "error", err)
			providerAttemptsTotal.WithLabelValues(p.name, "error").Inc()
			continue
		}
		if strings.TrimSpace(text) == "" {
			g.logger.Warn("provider returned empty text", "provider", p.name)
			providerAttemptsTotal.WithLabelValues(p.name, "empty").Inc()
			continue
		}

		providerAttemptsTotal.WithLabelValues(p.name, "ok").Inc()
		return text, p.name
	}
	return "", ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (g *ProviderGateway) callOpenAI(ctx context.Context, apiURL, apiKey, prompt string) (string, error) {
	body := struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}{
		Model:    openAIModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := g.postJSON(ctx, apiURL, apiKey, body, &response); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("openai response contained no choices")
	}
	return response.Choices[0].Message.Content, nil
}

func (g *ProviderGateway) callOllamaLocal(ctx context.Context, apiURL, prompt string) (string, error) {
	body := struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		Stream bool   `json:"stream"`
	}{
		Model:  ollamaModel,
		Prompt: prompt,
		Stream: false,
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := g.postJSON(ctx, apiURL, "", body, &response); err != nil {
		return "", err
	}
	return response.Response, nil
}

func (g *ProviderGateway) callOllamaCloud(ctx context.Context, apiURL, apiKey, prompt string) (string, error) {
	body := struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
		Stream   bool          `json:"stream"`
	}{
		Model:    ollamaModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}

	var response struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := g.postJSON(ctx, apiURL, apiKey, body, &response); err != nil {
		return "", err
	}
	return response.Message.Content, nil
}

// postJSON performs a JSON POST and decodes the reply. A non-empty apiKey is
// sent as a bearer token.
func (g *ProviderGateway) postJSON(ctx context.Context, apiURL, apiKey string, requestBody any, responseBody any) error {
	payload, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("non-2xx status %s: %s", resp.Status, truncateForLog(data))
	}
	if err := json.Unmarshal(data, responseBody); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func truncateForLog(data []byte) string {
	const limit = 200
	s := string(data)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
