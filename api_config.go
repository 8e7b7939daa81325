package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const defaultWeatherstackURL = "http://api.weatherstack.com/current"

type apiConfig struct {
	weather       WeatherService
	gateway       insightGenerator
	cache         Cache
	httpClient    *http.Client
	insightSeq    atomic.Uint64
	openAIKey     string
	ollamaKey     string
	port          string
	devMode       bool
	logger        *slog.Logger
}

// getRequiredEnv retrieves an environment variable by key, and fatals if it's not set.
func getRequiredEnv(key string, logger *slog.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		logger.Error("environment variable must be set", "key", key)
		os.Exit(1)
	}
	return val
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

func config() *apiConfig {
	devModeStr := os.Getenv("DEV_MODE")
	devMode, err := strconv.ParseBool(devModeStr)
	if err != nil {
		devMode = false
	}

	var logger *slog.Logger
	if devMode {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	weatherKey := getRequiredEnv("WEATHER_API_KEY", logger)
	weatherURL := getEnv("WEATHERSTACK_URL", defaultWeatherstackURL, logger)

	// The LLM credentials are optional; an absent key just narrows the
	// provider fallback chain.
	openAIKey := os.Getenv("OPENAI_API_KEY")
	ollamaKey := os.Getenv("OLLAMA_API_KEY")
	openAIURL := getEnv("OPENAI_URL", defaultOpenAIURL, logger)
	ollamaLocalURL := getEnv("OLLAMA_LOCAL_URL", defaultOllamaLocalURL, logger)
	ollamaCloudURL := getEnv("OLLAMA_CLOUD_URL", defaultOllamaCloudURL, logger)

	var cache Cache = noopCache{}
	if redisURL, ok := os.LookupEnv("REDIS_URL"); ok {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Error("could not parse Redis URL", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(opt)
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logger.Error("could not connect to Redis", "error", err)
			os.Exit(1)
		}
		cache = NewRedisCache(redisClient)
	} else {
		logger.Info("REDIS_URL not set, weather caching disabled")
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}
	// Provider calls run under per-provider deadlines instead of a global
	// client timeout, since the local-model timeout is much longer than the
	// hosted one.
	llmClient := &http.Client{}

	cfg := apiConfig{
		cache:      cache,
		httpClient: httpClient,
		openAIKey:  openAIKey,
		ollamaKey:  ollamaKey,
		port:       getEnv("PORT", "8080", logger),
		devMode:    devMode,
		logger:     logger,
	}
	cfg.weather = NewWeatherstackService(weatherKey, weatherURL, httpClient, time.Second, logger)
	cfg.gateway = NewProviderGateway(openAIKey, openAIURL, ollamaLocalURL, ollamaKey, ollamaCloudURL, llmClient, logger)

	return &cfg
}
