package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// This file layers a per-city Redis cache over the weather service. The
// upstream client pauses between city requests, so a warm cache makes both
// the weather table and a follow-up insights request considerably cheaper.

// Weather entries stay fresh long enough to cover a fetch-then-analyze
// round trip without hiding real condition changes.
const weatherCacheTTL = 10 * time.Minute

// weatherCacheKey builds the cache key for one city+units combination.
// City names are normalized so spelling variants share an entry.
func weatherCacheKey(city, units string) (string, error) {
	normalized, err := normalizeCityName(city)
	if err != nil {
		return "", fmt.Errorf("could not normalize city name: %w", err)
	}
	return fmt.Sprintf("weather:%s:%s", normalized, units), nil
}

// getCachedOrFetchWeather returns one row per requested city, preserving the
// input order minus failures. Cached cities are served from Redis; the
// remainder goes through the weather service in a single sequential fetch,
// and fresh rows are written back to the cache.
func (cfg *apiConfig) getCachedOrFetchWeather(ctx context.Context, cities []string, units string) ([]CityWeather, error) {
	if len(cities) == 0 {
		return cfg.weather.Fetch(ctx, cities, units)
	}

	cached := make(map[string]CityWeather)
	var misses []string
	for _, city := range cities {
		key, err := weatherCacheKey(city, units)
		if err != nil {
			cfg.logger.Warn("skipping cache for city", "city", city, "error", err)
			misses = append(misses, city)
			continue
		}

		data, err := cfg.cache.Get(ctx, key)
		if err != nil {
			if err != redis.Nil {
				cfg.logger.Warn("error getting from redis", "key", key, "error", err)
			}
			misses = append(misses, city)
			continue
		}

		var row CityWeather
		if jsonErr := json.Unmarshal([]byte(data), &row); jsonErr != nil {
			cfg.logger.Warn("invalid cache entry", "key", key, "error", jsonErr)
			misses = append(misses, city)
			continue
		}
		cfg.logger.Debug("cache hit", "key", key)
		cached[city] = row
	}

	fetched := make(map[string]CityWeather)
	if len(misses) > 0 {
		rows, err := cfg.weather.Fetch(ctx, misses, units)
		if err != nil {
			if len(cached) == 0 {
				return nil, err
			}
			cfg.logger.Warn("fetch failed for uncached cities, serving cached rows only", "error", err)
		}
		for _, row := range rows {
			fetched[row.City] = row
			key, keyErr := weatherCacheKey(row.City, units)
			if keyErr != nil {
				continue
			}
			if cacheErr := cfg.cache.Set(ctx, key, row, weatherCacheTTL); cacheErr != nil {
				cfg.logger.Warn("error setting to redis", "key", key, "error", cacheErr)
			}
		}
	}

	var result []CityWeather
	for _, city := range cities {
		if row, ok := cached[city]; ok {
			result = append(result, row)
			continue
		}
		if row, ok := fetched[strings.TrimSpace(city)]; ok {
			result = append(result, row)
		}
	}
	return result, nil
}
