package main

import (
	"fmt"
	"strings"
)

// This file builds the prompt sent to the text-generation providers. The
// templates and the response sectionizer are two halves of the same contract:
// the headers requested here are exactly the markers the sectionizer looks
// for, so any wording change must be mirrored in sectionizer.go.

const absentValue = "—"

// parseUseCases splits a free-text use-case field on commas and trims each
// element. Empty or whitespace-only input yields an empty list; duplicates
// are kept as given.
func parseUseCases(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var useCases []string
	for _, uc := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(uc); trimmed != "" {
			useCases = append(useCases, trimmed)
		}
	}
	return useCases
}

// weatherToText formats the rows as one concise line per city for the prompt.
func weatherToText(rows []CityWeather) string {
	if len(rows) == 0 {
		return "No city data."
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		city := row.City
		if city == "" {
			city = absentValue
		}
		condition := row.Condition
		if condition == "" {
			condition = absentValue
		}
		lines[i] = fmt.Sprintf("  %s: %s°F, %s, humidity %s%%, wind %s mph",
			city,
			formatFloat(row.Temperature),
			condition,
			formatInt(row.Humidity),
			formatFloat(row.WindSpeed),
		)
	}
	return strings.Join(lines, "\n")
}

func formatFloat(v *float64) string {
	if v == nil {
		return absentValue
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", *v), "0"), ".")
}

func formatInt(v *int) string {
	if v == nil {
		return absentValue
	}
	return fmt.Sprintf("%d", *v)
}

// cityList returns the unique city names from the rows, preserving order.
func cityList(rows []CityWeather) []string {
	var cities []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.City == "" || seen[row.City] {
			continue
		}
		seen[row.City] = true
		cities = append(cities, row.City)
	}
	return cities
}

// buildInsightPrompt renders one of three templates depending on how many use
// cases were requested. All templates forbid intro/outro text because the
// sectionizer depends on locating the exact header substrings. Deterministic
// for identical inputs.
func buildInsightPrompt(rows []CityWeather, useCases []string) string {
	weatherText := weatherToText(rows)
	cities := cityList(rows)
	citiesPhrase := "the cities in the data"
	if len(cities) > 0 {
		citiesPhrase = strings.Join(cities, ", ")
	}

	perCityInstruction := fmt.Sprintf(
		`Organize your advice by city: for each of %s, give a subheading with the city name followed by a colon (e.g. "New York:" on its own line), then 1–3 bullet points. Do not use markdown bold for city names. Use bullet points.`,
		citiesPhrase,
	)

	switch len(useCases) {
	case 0:
		return fmt.Sprintf(`Current weather for selected cities:

%s

Respond in exactly three short sections. No other intro or outro.

**Condition summary:** Brief overview of conditions across the cities (e.g., mild vs cold, clear vs cloudy, wind). 2–4 sentences.

**Training advisory:** Practical tips for outdoor training (e.g., running, cycling). %s

**Travel advisory:** Practical tips for travel (e.g., packing, driving, layering). %s`,
			weatherText, perCityInstruction, perCityInstruction)
	case 1:
		uc := useCases[0]
		return fmt.Sprintf(`Current weather for selected cities:

%s

The user's use case: %s

Respond in exactly two short sections. No other intro or outro.

**Condition summary:** Brief overview of conditions across the cities (e.g., mild vs cold, clear vs cloudy, wind). 2–4 sentences.

**Advisory for %s:** Evaluate the weather specifically for this use case. Organize your advice by city: for each of %s, give a subheading with the city name followed by a colon (e.g. "New York:" on its own line), then 1–3 bullet points with practical tips. Do not use markdown bold for city names. Use bullet points.`,
			weatherText, uc, uc, citiesPhrase)
	default:
		sections := make([]string, len(useCases))
		for i, uc := range useCases {
			sections[i] = fmt.Sprintf("- **Advisory for %s:**", uc)
		}
		return fmt.Sprintf(`Current weather for selected cities:

%s

The user's use cases: %s

Respond with the following sections. No other intro or outro.

**Condition summary:** Brief overview of conditions across the cities (e.g., mild vs cold, clear vs cloudy, wind). 2–4 sentences.

For each use case below, provide a section with that exact header. Within each section, organize advice by city: for each of %s, give a subheading with the city name followed by a colon (e.g. "New York:" on its own line), then 1–3 bullet points. Do not use markdown bold for city names.

%s`,
			weatherText, strings.Join(useCases, ", "), citiesPhrase, strings.Join(sections, "\n"))
	}
}
