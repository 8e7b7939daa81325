package main

import (
	"fmt"
	"strings"
)

// When no provider produced usable text the dashboard still needs something
// to render, so the pipeline degrades to a deterministic canned Insight in
// the shape the request asked for.

var sampleCities = []string{"New York", "Los Angeles", "Chicago"}

const sampleSummary = "Conditions vary across the selected cities: cooler and windier in the north, milder and calmer in the south. Expect a mix of clear and partly cloudy skies."

const sampleTraining = "• Good conditions for outdoor runs in LA; light layers.\n" +
	"• In Chicago, allow extra time for wind and cooler temps; consider a headwind leg first.\n" +
	"• In New York, partly cloudy and mild—suitable for most outdoor training."

const sampleTravel = "• Layer up in colder cities (e.g., Chicago); light jacket or long sleeves for milder ones.\n" +
	"• Pack for a range of temps if traveling between cities.\n" +
	"• Windier in the north—allow buffer for travel time."

const noProviderMessage = "No AI provider available. Showing sample output. " +
	"To get real insights: set OPENAI_API_KEY, run Ollama locally (ollama run llama3.2), " +
	"or set OLLAMA_API_KEY for Ollama cloud."

// sampleInsight builds the canned payload for the given use cases. The real
// city list is used when available so the per-city subsections still match
// the table on screen; otherwise a fixed example trio stands in.
func sampleInsight(useCases, cities []string) Insight {
	if len(cities) == 0 {
		cities = sampleCities
	}

	switch len(useCases) {
	case 0:
		return Insight{
			Summary:  sampleSummary,
			Training: sampleTraining,
			Travel:   sampleTravel,
			Sample:   true,
		}
	case 1:
		uc := useCases[0]
		return Insight{
			Summary:         sampleSummary,
			UseCase:         uc,
			UseCaseAdvisory: sampleAdvisoryByCity(uc, cities),
			Sample:          true,
		}
	default:
		advisories := make([]UseCaseAdvisory, len(useCases))
		for i, uc := range useCases {
			advisories[i] = UseCaseAdvisory{Name: uc, Advisory: sampleAdvisoryByCity(uc, cities)}
		}
		return Insight{
			Summary:  sampleSummary,
			UseCases: advisories,
			Sample:   true,
		}
	}
}

func sampleAdvisoryByCity(useCase string, cities []string) string {
	blocks := make([]string, len(cities))
	for i, city := range cities {
		blocks[i] = fmt.Sprintf("**%s:**\n• Sample advice for %s here.", city, useCase)
	}
	return strings.Join(blocks, "\n\n")
}
