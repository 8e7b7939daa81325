package main

import "strings"

// This file splits a raw model reply into the labeled sections the prompt
// asked for. The reply is treated as a literal string: markers are located
// on a lowercase-folded copy so header casing doesn't matter, but extraction
// always slices the original text. Every parse has a blank-line fallback so
// a reply that ignored the header instructions still yields a usable
// summary instead of an error.

// findHeaderMarker locates a section header named `name` (e.g. "training")
// in the lowercase-folded text. The accepted spellings are tried in priority
// order, matching how cooperative models typically restate the requested
// headers: bold with the full label, bold with the bare name, the full label
// at a line start, or the full label opening the reply.
func findHeaderMarker(lower, name string) int {
	if i := strings.Index(lower, "**"+name+" advisory"); i >= 0 {
		return i
	}
	if i := strings.Index(lower, "**"+name); i >= 0 {
		return i
	}
	if i := strings.Index(lower, "\n"+name+" advisory"); i >= 0 {
		return i
	}
	if strings.HasPrefix(lower, name+" advisory") {
		return 0
	}
	return -1
}

// stripLeadingHeader removes the first line of a block that, once trimmed,
// starts with bold markup. This drops the restated section title, leaving
// only body content.
func stripLeadingHeader(block string) string {
	for _, line := range strings.Split(block, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "**") {
			return strings.TrimSpace(strings.Replace(block, line, "", 1))
		}
	}
	return block
}

// parseThreeSections handles the no-use-case shape: a condition summary
// followed by training and travel advisories, in whichever order the model
// emitted them.
func parseThreeSections(raw string) Insight {
	if strings.TrimSpace(raw) == "" {
		return Insight{}
	}
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)

	iTraining := findHeaderMarker(lower, "training")
	iTravel := findHeaderMarker(lower, "travel")

	var insight Insight
	if iTraining >= 0 && iTravel >= 0 {
		insight.Summary = stripLeadingHeader(strings.TrimSpace(text[:min(iTraining, iTravel)]))
		if iTraining < iTravel {
			insight.Training = strings.TrimSpace(text[iTraining:iTravel])
			insight.Travel = strings.TrimSpace(text[iTravel:])
		} else {
			insight.Travel = strings.TrimSpace(text[iTravel:iTraining])
			insight.Training = strings.TrimSpace(text[iTraining:])
		}
		insight.Training = stripLeadingHeader(insight.Training)
		insight.Travel = stripLeadingHeader(insight.Travel)
		return insight
	}

	// Fallback: first paragraph is the summary, the remainder lands in
	// training so no text is dropped.
	summary, rest := splitFirstParagraph(text)
	insight.Summary = stripLeadingHeader(summary)
	insight.Training = rest
	return insight
}

// parseTwoSections handles the single-use-case shape: a condition summary
// and one "Advisory for {useCase}" block.
func parseTwoSections(raw, useCase string) Insight {
	insight := Insight{UseCase: useCase}
	if strings.TrimSpace(raw) == "" {
		return insight
	}
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)

	iAdvisory := strings.Index(lower, "**advisory for")
	if iAdvisory == -1 {
		iAdvisory = strings.Index(lower, "**advisory")
	}

	if iAdvisory >= 0 {
		insight.Summary = stripLeadingHeader(strings.TrimSpace(text[:iAdvisory]))
		insight.UseCaseAdvisory = stripLeadingHeader(strings.TrimSpace(text[iAdvisory:]))
		return insight
	}

	summary, rest := splitFirstParagraph(text)
	insight.Summary = stripLeadingHeader(summary)
	insight.UseCaseAdvisory = stripLeadingHeader(rest)
	return insight
}

// parseMultiSections handles the multi-use-case shape: everything before the
// first "Advisory for" marker is the summary, then each use case is searched
// for in caller order. A use case whose marker never appears gets an empty
// advisory rather than an error.
func parseMultiSections(raw string, useCases []string) Insight {
	insight := Insight{UseCases: []UseCaseAdvisory{}}
	if strings.TrimSpace(raw) == "" {
		return insight
	}
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)

	iFirst := strings.Index(lower, "**advisory for")
	if iFirst == -1 {
		iFirst = len(text)
	}
	insight.Summary = stripLeadingHeader(strings.TrimSpace(text[:iFirst]))

	rest := strings.TrimSpace(text[iFirst:])
	restLower := strings.ToLower(rest)

	pos := 0
	for _, uc := range useCases {
		marker := "**advisory for " + strings.ToLower(uc)
		start := indexFrom(restLower, marker, pos)
		if start == -1 {
			insight.UseCases = append(insight.UseCases, UseCaseAdvisory{Name: uc, Advisory: ""})
			continue
		}
		end := indexFrom(restLower, "**advisory for", start+len(marker))
		if end == -1 {
			end = len(rest)
		}
		block := stripLeadingHeader(strings.TrimSpace(rest[start:end]))
		insight.UseCases = append(insight.UseCases, UseCaseAdvisory{Name: uc, Advisory: block})
		pos = end
	}
	return insight
}

// parseInsight dispatches to the parser matching the shape the prompt
// requested for this use-case list.
func parseInsight(raw string, useCases []string) Insight {
	switch len(useCases) {
	case 0:
		return parseThreeSections(raw)
	case 1:
		return parseTwoSections(raw, useCases[0])
	default:
		return parseMultiSections(raw, useCases)
	}
}

// splitFirstParagraph splits text on the first blank line.
func splitFirstParagraph(text string) (first, rest string) {
	parts := strings.SplitN(text, "\n\n", 2)
	first = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		rest = strings.TrimSpace(parts[1])
	}
	return first, rest
}

// indexFrom is strings.Index starting at a given offset.
func indexFrom(s, substr string, from int) int {
	if from >= len(s) {
		return -1
	}
	if i := strings.Index(s[from:], substr); i >= 0 {
		return i + from
	}
	return -1
}
