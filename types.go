package main

// CityWeather is one normalized row of current conditions for a single city.
// Numeric fields are pointers because the upstream payload may omit any of
// them; an absent value is rendered as an em-dash when the row is formatted
// for the AI prompt.
type CityWeather struct {
	City        string   `json:"city"`
	Temperature *float64 `json:"temperature"`
	Humidity    *int     `json:"humidity"`
	WindSpeed   *float64 `json:"wind_speed"`
	Pressure    *float64 `json:"pressure"`
	Condition   string   `json:"condition"`
}

// UseCaseAdvisory is one labeled advisory block in a multi-use-case Insight.
type UseCaseAdvisory struct {
	Name     string `json:"name"`
	Advisory string `json:"advisory"`
}

// Insight is the structured result of the AI pipeline. Exactly one of the
// three shapes is populated per response, selected by the number of use
// cases in the request:
//
//	0  -> Summary, Training, Travel
//	1  -> Summary, UseCase, UseCaseAdvisory
//	2+ -> Summary, UseCases
//
// Fields belonging to the other shapes stay empty strings (never null), so
// the frontend can truth-test any field without checking the shape first.
// RequestID increases monotonically per insight request; a client that still
// has an older request in flight can discard its late reply.
type Insight struct {
	RequestID       uint64            `json:"request_id"`
	Summary         string            `json:"summary"`
	Training        string            `json:"training"`
	Travel          string            `json:"travel"`
	UseCase         string            `json:"use_case"`
	UseCaseAdvisory string            `json:"use_case_advisory"`
	UseCases        []UseCaseAdvisory `json:"use_cases,omitempty"`
	Error           string            `json:"error,omitempty"`
	Sample          bool              `json:"sample"`
	Raw             string            `json:"raw,omitempty"`
}

// InsightRequest is the body of POST /api/insights. UseCase is the free-text
// comma-separated label list; Sample requests the canned payload without
// calling any provider.
type InsightRequest struct {
	Cities  []string `json:"cities"`
	Units   string   `json:"units"`
	UseCase string   `json:"use_case"`
	Sample  bool     `json:"sample"`
}

type WeatherResponse struct {
	Units string        `json:"units"`
	Rows  []CityWeather `json:"rows"`
}

type ConfigResponse struct {
	DevMode               bool     `json:"dev_mode"`
	DefaultCities         []string `json:"default_cities"`
	OpenAIConfigured      bool     `json:"openai_configured"`
	OllamaCloudConfigured bool     `json:"ollama_cloud_configured"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
