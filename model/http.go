package model

type GenerateRequestBody struct {
	Key      string `json:"key"`
	Scale    string `json:"scale"`
	Template string `json:"template,omitempty"`
}

type ProgressionResponse struct {
	ID       string   `json:"id"`
	Key      string   `json:"key"`
	Scale    string   `json:"scale"`
	Template string   `json:"template"`
	Chords   []string `json:"chords"`
	Insights []string `json:"insights"`
	Summary  string   `json:"summary"`
}

type ExportRequestBody struct {
	Chords []string `json:"chords"`
}

type StateResponse struct {
	Playing       bool   `json:"playing"`
	Index         int    `json:"index"`
	ProgressionID string `json:"progression_id,omitempty"`
}

type TemplateResponse struct {
	Name    string `json:"name"`
	Degrees []int  `json:"degrees"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
