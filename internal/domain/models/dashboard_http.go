package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	Feature string `param:"feature" json:"feature" validate:"required"`
	Pair    string `json:"pair" validate:"omitempty,max=10"`
	Session string `json:"session" default:"london" validate:"omitempty,oneof=sydney tokyo london newyork"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required,min=3,max=500"`
}

type SettingsUpdateRequest struct {
	APIKey          *string           `json:"apiKey" validate:"omitempty,max=200"`
	RefreshInterval *int              `json:"refreshInterval" validate:"omitempty,gte=10,lte=3600"`
	DemoMode        *bool             `json:"demoMode"`
	DailyLimit      *float64          `json:"dailyLimit" validate:"omitempty,gt=0,lte=1000"`
	Theme           *string           `json:"theme" validate:"omitempty,oneof=dark light"`
	Model           *string           `json:"gptModel" validate:"omitempty,oneof=gpt-3.5-turbo gpt-4 gpt-4-turbo-preview"`
	Prompts         map[string]string `json:"prompts"`
}

type LogsRequest struct {
	Limit int `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
