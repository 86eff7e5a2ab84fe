package repository

import (
	"context"

	"FxDesk/internal/domain/models"
)

// NewsSource pulls headlines from an external feed.
type NewsSource interface {
	Fetch(ctx context.Context) ([]models.NewsItem, error)
}

// QuoteSource pulls spot rates for the tracked currency pairs.
type QuoteSource interface {
	Fetch(ctx context.Context) ([]models.Quote, error)
}

// CalendarSource pulls upcoming economic-calendar events.
type CalendarSource interface {
	Fetch(ctx context.Context) ([]models.CalendarEvent, error)
}

// Translator converts a headline to the dashboard language.
// Implementations may return the input unchanged when translation
// is unnecessary or unavailable.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// SettingsStore loads and persists the user configuration blob,
// spend ledger fields included.
type SettingsStore interface {
	Load() (models.Settings, error)
	Save(models.Settings) error
}

// Publisher exports completed analysis events to an external bus.
type Publisher interface {
	PublishAnalysis(ctx context.Context, run *models.AnalysisRun) error
	Close() error
}

// Metrics records operational counters for the advisor pipeline.
type Metrics interface {
	RecordAnalysis(feature, outcome string)
	RecordTokens(feature string, tokens int)
	RecordSpend(total float64)
	RecordFeedRefresh(feed string, items int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
