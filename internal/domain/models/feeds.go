package models

import "time"

// NewsItem is one headline pulled from an RSS feed.
type NewsItem struct {
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Link            string    `json:"link"`
	PubDate         time.Time `json:"pubDate"`
	Category        string    `json:"category"`
	Author          string    `json:"author,omitempty"`
	TranslatedTitle string    `json:"translatedTitle,omitempty"`
}

// DisplayTitle prefers the translated title when one exists.
func (n NewsItem) DisplayTitle() string {
	if n.TranslatedTitle != "" {
		return n.TranslatedTitle
	}
	return n.Title
}

// Quote is a spot rate snapshot for one currency pair.
type Quote struct {
	Symbol        string  `json:"symbol"` // "EUR/USD"
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Timestamp     int64   `json:"timestamp"` // unix ms
}

// CalendarEvent is one economic-calendar entry.
type CalendarEvent struct {
	Date     string `json:"date"` // "2024-10-10"
	Time     string `json:"time"` // "14:30"
	Currency string `json:"currency"`
	Impact   string `json:"impact"` // "high", "medium", "low"
	Event    string `json:"event"`
	Actual   string `json:"actual,omitempty"`
	Forecast string `json:"forecast,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// Key identifies an event for cross-provider deduplication.
func (e CalendarEvent) Key() string {
	return e.Date + "|" + e.Time + "|" + e.Currency + "|" + e.Event
}
