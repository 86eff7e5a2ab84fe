package usecase

import (
	"sync"
	"time"

	"FxDesk/internal/domain/models"
)

// FeedSnapshot holds the latest fetched data from every external source.
// The refresher writes it, the analyzer and the HTTP layer read it.
type FeedSnapshot struct {
	mu        sync.RWMutex
	news      []models.NewsItem
	quotes    []models.Quote
	calendar  []models.CalendarEvent
	updatedAt map[string]time.Time
}

func NewFeedSnapshot() *FeedSnapshot {
	return &FeedSnapshot{updatedAt: make(map[string]time.Time)}
}

func (f *FeedSnapshot) SetNews(items []models.NewsItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.news = items
	f.updatedAt["news"] = time.Now()
}

func (f *FeedSnapshot) SetQuotes(quotes []models.Quote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes = quotes
	f.updatedAt["quotes"] = time.Now()
}

func (f *FeedSnapshot) SetCalendar(events []models.CalendarEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calendar = events
	f.updatedAt["calendar"] = time.Now()
}

func (f *FeedSnapshot) News() []models.NewsItem {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.NewsItem, len(f.news))
	copy(out, f.news)
	return out
}

func (f *FeedSnapshot) Quotes() []models.Quote {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Quote, len(f.quotes))
	copy(out, f.quotes)
	return out
}

func (f *FeedSnapshot) Calendar() []models.CalendarEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.CalendarEvent, len(f.calendar))
	copy(out, f.calendar)
	return out
}

// UpdatedAt reports when a source last refreshed, zero when it never has.
func (f *FeedSnapshot) UpdatedAt(source string) time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.updatedAt[source]
}
