package feeds

import (
	"context"
	"sort"
	"strings"
	"time"

	"FxDesk/internal/domain/models"
	"FxDesk/internal/domain/repository"
	pkghttp "FxDesk/pkg/http"
	applogger "FxDesk/pkg/logger"
)

// CalendarService merges economic-calendar events from JSON providers.
type CalendarService struct {
	http    *pkghttp.Client
	urls    []string
	log     *applogger.Logger
	metrics repository.Metrics
}

func NewCalendarService(urls []string, timeout time.Duration, log *applogger.Logger, m repository.Metrics) *CalendarService {
	return &CalendarService{
		http:    pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		urls:    urls,
		log:     log,
		metrics: m,
	}
}

type calendarEventPayload struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Currency string `json:"currency"`
	Impact   string `json:"impact"`
	Event    string `json:"event"`
	Title    string `json:"title"`
	Actual   string `json:"actual"`
	Forecast string `json:"forecast"`
	Previous string `json:"previous"`
}

func (s *CalendarService) Fetch(ctx context.Context) ([]models.CalendarEvent, error) {
	var merged []models.CalendarEvent

	for _, url := range s.urls {
		var payload []calendarEventPayload
		err := s.http.SendAndParse(ctx, &pkghttp.RequestOptions{
			Method:  pkghttp.MethodGet,
			URL:     url,
			Headers: map[string]string{"User-Agent": "Mozilla/5.0"},
		}, &payload)
		if err != nil {
			s.log.Warn("calendar fetch_failed", applogger.String("url", url), applogger.Error(err))
			continue
		}
		for _, ev := range payload {
			name := ev.Event
			if name == "" {
				name = ev.Title
			}
			if ev.Currency == "" || name == "" {
				continue
			}
			merged = append(merged, models.CalendarEvent{
				Date:     strings.TrimSpace(ev.Date),
				Time:     strings.TrimSpace(ev.Time),
				Currency: strings.ToUpper(strings.TrimSpace(ev.Currency)),
				Impact:   NormalizeImpact(ev.Impact),
				Event:    collapseSpaces(name),
				Actual:   strings.TrimSpace(ev.Actual),
				Forecast: strings.TrimSpace(ev.Forecast),
				Previous: strings.TrimSpace(ev.Previous),
			})
		}
	}

	merged = dedupeEvents(merged)
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date != merged[j].Date {
			return merged[i].Date < merged[j].Date
		}
		return merged[i].Time < merged[j].Time
	})

	if s.metrics != nil {
		s.metrics.RecordFeedRefresh("calendar", len(merged))
	}
	return merged, nil
}

// NormalizeImpact maps provider impact markers onto high, medium or low.
func NormalizeImpact(impact string) string {
	impact = strings.ToLower(impact)
	switch {
	case strings.Contains(impact, "high"), strings.Contains(impact, "3"), strings.Contains(impact, "important"):
		return "high"
	case strings.Contains(impact, "medium"), strings.Contains(impact, "2"), strings.Contains(impact, "moderate"):
		return "medium"
	default:
		return "low"
	}
}

func dedupeEvents(events []models.CalendarEvent) []models.CalendarEvent {
	seen := make(map[string]struct{}, len(events))
	out := events[:0]
	for _, ev := range events {
		key := ev.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ev)
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
