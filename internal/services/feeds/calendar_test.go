package feeds

import (
	"testing"

	"FxDesk/internal/domain/models"
)

func TestNormalizeImpact(t *testing.T) {
	cases := map[string]string{
		"High":      "high",
		"3":         "high",
		"important": "high",
		"Moderate":  "medium",
		"2":         "medium",
		"low":       "low",
		"":          "low",
		"unknown":   "low",
	}
	for in, want := range cases {
		if got := NormalizeImpact(in); got != want {
			t.Fatalf("NormalizeImpact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDedupeEvents(t *testing.T) {
	events := []models.CalendarEvent{
		{Date: "2025-03-10", Time: "14:30", Currency: "USD", Event: "CPI"},
		{Date: "2025-03-10", Time: "14:30", Currency: "USD", Event: "CPI"},
		{Date: "2025-03-10", Time: "14:30", Currency: "EUR", Event: "CPI"},
	}
	out := dedupeEvents(events)
	if len(out) != 2 {
		t.Fatalf("expected 2 unique events, got %d", len(out))
	}
}
