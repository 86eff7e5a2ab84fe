package advisor

import (
	"errors"
	"strings"
	"testing"
	"time"

	"FxDesk/internal/domain/models"
)

func newsAt(title string, age time.Duration) models.NewsItem {
	return models.NewsItem{
		Title:   title,
		Content: title,
		PubDate: time.Now().Add(-age),
	}
}

func TestAssembleNewsRecencyAndLimit(t *testing.T) {
	f, _ := Lookup("sentiment")
	in := Inputs{
		News: []models.NewsItem{
			newsAt("oldest", 72*time.Hour),
			newsAt("newest", time.Hour),
			newsAt("middle", 24*time.Hour),
		},
		Quotes: []models.Quote{{Symbol: "EUR/USD", Price: 1.0925, ChangePercent: 0.14}},
	}
	bundle, err := Assemble(f, in)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	lines := strings.Split(bundle["newsContext"], "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "- newest" || lines[2] != "- oldest" {
		t.Fatalf("not sorted by recency: %v", lines)
	}
}

func TestAssembleKeywordFilter(t *testing.T) {
	f, _ := Lookup("centralbank")
	in := Inputs{
		News: []models.NewsItem{
			newsAt("Fed holds rates steady", time.Hour),
			newsAt("Local football results", 2*time.Hour),
			newsAt("BCE signale une pause", 3*time.Hour),
		},
	}
	bundle, err := Assemble(f, in)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if strings.Contains(bundle["newsContext"], "football") {
		t.Fatalf("irrelevant item kept: %q", bundle["newsContext"])
	}
	if !strings.Contains(bundle["newsContext"], "Fed holds") {
		t.Fatalf("relevant item dropped: %q", bundle["newsContext"])
	}
}

func TestAssembleRequiredEmpty(t *testing.T) {
	f, _ := Lookup("centralbank")
	in := Inputs{
		News: []models.NewsItem{newsAt("Local football results", time.Hour)},
	}
	_, err := Assemble(f, in)
	if !errors.Is(err, ErrNoRelevantData) {
		t.Fatalf("expected ErrNoRelevantData, got %v", err)
	}
}

func TestAssemblePairFilter(t *testing.T) {
	f, _ := Lookup("volatility")
	in := Inputs{
		News: []models.NewsItem{newsAt("EUR volatility spikes", time.Hour)},
		Quotes: []models.Quote{
			{Symbol: "EUR/USD", Price: 1.0925, ChangePercent: 0.14},
			{Symbol: "AUD/CAD", Price: 0.91, ChangePercent: -0.2},
		},
	}
	bundle, err := Assemble(f, in)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if strings.Contains(bundle["marketContext"], "AUD/CAD") {
		t.Fatalf("filtered pair leaked: %q", bundle["marketContext"])
	}
	if !strings.Contains(bundle["marketContext"], "EUR/USD: 1.0925 (+0.14%)") {
		t.Fatalf("unexpected quote line: %q", bundle["marketContext"])
	}
}

func TestAssembleCapsEveryPlaceholder(t *testing.T) {
	f, _ := Lookup("insights")
	long := strings.Repeat("x", 2000)
	in := Inputs{
		News:  []models.NewsItem{newsAt(long, time.Hour)},
		Extra: map[string]string{"question": long},
	}
	bundle, err := Assemble(f, in)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	for ph, v := range bundle {
		if got, limit := len([]rune(v)), capFor(f, ph); got > limit {
			t.Fatalf("placeholder %q: %d runes exceeds cap %d", ph, got, limit)
		}
	}
}

func TestTruncateRuneSafe(t *testing.T) {
	s := strings.Repeat("é", 10)
	got := Truncate(s, 4)
	if got != "éééé" {
		t.Fatalf("rune truncation broken: %q", got)
	}
	if Truncate("short", 100) != "short" {
		t.Fatalf("under-cap input must pass through")
	}
}
