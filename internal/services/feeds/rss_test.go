package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FxDesk/internal/domain/models"
	applogger "FxDesk/pkg/logger"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
  <item>
    <title><![CDATA[EUR/USD climbs after ECB remarks]]></title>
    <link>https://example.com/1</link>
    <pubDate>Mon, 10 Mar 2025 14:30:00 +0000</pubDate>
    <description><![CDATA[<p>The euro <b>gained</b> ground today.</p>]]></description>
    <category><![CDATA[Central Bank]]></category>
    <dc:creator><![CDATA[Desk]]></dc:creator>
  </item>
  <item>
    <title>Older headline</title>
    <link>https://example.com/2</link>
    <pubDate>Sun, 09 Mar 2025 09:00:00 +0000</pubDate>
    <description>Plain text body</description>
  </item>
  <item>
    <title>EUR/USD climbs after ECB remarks</title>
    <link>https://example.com/3</link>
    <pubDate>Mon, 10 Mar 2025 15:00:00 +0000</pubDate>
    <description>The euro gained ground today.</description>
  </item>
  <item>
    <title></title>
    <link>https://example.com/4</link>
  </item>
</channel>
</rss>`

func TestNewsFetchParsesAndDedupes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	s := NewNewsService([]string{srv.URL}, 10, 5*time.Second, applogger.Nop(), nil)
	items, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	// the duplicate title and the titleless item are dropped
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %v", len(items), items)
	}
	if items[0].Title != "EUR/USD climbs after ECB remarks" {
		t.Fatalf("not sorted newest-first: %q", items[0].Title)
	}
	if strings.Contains(items[0].Content, "<") {
		t.Fatalf("html not stripped: %q", items[0].Content)
	}
	if items[0].Category != "Central Bank" || items[0].Author != "Desk" {
		t.Fatalf("cdata fields not unwrapped: %+v", items[0])
	}
	if items[1].Category != "News" {
		t.Fatalf("missing category must default to News, got %q", items[1].Category)
	}
}

func TestNewsFetchAllFeedsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewNewsService([]string{srv.URL}, 10, 2*time.Second, applogger.Nop(), nil)
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error when every feed fails")
	}
}

func TestNewsContentTruncated(t *testing.T) {
	long := strings.Repeat("word ", 100)
	feed := `<rss><channel><item><title>t</title><link>l</link><description>` + long + `</description></item></channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	s := NewNewsService([]string{srv.URL}, 10, 2*time.Second, applogger.Nop(), nil)
	items, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := len([]rune(items[0].Content)); got > maxContentLen+3 {
		t.Fatalf("content not truncated: %d runes", got)
	}
	if !strings.HasSuffix(items[0].Content, "...") {
		t.Fatalf("truncated content missing ellipsis: %q", items[0].Content)
	}
}

func TestDedupeNewsKeepsFirst(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Same", Content: "body one"},
		{Title: "same", Content: "body one extended further"},
		{Title: "Other", Content: "body two"},
	}
	out := dedupeNews(items)
	if len(out) != 3 {
		// differing leading content keeps both "Same" items
		t.Fatalf("expected 3, got %d", len(out))
	}
	dup := []models.NewsItem{
		{Title: "Same", Content: "body one"},
		{Title: "SAME", Content: "body one"},
	}
	if got := dedupeNews(dup); len(got) != 1 {
		t.Fatalf("case-insensitive duplicate kept: %d", len(got))
	}
}
