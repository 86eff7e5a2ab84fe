package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	applogger "FxDesk/pkg/logger"
)

func TestShouldTranslate(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Fed holds rates steady", true},
		{"", false},
		{"ab", false},
		{"12345 +0.5%", false},
		{"La BCE décide une pause", false},
		{"https://example.com/article", false},
		{"le marché et la banque ou les taux", false},
	}
	for _, c := range cases {
		if got := ShouldTranslate(c.text); got != c.want {
			t.Fatalf("ShouldTranslate(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestTranslateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("langpair") != "en|fr" {
			t.Errorf("unexpected langpair %q", r.URL.Query().Get("langpair"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"La Fed maintient ses taux"},"responseStatus":200}`))
	}))
	defer srv.Close()

	s := New(srv.URL, "", nil, time.Hour, applogger.Nop())
	got, err := s.Translate(context.Background(), "Fed holds rates steady")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "La Fed maintient ses taux" {
		t.Fatalf("unexpected translation %q", got)
	}
}

func TestTranslateFailureReturnsOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := New(srv.URL, "", nil, time.Hour, applogger.Nop())
	got, err := s.Translate(context.Background(), "Fed holds rates steady")
	if err != nil {
		t.Fatalf("an outage must not surface as an error: %v", err)
	}
	if got != "Fed holds rates steady" {
		t.Fatalf("expected the original text back, got %q", got)
	}
}

func TestTranslateThrottled(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"ok"},"responseStatus":200}`))
	}))
	defer srv.Close()

	s := New(srv.URL, "", nil, time.Hour, applogger.Nop())
	// the second immediate call exceeds the 1 req/s budget
	_, _ = s.Translate(context.Background(), "first headline text")
	got, _ := s.Translate(context.Background(), "second headline text")
	if got != "second headline text" {
		t.Fatalf("throttled call must return the input, got %q", got)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly 1 api call, got %d", calls)
	}
}
