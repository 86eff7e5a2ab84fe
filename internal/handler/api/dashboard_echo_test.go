package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	models "FxDesk/internal/domain/models"
	domsvc "FxDesk/internal/domain/service"
	"FxDesk/internal/repository"
	"FxDesk/internal/services/advisor"
	"FxDesk/internal/usecase"
	applogger "FxDesk/pkg/logger"
)

type stubCompleter struct {
	text   string
	tokens int
	err    error
}

func (s *stubCompleter) Complete(_ context.Context, _ domsvc.CompletionRequest) (domsvc.CompletionResponse, error) {
	if s.err != nil {
		return domsvc.CompletionResponse{}, s.err
	}
	return domsvc.CompletionResponse{Text: s.text, TotalTokens: s.tokens}, nil
}

func newTestServer(t *testing.T, completer domsvc.Completer) *echo.Echo {
	t.Helper()

	store := repository.NewFileSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	settings := models.DefaultSettings()
	settings.APIKey = "sk-test"
	settings.DemoMode = false
	if err := store.Save(settings); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	gate := advisor.NewGate(advisor.SpendLedger{
		DailyTotal: settings.APICosts,
		DailyLimit: settings.DailyLimit,
		ResetDate:  settings.LastResetDate,
	}, advisor.WithPersist(usecase.PersistLedger(store)))

	feeds := usecase.NewFeedSnapshot()
	feeds.SetNews([]models.NewsItem{
		{Title: "ECB signals a longer hold on rates", Content: "rates", PubDate: time.Now()},
	})
	feeds.SetQuotes([]models.Quote{
		{Symbol: "EUR/USD", Price: 1.0925, ChangePercent: 0.14},
	})

	analyzer := usecase.NewAnalyzer(
		feeds, store, gate, completer,
		advisor.NewResolver(applogger.Nop()), nil, nil, applogger.Nop(),
	)
	manager := usecase.NewSettingsManager(store, gate)

	e := echo.New()
	h := NewDashboardHandler(applogger.Nop(), analyzer, manager, feeds, nil)
	h.RegisterRoutes(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, envelope
}

func TestAnalyzeEndpoint(t *testing.T) {
	completer := &stubCompleter{
		text:   `{"analysis": [{"pair": "EUR/USD", "sentiment": "bullish", "score": 40, "confidence": 75, "reasoning": "hold supports risk"}]}`,
		tokens: 500,
	}
	e := newTestServer(t, completer)

	code, env := doJSON(t, e, http.MethodPost, "/api/analyze/sentiment", `{"pair": "EUR/USD"}`)
	if code != http.StatusOK {
		t.Fatalf("http status %d", code)
	}
	if env["status"].(float64) != http.StatusOK {
		t.Fatalf("envelope status %v", env["status"])
	}
	data := env["data"].(map[string]any)
	if data["feature"] != "sentiment" {
		t.Fatalf("feature %v", data["feature"])
	}
	elements := data["elements"].([]any)
	if len(elements) != 1 {
		t.Fatalf("elements %v", elements)
	}
}

func TestAnalyzeUnknownFeature(t *testing.T) {
	e := newTestServer(t, &stubCompleter{})

	_, env := doJSON(t, e, http.MethodPost, "/api/analyze/astrology", "")
	if env["status"].(float64) != http.StatusNotFound {
		t.Fatalf("envelope status %v, want 404", env["status"])
	}
}

func TestAnalyzeBadCompletion(t *testing.T) {
	completer := &stubCompleter{text: "no structured content here", tokens: 50}
	e := newTestServer(t, completer)

	_, env := doJSON(t, e, http.MethodPost, "/api/analyze/sentiment", "")
	if env["status"].(float64) != http.StatusBadGateway {
		t.Fatalf("envelope status %v, want 502", env["status"])
	}
}

func TestAnalyzeAllRejectsMalformedBody(t *testing.T) {
	e := newTestServer(t, &stubCompleter{})

	_, env := doJSON(t, e, http.MethodPost, "/api/analyze", `{"session": london}`)
	if env["status"].(float64) != http.StatusBadRequest {
		t.Fatalf("envelope status %v, want 400", env["status"])
	}
}

func TestAskEndpoint(t *testing.T) {
	completer := &stubCompleter{text: "EUR/USD remains rangebound while the ECB holds.", tokens: 120}
	e := newTestServer(t, completer)

	code, env := doJSON(t, e, http.MethodPost, "/api/ask", `{"question": "Where is EUR/USD heading this week?"}`)
	if code != http.StatusOK {
		t.Fatalf("http status %d", code)
	}
	data := env["data"].(map[string]any)
	if data["feature"] != "insights" {
		t.Fatalf("feature %v", data["feature"])
	}
	if !strings.Contains(data["text"].(string), "rangebound") {
		t.Fatalf("text %v", data["text"])
	}
}

func TestAskRequiresQuestion(t *testing.T) {
	e := newTestServer(t, &stubCompleter{})

	_, env := doJSON(t, e, http.MethodPost, "/api/ask", `{"question": ""}`)
	if env["status"].(float64) != http.StatusBadRequest {
		t.Fatalf("envelope status %v, want 400", env["status"])
	}
}

func TestFeedEndpoints(t *testing.T) {
	e := newTestServer(t, &stubCompleter{})

	for _, path := range []string{"/api/news", "/api/quotes", "/api/calendar"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: http status %d", path, rec.Code)
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	e := newTestServer(t, &stubCompleter{})

	_, env := doJSON(t, e, http.MethodPut, "/api/settings", `{"dailyLimit": 12.5, "theme": "light"}`)
	data := env["data"].(map[string]any)
	if data["dailyLimit"] != "12.5" {
		t.Fatalf("dailyLimit %v", data["dailyLimit"])
	}
	if data["theme"] != "light" {
		t.Fatalf("theme %v", data["theme"])
	}
	if data["apiKey"] != "sk-****" {
		t.Fatalf("api key leaked: %v", data["apiKey"])
	}

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["data"].(map[string]any)["theme"] != "light" {
		t.Fatalf("update not persisted")
	}
}

func TestSettingsRejectsUnknownModel(t *testing.T) {
	e := newTestServer(t, &stubCompleter{})

	_, env := doJSON(t, e, http.MethodPut, "/api/settings", `{"gptModel": "gpt-9"}`)
	if env["status"].(float64) != http.StatusBadRequest {
		t.Fatalf("envelope status %v, want 400", env["status"])
	}
}

func TestLogsEndpoint(t *testing.T) {
	e := newTestServer(t, &stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/api/logs?limit=5", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("http status %d", rec.Code)
	}
}
