package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"FxDesk/internal/domain/models"
	domsvc "FxDesk/internal/domain/service"
	"FxDesk/internal/repository"
	"FxDesk/internal/services/advisor"
	applogger "FxDesk/pkg/logger"
)

type stubCompleter struct {
	text   string
	tokens int
	err    error

	mu    sync.Mutex
	last  domsvc.CompletionRequest
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, req domsvc.CompletionRequest) (domsvc.CompletionResponse, error) {
	s.mu.Lock()
	s.last = req
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return domsvc.CompletionResponse{}, s.err
	}
	return domsvc.CompletionResponse{Text: s.text, TotalTokens: s.tokens}, nil
}

func seededFeeds() *FeedSnapshot {
	feeds := NewFeedSnapshot()
	feeds.SetNews([]models.NewsItem{
		{Title: "Fed holds rates steady as inflation cools", Content: "rate decision", PubDate: time.Now().Add(-time.Hour)},
		{Title: "EUR/USD volatility rises into CPI", Content: "usd movement", PubDate: time.Now().Add(-2 * time.Hour)},
	})
	feeds.SetQuotes([]models.Quote{
		{Symbol: "EUR/USD", Price: 1.0925, ChangePercent: 0.14},
		{Symbol: "GBP/USD", Price: 1.2650, ChangePercent: -0.20},
	})
	return feeds
}

func newTestAnalyzer(t *testing.T, completer domsvc.Completer, settings models.Settings) (*Analyzer, *advisor.Gate) {
	t.Helper()
	store := repository.NewFileSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	if err := store.Save(settings); err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	gate := advisor.NewGate(advisor.SpendLedger{
		DailyTotal: settings.APICosts,
		DailyLimit: settings.DailyLimit,
		ResetDate:  settings.LastResetDate,
	}, advisor.WithPersist(PersistLedger(store)))

	a := NewAnalyzer(seededFeeds(), store, gate, completer, advisor.NewResolver(applogger.Nop()), nil, nil, applogger.Nop())
	return a, gate
}

func baseSettings() models.Settings {
	s := models.DefaultSettings()
	s.APIKey = "sk-test"
	s.DemoMode = false
	return s
}

func TestRunAnalysisHappyPath(t *testing.T) {
	completer := &stubCompleter{
		text:   `{"analysis": [{"pair": "EUR/USD", "sentiment": "bullish", "score": 40, "confidence": 75, "reasoning": "Fed pause supports risk"}]}`,
		tokens: 850,
	}
	a, gate := newTestAnalyzer(t, completer, baseSettings())

	run, err := a.RunAnalysis(context.Background(), "sentiment", nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(run.Elements) != 1 || run.Elements[0]["pair"] != "EUR/USD" {
		t.Fatalf("unexpected elements: %v", run.Elements)
	}
	if run.Tokens != 850 {
		t.Fatalf("tokens %d, want 850", run.Tokens)
	}
	// 850 tokens at the fast tier is 0.0017
	if run.Cost != "0.0017" {
		t.Fatalf("cost %q, want 0.0017", run.Cost)
	}
	if !gate.Ledger().DailyTotal.Equal(decimal.RequireFromString("0.0017")) {
		t.Fatalf("ledger not committed: %s", gate.Ledger().DailyTotal)
	}
	if completer.last.JSONShaped != true {
		t.Fatalf("sentiment must request json output")
	}
}

func TestRunAnalysisPartialValidity(t *testing.T) {
	completer := &stubCompleter{
		text: `{"analysis": [
			{"pair": "EUR/USD", "sentiment": "bullish", "score": 40, "confidence": 75, "reasoning": "ok"},
			{"pair": "GBP/USD", "sentiment": "sideways", "score": 0, "confidence": 50, "reasoning": "bad enum"}
		]}`,
		tokens: 400,
	}
	a, _ := newTestAnalyzer(t, completer, baseSettings())

	run, err := a.RunAnalysis(context.Background(), "sentiment", nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(run.Elements) != 1 {
		t.Fatalf("invalid element not dropped: %v", run.Elements)
	}
}

func TestRunAnalysisBudgetRejection(t *testing.T) {
	settings := baseSettings()
	settings.APICosts = decimal.RequireFromString("4.999")
	settings.DailyLimit = decimal.NewFromInt(5)

	completer := &stubCompleter{text: "{}", tokens: 10}
	a, _ := newTestAnalyzer(t, completer, settings)

	_, err := a.RunAnalysis(context.Background(), "sentiment", nil)
	if !errors.Is(err, advisor.ErrDailyLimitExceeded) {
		t.Fatalf("expected ErrDailyLimitExceeded, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("completion must not be called after a budget rejection")
	}
}

func TestRunAnalysisNoRelevantData(t *testing.T) {
	completer := &stubCompleter{text: "{}", tokens: 10}
	store := repository.NewFileSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	if err := store.Save(baseSettings()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	gate := advisor.NewGate(advisor.SpendLedger{DailyLimit: decimal.NewFromInt(5), ResetDate: time.Now().Format(models.DateLayout)})
	// empty feeds: nothing matches the commodities keyword filter
	a := NewAnalyzer(NewFeedSnapshot(), store, gate, completer, advisor.NewResolver(applogger.Nop()), nil, nil, applogger.Nop())

	_, err := a.RunAnalysis(context.Background(), "commodities", nil)
	if !errors.Is(err, advisor.ErrNoRelevantData) {
		t.Fatalf("expected ErrNoRelevantData, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("completion must not be called without relevant data")
	}
}

func TestRunAnalysisCommitsSpendOnBadCompletion(t *testing.T) {
	completer := &stubCompleter{text: "no structured content here", tokens: 750}
	a, gate := newTestAnalyzer(t, completer, baseSettings())

	_, err := a.RunAnalysis(context.Background(), "sentiment", nil)
	if err == nil {
		t.Fatalf("expected resolution failure")
	}
	// the API billed 750 tokens; 750 at the fast tier is 0.0015
	if !gate.Ledger().DailyTotal.Equal(decimal.RequireFromString("0.0015")) {
		t.Fatalf("spend not committed: %s", gate.Ledger().DailyTotal)
	}
}

func TestRunAnalysisUnknownFeature(t *testing.T) {
	a, _ := newTestAnalyzer(t, &stubCompleter{}, baseSettings())
	_, err := a.RunAnalysis(context.Background(), "astrology", nil)
	if !errors.Is(err, advisor.ErrUnknownFeature) {
		t.Fatalf("expected ErrUnknownFeature, got %v", err)
	}
}

func TestRunAnalysisRepairedCompletion(t *testing.T) {
	completer := &stubCompleter{
		text:   "Here you go:\n{\"analysis\": [{\"pair\": \"EUR/USD\", \"sentiment\": \"neutral\", \"score\": 0, \"confidence\": 50, \"reasoning\": \"calm\"},]}",
		tokens: 300,
	}
	a, _ := newTestAnalyzer(t, completer, baseSettings())

	run, err := a.RunAnalysis(context.Background(), "sentiment", nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(run.Elements) != 1 {
		t.Fatalf("repaired completion lost elements: %v", run.Elements)
	}
}

func TestRunAnalysisPersistsSpend(t *testing.T) {
	completer := &stubCompleter{
		text:   `{"analysis": [{"pair": "EUR/USD", "sentiment": "bullish", "score": 40, "confidence": 75, "reasoning": "ok"}]}`,
		tokens: 1000,
	}
	store := repository.NewFileSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	if err := store.Save(baseSettings()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	gate := advisor.NewGate(advisor.SpendLedger{
		DailyLimit: decimal.NewFromInt(5),
		ResetDate:  time.Now().Format(models.DateLayout),
	}, advisor.WithPersist(PersistLedger(store)))
	a := NewAnalyzer(seededFeeds(), store, gate, completer, advisor.NewResolver(applogger.Nop()), nil, nil, applogger.Nop())

	if _, err := a.RunAnalysis(context.Background(), "sentiment", nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	persisted, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !persisted.APICosts.Equal(decimal.RequireFromString("0.002")) {
		t.Fatalf("spend not persisted: %s", persisted.APICosts)
	}
}

func TestAskRoutesToInsights(t *testing.T) {
	completer := &stubCompleter{text: "EUR strength reflects the Fed pause.", tokens: 200}
	a, _ := newTestAnalyzer(t, completer, baseSettings())

	run, err := a.Ask(context.Background(), "Why is EUR strong today?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if run.Feature != "insights" || run.Text == "" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if completer.last.JSONShaped {
		t.Fatalf("insights must not request json output")
	}
}

func TestAnalyzeAllIsolatesFailures(t *testing.T) {
	completer := &stubCompleter{
		text:   `{"analysis": [{"pair": "EUR/USD", "sentiment": "bullish", "score": 40, "confidence": 75, "reasoning": "ok"}]}`,
		tokens: 100,
	}
	a, _ := newTestAnalyzer(t, completer, baseSettings())

	results := a.AnalyzeAll(context.Background(), map[string]string{"session": "london"})
	if len(results) != len(advisor.JSONFeatureIDs()) {
		t.Fatalf("expected one outcome per json feature, got %d", len(results))
	}
	// sentiment parses against its schema; centralbank rejects the root key
	if results["sentiment"].Err != nil {
		t.Fatalf("sentiment should succeed: %v", results["sentiment"].Err)
	}
	if results["centralbank"].Err == nil {
		t.Fatalf("centralbank should fail on the mismatched root key")
	}
}
