package advisor

import (
	"errors"
	"testing"

	applogger "FxDesk/pkg/logger"
)

func testResolver() *Resolver {
	return NewResolver(applogger.Nop())
}

func mustFeature(t *testing.T, id string) *Feature {
	t.Helper()
	f, ok := Lookup(id)
	if !ok {
		t.Fatalf("feature %q not registered", id)
	}
	return &f
}

func TestResolveDirectParse(t *testing.T) {
	f := mustFeature(t, "sentiment")
	raw := `{"analysis": [{"pair": "EUR/USD", "sentiment": "bullish", "score": 42, "confidence": 80, "reasoning": "ECB pause priced in"}]}`
	els, err := testResolver().Resolve(f, raw)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(els) != 1 || els[0]["pair"] != "EUR/USD" {
		t.Fatalf("unexpected elements: %v", els)
	}
}

func TestResolveRepairsWrappedJSON(t *testing.T) {
	f := mustFeature(t, "centralbank")
	raw := "Sure! Here you go:\n{\"banks\": [{\"name\": \"FED\", \"stance\": \"Hawkish\", \"summary\": \"Rates held\", \"trend\": \"up\"},]}\nLet me know if you need more."
	els, err := testResolver().Resolve(f, raw)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(els) != 1 || els[0]["name"] != "FED" {
		t.Fatalf("unexpected elements: %v", els)
	}
}

func TestResolveDropsInvalidElements(t *testing.T) {
	f := mustFeature(t, "sentiment")
	// score 150 is out of range, missing confidence on the third
	raw := `{"analysis": [
		{"pair": "EUR/USD", "sentiment": "bullish", "score": 42, "confidence": 80, "reasoning": "ok"},
		{"pair": "GBP/USD", "sentiment": "bearish", "score": 150, "confidence": 80, "reasoning": "bad score"},
		{"pair": "USD/JPY", "sentiment": "neutral", "score": 0, "reasoning": "no confidence"},
		{"pair": "USD/CHF", "sentiment": "neutral", "score": -10, "confidence": 55, "reasoning": "ok"}
	]}`
	els, err := testResolver().Resolve(f, raw)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(els) != 2 {
		t.Fatalf("expected 2 surviving elements, got %d", len(els))
	}
	if els[0]["pair"] != "EUR/USD" || els[1]["pair"] != "USD/CHF" {
		t.Fatalf("wrong survivors: %v", els)
	}
}

func TestResolveAllInvalid(t *testing.T) {
	f := mustFeature(t, "sentiment")
	raw := `{"analysis": [{"pair": "EUR/USD", "sentiment": "sideways", "score": 0, "confidence": 50, "reasoning": "bad enum"}]}`
	_, err := testResolver().Resolve(f, raw)
	if !errors.Is(err, ErrNoValidResults) {
		t.Fatalf("expected ErrNoValidResults, got %v", err)
	}
}

func TestResolveMissingRootKey(t *testing.T) {
	f := mustFeature(t, "sentiment")
	_, err := testResolver().Resolve(f, `{"results": []}`)
	if !errors.Is(err, ErrNoValidResults) {
		t.Fatalf("expected ErrNoValidResults, got %v", err)
	}
}

func TestResolveUnparseable(t *testing.T) {
	f := mustFeature(t, "sentiment")
	_, err := testResolver().Resolve(f, "{completely broken")
	if !errors.Is(err, ErrMalformedJSON) {
		t.Fatalf("expected ErrMalformedJSON, got %v", err)
	}
}

func TestResolveNoJSONAtAll(t *testing.T) {
	f := mustFeature(t, "sentiment")
	_, err := testResolver().Resolve(f, "I'm sorry, I cannot provide that.")
	if !errors.Is(err, ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound, got %v", err)
	}
}

func TestResolveSingleObjectRoot(t *testing.T) {
	f := mustFeature(t, "sentiment")
	raw := `{"analysis": {"pair": "EUR/USD", "sentiment": "neutral", "score": 0, "confidence": 60, "reasoning": "quiet session"}}`
	els, err := testResolver().Resolve(f, raw)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(els) != 1 {
		t.Fatalf("single object must wrap into one element, got %d", len(els))
	}
}

func TestResolveCapsElementCount(t *testing.T) {
	f := mustFeature(t, "volatility")
	raw := `{"analysis": [
		{"pair": "EUR/USD", "volatility": "high", "score": 80, "triggers": ["CPI", "ECB"], "prediction": "wider ranges"},
		{"pair": "GBP/USD", "volatility": "medium", "score": 50, "triggers": ["BOE", "GDP"], "prediction": "steady"},
		{"pair": "USD/JPY", "volatility": "low", "score": 20, "triggers": ["BOJ", "flows"], "prediction": "drift"},
		{"pair": "EUR/USD", "volatility": "low", "score": 10, "triggers": ["none", "none"], "prediction": "extra"}
	]}`
	els, err := testResolver().Resolve(f, raw)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(els) != 3 {
		t.Fatalf("expected MaxElements cap of 3, got %d", len(els))
	}
}

func TestResolveTextRefusal(t *testing.T) {
	f := mustFeature(t, "fundamental")
	_, err := testResolver().ResolveText(f, "I'm sorry, I cannot analyze that.")
	if !errors.Is(err, ErrNoValidResults) {
		t.Fatalf("expected refusal detection, got %v", err)
	}
	_, err = testResolver().ResolveText(f, "Market overview follows. I'm sorry, I cannot provide a full analysis of this event.")
	if !errors.Is(err, ErrNoValidResults) {
		t.Fatalf("expected mid-text refusal detection, got %v", err)
	}
	text, err := testResolver().ResolveText(f, "  EUR strength reflects the ECB pause.  ")
	if err != nil {
		t.Fatalf("resolve text: %v", err)
	}
	if text != "EUR strength reflects the ECB pause." {
		t.Fatalf("text not trimmed: %q", text)
	}
}
