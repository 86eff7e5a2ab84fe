package advisor

import (
	"strings"
	"testing"
)

func TestCompileReplacesEveryOccurrence(t *testing.T) {
	got := Compile("{pair} vs {pair} in {session}", ContextBundle{
		"pair":    "EUR/USD",
		"session": "london",
	})
	if got != "EUR/USD vs EUR/USD in london" {
		t.Fatalf("unexpected compile: %q", got)
	}
}

func TestCompileMissingKeyIsEmpty(t *testing.T) {
	got := Compile("start {unknown} end", ContextBundle{})
	if got != "start  end" {
		t.Fatalf("missing key must substitute empty, got %q", got)
	}
}

func TestCompileNoReExpansion(t *testing.T) {
	got := Compile("{a}", ContextBundle{"a": "{b}", "b": "leak"})
	if got != "{b}" {
		t.Fatalf("value must be inserted literally, got %q", got)
	}
}

func TestCompileLeavesJSONBracesAlone(t *testing.T) {
	tpl := `Answer as JSON:
{
  "analysis": [{ "pair": "string" }]
}
Data: {marketContext}`
	got := Compile(tpl, ContextBundle{"marketContext": "EUR/USD: 1.09"})
	if !strings.Contains(got, `"analysis": [{ "pair": "string" }]`) {
		t.Fatalf("json example mangled: %q", got)
	}
	if strings.Contains(got, "{marketContext}") {
		t.Fatalf("placeholder not replaced: %q", got)
	}
}

func TestCompileDeterministic(t *testing.T) {
	tpl := "{newsContext} / {marketContext}"
	bundle := ContextBundle{"newsContext": "n", "marketContext": "m"}
	first := Compile(tpl, bundle)
	for i := 0; i < 50; i++ {
		if Compile(tpl, bundle) != first {
			t.Fatalf("compile is not deterministic")
		}
	}
}

func TestCompileForFeatureJSONSuffix(t *testing.T) {
	jsonFeat, _ := Lookup("sentiment")
	textFeat, _ := Lookup("fundamental")
	bundle := ContextBundle{"marketContext": "m", "newsContext": "n"}

	withSuffix := CompileForFeature(jsonFeat, "{marketContext}", bundle)
	if !strings.HasSuffix(withSuffix, jsonSuffix) {
		t.Fatalf("json-shaped feature missing suffix")
	}
	plain := CompileForFeature(textFeat, "{newsContext}", bundle)
	if strings.Contains(plain, "Respond ONLY") {
		t.Fatalf("narrative feature must not get the json suffix")
	}
}

func TestTemplateOverride(t *testing.T) {
	def := TemplateFor("sentiment", nil)
	if def == "" {
		t.Fatalf("default template missing")
	}
	custom := TemplateFor("sentiment", map[string]string{"sentiment": "custom {newsContext}"})
	if custom != "custom {newsContext}" {
		t.Fatalf("override ignored: %q", custom)
	}
	fallback := TemplateFor("sentiment", map[string]string{"sentiment": ""})
	if fallback != def {
		t.Fatalf("empty override must fall back to default")
	}
}
