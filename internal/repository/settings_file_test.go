package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"FxDesk/internal/domain/models"
)

func TestSettingsLoadMissingFile(t *testing.T) {
	store := NewFileSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.DemoMode || got.Model != models.TierFast {
		t.Fatalf("missing file must yield defaults: %+v", got)
	}
	if !got.DailyLimit.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("default daily limit wrong: %s", got.DailyLimit)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := NewFileSettingsStore(filepath.Join(t.TempDir(), "settings.json"))

	in := models.DefaultSettings()
	in.APIKey = "sk-test"
	in.DemoMode = false
	in.Model = models.TierPremium
	in.APICosts = decimal.NewFromFloat(1.25)
	in.Prompts = map[string]string{"sentiment": "custom {newsContext}"}

	if err := store.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.APIKey != "sk-test" || got.Model != models.TierPremium || got.DemoMode {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if !got.APICosts.Equal(in.APICosts) {
		t.Fatalf("spend total %s, want %s", got.APICosts, in.APICosts)
	}
	if got.Prompts["sentiment"] != "custom {newsContext}" {
		t.Fatalf("prompt override lost: %v", got.Prompts)
	}
}

func TestSettingsLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	// partial blob, unknown model
	if err := os.WriteFile(path, []byte(`{"apiKey":"sk-x","gptModel":"gpt-9"}`), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := NewFileSettingsStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.APIKey != "sk-x" {
		t.Fatalf("explicit field lost: %+v", got)
	}
	if got.Model != models.TierFast {
		t.Fatalf("unknown model must fall back to the fast tier, got %q", got.Model)
	}
	if got.Theme != "dark" || got.RefreshInterval != 60 {
		t.Fatalf("zero fields not defaulted: %+v", got)
	}
}

func TestSettingsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := NewFileSettingsStore(path).Load(); err == nil {
		t.Fatalf("corrupt blob must error")
	}
}
