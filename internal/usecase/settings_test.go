package usecase

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"FxDesk/internal/domain/models"
	"FxDesk/internal/repository"
	"FxDesk/internal/services/advisor"
)

func newTestSettingsManager(t *testing.T) (*SettingsManager, *advisor.Gate) {
	t.Helper()
	store := repository.NewFileSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	gate := advisor.NewGate(advisor.SpendLedger{
		DailyLimit: decimal.NewFromInt(5),
		ResetDate:  time.Now().Format(models.DateLayout),
	})
	return NewSettingsManager(store, gate), gate
}

func TestSettingsUpdateAppliesFields(t *testing.T) {
	m, gate := newTestSettingsManager(t)

	key := "sk-new"
	limit := 12.5
	model := string(models.TierPremium)
	updated, err := m.Update(&models.SettingsUpdateRequest{
		APIKey:     &key,
		DailyLimit: &limit,
		Model:      &model,
		Prompts:    map[string]string{"sentiment": "custom {newsContext}"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.APIKey != "sk-new" || updated.Model != models.TierPremium {
		t.Fatalf("fields not applied: %+v", updated)
	}
	if !gate.Ledger().DailyLimit.Equal(decimal.NewFromFloat(12.5)) {
		t.Fatalf("gate ceiling not synced: %s", gate.Ledger().DailyLimit)
	}

	// untouched fields keep their values on the next partial update
	theme := "light"
	again, err := m.Update(&models.SettingsUpdateRequest{Theme: &theme})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if again.APIKey != "sk-new" || again.Theme != "light" {
		t.Fatalf("partial update clobbered fields: %+v", again)
	}
	if again.Prompts["sentiment"] != "custom {newsContext}" {
		t.Fatalf("prompt override lost: %v", again.Prompts)
	}
}

func TestSettingsUpdateRejectsUnknownModel(t *testing.T) {
	m, _ := newTestSettingsManager(t)
	model := "gpt-99"
	if _, err := m.Update(&models.SettingsUpdateRequest{Model: &model}); err == nil {
		t.Fatalf("unknown model must be rejected")
	}
}

func TestSettingsGetReflectsLedger(t *testing.T) {
	m, gate := newTestSettingsManager(t)
	gate.Commit(1000, models.TierFast)

	got, err := m.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.APICosts.Equal(decimal.RequireFromString("0.002")) {
		t.Fatalf("spend not reflected: %s", got.APICosts)
	}
}

func TestSettingsEmptyPromptRemovesOverride(t *testing.T) {
	m, _ := newTestSettingsManager(t)
	if _, err := m.Update(&models.SettingsUpdateRequest{Prompts: map[string]string{"sentiment": "custom"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := m.Update(&models.SettingsUpdateRequest{Prompts: map[string]string{"sentiment": ""}})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := got.Prompts["sentiment"]; ok {
		t.Fatalf("empty prompt must remove the override")
	}
}
