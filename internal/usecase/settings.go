package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"FxDesk/internal/domain/models"
	domrepo "FxDesk/internal/domain/repository"
	"FxDesk/internal/services/advisor"
)

// SettingsManager mediates settings reads and updates, keeping the budget
// gate's ceiling in step with the persisted blob.
type SettingsManager struct {
	store domrepo.SettingsStore
	gate  *advisor.Gate
}

func NewSettingsManager(store domrepo.SettingsStore, gate *advisor.Gate) *SettingsManager {
	return &SettingsManager{store: store, gate: gate}
}

func (m *SettingsManager) Get() (models.Settings, error) {
	settings, err := m.store.Load()
	if err != nil {
		return models.Settings{}, err
	}
	// the gate owns the live ledger state
	ledger := m.gate.Ledger()
	settings.APICosts = ledger.DailyTotal
	settings.LastResetDate = ledger.ResetDate
	return settings, nil
}

// Update applies the non-nil fields of req, persists the blob and syncs the
// gate ceiling.
func (m *SettingsManager) Update(req *models.SettingsUpdateRequest) (models.Settings, error) {
	settings, err := m.store.Load()
	if err != nil {
		return models.Settings{}, err
	}

	if req.APIKey != nil {
		settings.APIKey = *req.APIKey
	}
	if req.RefreshInterval != nil {
		settings.RefreshInterval = *req.RefreshInterval
	}
	if req.DemoMode != nil {
		settings.DemoMode = *req.DemoMode
	}
	if req.DailyLimit != nil {
		settings.DailyLimit = decimal.NewFromFloat(*req.DailyLimit)
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.Model != nil {
		tier := models.ModelTier(*req.Model)
		if !tier.Valid() {
			return models.Settings{}, fmt.Errorf("unknown model %q", *req.Model)
		}
		settings.Model = tier
	}
	for id, prompt := range req.Prompts {
		if settings.Prompts == nil {
			settings.Prompts = map[string]string{}
		}
		if prompt == "" {
			delete(settings.Prompts, id)
			continue
		}
		settings.Prompts[id] = prompt
	}

	ledger := m.gate.Ledger()
	settings.APICosts = ledger.DailyTotal
	settings.LastResetDate = ledger.ResetDate

	if err := m.store.Save(settings); err != nil {
		return models.Settings{}, err
	}
	m.gate.SetLimit(settings.DailyLimit)
	return settings, nil
}

// APIKey returns the configured key, falling back to fallback when the
// blob has none. Used by the completion client per request.
func (m *SettingsManager) APIKey(fallback string) func() string {
	return func() string {
		settings, err := m.store.Load()
		if err != nil || settings.APIKey == "" {
			return fallback
		}
		return settings.APIKey
	}
}

// PersistLedger is the gate's persistence hook: it folds the updated spend
// state back into the settings blob.
func PersistLedger(store domrepo.SettingsStore) func(advisor.SpendLedger) error {
	return func(ledger advisor.SpendLedger) error {
		settings, err := store.Load()
		if err != nil {
			return err
		}
		settings.APICosts = ledger.DailyTotal
		settings.LastResetDate = ledger.ResetDate
		return store.Save(settings)
	}
}
