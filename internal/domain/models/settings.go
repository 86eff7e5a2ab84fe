package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ModelTier is a named completion-model option with a fixed cost per 1000 tokens.
type ModelTier string

const (
	TierFast     ModelTier = "gpt-3.5-turbo"
	TierStandard ModelTier = "gpt-4-turbo-preview"
	TierPremium  ModelTier = "gpt-4"
)

var tierCostPer1K = map[ModelTier]decimal.Decimal{
	TierFast:     decimal.NewFromFloat(0.002),
	TierStandard: decimal.NewFromFloat(0.01),
	TierPremium:  decimal.NewFromFloat(0.03),
}

// CostPer1K returns the USD cost per 1000 tokens for the tier.
// Unknown tiers price as the fast tier.
func (t ModelTier) CostPer1K() decimal.Decimal {
	if c, ok := tierCostPer1K[t]; ok {
		return c
	}
	return tierCostPer1K[TierFast]
}

// Valid reports whether the tier is one of the known options.
func (t ModelTier) Valid() bool {
	_, ok := tierCostPer1K[t]
	return ok
}

// DateLayout is the calendar-date format used for ledger rollover.
const DateLayout = "2006-01-02"

// Settings is the persisted user configuration blob. It also carries the
// spend ledger fields (APICosts, LastResetDate) so the whole record round-trips
// as a single JSON document, matching what the dashboard stores.
type Settings struct {
	APIKey          string            `json:"apiKey"`
	RefreshInterval int               `json:"refreshInterval"` // seconds
	DemoMode        bool              `json:"demoMode"`
	APICosts        decimal.Decimal   `json:"apiCosts"`
	DailyLimit      decimal.Decimal   `json:"dailyLimit"`
	LastResetDate   string            `json:"lastResetDate"` // DateLayout
	Theme           string            `json:"theme"`
	Model           ModelTier         `json:"gptModel"`
	Prompts         map[string]string `json:"prompts"`
}

// DefaultSettings returns the baseline configuration merged under any loaded blob.
func DefaultSettings() Settings {
	return Settings{
		RefreshInterval: 60,
		DemoMode:        true,
		APICosts:        decimal.Zero,
		DailyLimit:      decimal.NewFromInt(5),
		LastResetDate:   time.Now().Format(DateLayout),
		Theme:           "dark",
		Model:           TierFast,
		Prompts:         map[string]string{},
	}
}

// Merge overlays s on top of the defaults: zero-valued fields and unknown
// prompt keys fall back to def.
func (s Settings) Merge(def Settings) Settings {
	out := s
	if out.RefreshInterval <= 0 {
		out.RefreshInterval = def.RefreshInterval
	}
	if out.DailyLimit.LessThanOrEqual(decimal.Zero) {
		out.DailyLimit = def.DailyLimit
	}
	if out.LastResetDate == "" {
		out.LastResetDate = def.LastResetDate
	}
	if out.Theme == "" {
		out.Theme = def.Theme
	}
	if !out.Model.Valid() {
		out.Model = def.Model
	}
	merged := make(map[string]string, len(def.Prompts))
	for k, v := range def.Prompts {
		merged[k] = v
	}
	for k, v := range out.Prompts {
		if v != "" {
			merged[k] = v
		}
	}
	out.Prompts = merged
	return out
}
