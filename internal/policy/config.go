// Package policy implements governance-aware scoring and selection: additive
// policy rules over raw similarity scores, hard filters, per-document
// deduplication, and per-doc-type quota allocation.
package policy

import "github.com/hyperjump/shirabe/internal/models"

// Config holds all tunable boost and penalty constants for policy scoring.
type Config struct {
	// Status rule deltas
	ApprovedBoost     float64 `yaml:"approved_boost"`     // default: 0.08
	DraftPenalty      float64 `yaml:"draft_penalty"`      // default: -0.10
	DeprecatedPenalty float64 `yaml:"deprecated_penalty"` // default: -0.30 (also superseded)

	// Doc-type authority rule: standards and runbooks over postmortems/templates
	AuthorityBoost float64 `yaml:"authority_boost"` // default: 0.05

	// Intent rule: boost the doc type the query explicitly asks for
	IntentTypeBoost       float64 `yaml:"intent_type_boost"`       // default: 0.15
	IntentPostmortemBoost float64 `yaml:"intent_postmortem_boost"` // default: 0.10
	IntentADRPenalty      float64 `yaml:"intent_adr_penalty"`      // default: -0.05

	// Freshness rule: exponential decay of the boost with document age,
	// plus an extra penalty once past the staleness threshold
	FreshnessBoost        float64 `yaml:"freshness_boost"`          // default: 0.05
	FreshnessHalfLifeDays float64 `yaml:"freshness_half_life_days"` // default: 365
	StaleAfterDays        float64 `yaml:"stale_after_days"`         // default: 730
	StalePenalty          float64 `yaml:"stale_penalty"`            // default: -0.04

	// System-match rule (mismatch is neutral, never punitive)
	SystemMatchBoost float64 `yaml:"system_match_boost"` // default: 0.06

	// DefaultQuotas caps results per doc type when the caller supplies none
	// and the query carries no recognizable intent.
	DefaultQuotas map[models.DocType]int `yaml:"default_quotas"`
}

// DefaultConfig returns the default policy configuration.
func DefaultConfig() *Config {
	return &Config{
		ApprovedBoost:     0.08,
		DraftPenalty:      -0.10,
		DeprecatedPenalty: -0.30,

		AuthorityBoost: 0.05,

		IntentTypeBoost:       0.15,
		IntentPostmortemBoost: 0.10,
		IntentADRPenalty:      -0.05,

		FreshnessBoost:        0.05,
		FreshnessHalfLifeDays: 365,
		StaleAfterDays:        730,
		StalePenalty:          -0.04,

		SystemMatchBoost: 0.06,

		DefaultQuotas: map[models.DocType]int{
			models.DocTypeStandard:   2,
			models.DocTypeADR:        2,
			models.DocTypeRunbook:    1,
			models.DocTypePostmortem: 1,
			models.DocTypeTemplate:   1,
		},
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.ApprovedBoost == 0 {
		c.ApprovedBoost = defaults.ApprovedBoost
	}
	if c.DraftPenalty == 0 {
		c.DraftPenalty = defaults.DraftPenalty
	}
	if c.DeprecatedPenalty == 0 {
		c.DeprecatedPenalty = defaults.DeprecatedPenalty
	}
	if c.AuthorityBoost == 0 {
		c.AuthorityBoost = defaults.AuthorityBoost
	}
	if c.IntentTypeBoost == 0 {
		c.IntentTypeBoost = defaults.IntentTypeBoost
	}
	if c.IntentPostmortemBoost == 0 {
		c.IntentPostmortemBoost = defaults.IntentPostmortemBoost
	}
	if c.IntentADRPenalty == 0 {
		c.IntentADRPenalty = defaults.IntentADRPenalty
	}
	if c.FreshnessBoost == 0 {
		c.FreshnessBoost = defaults.FreshnessBoost
	}
	if c.FreshnessHalfLifeDays == 0 {
		c.FreshnessHalfLifeDays = defaults.FreshnessHalfLifeDays
	}
	if c.StaleAfterDays == 0 {
		c.StaleAfterDays = defaults.StaleAfterDays
	}
	if c.StalePenalty == 0 {
		c.StalePenalty = defaults.StalePenalty
	}
	if c.SystemMatchBoost == 0 {
		c.SystemMatchBoost = defaults.SystemMatchBoost
	}
	if c.DefaultQuotas == nil {
		c.DefaultQuotas = defaults.DefaultQuotas
	}
}
