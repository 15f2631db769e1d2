package policy

import (
	"fmt"
	"math"
	"time"

	"github.com/hyperjump/shirabe/internal/models"
)

// QueryContext carries the per-query inputs rules may consult. Rules are pure
// functions of (document metadata, query context); two evaluations with the
// same inputs always yield the same delta.
type QueryContext struct {
	Intent *Intent
	// TargetSystem is the caller-supplied or intent-inferred system tag.
	TargetSystem string
	// Now anchors freshness math.
	Now time.Time
}

// Rule is one additive scoring rule. Rules are independent and
// order-insensitive; the scorer sums their deltas onto the raw score.
type Rule interface {
	// Name returns the rule name for logging and debugging.
	Name() string
	// Delta returns the additive score adjustment for doc and a short
	// human-readable reason. A zero delta returns an empty reason.
	Delta(q *QueryContext, doc *models.Document) (float64, string)
}

// DefaultRules returns the full governed-retrieval rule set.
func DefaultRules(cfg *Config) []Rule {
	return []Rule{
		&StatusRule{config: cfg},
		&DocTypeRule{config: cfg},
		&IntentRule{config: cfg},
		&FreshnessRule{config: cfg},
		&SystemMatchRule{config: cfg},
	}
}

// StatusRule boosts approved documents, penalizes drafts, and heavily demotes
// deprecated or superseded ones. Demoted, not excluded: a deprecated document
// can still surface when nothing better matches.
type StatusRule struct {
	config *Config
}

// Name returns the rule name.
func (r *StatusRule) Name() string { return "status" }

// Delta applies the status-based adjustment.
func (r *StatusRule) Delta(q *QueryContext, doc *models.Document) (float64, string) {
	switch doc.Status {
	case models.StatusApproved:
		return r.config.ApprovedBoost, "boost: status=approved"
	case models.StatusDraft:
		return r.config.DraftPenalty, "penalty: status=draft"
	case models.StatusDeprecated:
		return r.config.DeprecatedPenalty, "penalty: status=deprecated"
	case models.StatusSuperseded:
		return r.config.DeprecatedPenalty, "penalty: status=superseded"
	default:
		return 0, ""
	}
}

// DocTypeRule gives standards and runbooks a small edge over postmortems and
// templates: authoritative guidance first.
type DocTypeRule struct {
	config *Config
}

// Name returns the rule name.
func (r *DocTypeRule) Name() string { return "doc_type" }

// Delta applies the authority boost.
func (r *DocTypeRule) Delta(q *QueryContext, doc *models.Document) (float64, string) {
	if doc.Type == models.DocTypeStandard || doc.Type == models.DocTypeRunbook {
		return r.config.AuthorityBoost, fmt.Sprintf("boost: authoritative doc_type=%s", doc.Type)
	}
	return 0, ""
}

// IntentRule boosts the doc type the query explicitly asks for: a question
// about "the runbook for X" should surface runbooks above a better-matching
// standard.
type IntentRule struct {
	config *Config
}

// Name returns the rule name.
func (r *IntentRule) Name() string { return "intent" }

// Delta applies intent-alignment adjustments.
func (r *IntentRule) Delta(q *QueryContext, doc *models.Document) (float64, string) {
	if q.Intent == nil {
		return 0, ""
	}
	if q.Intent.AsksStandard {
		if doc.Type == models.DocTypeStandard {
			return r.config.IntentTypeBoost, "boost: query asks standard + doc_type=standard"
		}
		if doc.Type == models.DocTypeADR {
			return r.config.IntentADRPenalty, "penalty: query asks standard + doc_type=adr"
		}
	}
	if q.Intent.AsksRunbook && doc.Type == models.DocTypeRunbook {
		return r.config.IntentTypeBoost, "boost: query asks runbook + doc_type=runbook"
	}
	if q.Intent.AsksPostmortem && doc.Type == models.DocTypePostmortem {
		return r.config.IntentPostmortemBoost, "boost: query asks postmortem + doc_type=postmortem"
	}
	return 0, ""
}

// FreshnessRule applies an exponentially decaying boost with document age and
// an extra penalty once past the staleness threshold. The delta is strictly
// non-increasing with age, so holding everything else equal an older document
// never outscores a newer one.
type FreshnessRule struct {
	config *Config
}

// Name returns the rule name.
func (r *FreshnessRule) Name() string { return "freshness" }

// Delta applies the freshness adjustment.
func (r *FreshnessRule) Delta(q *QueryContext, doc *models.Document) (float64, string) {
	if doc.LastUpdated.IsZero() {
		return 0, ""
	}
	ageDays := q.Now.Sub(doc.LastUpdated).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	delta := r.config.FreshnessBoost * math.Exp(-math.Ln2*ageDays/r.config.FreshnessHalfLifeDays)
	reason := fmt.Sprintf("boost: freshness age=%.0fd", ageDays)
	if ageDays > r.config.StaleAfterDays {
		delta += r.config.StalePenalty
		reason = fmt.Sprintf("penalty: stale age=%.0fd", ageDays)
	}
	return delta, reason
}

// SystemMatchRule boosts documents tagged with the query's target system.
// A mismatch is neutral, never punitive.
type SystemMatchRule struct {
	config *Config
}

// Name returns the rule name.
func (r *SystemMatchRule) Name() string { return "system_match" }

// Delta applies the system-match boost.
func (r *SystemMatchRule) Delta(q *QueryContext, doc *models.Document) (float64, string) {
	if q.TargetSystem == "" || doc.System == "" {
		return 0, ""
	}
	if doc.System == q.TargetSystem {
		return r.config.SystemMatchBoost, fmt.Sprintf("boost: system=%s", doc.System)
	}
	return 0, ""
}
