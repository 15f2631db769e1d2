package policy

import (
	"strings"

	"github.com/hyperjump/shirabe/internal/models"
)

// Intent is the classified shape of a query: which doc type it asks for, if
// any, and which system it concerns. Derived once per query from keyword
// heuristics; pure function of the query string.
type Intent struct {
	AsksStandard   bool
	AsksRunbook    bool
	AsksPostmortem bool
	AsksADR        bool
	// System is the inferred target system ("identity", "billing",
	// "observability") or empty when no system keyword appears.
	System string
}

var (
	standardKeywords   = []string{"standard", "policy", "rule", "guardrail"}
	runbookKeywords    = []string{"runbook", "incident", "outage", "mitigation", "triage"}
	postmortemKeywords = []string{"postmortem", "what happened", "incident learning", "rca"}
	adrKeywords        = []string{"adr", "decision record", "why did we choose", "precedent"}

	systemKeywords = map[string][]string{
		"identity":      {"auth", "authentication", "oauth", "oidc", "jwt", "login"},
		"billing":       {"billing", "invoice", "payment"},
		"observability": {"tracing", "logging", "otel", "observability"},
	}
)

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// AnalyzeIntent classifies a query string.
func AnalyzeIntent(query string) *Intent {
	ql := strings.ToLower(query)
	return &Intent{
		AsksStandard:   containsAny(ql, standardKeywords),
		AsksRunbook:    containsAny(ql, runbookKeywords),
		AsksPostmortem: containsAny(ql, postmortemKeywords),
		AsksADR:        containsAny(ql, adrKeywords),
		System:         detectSystem(ql),
	}
}

// systemOrder fixes the check order so detection is deterministic when a
// query mentions more than one system.
var systemOrder = []string{"identity", "billing", "observability"}

func detectSystem(ql string) string {
	for _, system := range systemOrder {
		if containsAny(ql, systemKeywords[system]) {
			return system
		}
	}
	return ""
}

// QuotasFor returns the doc-type quota map for this intent. Answer composition
// follows what the query asks for: an operational question gets runbooks
// first, an RCA question gets postmortems first, and so on.
func (i *Intent) QuotasFor(cfg *Config) map[models.DocType]int {
	switch {
	case i.AsksRunbook:
		return map[models.DocType]int{
			models.DocTypeRunbook:    3,
			models.DocTypeStandard:   2,
			models.DocTypePostmortem: 1,
			models.DocTypeADR:        1,
			models.DocTypeTemplate:   1,
		}
	case i.AsksPostmortem:
		return map[models.DocType]int{
			models.DocTypePostmortem: 3,
			models.DocTypeStandard:   2,
			models.DocTypeADR:        1,
			models.DocTypeRunbook:    1,
			models.DocTypeTemplate:   1,
		}
	case i.AsksStandard:
		return map[models.DocType]int{
			models.DocTypeStandard:   3,
			models.DocTypeADR:        1,
			models.DocTypeRunbook:    1,
			models.DocTypePostmortem: 1,
			models.DocTypeTemplate:   1,
		}
	case i.AsksADR:
		return map[models.DocType]int{
			models.DocTypeADR:        3,
			models.DocTypeStandard:   2,
			models.DocTypePostmortem: 1,
			models.DocTypeRunbook:    1,
			models.DocTypeTemplate:   1,
		}
	default:
		return cfg.DefaultQuotas
	}
}
