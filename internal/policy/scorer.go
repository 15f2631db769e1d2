package policy

import (
	"fmt"
	"sort"

	"github.com/hyperjump/shirabe/internal/models"
)

// Scorer computes adjusted scores by summing rule deltas onto raw similarity
// scores. Scoring is deterministic: a pure function of candidate metadata,
// the query context, and the rule set.
type Scorer struct {
	rules []Rule
}

// NewScorer creates a scorer with the given rules (see DefaultRules).
func NewScorer(rules []Rule) *Scorer {
	return &Scorer{rules: rules}
}

// Score populates AdjustedScore and Reasons on every candidate in place.
func (s *Scorer) Score(q *QueryContext, candidates []*models.Candidate) {
	for _, c := range candidates {
		c.AdjustedScore = c.RawScore
		c.Reasons = []string{fmt.Sprintf("sim=%.4f", c.RawScore)}
		for _, rule := range s.rules {
			delta, reason := rule.Delta(q, c.Document)
			if delta == 0 {
				continue
			}
			c.AdjustedScore += delta
			c.Reasons = append(c.Reasons, reason)
		}
	}
}

// SortCandidates orders candidates by adjusted score descending with a total
// tie-break order: raw score descending, then most recent last_updated, then
// lexicographic chunk ID. The total order makes output byte-identical across
// runs for the same inputs.
func SortCandidates(candidates []*models.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.AdjustedScore != b.AdjustedScore {
			return a.AdjustedScore > b.AdjustedScore
		}
		if a.RawScore != b.RawScore {
			return a.RawScore > b.RawScore
		}
		if !a.Document.LastUpdated.Equal(b.Document.LastUpdated) {
			return a.Document.LastUpdated.After(b.Document.LastUpdated)
		}
		return a.ChunkID < b.ChunkID
	})
}
