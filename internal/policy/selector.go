package policy

import "github.com/hyperjump/shirabe/internal/models"

// Select transforms a sorted candidate list into the final admitted list of
// at most topK entries: at most one chunk per document (the highest-ranked
// wins), and at most quotas[t] entries per doc type t. Single pass in rank
// order; a candidate skipped for quota is never reconsidered, and slots are
// filled only by lower-ranked candidates of non-exhausted types. A doc type
// absent from the quota map is never admitted.
//
// If fewer distinct documents survive than topK, the result is shorter than
// topK; it is never padded.
func Select(sorted []*models.Candidate, topK int, quotas map[models.DocType]int) []*models.Candidate {
	if topK <= 0 {
		return nil
	}
	selected := make([]*models.Candidate, 0, topK)
	seenDocs := make(map[string]bool)
	used := make(map[models.DocType]int, len(quotas))

	for _, c := range sorted {
		if c.Document == nil || c.Document.ID == "" {
			continue
		}
		if seenDocs[c.Document.ID] {
			continue
		}
		quota, ok := quotas[c.Document.Type]
		if !ok || used[c.Document.Type] >= quota {
			continue
		}
		selected = append(selected, c)
		seenDocs[c.Document.ID] = true
		used[c.Document.Type]++
		if len(selected) >= topK {
			break
		}
	}
	return selected
}
