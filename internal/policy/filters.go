package policy

import "github.com/hyperjump/shirabe/internal/models"

// HardFilter removes candidates outright before scoring. This is the only
// removal step prior to deduplication; every other governance signal demotes
// rather than excludes.
type HardFilter struct {
	statuses map[models.Status]bool
	docTypes map[models.DocType]bool
}

// NewHardFilter builds a filter excluding the given statuses and doc types.
func NewHardFilter(statuses []models.Status, docTypes []models.DocType) *HardFilter {
	f := &HardFilter{
		statuses: make(map[models.Status]bool, len(statuses)),
		docTypes: make(map[models.DocType]bool, len(docTypes)),
	}
	for _, s := range statuses {
		f.statuses[s] = true
	}
	for _, t := range docTypes {
		f.docTypes[t] = true
	}
	return f
}

// Keep reports whether doc survives the filter.
func (f *HardFilter) Keep(doc *models.Document) bool {
	if f.statuses[doc.Status] {
		return false
	}
	if f.docTypes[doc.Type] {
		return false
	}
	return true
}

// Apply returns the candidates whose documents survive the filter,
// preserving input order.
func (f *HardFilter) Apply(candidates []*models.Candidate) []*models.Candidate {
	kept := make([]*models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if f.Keep(c.Document) {
			kept = append(kept, c)
		}
	}
	return kept
}
