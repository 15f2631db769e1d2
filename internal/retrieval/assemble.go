package retrieval

import (
	"strings"
	"time"

	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/pkg/utils"
)

// previewLen caps the chunk text carried in a citation.
const previewLen = 220

// assemble projects the admitted candidates onto ResultEntries in order.
// Pure projection: no filtering, no reordering.
func assemble(selected []*models.Candidate) []*models.ResultEntry {
	entries := make([]*models.ResultEntry, 0, len(selected))
	for i, c := range selected {
		var lastUpdated string
		if !c.Document.LastUpdated.IsZero() {
			lastUpdated = c.Document.LastUpdated.Format(time.DateOnly)
		}
		entries = append(entries, &models.ResultEntry{
			Rank:        i + 1,
			DocID:       c.Document.ID,
			ChunkID:     c.ChunkID,
			DocType:     c.Document.Type,
			Title:       c.Document.Title,
			FinalScore:  c.AdjustedScore,
			RawScore:    c.RawScore,
			System:      c.Document.System,
			Status:      c.Document.Status,
			Version:     c.Document.Version,
			LastUpdated: lastUpdated,
			Preview:     utils.Truncate(flatten(c.Chunk.Content), previewLen),
			Reasons:     c.Reasons,
		})
	}
	return entries
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
