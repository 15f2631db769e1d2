// Package ingest parses governed corpus files, validates their metadata,
// chunks their content, and loads them into storage and the vector index.
package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hyperjump/shirabe/internal/models"
)

// titleIDRe matches the governed title line, e.g. "# ADR-001: Title" or
// "# PM-2024-09: Title". Postmortems use year-month IDs.
var titleIDRe = regexp.MustCompile(`^#\s+((?:ADR|STD|RBK|TMP)-\d{2,4}|PM-\d{4}-\d{2})\s*:\s*(.*)$`)

// metaLineRe matches one "key: value" metadata line.
var metaLineRe = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)\s*:\s*(.+?)\s*$`)

// ParseDocument parses governed markdown into a Document. The format is a
// title line "# <ID>: <Title>" followed by consecutive "key: value" metadata
// lines up to the first blank line; everything including the header stays in
// Content.
func ParseDocument(sourcePath, text string) (*models.Document, error) {
	titleLine, metaStart := findTitleLine(text)
	if titleLine == "" {
		return nil, fmt.Errorf("%s: missing title line starting with '# '", sourcePath)
	}
	m := titleIDRe.FindStringSubmatch(titleLine)
	if m == nil {
		return nil, fmt.Errorf("%s: title %q does not start with a document ID", sourcePath, titleLine)
	}
	id, title := m[1], strings.TrimSpace(m[2])

	meta := parseMetadataBlock(text, metaStart)

	doc := &models.Document{
		ID:         id,
		Type:       models.DocTypeFromID(id),
		Title:      title,
		System:     meta["system"],
		OwnerTeam:  meta["owner_team"],
		Version:    meta["version"],
		Supersedes: normalizeSupersedes(meta["supersedes"]),
		SourcePath: sourcePath,
		Content:    text,
	}
	if doc.Type == "" {
		return nil, fmt.Errorf("%s: unknown document type for ID %s", sourcePath, id)
	}

	if s, ok := meta["status"]; ok {
		status := models.ParseStatus(s)
		if status == "" {
			return nil, fmt.Errorf("%s: unknown status %q", sourcePath, s)
		}
		doc.Status = status
	} else {
		// Runbooks and templates may omit status; treat as approved.
		doc.Status = models.StatusApproved
	}

	if d, ok := meta["last_updated"]; ok {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return nil, fmt.Errorf("%s: last_updated %q is not an ISO date: %w", sourcePath, d, err)
		}
		doc.LastUpdated = t.UTC()
	} else if d, ok := meta["last_tested"]; ok {
		// Runbooks track freshness via last_tested.
		if t, err := time.Parse(time.DateOnly, d); err == nil {
			doc.LastUpdated = t.UTC()
		}
	}

	return doc, nil
}

// ParseMetadata returns the raw metadata block of a governed document and
// its title line, for validation.
func ParseMetadata(text string) (map[string]string, string) {
	titleLine, metaStart := findTitleLine(text)
	return parseMetadataBlock(text, metaStart), titleLine
}

func findTitleLine(text string) (string, int) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return trimmed, i + 1
		}
	}
	return "", 0
}

func parseMetadataBlock(text string, start int) map[string]string {
	meta := make(map[string]string)
	lines := strings.Split(text, "\n")
	for j := start; j < len(lines); j++ {
		line := strings.TrimSpace(lines[j])
		if line == "" {
			break
		}
		m := metaLineRe.FindStringSubmatch(line)
		if m == nil {
			break
		}
		meta[m[1]] = m[2]
	}
	return meta
}

func normalizeSupersedes(v string) string {
	if v == "none" {
		return ""
	}
	return v
}
