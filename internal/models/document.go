// Package models defines core data structures for governed documents, chunks,
// retrieval candidates, and citation results.
package models

import (
	"strings"
	"time"
)

// DocType is the category of a governed document.
type DocType string

const (
	// DocTypeStandard is an engineering standard (STD-NN).
	DocTypeStandard DocType = "standard"
	// DocTypeADR is an architecture decision record (ADR-NNN).
	DocTypeADR DocType = "adr"
	// DocTypeRunbook is an operational runbook (RBK-NN).
	DocTypeRunbook DocType = "runbook"
	// DocTypePostmortem is an incident postmortem (PM-YYYY-MM).
	DocTypePostmortem DocType = "postmortem"
	// DocTypeTemplate is an authoring template (TMP-NN).
	DocTypeTemplate DocType = "template"
)

// AllDocTypes lists every known doc type.
var AllDocTypes = []DocType{DocTypeStandard, DocTypeADR, DocTypeRunbook, DocTypePostmortem, DocTypeTemplate}

// DocTypeFromID derives the doc type from a document ID prefix
// (STD-02 -> standard, PM-2024-09 -> postmortem). Returns "" for unknown prefixes.
func DocTypeFromID(docID string) DocType {
	switch {
	case strings.HasPrefix(docID, "STD-"):
		return DocTypeStandard
	case strings.HasPrefix(docID, "ADR-"):
		return DocTypeADR
	case strings.HasPrefix(docID, "RBK-"):
		return DocTypeRunbook
	case strings.HasPrefix(docID, "PM-"):
		return DocTypePostmortem
	case strings.HasPrefix(docID, "TMP-"):
		return DocTypeTemplate
	default:
		return ""
	}
}

// Status is the governance status of a document.
type Status string

const (
	// StatusApproved is a document in force.
	StatusApproved Status = "approved"
	// StatusDraft is a document not yet approved.
	StatusDraft Status = "draft"
	// StatusDeprecated is a document no longer recommended.
	StatusDeprecated Status = "deprecated"
	// StatusSuperseded is a document replaced by a newer one.
	StatusSuperseded Status = "superseded"
	// StatusWithdrawn is a document pulled from circulation entirely.
	// Withdrawn documents are removed by the hard filter, never just demoted.
	StatusWithdrawn Status = "withdrawn"
)

// ParseStatus normalizes a raw status string. Returns "" for unknown values.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusApproved:
		return StatusApproved
	case StatusDraft:
		return StatusDraft
	case StatusDeprecated:
		return StatusDeprecated
	case StatusSuperseded:
		return StatusSuperseded
	case StatusWithdrawn:
		return StatusWithdrawn
	default:
		return ""
	}
}

// Document represents a governed engineering document with its metadata.
// ID is globally unique; Type is immutable once assigned.
type Document struct {
	ID          string    `json:"id" db:"id"`
	Type        DocType   `json:"doc_type" db:"doc_type"`
	Title       string    `json:"title" db:"title"`
	Status      Status    `json:"status" db:"status"`
	System      string    `json:"system,omitempty" db:"system"`
	OwnerTeam   string    `json:"owner_team,omitempty" db:"owner_team"`
	Version     string    `json:"version,omitempty" db:"version"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
	Supersedes  string    `json:"supersedes,omitempty" db:"supersedes"`
	SourcePath  string    `json:"source_path,omitempty" db:"source_path"`
	Content     string    `json:"content,omitempty" db:"content"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DocumentChunk is a contiguous span of a document's text, the unit indexed
// for similarity search. Every chunk belongs to exactly one document.
type DocumentChunk struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Ordinal    int       `json:"ordinal" db:"ordinal"`
	Content    string    `json:"content" db:"content"`
	Embedding  []float32 `json:"-" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
