package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hyperjump/shirabe/internal/models"
)

// Issue levels. Errors block ingestion; warnings are reported but tolerated.
const (
	LevelError = "ERROR"
	LevelWarn  = "WARN"
)

// Issue is one validation finding for a corpus file.
type Issue struct {
	Path    string
	Level   string
	Message string
}

type typeRules struct {
	required []string
	optional []string
}

// Metadata contracts per document type. Runbooks carry operational fields
// instead of the status/version set.
var docTypeRules = map[models.DocType]typeRules{
	models.DocTypeADR: {
		required: []string{"status", "system", "owner_team", "version", "last_updated", "supersedes"},
	},
	models.DocTypeStandard: {
		required: []string{"status", "system", "owner_team", "version", "last_updated"},
	},
	models.DocTypeRunbook: {
		required: []string{"severity", "oncall_team", "escalation_policy", "last_tested", "related_services"},
		optional: []string{"system"},
	},
	models.DocTypePostmortem: {
		required: []string{"system", "date", "severity", "owner_team", "last_updated"},
	},
	models.DocTypeTemplate: {
		required: []string{"owner_team", "version", "last_updated"},
	},
}

var (
	severityAllowed = map[string]bool{"P0": true, "P1": true, "P2": true, "P3": true}
	versionRe       = regexp.MustCompile(`^\d+(\.\d+)?$`)
	supersedesRe    = regexp.MustCompile(`^ADR-\d{2,4}$`)
)

// ValidateFile checks one corpus file against the governed metadata contract
// and returns all findings. path is used for reporting and for the
// filename/title ID cross-check.
func ValidateFile(path, text string) []Issue {
	var issues []Issue
	add := func(level, format string, args ...interface{}) {
		issues = append(issues, Issue{Path: path, Level: level, Message: fmt.Sprintf(format, args...)})
	}

	docType := models.DocTypeFromID(filepath.Base(path))
	if docType == "" {
		add(LevelWarn, "unknown doc type from filename prefix; skipping strict checks")
		return issues
	}

	meta, titleLine := ParseMetadata(text)

	var titleID string
	if titleLine == "" {
		add(LevelError, "missing markdown title line starting with '# '")
	} else if m := titleIDRe.FindStringSubmatch(titleLine); m == nil {
		add(LevelError, "title does not start with expected ID format (e.g. '# %s-001: ...')", strings.ToUpper(idPrefix(docType)))
	} else {
		titleID = m[1]
	}

	fileID := filenameID(filepath.Base(path), docType)
	if fileID == "" {
		add(LevelError, "filename does not start with expected ID format for %s", docType)
	}
	if titleID != "" && fileID != "" && titleID != fileID {
		add(LevelError, "title ID %q does not match filename ID %q", titleID, fileID)
	}

	rules := docTypeRules[docType]
	allowed := make(map[string]bool)
	var missing []string
	for _, k := range rules.required {
		allowed[k] = true
		if _, ok := meta[k]; !ok {
			missing = append(missing, k)
		}
	}
	for _, k := range rules.optional {
		allowed[k] = true
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		add(LevelError, "missing required metadata fields for %s: %v", docType, missing)
	}
	var unknown []string
	for k := range meta {
		if !allowed[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		add(LevelWarn, "unknown metadata keys for %s: %v", docType, unknown)
	}

	if s, ok := meta["status"]; ok {
		if models.ParseStatus(s) == "" {
			add(LevelError, "invalid status %q", s)
		}
	}
	if v, ok := meta["version"]; ok && !versionRe.MatchString(v) {
		add(LevelWarn, "version %q is not numeric like '1.0'", v)
	}
	for _, dkey := range []string{"last_updated", "last_tested", "date"} {
		if v, ok := meta[dkey]; ok {
			if _, err := time.Parse(time.DateOnly, v); err != nil {
				add(LevelError, "%s=%q must be ISO date YYYY-MM-DD", dkey, v)
			}
		}
	}
	if v, ok := meta["severity"]; ok && !severityAllowed[v] {
		add(LevelError, "severity %q invalid, allowed: P0-P3", v)
	}
	if docType == models.DocTypeADR {
		if v, ok := meta["supersedes"]; ok {
			if v != "none" && !supersedesRe.MatchString(v) {
				add(LevelWarn, "supersedes %q should be 'none' or like 'ADR-002'", v)
			}
		}
	}
	if docType == models.DocTypeRunbook {
		if v, ok := meta["related_services"]; ok {
			count := 0
			for _, svc := range strings.Split(v, ",") {
				if strings.TrimSpace(svc) != "" {
					count++
				}
			}
			if count == 0 {
				add(LevelError, "related_services must include at least one service name")
			}
		}
	}

	return issues
}

// HasErrors reports whether any finding is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Level == LevelError {
			return true
		}
	}
	return false
}

var filenameIDRes = map[models.DocType]*regexp.Regexp{
	models.DocTypeADR:        regexp.MustCompile(`^(ADR-\d{2,4})\b`),
	models.DocTypeStandard:   regexp.MustCompile(`^(STD-\d{2,4})\b`),
	models.DocTypeRunbook:    regexp.MustCompile(`^(RBK-\d{2,4})\b`),
	models.DocTypeTemplate:   regexp.MustCompile(`^(TMP-\d{2,4})\b`),
	models.DocTypePostmortem: regexp.MustCompile(`^(PM-\d{4}-\d{2})\b`),
}

// filenameID extracts the document ID from a filename like
// "ADR-001-monolith.md" or "PM-2024-09-auth-outage.md".
func filenameID(name string, docType models.DocType) string {
	re, ok := filenameIDRes[docType]
	if !ok {
		return ""
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	m := re.FindStringSubmatch(stem)
	if m == nil {
		return ""
	}
	return m[1]
}

func idPrefix(t models.DocType) string {
	switch t {
	case models.DocTypeStandard:
		return "STD"
	case models.DocTypeADR:
		return "ADR"
	case models.DocTypeRunbook:
		return "RBK"
	case models.DocTypePostmortem:
		return "PM"
	case models.DocTypeTemplate:
		return "TMP"
	}
	return ""
}
