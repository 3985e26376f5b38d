package models

import "strings"

// UpsertOutcome reports which branch an upsert took.
type UpsertOutcome string

const (
	OutcomeCreated UpsertOutcome = "created"
	OutcomeUpdated UpsertOutcome = "updated"
)

// Pagination carries list metadata in API responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// NormalizeKey canonicalises a natural key for comparison. Keys are
// always compared as text; "090402" read back from the sheet must match
// " 090402 " typed into a form.
func NormalizeKey(raw string) string {
	return strings.TrimSpace(raw)
}

// MatchesTerm reports whether the term occurs as a case-insensitive
// substring of any field value.
func MatchesTerm(fields []string, term string) bool {
	needle := strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
