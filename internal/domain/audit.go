package domain

import (
	"sort"
	"time"
)

// AuditRow is one line of the report.
type AuditRow struct {
	IdentityKey string
	Category    Category
}

// SortAuditRows orders rows ascending by identity key, byte-wise.
func SortAuditRows(rows []AuditRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].IdentityKey < rows[j].IdentityKey
	})
}

// AuditSummary is the per-category tally shown after a run.
type AuditSummary struct {
	TotalMembers int

	Yes   int
	Maybe int
	No    int
	// NoResponse is TotalMembers minus the number of respondents, not a recount
	// of rows. It undercounts when respondents are missing from the roster.
	NoResponse int

	// Unmatched lists respondents that no roster member matched, in export order.
	Unmatched []string
}

// Count returns the tally for c.
func (s AuditSummary) Count(c Category) int {
	switch c {
	case CategoryYes:
		return s.Yes
	case CategoryMaybe:
		return s.Maybe
	case CategoryNo:
		return s.No
	case CategoryNoResponse:
		return s.NoResponse
	}
	return 0
}

// AuditResult is everything a completed run produced besides the artifact.
type AuditResult struct {
	RunID       AuditRunID
	GeneratedAt time.Time
	Rows        []AuditRow
	Summary     AuditSummary
}
