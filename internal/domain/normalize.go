package domain

import "strings"

// NormalizeRespondentName trims leading/trailing whitespace from a name taken
// from the export. Internal whitespace and case are left untouched: matching is
// exact string equality.
func NormalizeRespondentName(s string) string {
	return strings.TrimSpace(s)
}
