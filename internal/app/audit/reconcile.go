package audit

import "github.com/Overland-East-Bay/member-audit/internal/domain"

// Reconcile joins the roster against the responses by exact identity key and
// returns one sorted row per distinct key.
//
// Members sharing an identity key collapse into a single row; the lookup only
// sees the key, so which member "wins" is unobservable.
func Reconcile(members []domain.Member, responses *domain.ResponseMap) []domain.AuditRow {
	seen := make(map[string]int, len(members))
	rows := make([]domain.AuditRow, 0, len(members))
	for _, m := range members {
		key := m.IdentityKey()
		c, ok := responses.Lookup(key)
		if !ok {
			c = domain.CategoryNoResponse
		}
		if i, dup := seen[key]; dup {
			rows[i].Category = c
			continue
		}
		seen[key] = len(rows)
		rows = append(rows, domain.AuditRow{IdentityKey: key, Category: c})
	}
	domain.SortAuditRows(rows)
	return rows
}

// Summarize tallies the reconciled rows.
//
// rosterSize is the number of distinct identity keys, i.e. len(rows) for rows
// from Reconcile. Yes, Maybe and No count rows. NoResponse is rosterSize minus the number of
// respondents, so respondents who are not on the roster make it undercount
// (and it can go negative). Callers rely on this arithmetic; do not replace it
// with a row count.
func Summarize(rosterSize int, responses *domain.ResponseMap, rows []domain.AuditRow) domain.AuditSummary {
	s := domain.AuditSummary{
		TotalMembers: rosterSize,
		NoResponse:   rosterSize - responses.Len(),
	}
	matched := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		switch r.Category {
		case domain.CategoryYes:
			s.Yes++
		case domain.CategoryMaybe:
			s.Maybe++
		case domain.CategoryNo:
			s.No++
		}
		matched[r.IdentityKey] = struct{}{}
	}
	for _, name := range responses.Names() {
		if _, ok := matched[name]; !ok {
			s.Unmatched = append(s.Unmatched, name)
		}
	}
	return s
}
