package audit

import "github.com/Overland-East-Bay/member-audit/internal/domain"

// ExtractResponses builds the respondent → category map from export rows.
//
// Rows are processed in order. Within a row the first non-empty cell wins,
// checked as Attendees, then Maybe, then No; the name is trimmed only after the
// column is chosen, so a whitespace-only cell still claims its row (under the
// empty name). A name seen again in a later row takes that row's category.
// Rows with no non-empty cell contribute nothing.
func ExtractResponses(records []domain.ResponseRecord) *domain.ResponseMap {
	out := domain.NewResponseMap()
	for _, rec := range records {
		name, c, ok := classify(rec)
		if !ok {
			continue
		}
		out.Set(name, c)
	}
	return out.Freeze()
}

func classify(rec domain.ResponseRecord) (string, domain.Category, bool) {
	candidates := [...]struct {
		value string
		c     domain.Category
	}{
		{rec.Attendees, domain.CategoryYes},
		{rec.Maybe, domain.CategoryMaybe},
		{rec.No, domain.CategoryNo},
	}
	for _, cand := range candidates {
		if cand.value != "" {
			return domain.NormalizeRespondentName(cand.value), cand.c, true
		}
	}
	return "", "", false
}
