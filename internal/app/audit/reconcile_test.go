package audit

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
)

func members(keys ...string) []domain.Member {
	out := make([]domain.Member, 0, len(keys))
	for i, k := range keys {
		out = append(out, domain.Member{ID: domain.MemberID(fmt.Sprintf("m%d", i)), Handle: k})
	}
	return out
}

func responses(pairs ...any) *domain.ResponseMap {
	m := domain.NewResponseMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(domain.Category))
	}
	return m.Freeze()
}

func TestReconcile_Scenario(t *testing.T) {
	t.Parallel()

	resp := ExtractResponses([]domain.ResponseRecord{{Attendees: "Alice"}, {Maybe: "Bob"}})
	rows := Reconcile(members("Carol", "Alice", "Bob"), resp)

	want := []domain.AuditRow{
		{IdentityKey: "Alice", Category: domain.CategoryYes},
		{IdentityKey: "Bob", Category: domain.CategoryMaybe},
		{IdentityKey: "Carol", Category: domain.CategoryNoResponse},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	got := Summarize(len(rows), resp, rows)
	wantSummary := domain.AuditSummary{TotalMembers: 3, Yes: 1, Maybe: 1, No: 0, NoResponse: 1}
	if diff := cmp.Diff(wantSummary, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_EveryMemberGetsOneRow(t *testing.T) {
	t.Parallel()

	roster := members("zed", "Amy", "bob", "Bob", "_x", "Émile")
	rows := Reconcile(roster, responses("bob", domain.CategoryNo, "Amy", domain.CategoryYes))

	if len(rows) != len(roster) {
		t.Fatalf("len(rows)=%d, want %d", len(rows), len(roster))
	}
	counts := map[string]int{}
	for _, r := range rows {
		if !r.Category.Valid() {
			t.Fatalf("row %q has invalid category %q", r.IdentityKey, r.Category)
		}
		counts[r.IdentityKey]++
	}
	for _, m := range roster {
		if counts[m.IdentityKey()] != 1 {
			t.Fatalf("member %q has %d rows, want 1", m.IdentityKey(), counts[m.IdentityKey()])
		}
	}
	if !sort.SliceIsSorted(rows, func(i, j int) bool { return rows[i].IdentityKey < rows[j].IdentityKey }) {
		t.Fatalf("rows not sorted: %+v", rows)
	}
}

func TestReconcile_WhitespaceTrimmedResponseMatches(t *testing.T) {
	t.Parallel()

	resp := ExtractResponses([]domain.ResponseRecord{{Attendees: " Alice "}})
	rows := Reconcile(members("Alice"), resp)
	if rows[0].Category != domain.CategoryYes {
		t.Fatalf("category=%q, want Yes", rows[0].Category)
	}
}

func TestReconcile_MatchIsCaseSensitive(t *testing.T) {
	t.Parallel()

	resp := ExtractResponses([]domain.ResponseRecord{{Attendees: "alice"}})
	rows := Reconcile(members("Alice"), resp)
	if rows[0].Category != domain.CategoryNoResponse {
		t.Fatalf("category=%q, want NoResponse", rows[0].Category)
	}
}

func TestReconcile_RosterKeyIsNotTrimmed(t *testing.T) {
	t.Parallel()

	resp := ExtractResponses([]domain.ResponseRecord{{Attendees: "Alice"}})
	rows := Reconcile(members("Alice "), resp)
	if rows[0].Category != domain.CategoryNoResponse {
		t.Fatalf("category=%q, want NoResponse", rows[0].Category)
	}
}

func TestReconcile_DuplicateIdentityKeysCollapse(t *testing.T) {
	t.Parallel()

	nick := "Alice"
	roster := []domain.Member{
		{ID: "m1", Handle: "Alice"},
		{ID: "m2", Handle: "alice_alt", Nickname: &nick},
		{ID: "m3", Handle: "Bob"},
	}
	rows := Reconcile(roster, responses("Alice", domain.CategoryMaybe))

	want := []domain.AuditRow{
		{IdentityKey: "Alice", Category: domain.CategoryMaybe},
		{IdentityKey: "Bob", Category: domain.CategoryNoResponse},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_UsesNicknameAsIdentity(t *testing.T) {
	t.Parallel()

	nick := "Ally"
	rows := Reconcile([]domain.Member{{ID: "m1", Handle: "alice", Nickname: &nick}}, responses("Ally", domain.CategoryNo))
	if rows[0].IdentityKey != "Ally" || rows[0].Category != domain.CategoryNo {
		t.Fatalf("row=%+v", rows[0])
	}
}

func TestReconcile_EmptyInputs(t *testing.T) {
	t.Parallel()

	rows := Reconcile(nil, nil)
	if len(rows) != 0 {
		t.Fatalf("rows=%+v, want none", rows)
	}
	s := Summarize(0, nil, rows)
	if diff := cmp.Diff(domain.AuditSummary{}, s); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

// The NoResponse tally is roster size minus respondent count. A respondent who
// is not on the roster still reduces it, so it undercounts real non-responders.
func TestSummarize_NoResponseUndercountsWhenRespondentNotOnRoster(t *testing.T) {
	t.Parallel()

	resp := ExtractResponses([]domain.ResponseRecord{{Attendees: "Dave"}})
	if resp.Len() != 1 {
		t.Fatalf("responses Len()=%d, want 1", resp.Len())
	}
	rows := Reconcile(members("Alice", "Bob", "Carol"), resp)
	for _, r := range rows {
		if r.IdentityKey == "Dave" {
			t.Fatalf("Dave must not appear in rows: %+v", rows)
		}
	}

	s := Summarize(len(rows), resp, rows)
	trueNoResponse := 0
	for _, r := range rows {
		if r.Category == domain.CategoryNoResponse {
			trueNoResponse++
		}
	}
	if trueNoResponse != 3 {
		t.Fatalf("true no-response rows=%d, want 3", trueNoResponse)
	}
	if s.NoResponse != 2 {
		t.Fatalf("NoResponse=%d, want 2 (3 members - 1 respondent)", s.NoResponse)
	}
	if s.NoResponse != trueNoResponse-1 {
		t.Fatalf("expected undercount by exactly 1, got NoResponse=%d true=%d", s.NoResponse, trueNoResponse)
	}
	if s.Yes != 0 {
		t.Fatalf("Yes=%d, want 0 (Dave has no row)", s.Yes)
	}
	if diff := cmp.Diff([]string{"Dave"}, s.Unmatched); diff != "" {
		t.Fatalf("Unmatched mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_NoResponseCanGoNegative(t *testing.T) {
	t.Parallel()

	resp := responses("X", domain.CategoryYes, "Y", domain.CategoryNo)
	rows := Reconcile(members("Alice"), resp)
	if s := Summarize(len(rows), resp, rows); s.NoResponse != -1 {
		t.Fatalf("NoResponse=%d, want -1", s.NoResponse)
	}
}
