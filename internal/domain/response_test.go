package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResponseMap_SetIsLastWriteWinsAndKeepsFirstPosition(t *testing.T) {
	t.Parallel()

	m := NewResponseMap()
	m.Set("Alice", CategoryYes)
	m.Set("Bob", CategoryMaybe)
	m.Set("Alice", CategoryNo)

	if got, ok := m.Lookup("Alice"); !ok || got != CategoryNo {
		t.Fatalf("Lookup(Alice)=%q,%v want %q,true", got, ok, CategoryNo)
	}
	if m.Len() != 2 {
		t.Fatalf("Len()=%d, want 2", m.Len())
	}
	if diff := cmp.Diff([]string{"Alice", "Bob"}, m.Names()); diff != "" {
		t.Fatalf("Names() mismatch (-want +got):\n%s", diff)
	}
	if m.Count(CategoryNo) != 1 || m.Count(CategoryYes) != 0 {
		t.Fatalf("Count(No)=%d Count(Yes)=%d", m.Count(CategoryNo), m.Count(CategoryYes))
	}
}

func TestResponseMap_FrozenRejectsWrites(t *testing.T) {
	t.Parallel()

	m := NewResponseMap()
	m.Set("Alice", CategoryYes)
	m.Freeze()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on Set after Freeze")
		}
	}()
	m.Set("Bob", CategoryNo)
}

func TestResponseMap_NilIsEmpty(t *testing.T) {
	t.Parallel()

	var m *ResponseMap
	if m.Len() != 0 || m.Names() != nil {
		t.Fatalf("nil map should be empty")
	}
	if _, ok := m.Lookup("x"); ok {
		t.Fatalf("nil map Lookup ok=true")
	}
}

func TestSortAuditRows_ByteWise(t *testing.T) {
	t.Parallel()

	rows := []AuditRow{
		{IdentityKey: "bob"},
		{IdentityKey: "Carol"},
		{IdentityKey: "Alice"},
		{IdentityKey: "_zed"},
	}
	SortAuditRows(rows)

	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.IdentityKey)
	}
	// Uppercase sorts before underscore, which sorts before lowercase.
	want := []string{"Alice", "Carol", "_zed", "bob"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
