package rosterrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/rosterrepo"
)

func strPtr(s string) *string { return &s }

func TestRepo_CreateRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	m1 := rosterrepo.Member{ID: "m1", Handle: "alice"}
	m2 := rosterrepo.Member{ID: "m1", Handle: "bob"}

	if err := r.Create(context.Background(), m1); err != nil {
		t.Fatalf("Create(m1) err=%v", err)
	}
	if err := r.Create(context.Background(), m2); !errors.Is(err, rosterrepo.ErrAlreadyExists) {
		t.Fatalf("Create(m2) err=%v, want %v", err, rosterrepo.ErrAlreadyExists)
	}
}

func TestRepo_CreateRejectsMissingFields(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	if err := r.Create(context.Background(), rosterrepo.Member{Handle: "alice"}); !errors.Is(err, rosterrepo.ErrInvalidMember) {
		t.Fatalf("Create(no id) err=%v, want %v", err, rosterrepo.ErrInvalidMember)
	}
	if err := r.Create(context.Background(), rosterrepo.Member{ID: "m1", Handle: "  "}); !errors.Is(err, rosterrepo.ErrInvalidMember) {
		t.Fatalf("Create(blank handle) err=%v, want %v", err, rosterrepo.ErrInvalidMember)
	}
}

func TestRepo_ListOrdersByIdentityKeyAndFiltersBots(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), rosterrepo.Member{ID: "m1", Handle: "zed", Nickname: strPtr("Carol")})
	_ = r.Create(context.Background(), rosterrepo.Member{ID: "m2", Handle: "bob"})
	_ = r.Create(context.Background(), rosterrepo.Member{ID: "m3", Handle: "Alice"})
	_ = r.Create(context.Background(), rosterrepo.Member{ID: "m4", Handle: "Sesh", IsBot: true})

	got, err := r.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	// Byte-wise: uppercase before lowercase.
	want := []domain.MemberID{"m3", "m1", "m2"}
	if len(got) != len(want) {
		t.Fatalf("List() len=%d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("List()[%d].ID=%q, want %q", i, got[i].ID, want[i])
		}
	}

	all, err := r.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List(includeBots) err=%v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List(includeBots) len=%d, want 4", len(all))
	}
}

func TestRepo_ListReturnsCopies(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), rosterrepo.Member{ID: "m1", Handle: "alice", Nickname: strPtr("Ali")})

	got, _ := r.List(context.Background(), false)
	*got[0].Nickname = "changed"

	again, _ := r.List(context.Background(), false)
	if *again[0].Nickname != "Ali" {
		t.Fatalf("stored nickname mutated through List result: %q", *again[0].Nickname)
	}
}
