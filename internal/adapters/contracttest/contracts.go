package contracttest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
	rosterrepoport "github.com/Overland-East-Bay/member-audit/internal/ports/out/rosterrepo"
)

type CleanupFunc = func()

type RosterRepoFactory func(t *testing.T) (rosterrepoport.Repository, CleanupFunc)

// RunRosterRepo exercises the behaviors every roster repository must share.
// IDs are UUIDs so that storage backends keyed on uuid columns accept them.
func RunRosterRepo(t *testing.T, newRepo RosterRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	nick := "Carol"

	aliceID := domain.MemberID(uuid.NewString())
	carolID := domain.MemberID(uuid.NewString())
	bobID := domain.MemberID(uuid.NewString())
	botID := domain.MemberID(uuid.NewString())

	seed := []rosterrepoport.Member{
		{ID: bobID, Handle: "bob", CreatedAt: now},
		{ID: carolID, Handle: "zz-carol", Nickname: &nick, CreatedAt: now},
		{ID: aliceID, Handle: "Alice", CreatedAt: now},
		{ID: botID, Handle: "Sesh", IsBot: true, CreatedAt: now},
	}
	for _, m := range seed {
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("Create %s: %v", m.Handle, err)
		}
	}

	// ID uniqueness.
	if err := repo.Create(ctx, rosterrepoport.Member{ID: aliceID, Handle: "Alice 2", CreatedAt: now}); err == nil {
		t.Fatalf("expected duplicate id error")
	}

	humans, err := repo.List(ctx, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantOrder := []domain.MemberID{aliceID, carolID, bobID}
	if len(humans) != len(wantOrder) {
		t.Fatalf("List(includeBots=false) len=%d, want %d: %#v", len(humans), len(wantOrder), humans)
	}
	for i, id := range wantOrder {
		if humans[i].ID != id {
			t.Fatalf("List()[%d]=%#v, want id %s", i, humans[i], id)
		}
	}
	if humans[1].Nickname == nil || *humans[1].Nickname != "Carol" {
		t.Fatalf("nickname not round-tripped: %#v", humans[1])
	}

	all, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("List(includeBots=true): %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List(includeBots=true) len=%d, want 4", len(all))
	}
}
