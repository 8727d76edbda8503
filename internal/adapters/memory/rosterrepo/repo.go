package rosterrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/rosterrepo"
)

// Repo is an in-memory implementation of rosterrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.MemberID]rosterrepo.Member
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.MemberID]rosterrepo.Member)}
}

func (r *Repo) Create(ctx context.Context, m rosterrepo.Member) error {
	_ = ctx
	if m.ID == "" || strings.TrimSpace(m.Handle) == "" {
		return rosterrepo.ErrInvalidMember
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; ok {
		return rosterrepo.ErrAlreadyExists
	}
	r.byID[m.ID] = cloneMember(m)
	return nil
}

func (r *Repo) List(ctx context.Context, includeBots bool) ([]rosterrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rosterrepo.Member, 0, len(r.byID))
	for _, m := range r.byID {
		if !includeBots && m.IsBot {
			continue
		}
		out = append(out, cloneMember(m))
	}
	sortByIdentityKey(out)
	return out, nil
}

func cloneMember(m rosterrepo.Member) rosterrepo.Member {
	out := m
	if m.Nickname != nil {
		v := *m.Nickname
		out.Nickname = &v
	}
	return out
}

func sortByIdentityKey(ms []rosterrepo.Member) {
	sort.Slice(ms, func(i, j int) bool {
		ki := rosterrepo.ToDomain(ms[i]).IdentityKey()
		kj := rosterrepo.ToDomain(ms[j]).IdentityKey()
		if ki == kj {
			return string(ms[i].ID) < string(ms[j].ID)
		}
		return ki < kj
	})
}
