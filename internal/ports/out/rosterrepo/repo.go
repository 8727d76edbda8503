package rosterrepo

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
)

// Member is the persistence shape used by the roster repository.
// It is an internal record, not an HTTP DTO.
type Member struct {
	ID domain.MemberID
	// Handle is the member's primary platform handle.
	Handle string
	// Nickname is the community-specific display name; nil means unset.
	Nickname *string
	// IsBot marks automated accounts.
	IsBot bool

	CreatedAt time.Time
}

// Repository provides access to the community roster.
//
// Result ordering expectations:
// - List returns members ordered by identity key ascending (byte-wise), ties broken by ID.
type Repository interface {
	Create(ctx context.Context, m Member) error

	List(ctx context.Context, includeBots bool) ([]Member, error)
}

// ToDomain converts the persistence shape into the domain model.
func ToDomain(m Member) domain.Member {
	out := domain.Member{
		ID:     m.ID,
		Handle: m.Handle,
		IsBot:  m.IsBot,
	}
	if m.Nickname != nil {
		v := *m.Nickname
		out.Nickname = &v
	}
	return out
}
