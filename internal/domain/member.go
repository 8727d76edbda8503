package domain

// Member is one roster entry.
type Member struct {
	ID MemberID

	// Handle is the member's primary platform handle.
	Handle string
	// Nickname is the community-specific display name; nil or empty means unset.
	Nickname *string

	// IsBot marks automated accounts. Callers filter these out before reconciling.
	IsBot bool
}

// IdentityKey is the effective display name used to join the roster against
// the export: the nickname when set, otherwise the handle.
//
// The key is used verbatim. It is case-sensitive and whitespace-sensitive.
func (m Member) IdentityKey() string {
	if m.Nickname != nil && *m.Nickname != "" {
		return *m.Nickname
	}
	return m.Handle
}

// HumanMembers returns the members that are not automated accounts, preserving order.
func HumanMembers(ms []Member) []Member {
	out := make([]Member, 0, len(ms))
	for _, m := range ms {
		if m.IsBot {
			continue
		}
		out = append(out, m)
	}
	return out
}
