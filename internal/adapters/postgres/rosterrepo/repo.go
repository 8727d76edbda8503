package rosterrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/member-audit/internal/adapters/postgres"
	"github.com/Overland-East-Bay/member-audit/internal/domain"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/rosterrepo"
)

// Repo is a Postgres implementation of rosterrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, m rosterrepo.Member) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	if strings.TrimSpace(m.Handle) == "" {
		return rosterrepo.ErrInvalidMember
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return fmt.Errorf("%w: id %q: %v", rosterrepo.ErrInvalidMember, m.ID, err)
	}
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO community_members (
			external_id,
			handle,
			nickname,
			is_bot,
			created_at
		) VALUES ($1, $2, $3, $4, $5)
	`,
		id,
		m.Handle,
		m.Nickname,
		m.IsBot,
		createdAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return rosterrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context, includeBots bool) ([]rosterrepo.Member, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	where := ""
	if !includeBots {
		where = "WHERE is_bot = false"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT
			external_id,
			handle,
			nickname,
			is_bot,
			created_at
		FROM community_members
		`+where+`
		ORDER BY COALESCE(NULLIF(nickname, ''), handle) COLLATE "C" ASC, external_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]rosterrepo.Member, 0)
	for rows.Next() {
		var (
			id        uuid.UUID
			m         rosterrepo.Member
			createdAt time.Time
		)
		if err := rows.Scan(&id, &m.Handle, &m.Nickname, &m.IsBot, &createdAt); err != nil {
			return nil, err
		}
		m.ID = domain.MemberID(id.String())
		m.CreatedAt = createdAt.UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// The uuid column sorts by bytes, not by its text form.
	sortByIdentityKey(out)
	return out, nil
}

func sortByIdentityKey(ms []rosterrepo.Member) {
	sort.SliceStable(ms, func(i, j int) bool {
		ki := rosterrepo.ToDomain(ms[i]).IdentityKey()
		kj := rosterrepo.ToDomain(ms[j]).IdentityKey()
		if ki == kj {
			return string(ms[i].ID) < string(ms[j].ID)
		}
		return ki < kj
	})
}
