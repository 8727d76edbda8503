// Package rosterfile loads a roster from a YAML document:
//
//	members:
//	  - handle: alice
//	    nickname: Alice
//	  - id: 5b0f...
//	    handle: Sesh
//	    bot: true
package rosterfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Overland-East-Bay/member-audit/internal/domain"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/rosterrepo"
)

type document struct {
	Members []entry `yaml:"members"`
}

type entry struct {
	ID       string  `yaml:"id"`
	Handle   string  `yaml:"handle"`
	Nickname *string `yaml:"nickname"`
	Bot      bool    `yaml:"bot"`
}

// Load decodes the roster document from r and creates every member in repo.
// Entries without an id get a random UUID. It returns the number of members created.
func Load(ctx context.Context, r io.Reader, repo rosterrepo.Repository, now time.Time) (int, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("decode roster: %w", err)
	}

	for i, e := range doc.Members {
		if strings.TrimSpace(e.Handle) == "" {
			return i, fmt.Errorf("roster entry %d: %w: handle is required", i+1, rosterrepo.ErrInvalidMember)
		}
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		m := rosterrepo.Member{
			ID:        domain.MemberID(id),
			Handle:    e.Handle,
			Nickname:  e.Nickname,
			IsBot:     e.Bot,
			CreatedAt: now,
		}
		if err := repo.Create(ctx, m); err != nil {
			return i, fmt.Errorf("roster entry %d (%s): %w", i+1, e.Handle, err)
		}
	}
	return len(doc.Members), nil
}

// LoadFile opens path and calls Load.
func LoadFile(ctx context.Context, path string, repo rosterrepo.Repository, now time.Time) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	return Load(ctx, f, repo, now)
}
