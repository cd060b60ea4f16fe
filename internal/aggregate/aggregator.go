package aggregate

import (
	"context"
	"log/slog"

	"github.com/go-git/go-billy/v5/osfs"

	"git.home.luguber.info/inful/docatlas/internal/config"
	gitpkg "git.home.luguber.info/inful/docatlas/internal/git"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
)

// Opener opens the repository of a content source.
type Opener interface {
	Open(ctx context.Context, src config.Source) (*gitpkg.Repository, error)
}

// Aggregator reads content sources into component version groups.
type Aggregator struct {
	opener Opener
}

// NewAggregator creates an aggregator that opens repositories with opener.
func NewAggregator(opener Opener) *Aggregator {
	return &Aggregator{opener: opener}
}

// Aggregate reads every source and merges groups of the same component
// version. Groups keep the order in which they were first seen.
func (a *Aggregator) Aggregate(ctx context.Context, sources []config.Source) ([]Group, error) {
	var groups []Group
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loaded, err := a.loadSource(ctx, src)
		if err != nil {
			return nil, err
		}
		groups = append(groups, loaded...)
	}
	return Merge(groups), nil
}

func (a *Aggregator) loadSource(ctx context.Context, src config.Source) ([]Group, error) {
	if src.Worktree {
		origin := Origin{URL: src.URL, StartPath: src.StartPath, Worktree: true}
		g, err := LoadWorktree(osfs.New(src.URL), origin)
		if err != nil {
			return nil, err
		}
		slog.Debug("Loaded worktree", logfields.Source(origin.String()), logfields.Count(len(g.Files)))
		return []Group{g}, nil
	}

	repo, err := a.opener.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	branches, err := repo.Branches(src.Branches)
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		slog.Warn("No branches match content source", logfields.URL(src.URL), slog.Any("branches", src.Branches))
		return nil, nil
	}

	groups := make([]Group, 0, len(branches))
	for _, b := range branches {
		g, err := LoadGitRef(repo, b, src.StartPath)
		if err != nil {
			return nil, err
		}
		slog.Debug("Loaded branch", logfields.URL(src.URL), logfields.Ref(b.Name),
			logfields.Component(g.Name), logfields.Version(g.Version), logfields.Count(len(g.Files)))
		groups = append(groups, g)
	}
	return groups, nil
}

// Merge combines groups that share a component name and version: files
// and nav entries are concatenated and the last non-empty title and start
// page win.
func Merge(groups []Group) []Group {
	index := make(map[string]int, len(groups))
	var out []Group
	for _, g := range groups {
		i, ok := index[g.Key()]
		if !ok {
			index[g.Key()] = len(out)
			out = append(out, g)
			continue
		}
		m := &out[i]
		m.Files = append(m.Files, g.Files...)
		m.Nav = append(m.Nav, g.Nav...)
		m.Origins = append(m.Origins, g.Origins...)
		if g.Title != "" {
			m.Title = g.Title
		}
		if g.StartPage != "" {
			m.StartPage = g.StartPage
		}
	}
	return out
}
